// Package mars holds the shared planetary domain types: surface coordinates,
// the millisol-based simulation clock, and the orbital and surface-condition
// suppliers the weather and storm subsystems consume.
//
// # Time Conventions
//
// One sol (a simulated planetary day) is divided into 1000 millisols, the
// engine's integer time granularity. The mission clock counts total elapsed
// millisols monotonically from sol 1, millisol 0. All daily values (sunrise,
// sunset, zenith) are expressed in millisols within [0, 1000).
//
// # Seasonal Angle (Ls)
//
// Orbital position is expressed as the areocentric solar longitude Ls in
// degrees [0, 360): 0° is the northern spring equinox, 90° northern summer
// solstice, 180° northern autumn equinox, 270° northern winter solstice.
// Perihelion falls near Ls 251°, which is why the dust-storm season peaks in
// southern spring/summer.
//
// # Coordinates
//
// Coordinate is an immutable latitude/longitude pair in degrees, normalized
// at construction so it is safe to use as a map key: two coordinates built
// from equivalent angles compare equal.
package mars
