package mars

import "sync/atomic"

// Time-base constants.
const (
	// MillisolsPerSol is the integer time granularity of one sol.
	MillisolsPerSol = 1000

	// SolsPerYear is the length of the planetary year in sols, rounded to
	// the integer used for seasonal bookkeeping.
	SolsPerYear = 669
)

// Pulse is one advance of the simulation clock, delivered to every
// tick-driven subsystem. The driver produces exactly one pulse per millisol.
type Pulse struct {
	// TotalMillisols is the monotonic mission time in millisols.
	TotalMillisols int64
	// Millisol is the position within the current sol, [0, 1000).
	Millisol int
	// Sol is the 1-based mission sol count.
	Sol int
	// NewSol is true on the first pulse of a sol (millisol 0).
	NewSol bool
	// NewHalfSol is true at millisol 0 and millisol 500.
	NewHalfSol bool
}

// Clock is the master mission clock. A single tick driver advances it; any
// number of concurrent readers may sample it. The zero value starts at sol 1,
// millisol 0.
type Clock struct {
	total atomic.Int64
}

// Advance moves the clock forward one millisol and returns the resulting
// pulse. Only the tick driver calls this.
func (c *Clock) Advance() Pulse {
	t := c.total.Add(1)
	return pulseAt(t)
}

// Now returns a pulse describing the current instant without advancing time.
func (c *Clock) Now() Pulse {
	return pulseAt(c.total.Load())
}

// TotalMillisols returns the monotonic mission time in millisols.
func (c *Clock) TotalMillisols() int64 { return c.total.Load() }

// MissionSol returns the 1-based mission sol count.
func (c *Clock) MissionSol() int { return int(c.total.Load()/MillisolsPerSol) + 1 }

// SetTotal jumps the clock to an absolute mission time. Used when seeding a
// simulation mid-mission and by tests.
func (c *Clock) SetTotal(totalMillisols int64) {
	if totalMillisols < 0 {
		totalMillisols = 0
	}
	c.total.Store(totalMillisols)
}

func pulseAt(total int64) Pulse {
	msol := int(total % MillisolsPerSol)
	return Pulse{
		TotalMillisols: total,
		Millisol:       msol,
		Sol:            int(total/MillisolsPerSol) + 1,
		NewSol:         msol == 0,
		NewHalfSol:     msol == 0 || msol == MillisolsPerSol/2,
	}
}
