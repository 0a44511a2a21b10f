package observability

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/couchcryptid/colony-weather-sim/internal/config"
)

func TestNewLogger(t *testing.T) {
	for _, format := range []string{"json", "text"} {
		for _, level := range []string{"debug", "info", "warn", "error", "bogus"} {
			logger := NewLogger(&config.Config{LogLevel: level, LogFormat: format})
			assert.NotNil(t, logger, "format %s level %s", format, level)
		}
	}
}
