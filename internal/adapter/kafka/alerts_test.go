package kafka

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/colony-weather-sim/internal/storm"
)

func TestSerializeAlert(t *testing.T) {
	alert := storm.Alert{
		Settlement:     "Borealis Station",
		Classification: "local dust storm",
		SizeKm:         120,
		SpeedMS:        45.2,
		Sol:            88,
		Status:         "Borealis Station: local dust storm, 120 km across, winds 45 m/s",
	}

	msg, err := serializeAlert(alert)
	require.NoError(t, err)

	assert.Equal(t, []byte("Borealis Station"), msg.Key)

	var got storm.Alert
	require.NoError(t, json.Unmarshal(msg.Value, &got))
	assert.Equal(t, alert, got)

	headers := make(map[string]string, len(msg.Headers))
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	assert.Equal(t, "local dust storm", headers["classification"])
	assert.Equal(t, "88", headers["sol"])
	assert.Equal(t, "false", headers["retired"])
}

func TestSerializeAlert_RetiredHeader(t *testing.T) {
	msg, err := serializeAlert(storm.Alert{Settlement: "Alpha Base", Retired: true})
	require.NoError(t, err)

	for _, h := range msg.Headers {
		if h.Key == "retired" {
			assert.Equal(t, "true", string(h.Value))
			return
		}
	}
	t.Fatal("retired header missing")
}
