package fieldforms

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractGPSTimeSeconds(t *testing.T) {
	t.Parallel()

	got := ExtractGPSTime("Lat:44.98 Lon:-93.26 Acc:12m Time:1700000000")
	require.NotNil(t, got)
	assert.Equal(t, time.Date(2023, time.November, 14, 22, 13, 20, 0, time.UTC), *got)
}

func TestExtractGPSTimeMilliseconds(t *testing.T) {
	t.Parallel()

	got := ExtractGPSTime("Time:1700000000000")
	require.NotNil(t, got)
	assert.Equal(t, time.Date(2023, time.November, 14, 22, 13, 20, 0, time.UTC), *got)
}

func TestExtractGPSTimeWhitespaceAfterColon(t *testing.T) {
	t.Parallel()

	got := ExtractGPSTime("Time: 1700000000 Acc:5m")
	require.NotNil(t, got)
	assert.Equal(t, int64(1700000000), got.Unix())
}

func TestExtractGPSTimeRejectsGarbage(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"empty":           "",
		"no stamp":        "Lat:44.98 Lon:-93.26",
		"too short":       "Time:123456789",
		"before window":   "Time:1000000000",
		"after window":    "Time:9999999999",
		"ms after window": "Time:99999999999999",
		"not numeric":     "Time:notanumber",
	}
	for name, raw := range tests {
		assert.Nil(t, ExtractGPSTime(raw), name)
	}
}
