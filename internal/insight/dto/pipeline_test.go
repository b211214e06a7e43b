package dto

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimeframe(t *testing.T) {
	tests := map[string]Timeframe{
		"1D":      Timeframe1D,
		"daily":   Timeframe1D,
		" 1w ":    Timeframe1W,
		"week":    Timeframe1W,
		"1m":      Timeframe1M,
		"1MO":     Timeframe1M,
		"Monthly": Timeframe1M,
	}
	for in, want := range tests {
		got, err := ParseTimeframe(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseTimeframe("5Y")
	assert.Error(t, err)
}

func TestTimeframeIntervalAndValid(t *testing.T) {
	assert.Equal(t, "1w", Timeframe1W.Interval())
	assert.True(t, Timeframe1M.Valid())
	assert.False(t, Timeframe("3D").Valid())
}

func TestChartAssetFileName(t *testing.T) {
	a := &ChartAsset{Format: ImageFormatPNG}
	assert.Equal(t, "aapl.png", a.FileName("AAPL"))
}

func TestStringOrList(t *testing.T) {
	var single, list, empty StringOrList
	require.NoError(t, json.Unmarshal([]byte(`"bad key"`), &single))
	require.NoError(t, json.Unmarshal([]byte(`["a","b"]`), &list))
	require.NoError(t, json.Unmarshal([]byte(`""`), &empty))

	assert.Equal(t, "bad key", single.String())
	assert.Equal(t, "a; b", list.String())
	assert.Nil(t, empty)
}

func TestValidTicker(t *testing.T) {
	for _, ticker := range []string{"AAPL", "BRK.B", "^GSPC", "EURUSD=X", "BBCA.JK", "7203.T"} {
		assert.True(t, ValidTicker(ticker), ticker)
	}
	for _, ticker := range []string{"", "aapl", "TOOLONGTICKER", "A A", "$TSLA"} {
		assert.False(t, ValidTicker(ticker), ticker)
	}
}
