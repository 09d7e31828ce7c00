package app

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nsepulse/internal/config"
)

const stockCSV = `Date,Open Price,High Price,Low Price,Close Price,Total Traded Quantity,Deliverable Qty
01-Jan-2024,100.00,102.00,99.00,101.00,"1,50,000","75,000"
02-Jan-2024,101.00,103.50,100.50,103.00,"1,80,000","90,000"
03-Jan-2024,103.00,104.00,101.00,102.00,"1,20,000","55,000"
`

const indexCSV = `Date,Nifty Open,Nifty High,Nifty Low,Nifty Close,Volume,VIX,Advance Decline
01-Jan-2024,21000,21100,20900,21050,250000,13.5,1.2
02-Jan-2024,21050,21200,21000,21150,260000,13.1,1.4
03-Jan-2024,21150,21180,21020,21060,240000,14.2,0.8
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadStockSeries_CSV(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "bhavcopy.csv", stockCSV)

	days, err := LoadStockSeries(path, slog.Default())
	require.NoError(t, err)
	require.Len(t, days, 3)
	assert.Equal(t, 101.0, days[0].Close)
	assert.Equal(t, int64(150000), days[0].Volume)
}

func TestLoadStockSeries_MissingFile(t *testing.T) {
	_, err := LoadStockSeries(filepath.Join(t.TempDir(), "nope.csv"), slog.Default())
	require.Error(t, err)
}

func TestLoadIndexSeries(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "index.csv", indexCSV)

	days, err := LoadIndexSeries(path, slog.Default())
	require.NoError(t, err)
	require.Len(t, days, 3)
	require.NotNil(t, days[0].VIX)
	assert.Equal(t, 13.5, *days[0].VIX)
}

func TestEngineWeights(t *testing.T) {
	w := EngineWeights(config.WeightsConfig{
		StockTechnicals:   0.25,
		MarketCorrelation: 0.20,
		VolumePattern:     0.20,
		DeliveryTrend:     0.20,
		MarketSentiment:   0.15,
	})
	assert.True(t, w.IsValid())
	assert.Equal(t, 0.25, w.StockTechnicals)
}
