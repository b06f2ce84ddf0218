package usecase

import (
	"testing"

	"StockPulse/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeSeries(t *testing.T) {
	points := []models.PricePoint{
		{Date: "2024-01-03T00:00:00Z", Close: 103},
		{Date: "2024-01-01", Open: 99, High: 101, Low: 98, Close: 100},
		{Date: "1704153600", Close: 102}, // 2024-01-02 unix seconds
	}

	series, err := NormalizeSeries(points)
	require.NoError(t, err)
	require.Len(t, series, 3)

	assert.Equal(t, "2024-01-01", series[0].Date)
	assert.Equal(t, "2024-01-02", series[1].Date)
	assert.Equal(t, "2024-01-03", series[2].Date)

	// Absent OHL columns fall back to the close.
	assert.Equal(t, 102.0, series[1].Open)
	assert.Equal(t, 102.0, series[1].High)
	assert.Equal(t, 102.0, series[1].Low)

	// Present columns stay untouched.
	assert.Equal(t, 99.0, series[0].Open)
}

func TestNormalizeSeriesDedupKeepsFirst(t *testing.T) {
	points := []models.PricePoint{
		{Date: "2024-01-01", Close: 100},
		{Date: "2024-01-01T00:00:00Z", Close: 999},
	}

	series, err := NormalizeSeries(points)
	require.NoError(t, err)
	require.Len(t, series, 1)
	assert.Equal(t, 100.0, series[0].Close)
}

func TestNormalizeSeriesInvalidDate(t *testing.T) {
	_, err := NormalizeSeries([]models.PricePoint{{Date: "yesterday"}})
	assert.Error(t, err)
}

func TestNormalizeSignals(t *testing.T) {
	signals, err := NormalizeSignals([]models.TradingSignal{
		{Date: "2024-02-01T10:30:00Z", Action: models.ActionBuy, Price: 55},
	})
	require.NoError(t, err)
	require.Len(t, signals, 1)
	assert.Equal(t, "2024-02-01", signals[0].Date)
}

func TestNormalizeForecastKeepsWeekend(t *testing.T) {
	// 2024-01-06 is a Saturday; canonicalization does not shift it.
	points, err := NormalizeForecast([]models.ForecastPoint{
		{Date: "2024-01-06T00:00:00Z", Price: 10},
	})
	require.NoError(t, err)
	require.Len(t, points, 1)
	assert.Equal(t, "2024-01-06", points[0].Date)
}
