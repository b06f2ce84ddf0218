package usecase

import (
	"fmt"
	"time"

	"StockPulse/internal/domain/models"
	"StockPulse/pkg/util"

	"github.com/moznion/go-optional"
)

func isTradingDay(t time.Time) bool {
	wd := t.Weekday()
	return wd != time.Saturday && wd != time.Sunday
}

func nextTradingDay(t time.Time) time.Time {
	for !isTradingDay(t) {
		t = t.AddDate(0, 0, 1)
	}
	return t
}

// RemapForecastDates shifts forecast dates onto valid trading days for
// display. A weekend date advances to the next trading day; a weekday that
// was already produced earlier in the sequence advances by two further
// calendar days (weekend-skipped again) to avoid collisions within a short
// weekly horizon. The seen-weekday accumulator lives only for this call.
func RemapForecastDates(points []models.ForecastPoint) ([]models.ForecastPoint, error) {
	seen := make(map[time.Weekday]bool, len(points))
	out := make([]models.ForecastPoint, 0, len(points))
	for _, p := range points {
		t, ok := util.ParseDay(p.Date)
		if !ok {
			return nil, fmt.Errorf("forecast remap: %w: %q", util.ErrInvalidDate, p.Date)
		}
		t = nextTradingDay(t)
		if seen[t.Weekday()] {
			t = nextTradingDay(t.AddDate(0, 0, 2))
		}
		seen[t.Weekday()] = true

		p.Date = t.Format(util.DayFormat)
		out = append(out, p)
	}
	return out, nil
}

// BuildForecastViews remaps forecast dates and annotates each point with its
// expected change: the first point against the last close, every later point
// against its predecessor.
func BuildForecastViews(points []models.ForecastPoint, lastClose optional.Option[float64]) ([]models.ForecastView, error) {
	remapped, err := RemapForecastDates(points)
	if err != nil {
		return nil, err
	}

	out := make([]models.ForecastView, 0, len(remapped))
	prev := lastClose
	for _, p := range remapped {
		view := models.ForecastView{ForecastPoint: p}
		if base, e := prev.Take(); e == nil && base != 0 {
			view.ChangePercent = (p.Price - base) / base * 100
		}
		prev = optional.Some(p.Price)
		out = append(out, view)
	}
	return out, nil
}
