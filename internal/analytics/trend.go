package analytics

import (
	"math"
	"time"

	"github.com/sadopc/vitalog/internal/dailylog"
)

type Direction string

const (
	DirectionUp     Direction = "up"
	DirectionDown   Direction = "down"
	DirectionStable Direction = "stable"
)

// TrendThreshold is the percent change beyond which a metric counts as moving.
const TrendThreshold = 5.0

type Trend struct {
	Direction     Direction
	PercentChange float64
}

// CompareWeeks classifies the change from last to this.
// A missing or zero value on either side is reported as stable at 0%.
func CompareWeeks(this, last *float64) Trend {
	if this == nil || last == nil || *this == 0 || *last == 0 {
		return Trend{Direction: DirectionStable}
	}
	pct := (*this - *last) / *last * 100
	switch {
	case pct > TrendThreshold:
		return Trend{Direction: DirectionUp, PercentChange: pct}
	case pct < -TrendThreshold:
		return Trend{Direction: DirectionDown, PercentChange: pct}
	}
	return Trend{Direction: DirectionStable, PercentChange: pct}
}

// WeeklyTrends compares both weeks for every metric.
func WeeklyTrends(w WeeklyAverages) map[Metric]Trend {
	out := make(map[Metric]Trend, len(Metrics))
	for _, m := range Metrics {
		out[m] = CompareWeeks(w.ThisWeek.Get(m), w.LastWeek.Get(m))
	}
	return out
}

// LinearTrend fits y = slope*x + intercept by least squares, with x the
// index into values. Fewer than two points give a flat line.
func LinearTrend(values []float64) (slope, intercept float64) {
	n := float64(len(values))
	if len(values) == 0 {
		return 0, 0
	}
	if len(values) == 1 {
		return 0, values[0]
	}
	var sumX, sumY, sumXY, sumXX float64
	for i, y := range values {
		x := float64(i)
		sumX += x
		sumY += y
		sumXY += x * y
		sumXX += x * x
	}
	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		return 0, sumY / n
	}
	slope = (n*sumXY - sumX*sumY) / denom
	intercept = (sumY - slope*sumX) / n
	return slope, intercept
}

// Series is a per-day metric series starting at From.
// Present[i] is false on days without a reported value.
type Series struct {
	From    time.Time
	Values  []float64
	Present []bool
}

// DailySeries lays out metric m over days consecutive days starting at from.
func DailySeries(records []dailylog.Record, m Metric, from time.Time, days int) Series {
	s := Series{
		From:    dailylog.Day(from),
		Values:  make([]float64, days),
		Present: make([]bool, days),
	}
	for _, r := range dailylog.Dedupe(records) {
		i := dailylog.DaysBetween(s.From, r.Date)
		if i < 0 || i >= days {
			continue
		}
		if v, ok := m.Value(&r); ok {
			s.Values[i] = float64(v)
			s.Present[i] = true
		}
	}
	return s
}

// Reported returns only the values that were actually reported, in day order.
func (s Series) Reported() []float64 {
	var out []float64
	for i, v := range s.Values {
		if s.Present[i] {
			out = append(out, v)
		}
	}
	return out
}

// Filled returns the series with gaps carrying the last reported value
// forward, which reads better in sparklines than dropping to zero.
func (s Series) Filled() []float64 {
	out := make([]float64, len(s.Values))
	last := math.NaN()
	for i, v := range s.Values {
		if s.Present[i] {
			last = v
		}
		if math.IsNaN(last) {
			out[i] = 0
			continue
		}
		out[i] = last
	}
	return out
}

// Slope is the per-day least squares slope of the reported values.
func (s Series) Slope() float64 {
	slope, _ := LinearTrend(s.Reported())
	return slope
}
