package prediction

import (
	"fmt"
	"sort"
	"time"
)

// SourceYearly marks a projection served by the yearly table.
const SourceYearly = "yearly"

// ProjectionInput is an amount invested at CurrentPrice and held until
// TargetDate.
type ProjectionInput struct {
	Amount       float64
	TargetDate   time.Time
	CurrentPrice float64
	Buckets      Buckets
	Yearly       YearlyTable
}

// Projection is the projected value of an investment.
type Projection struct {
	ProjectedValue float64 `json:"projected_value"`
	ROI            float64 `json:"roi"`
	Price          float64 `json:"price"`
	Source         string  `json:"source"`
}

// Project values an investment at its target date. The nearest standard
// horizon bucket is used when it exists, otherwise the closest month of the
// yearly table. ROI is always derived from the caller's current price.
func Project(in ProjectionInput, now time.Time) (Projection, error) {
	if in.Amount <= 0 {
		return Projection{}, fmt.Errorf("%w: amount must be positive", ErrInvalidInput)
	}
	if in.CurrentPrice <= 0 {
		return Projection{}, fmt.Errorf("%w: current price must be positive", ErrInvalidInput)
	}
	days := DaysUntil(now, in.TargetDate)
	if days <= 0 {
		return Projection{}, fmt.Errorf("%w: target date %s is not in the future", ErrInvalidInput, in.TargetDate.Format(time.DateOnly))
	}

	price, source, ok := in.priceAt(days)
	if !ok {
		return Projection{}, ErrNoPrediction
	}

	ratio := price / in.CurrentPrice
	return Projection{
		ProjectedValue: in.Amount * ratio,
		ROI:            (ratio - 1) * 100,
		Price:          price,
		Source:         source,
	}, nil
}

func (in ProjectionInput) priceAt(days int) (float64, string, bool) {
	if h, ok := HorizonFor(days); ok {
		if r, ok := in.Buckets[h]; ok && r.Price > 0 {
			return r.Price, string(h), true
		}
	}
	if m, ok := in.Yearly.Lookup(in.TargetDate.Year(), int(in.TargetDate.Month())-1); ok && m.Price > 0 {
		return m.Price, SourceYearly, true
	}
	return 0, "", false
}

// Years returns the years present in the table in ascending order.
func (t YearlyTable) Years() []int {
	years := make([]int, 0, len(t))
	for y, months := range t {
		if len(months) > 0 {
			years = append(years, y)
		}
	}
	sort.Ints(years)
	return years
}

// monthTarget is the date a monthly cell predicts, the middle of the month.
func monthTarget(year, month int, loc *time.Location) time.Time {
	return time.Date(year, time.Month(month+1), 15, 0, 0, 0, 0, loc)
}

// Upcoming returns the months whose target date is still ahead of now.
// Years left without months are dropped.
func (t YearlyTable) Upcoming(now time.Time) YearlyTable {
	out := make(YearlyTable, len(t))
	for year, months := range t {
		kept := make([]MonthlyPrediction, 0, len(months))
		for _, m := range months {
			if DaysUntil(now, monthTarget(year, m.Month, now.Location())) > 0 {
				kept = append(kept, m)
			}
		}
		if len(kept) > 0 {
			out[year] = kept
		}
	}
	return out
}

// Lookup finds the prediction for a zero-based month of year. When the exact
// year or month is missing the nearest one is used; ties go to the earlier
// year or month.
func (t YearlyTable) Lookup(year, month int) (MonthlyPrediction, bool) {
	years := t.Years()
	if len(years) == 0 {
		return MonthlyPrediction{}, false
	}

	bestYear := years[0]
	for _, y := range years[1:] {
		if abs(y-year) < abs(bestYear-year) {
			bestYear = y
		}
	}

	months := t[bestYear]
	best := months[0]
	for _, m := range months[1:] {
		d, bd := abs(m.Month-month), abs(best.Month-month)
		if d < bd || (d == bd && m.Month < best.Month) {
			best = m
		}
	}
	return best, true
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
