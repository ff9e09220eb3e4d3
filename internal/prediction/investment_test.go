package prediction

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHorizonFor(t *testing.T) {
	tests := []struct {
		days   int
		want   Horizon
		wantOK bool
	}{
		{0, "", false},
		{1, Horizon3Day, true},
		{3, Horizon3Day, true},
		{4, Horizon5Day, true},
		{5, Horizon5Day, true},
		{6, Horizon1Month, true},
		{30, Horizon1Month, true},
		{31, Horizon3Month, true},
		{90, Horizon3Month, true},
		{180, Horizon6Month, true},
		{365, Horizon1Year, true},
		{366, "", false},
	}
	for _, tt := range tests {
		got, ok := HorizonFor(tt.days)
		assert.Equal(t, tt.wantOK, ok, "days %d", tt.days)
		assert.Equal(t, tt.want, got, "days %d", tt.days)
	}
}

func TestProject_Bucket(t *testing.T) {
	got, err := Project(ProjectionInput{
		Amount:       1000,
		TargetDate:   days(4),
		CurrentPrice: 100,
		Buckets:      Buckets{Horizon5Day: {Price: 101, ROI: 1}},
	}, testNow)
	require.NoError(t, err)
	assert.InDelta(t, 1010, got.ProjectedValue, 1e-9)
	assert.InDelta(t, 1.0, got.ROI, 1e-9)
	assert.Equal(t, string(Horizon5Day), got.Source)
}

func TestProject_RecomputesROIFromCallerPrice(t *testing.T) {
	got, err := Project(ProjectionInput{
		Amount:       500,
		TargetDate:   days(20),
		CurrentPrice: 80,
		Buckets:      Buckets{Horizon1Month: {Price: 100, ROI: 10}},
	}, testNow)
	require.NoError(t, err)
	assert.InDelta(t, 625, got.ProjectedValue, 1e-9)
	assert.InDelta(t, 25, got.ROI, 1e-9)
}

func TestProject_FallsBackToYearlyTable(t *testing.T) {
	yearly := YearlyTable{
		2026: {
			{Month: 0, Year: 2026, Result: Result{Price: 50, ROI: 999}},
			{Month: 2, Year: 2026, Result: Result{Price: 60}},
		},
	}

	t.Run("missing bucket", func(t *testing.T) {
		got, err := Project(ProjectionInput{
			Amount:       1000,
			TargetDate:   time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC),
			CurrentPrice: 100,
			Buckets:      Buckets{Horizon5Day: {Price: 101}},
			Yearly:       yearly,
		}, testNow)
		require.NoError(t, err)
		assert.Equal(t, SourceYearly, got.Source)
		assert.InDelta(t, 600, got.ProjectedValue, 1e-9)
		assert.InDelta(t, -40, got.ROI, 1e-9)
	})

	t.Run("nearest month prefers the earlier month on a tie", func(t *testing.T) {
		got, err := Project(ProjectionInput{
			Amount:       1000,
			TargetDate:   time.Date(2026, time.February, 15, 0, 0, 0, 0, time.UTC),
			CurrentPrice: 100,
			Yearly:       yearly,
		}, testNow)
		require.NoError(t, err)
		assert.InDelta(t, 500, got.ProjectedValue, 1e-9)
		assert.InDelta(t, -50, got.ROI, 1e-9)
	})

	t.Run("beyond one year", func(t *testing.T) {
		got, err := Project(ProjectionInput{
			Amount:       10,
			TargetDate:   time.Date(2031, time.December, 1, 0, 0, 0, 0, time.UTC),
			CurrentPrice: 100,
			Buckets:      Buckets{Horizon1Year: {Price: 500}},
			Yearly:       yearly,
		}, testNow)
		require.NoError(t, err)
		assert.InDelta(t, 6, got.ProjectedValue, 1e-9)
	})
}

func TestYearlyTable_Lookup(t *testing.T) {
	table := YearlyTable{
		2030: {{Month: 5, Year: 2030, Result: Result{Price: 1}}},
		2034: {{Month: 5, Year: 2034, Result: Result{Price: 2}}},
		2036: {},
	}

	got, ok := table.Lookup(2032, 5)
	require.True(t, ok)
	assert.Equal(t, 2030, got.Year, "equidistant years prefer the earlier one")

	got, ok = table.Lookup(2040, 0)
	require.True(t, ok)
	assert.Equal(t, 2034, got.Year, "empty years are ignored")

	_, ok = YearlyTable{}.Lookup(2030, 1)
	assert.False(t, ok)
	assert.Equal(t, []int{2030, 2034}, table.Years())
}

func TestYearlyTable_Upcoming(t *testing.T) {
	cell := func(year, month int) MonthlyPrediction {
		return MonthlyPrediction{Month: month, Year: year, Result: Result{Price: float64(year*100 + month)}}
	}
	table := YearlyTable{
		2025: {cell(2025, 10), cell(2025, 11)},
		2026: {cell(2026, 0), cell(2026, 1), cell(2026, 2), cell(2026, 3)},
		2027: {cell(2027, 0)},
	}
	now := time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC)

	got := table.Upcoming(now)

	assert.Equal(t, []int{2026, 2027}, got.Years())
	assert.Equal(t, []MonthlyPrediction{cell(2026, 3)}, got[2026], "months whose mid-month target has passed are dropped")
	assert.Len(t, table[2026], 4, "the receiver is left untouched")
	assert.Empty(t, YearlyTable(nil).Upcoming(now))
}

func TestProject_InvalidInput(t *testing.T) {
	buckets := Buckets{Horizon3Day: {Price: 10}}
	tests := []struct {
		name string
		in   ProjectionInput
	}{
		{name: "zero amount", in: ProjectionInput{Amount: 0, TargetDate: days(2), CurrentPrice: 10, Buckets: buckets}},
		{name: "zero current price", in: ProjectionInput{Amount: 10, TargetDate: days(2), CurrentPrice: 0, Buckets: buckets}},
		{name: "past target", in: ProjectionInput{Amount: 10, TargetDate: days(-1), CurrentPrice: 10, Buckets: buckets}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Project(tt.in, testNow)
			assert.ErrorIs(t, err, ErrInvalidInput)
			assert.Equal(t, Projection{}, got)
		})
	}
}

func TestProject_NoPrediction(t *testing.T) {
	got, err := Project(ProjectionInput{Amount: 10, TargetDate: days(400), CurrentPrice: 10}, testNow)
	assert.ErrorIs(t, err, ErrNoPrediction)
	assert.Equal(t, Projection{}, got)
}
