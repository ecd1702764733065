package xbrlstmt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func instantPeriod(date string) ReportingPeriod {
	t, _ := time.Parse("2006-01-02", date)
	return ReportingPeriod{Kind: PeriodKindInstant, End: t}
}

func durationPeriod(start, end string) ReportingPeriod {
	s, _ := time.Parse("2006-01-02", start)
	e, _ := time.Parse("2006-01-02", end)
	return ReportingPeriod{Kind: PeriodKindDuration, Start: s, End: e}
}

func storeWithPeriods(periods ...ReportingPeriod) *FactStore {
	var facts []Fact
	for i, p := range periods {
		ctx := &Context{ID: p.Key(), Period: p}
		facts = append(facts, Fact{Concept: "us-gaap:Assets", ContextRef: ctx.ID, Context: ctx, NumericValue: mustDecimal(int64(i))})
	}
	return NewFactStore(facts, nil)
}

func TestPeriodSelector_AnnualView(t *testing.T) {
	periods := []ReportingPeriod{
		durationPeriod("2022-01-01", "2022-12-31"),
		durationPeriod("2023-01-01", "2023-12-31"),
		durationPeriod("2024-01-01", "2024-12-31"),
		instantPeriod("2024-12-31"),
	}
	store := storeWithPeriods(periods...)
	selector := NewPeriodSelector(store, FiscalYearEnd{Month: time.December, Day: 31})

	got, err := selector.Select("annual")
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.True(t, got[0].End.After(got[1].End))
	assert.True(t, got[1].End.After(got[2].End))
}

func TestPeriodSelector_RelaxesFiscalAlignmentRatherThanEmpty(t *testing.T) {
	// A fiscal year-end of June 30, but the filing only has calendar-year
	// durations: requiring alignment would produce zero periods, so the
	// selector must fall back to the duration-bucketed set instead.
	periods := []ReportingPeriod{
		durationPeriod("2023-01-01", "2023-12-31"),
		durationPeriod("2024-01-01", "2024-12-31"),
	}
	store := storeWithPeriods(periods...)
	selector := NewPeriodSelector(store, FiscalYearEnd{Month: time.June, Day: 30})

	got, err := selector.Select("annual")
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestPeriodSelector_QuarterlyView(t *testing.T) {
	// The quarterly view keeps durations of every length: a ~91-day quarter
	// and a longer duration (a full year here) must both survive as separate
	// columns rather than the longer one being dropped by a bucket filter
	// tuned to ~91 days.
	periods := []ReportingPeriod{
		durationPeriod("2024-07-01", "2024-09-30"),
		durationPeriod("2024-01-01", "2024-12-31"),
	}
	store := storeWithPeriods(periods...)
	selector := NewPeriodSelector(store, FiscalYearEnd{})

	got, err := selector.Select("quarterly")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.True(t, got[0].End.After(got[1].End))
	assert.Equal(t, 91, got[1].DurationDays())
}

func TestPeriodSelector_NoPeriodsSelectableError(t *testing.T) {
	store := storeWithPeriods(instantPeriod("2024-12-31"))
	selector := NewPeriodSelector(store, FiscalYearEnd{})

	_, err := selector.Select("annual")
	require.Error(t, err)

	var notSelectable *NoPeriodsSelectableError
	require.ErrorAs(t, err, &notSelectable)
}

func TestFiscalAlignmentScore(t *testing.T) {
	fiscal := FiscalYearEnd{Month: time.December, Day: 31}

	exact, _ := time.Parse("2006-01-02", "2024-12-31")
	assert.Equal(t, 100, fiscalAlignmentScore(exact, fiscal))

	rollover, _ := time.Parse("2006-01-02", "2025-01-03")
	assert.Equal(t, 75, fiscalAlignmentScore(rollover, fiscal))

	sameMonth, _ := time.Parse("2006-01-02", "2024-12-15")
	assert.Equal(t, 50, fiscalAlignmentScore(sameMonth, fiscal))

	noAlignment, _ := time.Parse("2006-01-02", "2024-06-30")
	assert.Equal(t, 0, fiscalAlignmentScore(noAlignment, fiscal))

	unknown, _ := time.Parse("2006-01-02", "2024-06-30")
	assert.Equal(t, 50, fiscalAlignmentScore(unknown, FiscalYearEnd{}))
}
