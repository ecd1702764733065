package xbrlstmt

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustDecimal(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

func annualPeriod(year int) ReportingPeriod {
	return ReportingPeriod{
		Kind:  PeriodKindDuration,
		Start: time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(year, 12, 31, 0, 0, 0, 0, time.UTC),
	}
}

func TestFactStore_ByConceptAndPeriod(t *testing.T) {
	ctx2023 := &Context{ID: "ctx2023", Period: annualPeriod(2023)}
	ctx2024 := &Context{ID: "ctx2024", Period: annualPeriod(2024)}

	facts := []Fact{
		{Concept: "us-gaap:Revenues", ContextRef: "ctx2023", Context: ctx2023, NumericValue: mustDecimal(100)},
		{Concept: "us-gaap:Revenues", ContextRef: "ctx2024", Context: ctx2024, NumericValue: mustDecimal(150)},
		{Concept: "us-gaap:NetIncomeLoss", ContextRef: "ctx2024", Context: ctx2024, NumericValue: mustDecimal(20)},
	}

	store := NewFactStore(facts, nil)

	got := store.Query().ByConcept("us-gaap:Revenues").Get()
	assert.Len(t, got, 2)

	got = store.Query().ByConcept("us_gaap_Revenues").ByPeriodKeys(ctx2024.Period.Key()).Get()
	require.Len(t, got, 1)
	assert.True(t, decimal.NewFromInt(150).Equal(*got[0].NumericValue))
}

func TestFactStore_ByDimension(t *testing.T) {
	defaultCtx := &Context{ID: "default", Period: annualPeriod(2024)}
	segmentCtx := &Context{
		ID:      "segment",
		Period:  annualPeriod(2024),
		Segment: Segment{{Axis: "us-gaap:StatementBusinessSegmentsAxis", Member: "us-gaap:AutomotiveMember"}},
	}

	facts := []Fact{
		{Concept: "us-gaap:Revenues", ContextRef: "default", Context: defaultCtx, NumericValue: mustDecimal(1000)},
		{Concept: "us-gaap:Revenues", ContextRef: "segment", Context: segmentCtx, NumericValue: mustDecimal(800)},
	}

	store := NewFactStore(facts, nil)

	all := store.Query().ByConcept("us-gaap:Revenues").ByPeriodKeys(defaultCtx.Period.Key()).Get()
	assert.Len(t, all, 2)

	segmented := store.Query().ByConcept("us-gaap:Revenues").ByDimension("us-gaap:StatementBusinessSegmentsAxis", "us-gaap:AutomotiveMember").Get()
	require.Len(t, segmented, 1)
	assert.True(t, decimal.NewFromInt(800).Equal(*segmented[0].NumericValue))
}

func TestFactStore_DedupBySignature(t *testing.T) {
	ctx := &Context{ID: "ctx", Period: annualPeriod(2024)}
	facts := []Fact{
		{Concept: "us-gaap:Assets", ContextRef: "ctx", Context: ctx, NumericValue: mustDecimal(5)},
		{Concept: "us-gaap:Assets", ContextRef: "ctx", Context: ctx, NumericValue: mustDecimal(5)},
	}

	store := NewFactStore(facts, nil)
	got := store.Query().ByConcept("us-gaap:Assets").Get()
	assert.Len(t, got, 1)
}

func TestFactStore_ByLabel(t *testing.T) {
	labels := newLabelGraph()
	labels.add("us-gaap:Assets", LabelRoleStandard, "en-US", "Total assets")

	ctx := &Context{ID: "ctx", Period: annualPeriod(2024)}
	facts := []Fact{{Concept: "us-gaap:Assets", ContextRef: "ctx", Context: ctx, NumericValue: mustDecimal(1)}}

	store := NewFactStore(facts, labels)
	got := store.Query().ByLabel("total assets").Get()
	require.Len(t, got, 1)
	assert.Equal(t, "us-gaap:Assets", got[0].Concept)
}

func TestFactStore_SortByPeriodDescending(t *testing.T) {
	ctx2023 := &Context{ID: "c23", Period: annualPeriod(2023)}
	ctx2024 := &Context{ID: "c24", Period: annualPeriod(2024)}

	facts := []Fact{
		{Concept: "us-gaap:Revenues", ContextRef: "c23", Context: ctx2023, NumericValue: mustDecimal(100)},
		{Concept: "us-gaap:Revenues", ContextRef: "c24", Context: ctx2024, NumericValue: mustDecimal(150)},
	}

	store := NewFactStore(facts, nil)
	got := store.Query().ByConcept("us-gaap:Revenues").SortBy("period", false).Get()
	require.Len(t, got, 2)
	assert.True(t, got[0].Context.Period.End.After(got[1].Context.Period.End))
}

func TestFactStore_ByPeriodViewRestrictsToNamedBucket(t *testing.T) {
	instantCtx := &Context{ID: "i1", Period: ReportingPeriod{Kind: PeriodKindInstant, End: time.Date(2024, 9, 30, 0, 0, 0, 0, time.UTC)}}
	quarterCtx := &Context{ID: "q1", Period: ReportingPeriod{Kind: PeriodKindDuration,
		Start: time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC), End: time.Date(2024, 9, 30, 0, 0, 0, 0, time.UTC)}}
	ytdCtx := &Context{ID: "ytd", Period: ReportingPeriod{Kind: PeriodKindDuration,
		Start: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), End: time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)}}

	facts := []Fact{
		{Concept: "us-gaap:Assets", ContextRef: "i1", Context: instantCtx, NumericValue: mustDecimal(10)},
		{Concept: "us-gaap:Revenues", ContextRef: "q1", Context: quarterCtx, NumericValue: mustDecimal(20)},
		{Concept: "us-gaap:Revenues", ContextRef: "ytd", Context: ytdCtx, NumericValue: mustDecimal(60)},
	}
	store := NewFactStore(facts, nil)

	got := store.Query().ByPeriodView("quarterly").Get()
	require.Len(t, got, 2, "quarterly view should keep both durations and exclude the instant")
	for _, f := range got {
		assert.Equal(t, PeriodKindDuration, f.Context.Period.Kind)
	}

	got = store.Query().ByPeriodView("latest-instant").Get()
	require.Len(t, got, 1)
	assert.Equal(t, PeriodKindInstant, got[0].Context.Period.Kind)
}
