package xbrlstmt

import (
	_ "embed"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

//go:embed mappings/industry_bank.json
var industryBankMappingJSON []byte

func TestStandardizer_CanonicalizeDefaultsToCore(t *testing.T) {
	core, err := LoadCoreMappings()
	require.NoError(t, err)

	std := NewStandardizer(MappingSet{Core: core}, "")

	canonical, ok := std.Canonicalize("us-gaap:Revenues")
	require.True(t, ok)
	assert.Equal(t, CanonicalRevenue, canonical)

	_, ok = std.Canonicalize("us-gaap:SomeExtensionMember")
	assert.False(t, ok)
}

func TestStandardizer_FilerAutomotiveRevenueOverride(t *testing.T) {
	// A Tesla-style filer reports automobile sales under an
	// extension concept the core mapping doesn't know about; a filer
	// override lets that extension resolve to the same canonical Revenue
	// line item as the standard us-gaap concepts.
	core, err := LoadCoreMappings()
	require.NoError(t, err)

	filer := &MappingFile{Mappings: []MappingRule{
		{Canonical: CanonicalRevenue, Concepts: []string{"tsla:AutomotiveRevenue", "tsla:EnergyGenerationAndStorageRevenue"}},
	}}

	std := NewStandardizer(MappingSet{Core: core, Filer: filer}, "")

	canonical, ok := std.Canonicalize("tsla:AutomotiveRevenue")
	require.True(t, ok)
	assert.Equal(t, CanonicalRevenue, canonical)

	// The filer override replaces, rather than adds to, the core concept
	// list for Revenue.
	sources := std.SourceConcepts(CanonicalRevenue)
	assert.ElementsMatch(t, []string{"tsla:AutomotiveRevenue", "tsla:EnergyGenerationAndStorageRevenue"}, sources)

	_, stillCore := std.Canonicalize("us-gaap:Revenues")
	assert.False(t, stillCore)
}

func TestStandardizer_IndustryMarksCostOfRevenueNotApplicable(t *testing.T) {
	core, err := LoadCoreMappings()
	require.NoError(t, err)

	industry, err := LoadMappingFile(industryBankMappingJSON)
	require.NoError(t, err)

	std := NewStandardizer(MappingSet{Core: core, Industry: industry}, "Diversified Banks")

	assert.True(t, std.NotApplicable(CanonicalCostOfRevenue))
	assert.True(t, std.NotApplicable(CanonicalGrossProfit))
	assert.False(t, std.NotApplicable(CanonicalRevenue))

	// Per spec scenario #3, a bank's NoninterestIncome populates the
	// canonical OtherIncomeExpense field, not a dedicated NoninterestIncome
	// canonical.
	canonical, ok := std.Canonicalize("us-gaap:NoninterestIncome")
	require.True(t, ok)
	assert.Equal(t, CanonicalOtherIncomeExpense, canonical)
}

func TestStandardizer_IndustryRulesInactiveForUnmatchedFilerIndustry(t *testing.T) {
	core, err := LoadCoreMappings()
	require.NoError(t, err)

	industry, err := LoadMappingFile(industryBankMappingJSON)
	require.NoError(t, err)

	std := NewStandardizer(MappingSet{Core: core, Industry: industry}, "Software")

	assert.False(t, std.NotApplicable(CanonicalCostOfRevenue))
	_, ok := std.Canonicalize("us-gaap:NoninterestIncome")
	assert.False(t, ok)
}

func TestStandardizer_StandardizeRowPrefersDefaultSegment(t *testing.T) {
	core, err := LoadCoreMappings()
	require.NoError(t, err)
	std := NewStandardizer(MappingSet{Core: core}, "")

	period := annualPeriod(2024)
	defaultCtx := &Context{ID: "default", Period: period}
	segmentCtx := &Context{
		ID:      "segment",
		Period:  period,
		Segment: Segment{{Axis: "us-gaap:StatementBusinessSegmentsAxis", Member: "us-gaap:AutomotiveMember"}},
	}

	facts := []Fact{
		{Concept: "us-gaap:Revenues", ContextRef: "segment", Context: segmentCtx, NumericValue: mustDecimal(800)},
		{Concept: "us-gaap:Revenues", ContextRef: "default", Context: defaultCtx, NumericValue: mustDecimal(1000)},
	}
	store := NewFactStore(facts, nil)

	fact, ok := std.StandardizeRow(store, CanonicalRevenue, period.Key())
	require.True(t, ok)
	assert.True(t, mustDecimal(1000).Equal(*fact.NumericValue))
}
