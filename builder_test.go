package xbrlstmt

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const incomeStatementPresentationXML = `<?xml version="1.0"?>
<linkbase xmlns:xlink="http://www.w3.org/1999/xlink">
  <presentationLink xlink:role="http://example.com/role/IncomeStatement">
    <loc xlink:label="revenue" xlink:href="schema.xsd#us-gaap_Revenues"/>
    <loc xlink:label="cost" xlink:href="schema.xsd#us-gaap_CostOfRevenue"/>
    <loc xlink:label="gross" xlink:href="schema.xsd#us-gaap_GrossProfit"/>
    <presentationArc xlink:from="revenue" xlink:to="cost" order="1"/>
    <presentationArc xlink:from="revenue" xlink:to="gross" order="2"/>
  </presentationLink>
</linkbase>`

func TestBuilder_BuildAssemblesRowsInPresentationOrder(t *testing.T) {
	graph, pr := LoadPresentationLinkbase([]byte(incomeStatementPresentationXML))
	require.True(t, pr.OK())

	labels := newLabelGraph()
	labels.add("us-gaap:Revenues", LabelRoleStandard, "en-US", "Total revenue")
	labels.add("us-gaap:CostOfRevenue", LabelRoleStandard, "en-US", "Cost of revenue")
	labels.add("us-gaap:GrossProfit", LabelRoleStandard, "en-US", "Gross profit")

	period := annualPeriod(2024)
	ctx := &Context{ID: "c1", Period: period}
	facts := []Fact{
		{Concept: "us-gaap:Revenues", ContextRef: "c1", Context: ctx, NumericValue: mustDecimal(1000)},
		{Concept: "us-gaap:CostOfRevenue", ContextRef: "c1", Context: ctx, NumericValue: mustDecimal(400)},
		{Concept: "us-gaap:GrossProfit", ContextRef: "c1", Context: ctx, NumericValue: mustDecimal(600)},
	}
	store := NewFactStore(facts, labels)

	builder := NewBuilder(graph, labels, store, nil)
	stmt := builder.Build("http://example.com/role/IncomeStatement", StatementIncomeStatement, []ReportingPeriod{period})

	wantOrder := []string{"us-gaap:Revenues", "us-gaap:CostOfRevenue", "us-gaap:GrossProfit"}
	var gotOrder []string
	for _, row := range stmt.Rows {
		gotOrder = append(gotOrder, row.ConceptID)
	}
	if diff := cmp.Diff(wantOrder, gotOrder); diff != "" {
		t.Errorf("row order mismatch (-want +got):\n%s", diff)
	}

	wantLabels := []string{"Total revenue", "Cost of revenue", "Gross profit"}
	var gotLabels []string
	for _, row := range stmt.Rows {
		gotLabels = append(gotLabels, row.Label)
	}
	if diff := cmp.Diff(wantLabels, gotLabels); diff != "" {
		t.Errorf("label mismatch (-want +got):\n%s", diff)
	}
}

func TestBuilder_RowMarkedAbstractWhenNoValueButHasChildren(t *testing.T) {
	graph, pr := LoadPresentationLinkbase([]byte(incomeStatementPresentationXML))
	require.True(t, pr.OK())

	period := annualPeriod(2024)
	ctx := &Context{ID: "c1", Period: period}
	facts := []Fact{
		{Concept: "us-gaap:CostOfRevenue", ContextRef: "c1", Context: ctx, NumericValue: mustDecimal(400)},
		{Concept: "us-gaap:GrossProfit", ContextRef: "c1", Context: ctx, NumericValue: mustDecimal(600)},
	}
	store := NewFactStore(facts, nil)

	builder := NewBuilder(graph, nil, store, nil)
	stmt := builder.Build("http://example.com/role/IncomeStatement", StatementIncomeStatement, []ReportingPeriod{period})

	require.NotEmpty(t, stmt.Rows)
	root := stmt.Rows[0]
	require.Equal(t, "us-gaap:Revenues", root.ConceptID)
	require.True(t, root.Abstract, "root has no fact of its own but has presentation children")
}

func TestBuilder_MissingRoleReturnsEmptyStatement(t *testing.T) {
	graph, pr := LoadPresentationLinkbase([]byte(incomeStatementPresentationXML))
	require.True(t, pr.OK())

	store := NewFactStore(nil, nil)
	builder := NewBuilder(graph, nil, store, nil)
	stmt := builder.Build("http://example.com/role/DoesNotExist", StatementIncomeStatement, nil)

	require.NotNil(t, stmt)
	require.Empty(t, stmt.Rows)
}

func TestBuilder_RowsCarryCanonicalConceptIDWhenStandardized(t *testing.T) {
	graph, pr := LoadPresentationLinkbase([]byte(incomeStatementPresentationXML))
	require.True(t, pr.OK())

	period := annualPeriod(2024)
	ctx := &Context{ID: "c1", Period: period}
	facts := []Fact{
		{Concept: "us-gaap:Revenues", ContextRef: "c1", Context: ctx, NumericValue: mustDecimal(1000)},
	}
	store := NewFactStore(facts, nil)

	core, err := LoadCoreMappings()
	require.NoError(t, err)
	std := NewStandardizer(MappingSet{Core: core}, "")

	builder := NewBuilder(graph, nil, store, std)
	stmt := builder.Build("http://example.com/role/IncomeStatement", StatementIncomeStatement, []ReportingPeriod{period})

	require.NotEmpty(t, stmt.Rows)
	assert.Equal(t, CanonicalRevenue, stmt.Rows[0].CanonicalConceptID)
}

func TestBuilder_BuildPopulatesColumnMetadata(t *testing.T) {
	graph, pr := LoadPresentationLinkbase([]byte(incomeStatementPresentationXML))
	require.True(t, pr.OK())

	period := annualPeriod(2024)
	store := NewFactStore(nil, nil)
	builder := NewBuilder(graph, nil, store, nil)
	builder.WithAccession("0000000000-24-000001")
	stmt := builder.Build("http://example.com/role/IncomeStatement", StatementIncomeStatement, []ReportingPeriod{period})

	require.Len(t, stmt.Columns, 1)
	col := stmt.Columns[0]
	assert.Equal(t, period.Key(), col.PeriodKey)
	assert.Equal(t, "FY 2024", col.PeriodLabel)
	assert.Equal(t, 2024, col.FiscalYear)
	require.NotNil(t, col.DurationDays)
	assert.True(t, *col.DurationDays > 350)
	assert.Equal(t, "0000000000-24-000001", col.SourceAccession)
	assert.True(t, col.IsPrimary)
}
