package xbrlstmt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const presentationLinkbaseXML = `<?xml version="1.0"?>
<linkbase xmlns:xlink="http://www.w3.org/1999/xlink">
  <presentationLink xlink:role="http://example.com/role/BalanceSheet">
    <loc xlink:label="assets" xlink:href="schema.xsd#us-gaap_Assets"/>
    <loc xlink:label="cash" xlink:href="schema.xsd#us-gaap_CashAndCashEquivalentsAtCarryingValue"/>
    <presentationArc xlink:from="assets" xlink:to="cash" order="1" preferredLabel="http://www.xbrl.org/2003/role/terseLabel"/>
  </presentationLink>
</linkbase>`

func TestBuildRelationshipGraph_BasicPresentation(t *testing.T) {
	graph, pr := LoadPresentationLinkbase([]byte(presentationLinkbaseXML))
	require.True(t, pr.OK())
	require.NotNil(t, graph)

	network := graph.Role("http://example.com/role/BalanceSheet")
	require.NotNil(t, network)
	require.Equal(t, []string{"us-gaap:Assets"}, network.Roots)

	children := network.ChildrenOf("us-gaap:Assets")
	require.Len(t, children, 1)
	assert.Equal(t, "us-gaap:CashAndCashEquivalentsAtCarryingValue", children[0].To)
	assert.Equal(t, "http://www.xbrl.org/2003/role/terseLabel", children[0].PreferredLabel)
}

const dangingArcLinkbaseXML = `<?xml version="1.0"?>
<linkbase xmlns:xlink="http://www.w3.org/1999/xlink">
  <presentationLink xlink:role="http://example.com/role/Test">
    <loc xlink:label="assets" xlink:href="schema.xsd#us-gaap_Assets"/>
    <presentationArc xlink:from="assets" xlink:to="missing" order="1"/>
  </presentationLink>
</linkbase>`

func TestBuildRelationshipGraph_DanglingArcWarns(t *testing.T) {
	_, pr := LoadPresentationLinkbase([]byte(dangingArcLinkbaseXML))
	require.True(t, pr.OK())
	require.NotEmpty(t, pr.Warnings.Errors)

	var dangling *DanglingArcWarning
	require.ErrorAs(t, pr.Warnings.Errors[0], &dangling)
}

const prohibitedArcLinkbaseXML = `<?xml version="1.0"?>
<linkbase xmlns:xlink="http://www.w3.org/1999/xlink">
  <calculationLink xlink:role="http://example.com/role/IncomeStatement">
    <loc xlink:label="revenue" xlink:href="schema.xsd#us-gaap_Revenues"/>
    <loc xlink:label="cost" xlink:href="schema.xsd#us-gaap_CostOfRevenue"/>
    <calculationArc xlink:from="revenue" xlink:to="cost" order="1" weight="-1" priority="0"/>
    <calculationArc xlink:from="revenue" xlink:to="cost" order="1" weight="-1" priority="1" use="prohibited"/>
  </calculationLink>
</linkbase>`

func TestBuildRelationshipGraph_ProhibitedArcCancelsLowerPriority(t *testing.T) {
	graph, pr := LoadCalculationLinkbase([]byte(prohibitedArcLinkbaseXML))
	require.True(t, pr.OK())

	network := graph.Role("http://example.com/role/IncomeStatement")
	require.NotNil(t, network)

	// The higher-priority arc is prohibited, so the edge is dropped entirely
	// -- not replaced by the lower-priority one.
	assert.Empty(t, network.ChildrenOf("us-gaap:Revenues"))
}

const cyclicLinkbaseXML = `<?xml version="1.0"?>
<linkbase xmlns:xlink="http://www.w3.org/1999/xlink">
  <presentationLink xlink:role="http://example.com/role/Cyclic">
    <loc xlink:label="a" xlink:href="schema.xsd#us-gaap_A"/>
    <loc xlink:label="b" xlink:href="schema.xsd#us-gaap_B"/>
    <loc xlink:label="c" xlink:href="schema.xsd#us-gaap_C"/>
    <presentationArc xlink:from="a" xlink:to="b" order="1"/>
    <presentationArc xlink:from="b" xlink:to="c" order="1"/>
    <presentationArc xlink:from="c" xlink:to="a" order="1"/>
  </presentationLink>
</linkbase>`

func TestBuildRelationshipGraph_BreaksCycles(t *testing.T) {
	graph, pr := LoadPresentationLinkbase([]byte(cyclicLinkbaseXML))
	require.True(t, pr.OK())
	require.NotEmpty(t, pr.Warnings.Errors)

	var cycle *LinkbaseCycleWarning
	require.ErrorAs(t, pr.Warnings.Errors[0], &cycle)

	network := graph.Role("http://example.com/role/Cyclic")
	require.NotNil(t, network)
	// a -> b -> c survives; c -> a is the repeated edge that gets dropped.
	assert.Len(t, network.ChildrenOf("us-gaap:C"), 0)
}

const labelLinkbaseXML = `<?xml version="1.0"?>
<linkbase xmlns:xlink="http://www.w3.org/1999/xlink">
  <labelLink xlink:role="http://example.com/role/Labels">
    <loc xlink:label="assets" xlink:href="schema.xsd#us-gaap_Assets"/>
    <label xlink:label="assets_label" xlink:role="http://www.xbrl.org/2003/role/label" xml:lang="en-US">Total assets</label>
    <labelArc xlink:from="assets" xlink:to="assets_label"/>
  </labelLink>
</linkbase>`

func TestLoadLabelLinkbase(t *testing.T) {
	graph, pr := LoadLabelLinkbase([]byte(labelLinkbaseXML))
	require.True(t, pr.OK())

	text, ok := graph.Label("us-gaap:Assets", LabelRoleStandard, "")
	require.True(t, ok)
	assert.Equal(t, "Total assets", text)
}
