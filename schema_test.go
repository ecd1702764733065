package xbrlstmt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleSchemaXML = `<?xml version="1.0"?>
<schema targetNamespace="http://fasb.org/us-gaap/2024">
  <element name="Assets" type="xbrli:monetaryItemType" periodType="instant" balance="debit"/>
  <element name="Revenues" type="xbrli:monetaryItemType" periodType="duration" balance="credit"/>
  <element name="EarningsPerShareBasic" type="num:perShareItemType" periodType="duration"/>
  <element name="DocumentType" type="xbrli:stringItemType" periodType="duration"/>
  <element name="StatementTable" type="xbrldt:hypercubeItemType" periodType="duration" abstract="true"/>
</schema>`

func TestLoadSchema_DeclaresConceptsWithCorrectTypes(t *testing.T) {
	registry := NewConceptRegistry()
	pr := LoadSchema([]byte(sampleSchemaXML), "", registry)
	require.True(t, pr.OK())

	assets, ok := registry.Lookup("us-gaap:Assets")
	require.True(t, ok)
	assert.Equal(t, DataTypeMonetary, assets.DataType)
	assert.Equal(t, PeriodTypeInstant, assets.PeriodType)
	assert.Equal(t, BalanceDebit, assets.Balance)

	eps, ok := registry.Lookup("us-gaap:EarningsPerShareBasic")
	require.True(t, ok)
	assert.Equal(t, DataTypePerShare, eps.DataType)

	table, ok := registry.Lookup("us-gaap:StatementTable")
	require.True(t, ok)
	assert.True(t, table.Abstract)
}

func TestLoadSchema_ConflictingRedeclarationIsFatal(t *testing.T) {
	registry := NewConceptRegistry()
	require.NoError(t, registry.Declare(Concept{ID: "us-gaap:Assets", DataType: DataTypeShares}))

	pr := LoadSchema([]byte(sampleSchemaXML), "", registry)
	require.False(t, pr.OK())

	var conflict *SchemaConflictError
	require.ErrorAs(t, pr.Fatal, &conflict)
}

func TestInferPrefixFromNamespace(t *testing.T) {
	assert.Equal(t, "us-gaap", inferPrefixFromNamespace("http://fasb.org/us-gaap/2024"))
	assert.Equal(t, "ifrs-full", inferPrefixFromNamespace("http://xbrl.ifrs.org/taxonomy/2024/ifrs-full"))
	assert.Equal(t, "dei", inferPrefixFromNamespace("http://xbrl.sec.gov/dei/2024"))
}
