package xbrlstmt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveStatementType_NameHeuristics(t *testing.T) {
	stmt, err := ResolveStatementType("http://example.com/role/ConsolidatedBalanceSheets", "Consolidated Balance Sheets", nil)
	require.NoError(t, err)
	assert.Equal(t, StatementBalanceSheet, stmt)

	stmt, err = ResolveStatementType("http://example.com/role/ConsolidatedStatementsOfCashFlows", "", nil)
	require.NoError(t, err)
	assert.Equal(t, StatementCashFlow, stmt)

	stmt, err = ResolveStatementType("http://example.com/role/ConsolidatedStatementsOfComprehensiveIncome", "", nil)
	require.NoError(t, err)
	assert.Equal(t, StatementComprehensiveIncome, stmt)

	stmt, err = ResolveStatementType("http://example.com/role/ConsolidatedStatementsOfStockholdersEquity", "", nil)
	require.NoError(t, err)
	assert.Equal(t, StatementEquity, stmt)
}

func TestResolveStatementType_ExactRoleWinsOverHeuristic(t *testing.T) {
	RegisterExactRole("http://example.com/role/Weird", StatementIncomeStatement)
	stmt, err := ResolveStatementType("http://example.com/role/Weird", "Balance Sheet of Doom", nil)
	require.NoError(t, err)
	assert.Equal(t, StatementIncomeStatement, stmt)
}

func TestResolveStatementType_StructuralFallback(t *testing.T) {
	stmt, err := ResolveStatementType("http://example.com/role/R2", "", []string{"us-gaap:Assets", "us-gaap:LiabilitiesAndStockholdersEquity"})
	require.NoError(t, err)
	assert.Equal(t, StatementBalanceSheet, stmt)
}

func TestResolveStatementType_UnknownWarns(t *testing.T) {
	stmt, err := ResolveStatementType("http://example.com/role/R99", "Schedule of Nothing In Particular", []string{"us-gaap:SomeExtensionMember"})
	assert.Equal(t, StatementUnknown, stmt)
	require.Error(t, err)

	var warn *UnknownStatementTypeWarning
	require.ErrorAs(t, err, &warn)
}
