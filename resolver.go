package xbrlstmt

import (
	"regexp"
	"sort"
	"strings"
)

// StatementType is the closed set of primary financial statements the
// resolver classifies presentation roles into.
type StatementType string

const (
	StatementBalanceSheet        StatementType = "BalanceSheet"
	StatementIncomeStatement     StatementType = "IncomeStatement"
	StatementComprehensiveIncome StatementType = "ComprehensiveIncome"
	StatementCashFlow            StatementType = "CashFlow"
	StatementEquity              StatementType = "StockholdersEquity"
	StatementUnknown             StatementType = "Other"
)

// roleHeuristic pairs a regex matched against a role's short name or
// definition with the statement type it implies. Order matters: the more
// specific comprehensive-income pattern is tried before its broader
// income-statement sibling. No pattern classifies parenthetical roles.
type roleHeuristic struct {
	pattern *regexp.Regexp
	stmt    StatementType
}

var roleHeuristics = []roleHeuristic{
	{regexp.MustCompile(`(?i)comprehensive\s*income`), StatementComprehensiveIncome},
	{regexp.MustCompile(`(?i)stockholders.?\s*equity|shareholders.?\s*equity|changes?\s*in\s*equity`), StatementEquity},
	{regexp.MustCompile(`(?i)cash\s*flows?`), StatementCashFlow},
	{regexp.MustCompile(`(?i)balance\s*sheets?|financial\s*position`), StatementBalanceSheet},
	{regexp.MustCompile(`(?i)income\s*statements?|operations?|loss`), StatementIncomeStatement},
}

// exactRoleTypes are role URIs known in advance to denote a given statement,
// for taxonomies that use a fixed naming convention. Populated by callers
// via RegisterExactRole; empty by default since role URIs are filer-specific.
var exactRoleTypes = map[string]StatementType{}

// RegisterExactRole records a role URI -> statement type mapping that should
// win over every heuristic, for callers who know a filer's conventions in
// advance.
func RegisterExactRole(roleURI string, stmt StatementType) {
	exactRoleTypes[roleURI] = stmt
}

// ResolveStatementType classifies a presentation role as one of the known
// primary statement types. roleURI and definition both come from the
// presentation linkbase's role declaration; conceptIDs are the root
// concepts found under that role, used for a structural fallback when the
// name-based heuristics are inconclusive.
//
// Per spec §4.4: exact role-URI match wins, then regex heuristics against
// the role's short name/definition, then a structural heuristic based on
// which root concepts are present, then UnknownStatementType.
func ResolveStatementType(roleURI, definition string, rootConceptIDs []string) (StatementType, error) {
	if stmt, ok := exactRoleTypes[roleURI]; ok {
		return stmt, nil
	}

	name := roleShortName(roleURI)
	haystack := name + " " + definition
	for _, h := range roleHeuristics {
		if h.pattern.MatchString(haystack) {
			return h.stmt, nil
		}
	}

	if stmt := structuralHeuristic(rootConceptIDs); stmt != StatementUnknown {
		return stmt, nil
	}

	return StatementUnknown, &UnknownStatementTypeWarning{RoleURI: roleURI}
}

// roleShortName extracts the trailing path segment of a role URI, which
// taxonomy authors conventionally set to something like "StatementOfIncome".
func roleShortName(roleURI string) string {
	i := strings.LastIndexAny(roleURI, "/\\")
	if i < 0 {
		return roleURI
	}
	return roleURI[i+1:]
}

// structuralConceptHints maps well-known root concepts to the statement
// they're diagnostic of, used when a role's name gives no signal.
var structuralConceptHints = map[string]StatementType{
	"us-gaap:assets":                           StatementBalanceSheet,
	"us-gaap:liabilitiesandstockholdersequity":  StatementBalanceSheet,
	"us-gaap:revenues":                         StatementIncomeStatement,
	"us-gaap:revenuefromcontractwithcustomerexcludingassessedtax": StatementIncomeStatement,
	"us-gaap:netincomeloss":                    StatementIncomeStatement,
	"us-gaap:comprehensiveincomenetoftax":       StatementComprehensiveIncome,
	"us-gaap:othercomprehensiveincomelossnetoftax": StatementComprehensiveIncome,
	"us-gaap:netcashprovidedbyusedinoperatingactivities": StatementCashFlow,
	"us-gaap:cashandcashequivalentsperiodincreasedecrease": StatementCashFlow,
	"us-gaap:stockholdersequity":                StatementEquity,
	"us-gaap:increasedecreaseinstockholdersequity": StatementEquity,
}

func structuralHeuristic(rootConceptIDs []string) StatementType {
	counts := make(map[StatementType]int)
	for _, id := range rootConceptIDs {
		if stmt, ok := structuralConceptHints[strings.ToLower(NormalizeConceptID(id))]; ok {
			counts[stmt]++
		}
	}
	if len(counts) == 0 {
		return StatementUnknown
	}

	type tally struct {
		stmt  StatementType
		count int
	}
	var tallies []tally
	for s, c := range counts {
		tallies = append(tallies, tally{s, c})
	}
	sort.Slice(tallies, func(i, j int) bool { return tallies[i].count > tallies[j].count })
	return tallies[0].stmt
}
