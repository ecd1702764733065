package xbrlstmt

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/goccy/go-json"
)

// CanonicalConcept is a standardized line-item identifier, independent of
// any one filer's taxonomy extension or GAAP/IFRS element choice.
type CanonicalConcept string

const (
	CanonicalRevenue              CanonicalConcept = "Revenue"
	CanonicalCostOfRevenue        CanonicalConcept = "CostOfRevenue"
	CanonicalGrossProfit          CanonicalConcept = "GrossProfit"
	CanonicalOperatingIncome      CanonicalConcept = "OperatingIncome"
	CanonicalNetIncome            CanonicalConcept = "NetIncome"
	CanonicalTotalAssets          CanonicalConcept = "TotalAssets"
	CanonicalTotalLiabilities     CanonicalConcept = "TotalLiabilities"
	CanonicalStockholdersEquity   CanonicalConcept = "StockholdersEquity"
	CanonicalCashAndEquivalents   CanonicalConcept = "CashAndEquivalents"
	CanonicalOperatingCashFlow    CanonicalConcept = "OperatingCashFlow"
	CanonicalInvestingCashFlow    CanonicalConcept = "InvestingCashFlow"
	CanonicalFinancingCashFlow    CanonicalConcept = "FinancingCashFlow"
	CanonicalInterestIncome       CanonicalConcept = "InterestIncome"
	CanonicalNoninterestIncome    CanonicalConcept = "NoninterestIncome"
	CanonicalOtherIncomeExpense   CanonicalConcept = "OtherIncomeExpense"
	CanonicalResearchDevelopment  CanonicalConcept = "ResearchDevelopment"
	CanonicalEPSBasic             CanonicalConcept = "EPSBasic"
	CanonicalEPSDiluted           CanonicalConcept = "EPSDiluted"
)

// MappingRule associates one or more source concept ids with a canonical
// concept. NotApplicable marks a canonical line item as structurally absent
// for a filer/industry (e.g. CostOfRevenue for a bank), so the standardizer
// can skip it instead of reporting it missing.
//
// Industry rules additionally carry Priority and IndustryHints, per spec
// §6: a rule only activates when the filer's industry matches one of
// IndustryHints (case-insensitive substring match), and when two active
// rules could supply the same canonical concept, the higher Priority one
// wins. SelectAny is the industry-rule name for the candidate concept list
// ("select any of these concepts"); Concepts is its core/filer-rule
// equivalent. A rule populates whichever of the two its mapping file uses.
type MappingRule struct {
	Name          string           `json:"name,omitempty"`
	Canonical     CanonicalConcept `json:"canonical"`
	Concepts      []string         `json:"concepts,omitempty"`
	SelectAny     []string         `json:"selectAny,omitempty"`
	Priority      int              `json:"priority,omitempty"`
	IndustryHints []string         `json:"industryHints,omitempty"`
	Notes         string           `json:"notes,omitempty"`
	NotApplicable bool             `json:"notApplicable,omitempty"`
}

// sourceConcepts returns the rule's candidate concept ids regardless of
// which on-disk field name (concepts or selectAny) populated them.
func (r MappingRule) sourceConcepts() []string {
	if len(r.Concepts) > 0 {
		return r.Concepts
	}
	return r.SelectAny
}

// activeForIndustry reports whether an industry rule should apply to a
// filer. A rule with no IndustryHints at all (e.g. a bare notApplicable
// marker carried over from a generic layer) is always active; otherwise at
// least one hint must match filerIndustry case-insensitively as a substring.
func (r MappingRule) activeForIndustry(filerIndustry string) bool {
	if len(r.IndustryHints) == 0 {
		return true
	}
	if filerIndustry == "" {
		return false
	}
	lower := strings.ToLower(filerIndustry)
	for _, hint := range r.IndustryHints {
		if strings.Contains(lower, strings.ToLower(hint)) {
			return true
		}
	}
	return false
}

// MappingFile is the on-disk shape of a core, filer, or industry mapping
// config, per spec §6.
type MappingFile struct {
	Schema      string        `json:"$schema,omitempty"`
	Description string        `json:"description,omitempty"`
	Version     string        `json:"version,omitempty"`
	Mappings    []MappingRule `json:"mappings"`
}

//go:embed mappings/core.json
var coreMappingJSON []byte

// LoadMappingFile decodes a mapping config. Keys beginning with "_" at the
// top level of the raw JSON (used as inline comments by mapping authors)
// are tolerated by virtue of MappingFile's strict field set: go-json simply
// ignores unknown fields during decode, so "_comment" style keys never
// surface as mappings.
func LoadMappingFile(data []byte) (*MappingFile, error) {
	var mf MappingFile
	if err := json.Unmarshal(data, &mf); err != nil {
		return nil, &MappingFileInvalidError{Cause: err}
	}
	filtered := mf.Mappings[:0]
	for _, rule := range mf.Mappings {
		if strings.HasPrefix(string(rule.Canonical), "_") {
			continue
		}
		filtered = append(filtered, rule)
	}
	mf.Mappings = filtered
	return &mf, nil
}

// LoadCoreMappings decodes the engine's built-in, taxonomy-wide mapping
// table, embedded at build time.
func LoadCoreMappings() (*MappingFile, error) {
	mf, err := LoadMappingFile(coreMappingJSON)
	if err != nil {
		return nil, fmt.Errorf("embedded core mapping file: %w", err)
	}
	return mf, nil
}

// MappingSet is the core/industry/filer mapping layers used by the
// standardizer, in the priority order spec §4.7 defines: filer overrides
// industry, industry overrides core.
type MappingSet struct {
	Core     *MappingFile
	Industry *MappingFile // nil if the filer has no industry-specific rules
	Filer    *MappingFile // nil if the filer has no per-filer overrides
}

// ruleIndex flattens a MappingFile into concept-id -> rule lookups, built
// once per MappingSet use.
type ruleIndex struct {
	byConceptID map[string]MappingRule
}

// buildRuleIndex flattens a mapping file's rules into a concept-id lookup.
// Earlier rules in mf.Mappings win ties on a shared concept id, so callers
// that need priority ordering (industry rules) must pre-sort mf before
// calling this.
func buildRuleIndex(mf *MappingFile) ruleIndex {
	idx := ruleIndex{byConceptID: make(map[string]MappingRule)}
	if mf == nil {
		return idx
	}
	for _, rule := range mf.Mappings {
		for _, c := range rule.sourceConcepts() {
			id := NormalizeConceptID(c)
			if _, exists := idx.byConceptID[id]; exists {
				continue
			}
			idx.byConceptID[id] = rule
		}
	}
	return idx
}
