package xbrlstmt

import "sort"

// Standardizer resolves a canonical line item to the best-matching source
// concept for one filer, applying mapping rules in priority order: filer
// override, then industry rule, then core mapping, per spec §4.7. Only these
// three mapping layers are consulted: no hierarchy rule (falling back to a
// parent concept in the presentation tree) is applied, here or in the
// statement builder, so a concept none of the layers maps stays unmapped.
type Standardizer struct {
	core     ruleIndex
	industry ruleIndex
	filer    ruleIndex

	coreByCanonical     map[CanonicalConcept]MappingRule
	industryByCanonical map[CanonicalConcept]MappingRule
	filerByCanonical     map[CanonicalConcept]MappingRule
}

// NewStandardizer builds a standardizer from a mapping set, for a filer
// whose industry classification is filerIndustry (e.g. "Diversified Banks",
// or "" if unknown). Industry and Filer may be nil.
//
// Per spec §4.7/§6, industry rules activate "only when the filer's industry
// matches an allowlist": each rule in set.Industry is checked against
// filerIndustry via MappingRule.activeForIndustry before it is indexed, and
// inactive rules never shadow a core mapping. Rules that do activate are
// applied in descending Priority order, so a higher-priority industry rule
// (e.g. the bank NoninterestIncome-to-OtherIncomeExpense rule at priority
// 130) wins over a lower-priority one contesting the same canonical concept
// or source id.
func NewStandardizer(set MappingSet, filerIndustry string) *Standardizer {
	activeIndustry := activeIndustryRules(set.Industry, filerIndustry)

	s := &Standardizer{
		core:                buildRuleIndex(set.Core),
		industry:            buildRuleIndex(activeIndustry),
		filer:                buildRuleIndex(set.Filer),
		coreByCanonical:     byCanonical(set.Core),
		industryByCanonical: byCanonical(activeIndustry),
		filerByCanonical:     byCanonical(set.Filer),
	}
	return s
}

// activeIndustryRules filters mf to the rules that activate for
// filerIndustry, sorted by descending priority so the first rule seen for
// any given concept or canonical target is the highest-priority one.
func activeIndustryRules(mf *MappingFile, filerIndustry string) *MappingFile {
	if mf == nil {
		return nil
	}

	active := &MappingFile{Schema: mf.Schema, Description: mf.Description, Version: mf.Version}
	for _, rule := range mf.Mappings {
		if rule.activeForIndustry(filerIndustry) {
			active.Mappings = append(active.Mappings, rule)
		}
	}
	sort.SliceStable(active.Mappings, func(i, j int) bool {
		return active.Mappings[i].Priority > active.Mappings[j].Priority
	})
	return active
}

// byCanonical indexes a mapping file by its canonical target. As with
// buildRuleIndex, the first rule seen for a given canonical concept wins,
// so mf should already be priority-sorted when ties matter.
func byCanonical(mf *MappingFile) map[CanonicalConcept]MappingRule {
	out := make(map[CanonicalConcept]MappingRule)
	if mf == nil {
		return out
	}
	for _, rule := range mf.Mappings {
		if _, exists := out[rule.Canonical]; exists {
			continue
		}
		out[rule.Canonical] = rule
	}
	return out
}

// Canonicalize returns the canonical concept a source concept id maps to,
// and whether a mapping was found at all. Priority: filer, industry, core.
// As in SourceConcepts, a higher layer's rule for a canonical concept
// replaces the lower layers' concept lists for it, so a lower-layer match
// whose canonical concept a higher layer also maps is not used.
func (s *Standardizer) Canonicalize(conceptID string) (CanonicalConcept, bool) {
	id := NormalizeConceptID(conceptID)
	if rule, ok := s.filer.byConceptID[id]; ok {
		return rule.Canonical, true
	}
	if rule, ok := s.industry.byConceptID[id]; ok {
		if _, replaced := s.filerByCanonical[rule.Canonical]; !replaced {
			return rule.Canonical, true
		}
	}
	if rule, ok := s.core.byConceptID[id]; ok {
		_, byFiler := s.filerByCanonical[rule.Canonical]
		_, byIndustry := s.industryByCanonical[rule.Canonical]
		if !byFiler && !byIndustry {
			return rule.Canonical, true
		}
	}
	return "", false
}

// SourceConcepts returns the concept ids that map to a canonical line item,
// in priority order (a filer override replaces, rather than adds to, the
// industry/core concept list for the same canonical item).
func (s *Standardizer) SourceConcepts(canonical CanonicalConcept) []string {
	if rule, ok := s.filerByCanonical[canonical]; ok {
		return rule.sourceConcepts()
	}
	if rule, ok := s.industryByCanonical[canonical]; ok {
		return rule.sourceConcepts()
	}
	if rule, ok := s.coreByCanonical[canonical]; ok {
		return rule.sourceConcepts()
	}
	return nil
}

// NotApplicable reports whether a canonical line item is explicitly marked
// not-applicable for this filer (e.g. CostOfRevenue for a bank), checked
// in the same filer > industry > core priority order. A missing mapping is
// not the same as not-applicable: callers should distinguish "this filer
// doesn't have this line item" (NotApplicable) from "we don't know how to
// find this line item" (SourceConcepts returning nil).
func (s *Standardizer) NotApplicable(canonical CanonicalConcept) bool {
	if rule, ok := s.filerByCanonical[canonical]; ok {
		return rule.NotApplicable
	}
	if rule, ok := s.industryByCanonical[canonical]; ok {
		return rule.NotApplicable
	}
	if rule, ok := s.coreByCanonical[canonical]; ok {
		return rule.NotApplicable
	}
	return false
}

// StandardizeRow looks up a canonical line item in store for one period
// key: it tries each of the mapping's source concepts in declared order and
// returns a fact of the first one with a value for that period, preferring
// a default-segment fact over a dimensionally-qualified one.
func (s *Standardizer) StandardizeRow(store *FactStore, canonical CanonicalConcept, periodKey string) (Fact, bool) {
	for _, conceptID := range s.SourceConcepts(canonical) {
		facts := store.Query().ByConcept(conceptID).ByPeriodKeys(periodKey).Get()
		for _, f := range facts {
			if f.Context != nil && f.Context.Segment.IsDefault() {
				return f, true
			}
		}
		if len(facts) > 0 {
			return facts[0], true
		}
	}
	return Fact{}, false
}
