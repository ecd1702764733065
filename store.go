package xbrlstmt

import (
	"sort"
	"strings"
	"time"
)

// FactStore is the indexed collection of one filing's facts, built once at
// load time. After that only the calculation reconciler (which flips signs
// in place) and SetStatementTypeForRole change it.
type FactStore struct {
	facts []Fact

	byConcept       map[string][]int
	byPeriodKey     map[string][]int
	byStatementType map[StatementType][]int
	byAxis          map[string][]int // axis -> fact indices with that axis present

	labels    *LabelGraph
	roleTypes map[string]StatementType // role URI -> statement type, set by the resolver
}

// NewFactStore indexes facts for querying. labels may be nil if no label
// linkbase was loaded; label-based filters then simply match nothing.
func NewFactStore(facts []Fact, labels *LabelGraph) *FactStore {
	s := &FactStore{
		facts:           facts,
		byConcept:       make(map[string][]int),
		byPeriodKey:     make(map[string][]int),
		byStatementType: make(map[StatementType][]int),
		byAxis:          make(map[string][]int),
		labels:          labels,
		roleTypes:       make(map[string]StatementType),
	}

	for i, f := range facts {
		s.byConcept[f.Concept] = append(s.byConcept[f.Concept], i)
		if f.Context != nil {
			key := f.Context.Period.Key()
			s.byPeriodKey[key] = append(s.byPeriodKey[key], i)
			for _, dv := range f.Context.Segment {
				s.byAxis[dv.Axis] = append(s.byAxis[dv.Axis], i)
			}
		}
	}

	return s
}

// SetStatementTypeForRole records which statement type a presentation role
// resolved to, so ByStatementType can find facts that live under that role's
// concepts. Nothing in this package calls it: ByStatementType matches no
// fact until a caller has recorded the role here.
func (s *FactStore) SetStatementTypeForRole(roleURI string, conceptIDs []string, stmtType StatementType) {
	s.roleTypes[roleURI] = stmtType
	for _, id := range conceptIDs {
		id = NormalizeConceptID(id)
		for _, i := range s.byConcept[id] {
			s.byStatementType[stmtType] = append(s.byStatementType[stmtType], i)
		}
	}
}

// Len returns the number of facts in the store.
func (s *FactStore) Len() int { return len(s.facts) }

// FactQuery is a chainable, lazily-evaluated builder over a FactStore's
// facts. Nothing is materialized until a terminal method is called.
type FactQuery struct {
	store *FactStore

	concepts      []string
	statementType StatementType
	hasStmtType   bool
	periodKeys    []string
	periodViewEmpty bool // a ByPeriodView narrowed to zero candidate periods
	axis          string
	member        string
	hasAxis       bool
	labelText     string
	freeText      string
	valuePred     func(f *Fact) bool

	sortField string
	sortAsc   bool
	hasSort   bool
}

// Query starts a new FactQuery over all facts in the store.
func (s *FactStore) Query() *FactQuery {
	return &FactQuery{store: s}
}

// ByConcept filters to facts whose normalized concept id is in the list.
// Accepts either ':' or '_' separated ids.
func (q *FactQuery) ByConcept(ids ...string) *FactQuery {
	for _, id := range ids {
		q.concepts = append(q.concepts, NormalizeConceptID(id))
	}
	return q
}

// ByStatementType restricts to facts reachable from the given statement
// type's presentation role(s).
func (q *FactQuery) ByStatementType(t StatementType) *FactQuery {
	q.statementType = t
	q.hasStmtType = true
	return q
}

// ByPeriodKeys restricts to facts whose context matches one of the given
// period keys ("instant_..." / "duration_..._...").
func (q *FactQuery) ByPeriodKeys(keys ...string) *FactQuery {
	q.periodKeys = append(q.periodKeys, keys...)
	return q
}

// ByPeriodView restricts to facts selected by a named period-view preset,
// resolved against the store's own facts (no external fiscal metadata is
// available at the query layer; callers who need fiscal-aware period
// selection should use the period selector and then ByPeriodKeys).
func (q *FactQuery) ByPeriodView(name string) *FactQuery {
	view, ok := periodViews[name]
	if !ok {
		return q
	}
	return q.applyPeriodView(view)
}

// ByDimension restricts to facts whose context's segment constrains axis,
// optionally to a specific member.
func (q *FactQuery) ByDimension(axis string, member ...string) *FactQuery {
	q.axis = NormalizeConceptID(axis)
	q.hasAxis = true
	if len(member) > 0 {
		q.member = NormalizeConceptID(member[0])
	}
	return q
}

// ByLabel matches any of the fact's label forms (standard, terse, verbose,
// documentation) against text, case-insensitively. Null-safe: facts with no
// label linkbase entry simply don't match.
func (q *FactQuery) ByLabel(text string) *FactQuery {
	q.labelText = text
	return q
}

// ByText performs a free-text search across label, documentation, and the
// bare element id.
func (q *FactQuery) ByText(text string) *FactQuery {
	q.freeText = text
	return q
}

// ByValue filters numeric facts by predicate; facts with no numeric value
// are skipped before the predicate ever sees them.
func (q *FactQuery) ByValue(pred func(f *Fact) bool) *FactQuery {
	q.valuePred = pred
	return q
}

// SortBy orders the result set by a field ("period", "value", "concept"). A
// no-op on an empty result set.
func (q *FactQuery) SortBy(field string, ascending bool) *FactQuery {
	q.sortField = field
	q.sortAsc = ascending
	q.hasSort = true
	return q
}

// applyPeriodView restricts the query to the period keys a named view
// selects, mirroring PeriodSelector.filterByDurationKind's bucketing: the
// store's distinct periods are filtered by view.DurationKind, sorted most
// recent first, and capped at view.MaxPeriods. No fiscal metadata is
// available at the query layer, so RequireFiscal's alignment scoring is not
// applied here; callers needing fiscal-aware selection should go through
// PeriodSelector instead and restrict via ByPeriodKeys.
func (q *FactQuery) applyPeriodView(view PeriodView) *FactQuery {
	seen := make(map[string]bool)
	var candidates []ReportingPeriod
	for i := range q.store.facts {
		ctx := q.store.facts[i].Context
		if ctx == nil {
			continue
		}
		key := ctx.Period.Key()
		if seen[key] {
			continue
		}
		seen[key] = true
		if !matchesDurationKind(ctx.Period, view.DurationKind) {
			continue
		}
		candidates = append(candidates, ctx.Period)
	}

	sort.Slice(candidates, func(i, j int) bool { return candidates[i].End.After(candidates[j].End) })
	if view.MaxPeriods > 0 && len(candidates) > view.MaxPeriods {
		candidates = candidates[:view.MaxPeriods]
	}

	if len(candidates) == 0 {
		q.periodViewEmpty = true
		return q
	}

	keys := make([]string, len(candidates))
	for i, p := range candidates {
		keys[i] = p.Key()
	}
	q.ByPeriodKeys(keys...)

	q.sortField = "period"
	q.sortAsc = false
	q.hasSort = true
	return q
}

// Get materializes every matching fact, deduplicated by (concept, context)
// signature.
func (q *FactQuery) Get() []Fact {
	seen := make(map[string]bool)
	var out []Fact

	for i := range q.store.facts {
		f := &q.store.facts[i]
		if !q.matches(f) {
			continue
		}
		sig := f.Signature()
		if seen[sig] {
			continue
		}
		seen[sig] = true
		out = append(out, *f)
	}

	if q.hasSort {
		sortFacts(out, q.sortField, q.sortAsc)
	}

	return out
}

func (q *FactQuery) matches(f *Fact) bool {
	if q.periodViewEmpty {
		return false
	}

	if len(q.concepts) > 0 {
		matched := false
		for _, c := range q.concepts {
			if f.Concept == c {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}

	if q.hasStmtType {
		matched := false
		for _, i := range q.store.byStatementType[q.statementType] {
			if &q.store.facts[i] == f {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}

	if len(q.periodKeys) > 0 {
		if f.Context == nil {
			return false
		}
		key := f.Context.Period.Key()
		matched := false
		for _, k := range q.periodKeys {
			if k == key {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}

	if q.hasAxis {
		if f.Context == nil {
			return false
		}
		member, ok := f.Context.Segment.Member(q.axis)
		if !ok {
			return false
		}
		if q.member != "" && member != q.member {
			return false
		}
	}

	if q.labelText != "" {
		if !q.labelMatches(f.Concept, q.labelText) {
			return false
		}
	}

	if q.freeText != "" {
		if !q.freeTextMatches(f.Concept, q.freeText) {
			return false
		}
	}

	if q.valuePred != nil {
		if f.NumericValue == nil {
			return false
		}
		if !q.valuePred(f) {
			return false
		}
	}

	return true
}

func (q *FactQuery) labelMatches(conceptID, text string) bool {
	if q.store.labels == nil {
		return false
	}
	text = strings.ToLower(text)
	for _, label := range q.store.labels.AllLabels(conceptID) {
		if strings.Contains(strings.ToLower(label), text) {
			return true
		}
	}
	return false
}

func (q *FactQuery) freeTextMatches(conceptID, text string) bool {
	text = strings.ToLower(text)
	if strings.Contains(strings.ToLower(conceptID), text) {
		return true
	}
	if q.store.labels != nil {
		for _, label := range q.store.labels.AllLabels(conceptID) {
			if strings.Contains(strings.ToLower(label), text) {
				return true
			}
		}
	}
	return false
}

func sortFacts(facts []Fact, field string, ascending bool) {
	if len(facts) == 0 {
		return
	}

	less := func(i, j int) bool {
		switch field {
		case "value":
			vi, vj := facts[i].NumericValue, facts[j].NumericValue
			if vi == nil || vj == nil {
				return false
			}
			return vi.LessThan(*vj)
		case "concept":
			return facts[i].Concept < facts[j].Concept
		default: // "period"
			ei, ej := periodEnd(facts[i]), periodEnd(facts[j])
			return ei.Before(ej)
		}
	}

	sort.SliceStable(facts, func(i, j int) bool {
		if ascending {
			return less(i, j)
		}
		return less(j, i)
	})
}

// timeOrZero lets sortFacts order facts with no context after every fact
// that has one in ascending order (and so before them in descending order),
// instead of colliding on time.Time's zero value.
type timeOrZero struct {
	t   time.Time
	set bool
}

func (a timeOrZero) Before(b timeOrZero) bool {
	if !a.set {
		return false
	}
	if !b.set {
		return true
	}
	return a.t.Before(b.t)
}

func periodEnd(f Fact) timeOrZero {
	if f.Context == nil {
		return timeOrZero{}
	}
	return timeOrZero{t: f.Context.Period.End, set: true}
}
