package xbrlstmt

import (
	"sort"
	"time"
)

// StatementRow is one line of a built statement: a concept, its resolved
// label, and the fact (if any) for each period in the statement's column
// set. CanonicalConceptID is the standardizer's resolved canonical line
// item, set only when the builder was given a Standardizer and it
// recognizes ConceptID; it is empty, not a zero-value placeholder, when
// unmapped, so unmapped concepts can still be displayed under their
// original label (spec §4.7: standardization never invents facts).
type StatementRow struct {
	ConceptID          string
	CanonicalConceptID CanonicalConcept
	Label              string
	Depth              int
	Abstract           bool
	Values             map[string]Fact // period key -> fact
}

// StatementColumn carries the metadata spec §6 attaches to each of a
// statement's period columns, beyond the raw ReportingPeriod: a
// human-facing label, the fiscal year it belongs under, its duration in
// days (nil for instant columns), and provenance. Provenance fields are
// zero-valued for a single-filing Statement built directly by Builder.Build
// and populated by Stitcher.Stitch when a column is assembled from a
// specific source filing.
type StatementColumn struct {
	PeriodKey       string
	PeriodLabel     string
	FiscalYear      int
	DurationDays    *int
	SourceAccession string
	IsPrimary       bool
	FilingDate      time.Time
}

// Statement is a fully assembled financial statement: an ordered set of
// rows over a fixed set of periods.
type Statement struct {
	Type    StatementType
	RoleURI string
	Periods []ReportingPeriod
	Columns []StatementColumn
	Rows    []StatementRow
}

// Builder walks a presentation role's tree and assembles a Statement,
// resolving preferred labels and pulling values from a fact store for each
// selected period.
type Builder struct {
	presentation *RelationshipGraph
	labels       *LabelGraph
	store        *FactStore
	standardizer *Standardizer // may be nil: rows then carry no canonical id
	accession    string        // attached to this builder's statement's column provenance
}

// NewBuilder constructs a statement builder over one filing's presentation
// linkbase, label linkbase, fact store, and standardizer. standardizer may
// be nil, in which case built rows carry no canonical concept id (spec
// §4.7's mapping step is simply skipped, not faked).
func NewBuilder(presentation *RelationshipGraph, labels *LabelGraph, store *FactStore, standardizer *Standardizer) *Builder {
	return &Builder{presentation: presentation, labels: labels, store: store, standardizer: standardizer}
}

// WithAccession attaches a source accession to every column this builder's
// Build calls produce, for column provenance. It returns the builder for
// chaining.
func (b *Builder) WithAccession(accession string) *Builder {
	b.accession = accession
	return b
}

// Build assembles the statement for roleURI over the given periods. stmt is
// the statement type the resolver already classified the role as.
func (b *Builder) Build(roleURI string, stmt StatementType, periods []ReportingPeriod) *Statement {
	network := b.presentation.Role(roleURI)
	s := &Statement{Type: stmt, RoleURI: roleURI, Periods: periods, Columns: b.buildColumns(periods)}
	if network == nil {
		return s
	}

	periodKeys := make([]string, len(periods))
	for i, p := range periods {
		periodKeys[i] = p.Key()
	}

	var walk func(conceptID string, depth int)
	walk = func(conceptID string, depth int) {
		arcs := network.ChildrenOf(conceptID)
		sort.SliceStable(arcs, func(i, j int) bool { return arcs[i].Order < arcs[j].Order })

		for _, arc := range arcs {
			row := b.buildRow(network, arc.To, depth, arc.PreferredLabel, periodKeys)
			s.Rows = append(s.Rows, row)
			walk(arc.To, depth+1)
		}
	}

	for _, root := range network.Roots {
		s.Rows = append(s.Rows, b.buildRow(network, root, 0, "", periodKeys))
		walk(root, 1)
	}

	return s
}

// buildColumns derives the column metadata for a statement's period set:
// label, fiscal year, duration, and (for this builder's own filing)
// provenance naming it as the source accession.
func (b *Builder) buildColumns(periods []ReportingPeriod) []StatementColumn {
	columns := make([]StatementColumn, len(periods))
	for i, p := range periods {
		var duration *int
		if p.Kind == PeriodKindDuration {
			d := p.DurationDays()
			duration = &d
		}
		columns[i] = StatementColumn{
			PeriodKey:       p.Key(),
			PeriodLabel:     periodLabel(p),
			FiscalYear:      fiscalYearOf(p.End),
			DurationDays:    duration,
			SourceAccession: b.accession,
			IsPrimary:       i == 0,
		}
	}
	return columns
}

func (b *Builder) buildRow(network *RoleNetwork, conceptID string, depth int, preferredLabel string, periodKeys []string) StatementRow {
	row := StatementRow{
		ConceptID: conceptID,
		Depth:     depth,
		Label:     b.resolveLabel(conceptID, preferredLabel),
		Values:    make(map[string]Fact, len(periodKeys)),
	}

	if b.standardizer != nil {
		if canonical, ok := b.standardizer.Canonicalize(conceptID); ok {
			row.CanonicalConceptID = canonical
		}
	}

	for _, key := range periodKeys {
		facts := b.store.Query().ByConcept(conceptID).ByPeriodKeys(key).Get()
		fact, ok := bestFactForRow(facts)
		if !ok {
			continue
		}
		row.Values[key] = fact
	}

	row.Abstract = len(row.Values) == 0 && len(network.ChildrenOf(conceptID)) > 0

	return row
}

// bestFactForRow prefers the default (no-dimension) segment over any
// dimensionally-qualified fact for the same concept and period, per spec
// §4.8: a statement's own rows show the totals, not a breakout.
func bestFactForRow(facts []Fact) (Fact, bool) {
	for _, f := range facts {
		if f.Context != nil && f.Context.Segment.IsDefault() {
			return f, true
		}
	}
	if len(facts) > 0 {
		return facts[0], true
	}
	return Fact{}, false
}

// resolveLabel applies the preferred-label fallback chain: the arc's
// preferredLabel role, then standard, then terse, then verbose, then the
// bare concept id if none of those roles has a label.
func (b *Builder) resolveLabel(conceptID, preferredLabel string) string {
	if b.labels == nil {
		return conceptID
	}

	roles := []string{}
	if preferredLabel != "" {
		roles = append(roles, preferredLabel)
	}
	roles = append(roles, LabelRoleStandard, LabelRoleTerse, LabelRoleVerbose)

	for _, role := range roles {
		if text, ok := b.labels.Label(conceptID, role, ""); ok {
			return text
		}
	}

	return conceptID
}
