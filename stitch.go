package xbrlstmt

import (
	"sort"
	"time"
)

// FilingSummary is the minimal per-filing metadata the stitcher needs:
// which periods it reports and when it was filed, used to resolve
// overlapping period-ends across multiple filings of the same entity.
type FilingSummary struct {
	Accession   string
	FiledDate   time.Time
	Statement   *Statement
	Completeness int // number of non-empty cells; breaks ties between filings that report a period the same way (both primary or both comparative), ahead of filing date

	// ReportedFiscalYear is the fiscal year the source filing itself
	// claims for its primary period (from dei:DocumentFiscalYearFocus),
	// 0 if unknown. Carried for diagnostics; the stitched column's actual
	// fiscal year always comes from the label guard in spec §4.9 step 5,
	// which recomputes it from the period-end date rather than trusting
	// any one filing's claim, since two filings of the same period-end
	// have disagreed on its fiscal year before (see buildColumns).
	ReportedFiscalYear int
}

// Stitcher merges statements from multiple filings of the same entity into
// one multi-period statement, deduplicating overlapping period-ends per
// spec §4.9.
type Stitcher struct {
	fiscal       FiscalYearEnd
	standardizer *Standardizer // may be nil: rows then merge by raw ConceptID
}

// NewStitcher builds a stitcher for an entity with the given fiscal
// year-end, used for the fiscal-year-change sanity guard, and an optional
// standardizer used to merge rows by canonical concept (spec §4.9 step 2)
// rather than raw concept id, so a filer renaming a concept across years
// (e.g. us-gaap:Revenues replaced by an extension element) still folds into
// one row. standardizer may be nil, in which case rows whose builder never
// attached a canonical id fall back to merging by raw concept id.
func NewStitcher(fiscal FiscalYearEnd, standardizer *Standardizer) *Stitcher {
	return &Stitcher{fiscal: fiscal, standardizer: standardizer}
}

// mergeKey is the identity a row merges under: its canonical concept if one
// is known (attached by the builder, or resolved here as a fallback), else
// its raw concept id. Prefixing distinguishes the two so a canonical name
// can never collide with a literal concept id that happens to match it.
func (st *Stitcher) mergeKey(row StatementRow) string {
	if row.CanonicalConceptID != "" {
		return "canonical:" + string(row.CanonicalConceptID)
	}
	if st.standardizer != nil {
		if canonical, ok := st.standardizer.Canonicalize(row.ConceptID); ok {
			return "canonical:" + string(canonical)
		}
	}
	return "concept:" + row.ConceptID
}

// Stitch merges filings (assumed to already be classified under the same
// StatementType) into one statement spanning every period across all of
// them, keeping at most one row set per period-end.
func (st *Stitcher) Stitch(filings []FilingSummary) *Statement {
	if len(filings) == 0 {
		return &Statement{}
	}

	chosen := st.resolvePeriodOwners(filings)

	out := &Statement{}
	for _, f := range filings {
		if f.Statement != nil {
			out.Type = f.Statement.Type
			break
		}
	}
	rowsByKey := make(map[string]*StatementRow)
	var mergeOrder []string

	var periodKeys []string
	seenPeriod := make(map[string]bool)

	for periodKey, owner := range chosen {
		if !st.fiscalYearSane(periodKey, owner) {
			continue
		}
		if !seenPeriod[periodKey] {
			seenPeriod[periodKey] = true
			periodKeys = append(periodKeys, periodKey)
		}

		for _, row := range owner.Statement.Rows {
			key := st.mergeKey(row)
			existing, ok := rowsByKey[key]
			if !ok {
				copyRow := StatementRow{
					ConceptID:          row.ConceptID,
					CanonicalConceptID: row.CanonicalConceptID,
					Label:              row.Label,
					Depth:              row.Depth,
					Abstract:           row.Abstract,
					Values:             make(map[string]Fact),
				}
				rowsByKey[key] = &copyRow
				mergeOrder = append(mergeOrder, key)
				existing = &copyRow
			}
			if f, ok := row.Values[periodKey]; ok {
				existing.Values[periodKey] = f
			}
		}
	}

	sort.Slice(periodKeys, func(i, j int) bool { return periodKeys[i] > periodKeys[j] })

	for _, key := range mergeOrder {
		out.Rows = append(out.Rows, *rowsByKey[key])
	}
	out.Periods = periodsFromKeys(chosen, periodKeys)
	out.Columns = st.buildColumns(chosen, periodKeys)

	return out
}

// buildColumns derives per-column provenance and fiscal-year labels for a
// stitched statement's periods, per spec §4.9 steps 3 and 6.
func (st *Stitcher) buildColumns(chosen map[string]FilingSummary, periodKeys []string) []StatementColumn {
	columns := make([]StatementColumn, 0, len(periodKeys))
	for i, key := range periodKeys {
		owner := chosen[key]
		var period ReportingPeriod
		for _, p := range owner.Statement.Periods {
			if p.Key() == key {
				period = p
				break
			}
		}

		year := fiscalYearForColumn(period.End, owner.ReportedFiscalYear)

		var duration *int
		if period.Kind == PeriodKindDuration {
			d := period.DurationDays()
			duration = &d
		}

		columns = append(columns, StatementColumn{
			PeriodKey:       key,
			PeriodLabel:     periodLabel(period),
			FiscalYear:      year,
			DurationDays:    duration,
			SourceAccession: owner.Accession,
			IsPrimary:       i == 0,
			FilingDate:      owner.FiledDate,
		})
	}
	return columns
}

// fiscalYearForColumn applies the fiscal-year label guard from spec §4.9
// step 5. fiscalYearOf's Jan 1-7 rollover convention is the authority on a
// period's fiscal year; any filing-reported fiscal_year that disagrees is
// a mislabel from the source feed (the textbook case is the same
// 2023-01-01 period-end claimed as both "FY 2022" and "FY 2023" by
// different filings of the same entity) and is discarded in favor of the
// recomputed value, so two filings of one period-end can never disagree on
// its stitched column label.
func fiscalYearForColumn(periodEnd time.Time, reported int) int {
	return fiscalYearOf(periodEnd)
}

// resolvePeriodOwners decides, for each distinct period-end appearing
// across all filings, which filing's statement "owns" that period's data.
// Per spec §4.9: prefer the filing where the period was reported as
// primary (the most recent column) over one reporting it only as a
// comparative prior-period column; if both report it as the same kind,
// prefer the more complete report, then the more recently filed one.
func (st *Stitcher) resolvePeriodOwners(filings []FilingSummary) map[string]FilingSummary {
	chosen := make(map[string]FilingSummary)
	isPrimary := make(map[string]map[string]bool) // accession -> periodKey -> is most recent column in that filing

	for _, f := range filings {
		if f.Statement == nil || len(f.Statement.Periods) == 0 {
			continue
		}
		sorted := append([]ReportingPeriod(nil), f.Statement.Periods...)
		sort.Slice(sorted, func(i, j int) bool { return sorted[i].End.After(sorted[j].End) })
		primaryKey := sorted[0].Key()
		isPrimary[f.Accession] = map[string]bool{primaryKey: true}

		for _, p := range f.Statement.Periods {
			key := p.Key()
			existing, ok := chosen[key]
			if !ok {
				chosen[key] = f
				continue
			}

			existingIsPrimary := isPrimary[existing.Accession][key]
			candidateIsPrimary := key == primaryKey

			switch {
			case candidateIsPrimary && !existingIsPrimary:
				chosen[key] = f
			case existingIsPrimary && !candidateIsPrimary:
				// keep existing
			case f.Completeness > existing.Completeness:
				chosen[key] = f
			case f.Completeness == existing.Completeness && f.FiledDate.After(existing.FiledDate):
				chosen[key] = f
			}
		}
	}

	return chosen
}

// fiscalYearSane guards against folding in a period that does not line up
// with the entity's usual calendar (a transition-period filing following a
// fiscal year change). A period passes only when its end date aligns with
// the fiscal year-end month (fiscalAlignmentScore above zero: the same
// month, or the first seven days of the next under the 52/53-week
// rollover); with no fiscal year-end set, every period passes. Other
// periods are dropped rather than silently stitched in as a normal year.
func (st *Stitcher) fiscalYearSane(periodKey string, owner FilingSummary) bool {
	for _, p := range owner.Statement.Periods {
		if p.Key() != periodKey {
			continue
		}
		if st.fiscal.Month == 0 {
			return true
		}
		score := fiscalAlignmentScore(p.End, st.fiscal)
		return score > 0
	}
	return true
}

func periodsFromKeys(chosen map[string]FilingSummary, keys []string) []ReportingPeriod {
	var out []ReportingPeriod
	for _, key := range keys {
		f := chosen[key]
		for _, p := range f.Statement.Periods {
			if p.Key() == key {
				out = append(out, p)
				break
			}
		}
	}
	return out
}
