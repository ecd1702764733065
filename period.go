package xbrlstmt

import (
	"fmt"
	"sort"
	"time"
)

// PeriodView is a named preset for selecting which reporting periods a
// statement should display, independent of any one filing's actual period
// set (the selector below maps a view onto whatever periods a filing has).
type PeriodView struct {
	Name          string
	DurationKind  string // "annual", "quarterly", "instant", ""
	MaxPeriods    int
	RequireFiscal bool // restrict to periods whose duration aligns with the entity's fiscal year
}

var periodViews = map[string]PeriodView{
	"annual":           {Name: "annual", DurationKind: "annual", MaxPeriods: 3, RequireFiscal: true},
	"quarterly":        {Name: "quarterly", DurationKind: "quarterly", MaxPeriods: 3, RequireFiscal: false},
	"latest-instant":   {Name: "latest-instant", DurationKind: "instant", MaxPeriods: 2, RequireFiscal: false},
	"trailing-twelve":  {Name: "trailing-twelve", DurationKind: "annual", MaxPeriods: 1, RequireFiscal: false},
}

// annualDurationRange is the day-count window a duration must fall in to be
// considered a fiscal year, wide enough for 52/53-week fiscal calendars.
const (
	annualDurationMinDays = 350
	annualDurationMaxDays = 380
)

// FiscalYearEnd describes an entity's fiscal year-end month/day, used to
// score how well a candidate period aligns with the entity's normal
// calendar (per spec §4.6's fiscal-alignment scoring).
type FiscalYearEnd struct {
	Month time.Month
	Day   int
}

// PeriodSelector chooses, from the contexts present in a filing, the set of
// reporting periods to display for a given statement and period view.
type PeriodSelector struct {
	periods []ReportingPeriod
	fiscal  FiscalYearEnd
}

// NewPeriodSelector builds a selector over the distinct periods found in
// store, deduplicated by period key.
func NewPeriodSelector(store *FactStore, fiscal FiscalYearEnd) *PeriodSelector {
	seen := make(map[string]bool)
	var periods []ReportingPeriod
	for i := range store.facts {
		ctx := store.facts[i].Context
		if ctx == nil {
			continue
		}
		key := ctx.Period.Key()
		if seen[key] {
			continue
		}
		seen[key] = true
		periods = append(periods, ctx.Period)
	}
	return &PeriodSelector{periods: periods, fiscal: fiscal}
}

// Select returns the periods matching view, ordered most recent first and
// capped at view.MaxPeriods. Per spec §4.6, if requiring fiscal alignment
// would produce an empty result while un-aligned duration periods exist,
// the alignment requirement is relaxed rather than returning nothing.
func (s *PeriodSelector) Select(viewName string) ([]ReportingPeriod, error) {
	view, ok := periodViews[viewName]
	if !ok {
		view = periodViews["annual"]
	}

	candidates := s.filterByDurationKind(s.periods, view.DurationKind)
	if len(candidates) == 0 {
		return nil, &NoPeriodsSelectableError{StatementType: StatementType(viewName)}
	}

	if view.RequireFiscal {
		scored := s.scoreByFiscalAlignment(candidates)
		aligned := make([]ReportingPeriod, 0, len(scored))
		for _, sp := range scored {
			if sp.score >= 75 {
				aligned = append(aligned, sp.period)
			}
		}
		if len(aligned) > 0 {
			candidates = aligned
		}
		// else: fall through and use every duration-bucketed candidate
		// rather than returning an empty set.
	}

	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].End.After(candidates[j].End)
	})

	if view.MaxPeriods > 0 && len(candidates) > view.MaxPeriods {
		candidates = candidates[:view.MaxPeriods]
	}

	return candidates, nil
}

func (s *PeriodSelector) filterByDurationKind(periods []ReportingPeriod, kind string) []ReportingPeriod {
	var out []ReportingPeriod
	for _, p := range periods {
		if matchesDurationKind(p, kind) {
			out = append(out, p)
		}
	}
	return out
}

// matchesDurationKind reports whether a period belongs to a named duration
// bucket. The "quarterly" bucket takes every duration unchanged (per spec
// §4.6: "take up to three most recent durations unchanged"), so a 10-Q's
// single-quarter and year-to-date durations both pass through as separate
// candidate columns; only "annual" is bucketed by day-count, since a fiscal
// year's length is otherwise indistinguishable from an arbitrary duration.
func matchesDurationKind(p ReportingPeriod, kind string) bool {
	switch kind {
	case "instant":
		return p.Kind == PeriodKindInstant
	case "annual":
		if p.Kind != PeriodKindDuration {
			return false
		}
		d := p.DurationDays()
		return d >= annualDurationMinDays && d <= annualDurationMaxDays
	case "quarterly":
		return p.Kind == PeriodKindDuration
	default:
		return true
	}
}

type scoredPeriod struct {
	period ReportingPeriod
	score  int
}

// scoreByFiscalAlignment scores each candidate 100/75/50/0 by how closely
// its end date matches the entity's fiscal year-end, per spec §4.6:
//   - 100: exact month and day match
//   - 75:  same month, day within 7 days (covers 52/53-week calendars that
//          land in the first week of the following month, the Jan 1-7
//          convention)
//   - 50:  same month only
//   - 0:   no alignment
func (s *PeriodSelector) scoreByFiscalAlignment(periods []ReportingPeriod) []scoredPeriod {
	out := make([]scoredPeriod, 0, len(periods))
	for _, p := range periods {
		out = append(out, scoredPeriod{period: p, score: fiscalAlignmentScore(p.End, s.fiscal)})
	}
	return out
}

func fiscalAlignmentScore(end time.Time, fiscal FiscalYearEnd) int {
	if fiscal.Month == 0 {
		return 50 // no fiscal metadata: treat every period as plausibly aligned
	}

	month, day := end.Month(), end.Day()

	if month == fiscal.Month && day == fiscal.Day {
		return 100
	}

	// 52/53-week fiscal years sometimes roll the period end into the first
	// week of the following month (the "Jan 1-7" convention).
	nextMonth := fiscal.Month + 1
	if nextMonth > 12 {
		nextMonth = 1
	}
	if month == nextMonth && day <= 7 {
		return 75
	}
	if month == fiscal.Month && abs(day-fiscal.Day) <= 7 {
		return 75
	}

	if month == fiscal.Month {
		return 50
	}

	return 0
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// fiscalYearOf derives the calendar year a period's fiscal year label should
// carry, applying the Jan 1-7 -> prior-year convention 52/53-week fiscal
// calendars use when their year-end rolls into the first week of January.
func fiscalYearOf(end time.Time) int {
	year := end.Year()
	if end.Month() == time.January && end.Day() <= 7 {
		year--
	}
	return year
}

// fiscalYearLabel formats a period end date as "FY 2023", used for columns
// and for stitch.go's fiscal-year label guard (spec §4.9 step 5).
func fiscalYearLabel(end time.Time) string {
	return fmt.Sprintf("FY %d", fiscalYearOf(end))
}

// periodLabel renders a human-facing column header for a period: a fiscal
// year label for annual-bucketed durations, the raw date range for other
// durations (quarters, YTD stubs), and an as-of date for instants.
func periodLabel(p ReportingPeriod) string {
	switch {
	case p.Kind == PeriodKindInstant:
		return "As of " + p.End.Format("2006-01-02")
	case matchesDurationKind(p, "annual"):
		return fiscalYearLabel(p.End)
	default:
		return p.Start.Format("2006-01-02") + " to " + p.End.Format("2006-01-02")
	}
}
