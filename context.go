package xbrlstmt

import (
	"fmt"
	"time"
)

// PeriodKind distinguishes an instant context from a duration context.
type PeriodKind string

const (
	PeriodKindInstant  PeriodKind = "instant"
	PeriodKindDuration PeriodKind = "duration"
)

// ReportingPeriod is the instance-derived period of a context: either a single
// instant date or a start/end duration. Its length in days is computed on
// demand by DurationDays; fiscal alignment is scored by the period selector
// and is not stored on the period.
type ReportingPeriod struct {
	Kind  PeriodKind
	Start time.Time // zero unless Kind == duration
	End   time.Time // the instant, or the duration end
}

// Key returns the stable period key used to index the fact store:
// "instant_YYYY-MM-DD" or "duration_START_END".
func (p ReportingPeriod) Key() string {
	if p.Kind == PeriodKindInstant {
		return "instant_" + p.End.Format("2006-01-02")
	}
	return fmt.Sprintf("duration_%s_%s", p.Start.Format("2006-01-02"), p.End.Format("2006-01-02"))
}

// DurationDays returns the number of whole days between Start and End. It is
// zero for instant periods.
func (p ReportingPeriod) DurationDays() int {
	if p.Kind != PeriodKindDuration {
		return 0
	}
	return int(p.End.Sub(p.Start).Hours() / 24)
}

// DimensionValue is one (axis, member) pair of a context's dimensional
// segment.
type DimensionValue struct {
	Axis   string // normalized concept id of the axis
	Member string // normalized concept id of the member
}

// Segment is the ordered set of dimension values qualifying a context. An
// empty segment is the default/total context.
type Segment []DimensionValue

// IsDefault reports whether this is the empty/default segment.
func (s Segment) IsDefault() bool { return len(s) == 0 }

// Member returns the member concept for an axis, if the segment constrains
// that axis.
func (s Segment) Member(axis string) (string, bool) {
	axis = NormalizeConceptID(axis)
	for _, d := range s {
		if d.Axis == axis {
			return d.Member, true
		}
	}
	return "", false
}

// Context is the (entity, period, segment) triple that situates a fact.
type Context struct {
	ID       string
	Entity   string
	Period   ReportingPeriod
	Segment  Segment
	parseErr error // set if the raw period could not be parsed
}

// Unit is an XBRL measurement unit. Units are opaque strings at the fact
// level; two facts share a unit only on exact string match.
type Unit struct {
	ID      string
	Measure string
	// NumeratorMeasure and DenominatorMeasure hold the measures of a ratio
	// unit (e.g. USD-per-share). Both are empty unless the unit is a divide
	// unit.
	NumeratorMeasure   string
	DenominatorMeasure string
}

// rawContext and rawPeriod mirror the literal XBRL instance XML shape; they
// exist only to drive unmarshalling before being resolved into Context.
type rawContext struct {
	ID     string `xml:"id,attr"`
	Entity struct {
		Identifier string `xml:"identifier"`
		Segment    *struct {
			ExplicitMembers []rawExplicitMember `xml:"explicitMember"`
		} `xml:"segment"`
	} `xml:"entity"`
	Period struct {
		Instant   string `xml:"instant"`
		StartDate string `xml:"startDate"`
		EndDate   string `xml:"endDate"`
	} `xml:"period"`
}

type rawExplicitMember struct {
	Dimension string `xml:"dimension,attr"`
	Value     string `xml:",chardata"`
}

type rawUnit struct {
	ID      string `xml:"id,attr"`
	Measure string `xml:"measure"`
	Divide  *struct {
		Numerator   string `xml:"unitNumerator>measure"`
		Denominator string `xml:"unitDenominator>measure"`
	} `xml:"divide"`
}

func resolveContext(raw rawContext) Context {
	ctx := Context{
		ID:     raw.ID,
		Entity: raw.Entity.Identifier,
	}

	if raw.Entity.Segment != nil {
		for _, m := range raw.Entity.Segment.ExplicitMembers {
			ctx.Segment = append(ctx.Segment, DimensionValue{
				Axis:   NormalizeConceptID(m.Dimension),
				Member: NormalizeConceptID(m.Value),
			})
		}
	}

	switch {
	case raw.Period.Instant != "":
		t, err := time.Parse("2006-01-02", raw.Period.Instant)
		if err != nil {
			ctx.parseErr = fmt.Errorf("bad instant %q: %w", raw.Period.Instant, err)
			return ctx
		}
		ctx.Period = ReportingPeriod{Kind: PeriodKindInstant, End: t}
	case raw.Period.StartDate != "" && raw.Period.EndDate != "":
		start, err1 := time.Parse("2006-01-02", raw.Period.StartDate)
		end, err2 := time.Parse("2006-01-02", raw.Period.EndDate)
		if err1 != nil || err2 != nil {
			ctx.parseErr = fmt.Errorf("bad duration %q..%q", raw.Period.StartDate, raw.Period.EndDate)
			return ctx
		}
		ctx.Period = ReportingPeriod{Kind: PeriodKindDuration, Start: start, End: end}
	default:
		ctx.parseErr = fmt.Errorf("context %q has neither instant nor duration period", raw.ID)
	}

	return ctx
}

func resolveUnit(raw rawUnit) Unit {
	u := Unit{ID: raw.ID, Measure: raw.Measure}
	if raw.Divide != nil {
		u.NumeratorMeasure = raw.Divide.Numerator
		u.DenominatorMeasure = raw.Divide.Denominator
	}
	return u
}
