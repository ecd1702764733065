package xbrlstmt

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Fact is a single XBRL fact: a value tagged with a concept, a context and,
// for numeric facts, a unit.
type Fact struct {
	Concept      string // normalized concept id
	Value        string // raw string value, exactly as reported, for audit
	ContextRef   string
	UnitRef      string
	Decimals     *int // nil when absent/"INF"; precision hint only, never used to scale
	Scale        *int // inline-XBRL "scale" attribute; raw digits * 10^Scale is the true value
	Sign         string // inline-XBRL "sign" attribute ("-" or "")
	FootnoteRefs []string

	// Derived fields, populated while resolving the parsed instance.
	Context      *Context
	Unit         *Unit
	NumericValue *decimal.Decimal // nil for non-numeric facts or unparseable values
}

// Signature is the (concept, context) pair used to deduplicate facts across
// overlapping query results.
func (f *Fact) Signature() string {
	return f.Concept + "|" + f.ContextRef
}

// IsNumeric reports whether the fact carries a parsed numeric value.
func (f *Fact) IsNumeric() bool { return f.NumericValue != nil }

// IsInstant reports whether the fact's context is an instant period.
func (f *Fact) IsInstant() bool {
	return f.Context != nil && f.Context.Period.Kind == PeriodKindInstant
}

// IsDuration reports whether the fact's context is a duration period.
func (f *Fact) IsDuration() bool {
	return f.Context != nil && f.Context.Period.Kind == PeriodKindDuration
}

// Float64 returns the numeric value as a float64, for callers that don't need
// arbitrary precision.
func (f *Fact) Float64() (float64, error) {
	if f.NumericValue == nil {
		return 0, fmt.Errorf("fact %s has no numeric value", f.Concept)
	}
	v, _ := f.NumericValue.Float64()
	return v, nil
}

// Decimal returns the arbitrary-precision numeric value.
func (f *Fact) Decimal() (decimal.Decimal, error) {
	if f.NumericValue == nil {
		return decimal.Zero, fmt.Errorf("fact %s has no numeric value", f.Concept)
	}
	return *f.NumericValue, nil
}

// PeriodLabel returns a human-readable period label for display.
func (f *Fact) PeriodLabel() string {
	if f.Context == nil {
		return "Unknown"
	}
	p := f.Context.Period
	if p.Kind == PeriodKindInstant {
		return p.End.Format("2006-01-02")
	}
	return fmt.Sprintf("%s to %s", p.Start.Format("2006-01-02"), p.End.Format("2006-01-02"))
}

// negateValue flips the sign of the fact's numeric value and synchronizes the
// string form, used by the calculation weight reconciler. It is idempotent
// only in the sense that calling it twice restores the original sign; callers
// (the reconciler) are responsible for calling it at most once per fact.
func (f *Fact) negateValue() {
	if f.NumericValue == nil {
		return
	}
	negated := f.NumericValue.Neg()
	f.NumericValue = &negated
	f.Value = negateValueString(f.Value)
}

func negateValueString(s string) string {
	trimmed := strings.TrimSpace(s)
	if strings.HasPrefix(trimmed, "-") {
		return strings.TrimPrefix(trimmed, "-")
	}
	if trimmed == "" {
		return s
	}
	return "-" + s
}

// decimalFromFloat converts a float64 (calculation-arc weights are always
// either 1 or -1 in practice, occasionally a fraction for allocation roles)
// into a decimal.Decimal for arithmetic alongside fact values.
func decimalFromFloat(f float64) decimal.Decimal {
	return decimal.NewFromFloat(f)
}

// parseFactValue parses a raw XBRL fact value into a decimal.
//
// The decimals attribute is a rounding-precision hint and never scales the
// value: a standalone-instance fact's text already is the full reported
// number. Inline XBRL's scale attribute is different: it means the displayed
// digits must be multiplied by 10^scale to reach the true value (e.g.
// scale="3" on "1,234" means 1,234,000). A sign of "-" negates a value whose
// text omits the minus (inline XBRL's convention for parenthesized negatives).
func parseFactValue(raw string, scale *int, sign string) (decimal.Decimal, error) {
	cleaned := strings.ReplaceAll(raw, ",", "")
	cleaned = strings.TrimSpace(cleaned)

	if cleaned == "" || cleaned == "-" || cleaned == "—" {
		return decimal.Zero, fmt.Errorf("empty or invalid numeric value %q", raw)
	}

	val, err := decimal.NewFromString(cleaned)
	if err != nil {
		// Some SEC facts round-trip through scientific notation or trailing
		// unit markers; fall back to strconv for a second opinion before
		// giving up.
		f, ferr := strconv.ParseFloat(cleaned, 64)
		if ferr != nil {
			return decimal.Zero, err
		}
		val = decimal.NewFromFloat(f)
	}

	if scale != nil && *scale != 0 {
		val = val.Shift(int32(*scale))
	}

	if sign == "-" && val.IsPositive() {
		val = val.Neg()
	}

	return val, nil
}
