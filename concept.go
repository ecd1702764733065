package xbrlstmt

import "strings"

// DataType is the XBRL data type of a concept's values.
type DataType string

const (
	DataTypeMonetary  DataType = "monetary"
	DataTypeShares    DataType = "shares"
	DataTypePerShare  DataType = "perShare"
	DataTypeString    DataType = "string"
	DataTypeDecimal   DataType = "decimal"
	DataTypeBoolean   DataType = "boolean"
	DataTypeDate      DataType = "date"
	DataTypeUnknown   DataType = ""
)

// PeriodType constrains which kind of context a concept's facts may use.
type PeriodType string

const (
	PeriodTypeInstant  PeriodType = "instant"
	PeriodTypeDuration PeriodType = "duration"
)

// Balance is the natural debit/credit side of a monetary concept, used by the
// calculation linkbase to decide how a child rolls into a parent subtotal.
type Balance string

const (
	BalanceDebit  Balance = "debit"
	BalanceCredit Balance = "credit"
	BalanceNone   Balance = ""
)

// Concept is a taxonomy element declaration: a namespaced qualified name plus
// the attributes the rest of the engine needs to interpret its facts.
type Concept struct {
	ID         string // normalized form, e.g. "us-gaap:Revenues"
	Namespace  string // e.g. "http://fasb.org/us-gaap/2023"
	Prefix     string // e.g. "us-gaap"
	LocalName  string // e.g. "Revenues"
	DataType   DataType
	PeriodType PeriodType
	Balance    Balance
	Abstract   bool
	Nillable   bool
}

// ConceptRegistry is the set of concept declarations loaded from a taxonomy
// schema. It is owned by a ParsedFiling and is immutable once built.
type ConceptRegistry struct {
	byID map[string]*Concept
}

// NewConceptRegistry returns an empty, mutable-during-load registry.
func NewConceptRegistry() *ConceptRegistry {
	return &ConceptRegistry{byID: make(map[string]*Concept)}
}

// Declare registers a concept declaration. A second declaration of the same
// normalized ID with differing attributes is a SchemaConflict; an identical
// redeclaration (same taxonomy re-imported) is tolerated.
func (r *ConceptRegistry) Declare(c Concept) error {
	id := NormalizeConceptID(c.ID)
	c.ID = id

	if existing, ok := r.byID[id]; ok {
		if *existing == c {
			return nil
		}
		return &SchemaConflictError{ConceptID: id}
	}

	r.byID[id] = &c
	return nil
}

// Lookup returns the concept for a normalized or unnormalized id.
func (r *ConceptRegistry) Lookup(id string) (*Concept, bool) {
	c, ok := r.byID[NormalizeConceptID(id)]
	return c, ok
}

// Len returns the number of declared concepts.
func (r *ConceptRegistry) Len() int {
	return len(r.byID)
}

// All returns every declared concept, unordered.
func (r *ConceptRegistry) All() []*Concept {
	out := make([]*Concept, 0, len(r.byID))
	for _, c := range r.byID {
		out = append(out, c)
	}
	return out
}

// NormalizeConceptID puts a taxonomy concept identifier into canonical form:
//   - "prefix_name" and "prefix:name" are treated as equivalent, both become
//     "prefix:name"
//   - the "us_gaap"/"us-gaap" and "ifrs_full"/"ifrs-full" prefix variants are
//     folded to "us-gaap" and "ifrs-full"
//
// NormalizeConceptID is a fixed point: NormalizeConceptID(NormalizeConceptID(x)) == NormalizeConceptID(x).
func NormalizeConceptID(id string) string {
	id = strings.TrimSpace(id)
	if id == "" {
		return id
	}

	prefix, local, ok := splitConceptID(id)
	if !ok {
		return id
	}

	prefix = normalizePrefix(prefix)
	return prefix + ":" + local
}

// splitConceptID splits a concept id into prefix and local name. A ':'
// separator wins wherever it appears; otherwise the underscore spellings of
// the two-part prefixes "us_gaap" and "ifrs_full" are taken whole, and any
// other id is split on its first '_'. Local names can themselves
// legitimately contain underscores (rare, but the taxonomy allows it), so
// only one separator is ever consumed, matching the "prefix_restOfName" /
// "prefix:restOfName" convention.
func splitConceptID(id string) (prefix, local string, ok bool) {
	if i := strings.IndexByte(id, ':'); i >= 0 {
		return id[:i], id[i+1:], true
	}
	lower := strings.ToLower(id)
	for _, p := range []string{"us_gaap_", "ifrs_full_"} {
		if strings.HasPrefix(lower, p) {
			return id[:len(p)-1], id[len(p):], true
		}
	}
	if i := strings.IndexByte(id, '_'); i >= 0 {
		return id[:i], id[i+1:], true
	}
	return "", "", false
}

func normalizePrefix(prefix string) string {
	switch strings.ToLower(strings.ReplaceAll(prefix, "_", "-")) {
	case "us-gaap":
		return "us-gaap"
	case "ifrs-full":
		return "ifrs-full"
	default:
		return prefix
	}
}
