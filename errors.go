package xbrlstmt

import "fmt"

// SchemaConflictError is returned when the same concept id is declared twice
// with incompatible attributes. It is fatal for the filing being loaded.
type SchemaConflictError struct {
	ConceptID string
}

func (e *SchemaConflictError) Error() string {
	return fmt.Sprintf("schema conflict: concept %q redeclared with different attributes", e.ConceptID)
}

// DanglingArcWarning records an arc whose source or target concept could not
// be resolved. The arc is dropped; loading continues.
type DanglingArcWarning struct {
	Role string
	From string
	To   string
}

func (e *DanglingArcWarning) Error() string {
	return fmt.Sprintf("dangling arc in role %q: %s -> %s not resolvable", e.Role, e.From, e.To)
}

// LinkbaseCycleWarning records a cycle broken while building a presentation
// or calculation tree.
type LinkbaseCycleWarning struct {
	Role   string
	Repeat string
}

func (e *LinkbaseCycleWarning) Error() string {
	return fmt.Sprintf("cycle detected in role %q, broken at %q", e.Role, e.Repeat)
}

// FactParseErrorWarning records a fact whose value could not be parsed. The
// fact is skipped; parsing continues.
type FactParseErrorWarning struct {
	Concept string
	Value   string
	Cause   error
}

func (e *FactParseErrorWarning) Error() string {
	return fmt.Sprintf("fact parse error: concept %q value %q: %v", e.Concept, e.Value, e.Cause)
}

func (e *FactParseErrorWarning) Unwrap() error { return e.Cause }

// UnknownStatementTypeWarning records a presentation role that could not be
// classified into a known statement type. It is exposed to callers as Other.
type UnknownStatementTypeWarning struct {
	RoleURI string
}

func (e *UnknownStatementTypeWarning) Error() string {
	return fmt.Sprintf("role %q could not be classified, exposed as Other", e.RoleURI)
}

// NoPeriodsSelectableError is never returned as a fatal error: the period
// selector returns an empty column list instead. It exists so callers that
// want to distinguish "no periods" from "selector bug" can do so via errors.As
// against a value attached as statement metadata.
type NoPeriodsSelectableError struct {
	StatementType StatementType
}

func (e *NoPeriodsSelectableError) Error() string {
	return fmt.Sprintf("no periods selectable for statement type %q", e.StatementType)
}

// MappingFileInvalidError is fatal at startup: a malformed mapping JSON file
// must not be silently ignored.
type MappingFileInvalidError struct {
	Path  string
	Cause error
}

func (e *MappingFileInvalidError) Error() string {
	return fmt.Sprintf("invalid mapping file %q: %v", e.Path, e.Cause)
}

func (e *MappingFileInvalidError) Unwrap() error { return e.Cause }

// StitchConflictWarning records a period-end with incompatible primary
// claims across filings, resolved by the stitcher's tiebreak rules.
type StitchConflictWarning struct {
	PeriodEnd string
	Resolved  string
}

func (e *StitchConflictWarning) Error() string {
	return fmt.Sprintf("stitch conflict at period end %q, resolved in favor of accession %q", e.PeriodEnd, e.Resolved)
}

// PreXBRLFilingError marks a filing with no structured XBRL data. The
// stitcher silently skips such filings; it is exported so Stitch's caller can
// recognize why a filing contributed nothing.
type PreXBRLFilingError struct {
	Accession string
}

func (e *PreXBRLFilingError) Error() string {
	return fmt.Sprintf("filing %q has no structured XBRL data, skipped", e.Accession)
}
