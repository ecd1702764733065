package xbrlstmt

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"
)

// FilingDocuments bundles the raw documents one filing is made of, as
// fetched from wherever the caller gets EDGAR filings from (this package
// has no fetcher of its own; see spec §5's External Interfaces, which keep
// retrieval out of scope).
type FilingDocuments struct {
	Accession    string
	Schema       []byte // taxonomy extension schema (XSD), may be absent (pre-XBRL filing)
	Presentation []byte
	Calculation  []byte
	Definition   []byte
	Labels       []byte
	Instance     []byte // standalone instance XML, or inline-XBRL-in-HTML
	FiledDate    string // "2006-01-02"

	// Industry is the filer's industry classification (e.g. "Diversified
	// Banks"), supplied by the caller alongside the rest of the fiscal
	// metadata record per spec §6 External Interfaces. It is not derivable
	// from the instance itself; it gates which industry mapping rules the
	// standardizer activates (spec §4.7).
	Industry string
}

// ParsedFiling is the fully loaded, queryable result of parsing one
// filing's documents: its concept registry, relationship graphs, and fact
// store, plus any warnings accumulated along the way.
type ParsedFiling struct {
	Accession    string
	Registry     *ConceptRegistry
	Presentation *RelationshipGraph
	Calculation  *RelationshipGraph
	Definition   *RelationshipGraph
	Labels       *LabelGraph
	Store        *FactStore
	Metadata     FilingMetadata
	Result       *ParseResult
}

// FilingMetadata is the document- and entity-level information carried as
// "dei:" (Document and Entity Information) facts rather than in the
// presentation tree: company name, CIK, form type, and fiscal period focus.
type FilingMetadata struct {
	CompanyName  string
	CIK          string
	FormType     string
	FiscalPeriod string // "FY", "Q1", "Q2", "Q3", "Q4"
	FiscalYear   int    // from dei:DocumentFiscalYearFocus, 0 if absent or unparseable
	FiscalYearEnd time.Time
	Industry     string // caller-supplied filer industry classification; see FilingDocuments.Industry
}

// extractFilingMetadata reads the dei: facts out of a fact store's facts
// and takes the fiscal year-end from the end date of the most recent
// annual-length (350-380 day) duration context present; it stays zero when
// there is none.
func extractFilingMetadata(store *FactStore, fiscal FiscalYearEnd) FilingMetadata {
	var meta FilingMetadata

	for _, f := range store.facts {
		switch f.Concept {
		case "dei:EntityRegistrantName":
			meta.CompanyName = f.Value
		case "dei:EntityCentralIndexKey":
			meta.CIK = f.Value
		case "dei:DocumentType":
			meta.FormType = f.Value
		case "dei:DocumentFiscalPeriodFocus":
			meta.FiscalPeriod = f.Value
		case "dei:DocumentFiscalYearFocus":
			if year, err := strconv.Atoi(f.Value); err == nil {
				meta.FiscalYear = year
			}
		}
	}

	selector := NewPeriodSelector(store, fiscal)
	if periods, err := selector.Select("annual"); err == nil && len(periods) > 0 {
		meta.FiscalYearEnd = periods[0].End
	}

	return meta
}

// Parse loads one filing's documents end to end: schema, linkbases,
// instance (standalone or inline), wiring the parsed pieces into a
// queryable ParsedFiling. A missing schema is not fatal: the concept
// registry is then left empty (no concept is declared from the instance's
// facts) and the load goes on. An empty instance is fatal instead, reported
// as a PreXBRLFilingError (older EDGAR filings predate XBRL tagging
// entirely).
func Parse(docs FilingDocuments) *ParsedFiling {
	pf := &ParsedFiling{Accession: docs.Accession, Registry: NewConceptRegistry()}
	pr := newParseResult()
	pf.Result = pr

	if len(docs.Instance) == 0 {
		pr.fatal(&PreXBRLFilingError{Accession: docs.Accession})
		return pf
	}

	if len(docs.Schema) > 0 {
		schemaResult := LoadSchema(docs.Schema, "", pf.Registry)
		pr.merge(schemaResult)
		if !schemaResult.OK() {
			return pf
		}
	}

	if len(docs.Presentation) > 0 {
		graph, r := LoadPresentationLinkbase(docs.Presentation)
		pr.merge(r)
		pf.Presentation = graph
	}
	if len(docs.Calculation) > 0 {
		graph, r := LoadCalculationLinkbase(docs.Calculation)
		pr.merge(r)
		pf.Calculation = graph
	}
	if len(docs.Definition) > 0 {
		graph, r := LoadDefinitionLinkbase(docs.Definition)
		pr.merge(r)
		pf.Definition = graph
	}
	if len(docs.Labels) > 0 {
		labels, r := LoadLabelLinkbase(docs.Labels)
		pr.merge(r)
		pf.Labels = labels
	}

	inst, instResult := ParseXBRLAuto(docs.Instance)
	pr.merge(instResult)
	if !instResult.OK() || inst == nil {
		return pf
	}

	pf.Store = NewFactStore(inst.Facts, pf.Labels)
	pf.Metadata = extractFilingMetadata(pf.Store, FiscalYearEnd{})
	pf.Metadata.Industry = docs.Industry

	// Apply calculation weight reconciliation before handing the store to
	// callers, per spec §4.5: elements reached via a negative-weight arc
	// (e.g. IncreaseDecreaseInInventories flowing into a cash-flow subtotal)
	// must already carry the flipped sign by the time a statement is built
	// or queried, not only when a caller happens to run the reconciler
	// explicitly.
	if pf.Calculation != nil {
		rec := NewReconciler(pf.Calculation)
		for roleURI := range pf.Calculation.Roles {
			rec.ReconcileRole(pf.Store, roleURI)
		}
	}

	return pf
}

// ParseFilingsConcurrently parses multiple filings in parallel, bounded by
// concurrency, and returns results in the same order as docs. A failure in
// one filing (a fatal ParseResult) does not cancel the others: each
// ParsedFiling carries its own Result, and the caller decides how to treat
// partial failures across a batch.
func ParseFilingsConcurrently(ctx context.Context, docs []FilingDocuments, concurrency int) ([]*ParsedFiling, error) {
	if concurrency <= 0 {
		concurrency = 4
	}

	results := make([]*ParsedFiling, len(docs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, d := range docs {
		i, d := i, d
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			results[i] = Parse(d)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, fmt.Errorf("parsing filings concurrently: %w", err)
	}

	return results, nil
}
