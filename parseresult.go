package xbrlstmt

import (
	"github.com/hashicorp/go-multierror"
)

// ParseResult carries the non-fatal warnings and, if loading could not
// continue, the fatal error accumulated while loading a filing. Per spec
// §7, warnings never abort a load; a fatal error does.
type ParseResult struct {
	Warnings *multierror.Error
	Fatal    error
}

func newParseResult() *ParseResult {
	return &ParseResult{Warnings: &multierror.Error{}}
}

func (pr *ParseResult) warn(err error) {
	pr.Warnings = multierror.Append(pr.Warnings, err)
}

func (pr *ParseResult) fatal(err error) {
	pr.Fatal = err
}

// OK reports whether loading completed without a fatal error. Warnings may
// still be present.
func (pr *ParseResult) OK() bool { return pr.Fatal == nil }

// merge absorbs another ParseResult's warnings into this one; a fatal error
// on either side wins (the receiver's, if both are set).
func (pr *ParseResult) merge(other *ParseResult) {
	if other == nil {
		return
	}
	if other.Warnings != nil {
		for _, w := range other.Warnings.Errors {
			pr.warn(w)
		}
	}
	if pr.Fatal == nil {
		pr.Fatal = other.Fatal
	}
}
