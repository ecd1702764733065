package xbrlstmt

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"golang.org/x/net/html"
)

// ParseInlineXBRL parses an inline XBRL (iXBRL) document: XBRL facts and
// resources embedded in HTML via the "ix:" namespace. It is walked with
// golang.org/x/net/html rather than encoding/xml because the surrounding
// document is HTML, not well-formed XML (unclosed <br>, optional quoting,
// etc. are common in real SEC filings).
func ParseInlineXBRL(data []byte) (*Instance, *ParseResult) {
	pr := newParseResult()
	data = normalizeFilingText(data)

	doc, err := html.Parse(strings.NewReader(string(data)))
	if err != nil {
		pr.fatal(fmt.Errorf("failed to parse inline XBRL HTML: %w", err))
		return nil, pr
	}

	inst := &Instance{}

	for _, n := range findDescendants(doc, "xbrli:context") {
		ctx := inlineContext(n)
		if ctx.parseErr != nil {
			pr.warn(&FactParseErrorWarning{Concept: "(context)", Value: ctx.ID, Cause: ctx.parseErr})
		}
		inst.Contexts = append(inst.Contexts, ctx)
	}
	for _, n := range findDescendants(doc, "xbrli:unit") {
		inst.Units = append(inst.Units, inlineUnit(n))
	}

	for _, n := range findDescendants(doc, "ix:nonfraction") {
		if f, ok := inlineNumericFact(n); ok {
			inst.Facts = append(inst.Facts, f)
		}
	}
	for _, n := range findDescendants(doc, "ix:nonnumeric") {
		if f, ok := inlineNonNumericFact(n); ok {
			inst.Facts = append(inst.Facts, f)
		}
	}

	resolveInstanceFacts(inst, pr)

	return inst, pr
}

// DetectXBRLType reports whether data looks like inline XBRL-in-HTML,
// standalone XBRL, or neither.
func DetectXBRLType(data []byte) string {
	content := string(data)

	switch {
	case strings.Contains(content, "xmlns:ix=") ||
		strings.Contains(content, "<ix:") ||
		strings.Contains(content, "inlineXBRL"):
		return "inline"
	case strings.Contains(content, "<xbrl") ||
		strings.Contains(content, "xmlns:xbrli="):
		return "standalone"
	default:
		return "unknown"
	}
}

// ParseXBRLAuto detects and parses either inline or standalone XBRL.
func ParseXBRLAuto(data []byte) (*Instance, *ParseResult) {
	switch DetectXBRLType(data) {
	case "inline":
		return ParseInlineXBRL(data)
	case "standalone":
		return ParseInstance(data)
	default:
		pr := newParseResult()
		pr.fatal(fmt.Errorf("unable to detect XBRL type"))
		return nil, pr
	}
}

func inlineContext(n *html.Node) Context {
	ctx := Context{ID: htmlAttr(n, "id")}

	if entity := firstDescendant(n, "xbrli:entity"); entity != nil {
		if id := firstDescendant(entity, "xbrli:identifier"); id != nil {
			ctx.Entity = strings.TrimSpace(textContent(id))
		}
		if seg := firstDescendant(entity, "xbrli:segment"); seg != nil {
			for _, m := range findDescendants(seg, "xbrldi:explicitmember") {
				ctx.Segment = append(ctx.Segment, DimensionValue{
					Axis:   NormalizeConceptID(htmlAttr(m, "dimension")),
					Member: NormalizeConceptID(strings.TrimSpace(textContent(m))),
				})
			}
		}
	}

	period := firstDescendant(n, "xbrli:period")
	if period == nil {
		ctx.parseErr = fmt.Errorf("context %q has no period", ctx.ID)
		return ctx
	}

	if instant := firstDescendant(period, "xbrli:instant"); instant != nil {
		t, err := time.Parse("2006-01-02", strings.TrimSpace(textContent(instant)))
		if err != nil {
			ctx.parseErr = fmt.Errorf("context %q has unparseable instant: %w", ctx.ID, err)
			return ctx
		}
		ctx.Period = ReportingPeriod{Kind: PeriodKindInstant, End: t}
		return ctx
	}

	start := firstDescendant(period, "xbrli:startdate")
	end := firstDescendant(period, "xbrli:enddate")
	if start == nil || end == nil {
		ctx.parseErr = fmt.Errorf("context %q period has neither instant nor start/end", ctx.ID)
		return ctx
	}
	startT, err1 := time.Parse("2006-01-02", strings.TrimSpace(textContent(start)))
	endT, err2 := time.Parse("2006-01-02", strings.TrimSpace(textContent(end)))
	if err1 != nil || err2 != nil {
		ctx.parseErr = fmt.Errorf("context %q has unparseable duration dates", ctx.ID)
		return ctx
	}
	ctx.Period = ReportingPeriod{Kind: PeriodKindDuration, Start: startT, End: endT}
	return ctx
}

func inlineUnit(n *html.Node) Unit {
	u := Unit{ID: htmlAttr(n, "id")}

	if divide := firstDescendant(n, "xbrli:divide"); divide != nil {
		if num := firstDescendant(divide, "xbrli:unitnumerator"); num != nil {
			if m := firstDescendant(num, "xbrli:measure"); m != nil {
				u.NumeratorMeasure = strings.TrimSpace(textContent(m))
			}
		}
		if den := firstDescendant(divide, "xbrli:unitdenominator"); den != nil {
			if m := firstDescendant(den, "xbrli:measure"); m != nil {
				u.DenominatorMeasure = strings.TrimSpace(textContent(m))
			}
		}
		return u
	}

	if m := firstDescendant(n, "xbrli:measure"); m != nil {
		u.Measure = strings.TrimSpace(textContent(m))
	}
	return u
}

func inlineNumericFact(n *html.Node) (Fact, bool) {
	contextRef := htmlAttr(n, "contextref")
	name := htmlAttr(n, "name")
	if contextRef == "" || name == "" {
		return Fact{}, false
	}

	f := Fact{
		Concept:    NormalizeConceptID(name),
		Value:      strings.TrimSpace(textContent(n)),
		ContextRef: contextRef,
		UnitRef:    htmlAttr(n, "unitref"),
		Sign:       htmlAttr(n, "sign"),
	}

	if ds := htmlAttr(n, "decimals"); ds != "" && ds != "INF" {
		if d, err := strconv.Atoi(ds); err == nil {
			f.Decimals = &d
		}
	}
	if ss := htmlAttr(n, "scale"); ss != "" {
		if s, err := strconv.Atoi(ss); err == nil {
			f.Scale = &s
		}
	}

	return f, true
}

func inlineNonNumericFact(n *html.Node) (Fact, bool) {
	contextRef := htmlAttr(n, "contextref")
	name := htmlAttr(n, "name")
	if contextRef == "" || name == "" {
		return Fact{}, false
	}

	return Fact{
		Concept:    NormalizeConceptID(name),
		Value:      strings.TrimSpace(textContent(n)),
		ContextRef: contextRef,
	}, true
}

// htmlAttr returns the value of an attribute, matched case-insensitively the
// way the HTML tokenizer already normalizes attribute names.
func htmlAttr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if strings.EqualFold(a.Key, key) {
			return a.Val
		}
	}
	return ""
}

// findDescendants returns every descendant element node whose tag matches,
// in document order.
func findDescendants(n *html.Node, tag string) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && strings.EqualFold(n.Data, tag) {
			out = append(out, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return out
}

// firstDescendant returns the first descendant element matching tag, or nil.
func firstDescendant(n *html.Node, tag string) *html.Node {
	matches := findDescendants(n, tag)
	if len(matches) == 0 {
		return nil
	}
	return matches[0]
}

// textContent concatenates all text node descendants of n.
func textContent(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}
