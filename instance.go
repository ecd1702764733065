package xbrlstmt

import (
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"
)

// Instance is the parsed contexts, units and facts of one XBRL instance
// document (standalone or inline), before they are indexed into a FactStore.
type Instance struct {
	Contexts []Context
	Units    []Unit
	Facts    []Fact
}

// ParseInstance parses a standalone XBRL instance document (the classic
// "xbrl" root element, not inline XBRL-in-HTML). Non-fatal problems are
// appended to warnings rather than aborting the parse, per the instance
// parser's contract.
func ParseInstance(data []byte) (*Instance, *ParseResult) {
	pr := newParseResult()
	data = normalizeFilingText(data)

	var doc struct {
		Contexts []rawContext `xml:"context"`
		Units    []rawUnit    `xml:"unit"`
	}
	if err := xml.Unmarshal(data, &doc); err != nil {
		pr.fatal(fmt.Errorf("failed to parse XBRL instance XML: %w", err))
		return nil, pr
	}

	inst := &Instance{}
	for _, rc := range doc.Contexts {
		ctx := resolveContext(rc)
		if ctx.parseErr != nil {
			pr.warn(&FactParseErrorWarning{Concept: "(context)", Value: ctx.ID, Cause: ctx.parseErr})
		}
		inst.Contexts = append(inst.Contexts, ctx)
	}
	for _, ru := range doc.Units {
		inst.Units = append(inst.Units, resolveUnit(ru))
	}

	facts, err := extractInstanceFacts(data)
	if err != nil {
		pr.fatal(fmt.Errorf("failed to extract facts: %w", err))
		return nil, pr
	}
	inst.Facts = facts

	resolveInstanceFacts(inst, pr)

	return inst, pr
}

// extractInstanceFacts walks the raw XML token stream looking for any
// element carrying a contextRef attribute: XBRL facts are dynamic elements
// (us-gaap:Revenues, dei:EntityRegistrantName, ...) that can't be declared as
// fixed Go struct fields, so a generic streaming walk is required.
func extractInstanceFacts(data []byte) ([]Fact, error) {
	decoder := xml.NewDecoder(strings.NewReader(string(data)))

	var facts []Fact

	for {
		token, err := decoder.Token()
		if err != nil {
			break
		}

		elem, ok := token.(xml.StartElement)
		if !ok {
			continue
		}

		contextRef := attrValue(elem.Attr, "contextRef")
		if contextRef == "" {
			continue
		}

		var value string
		if err := decoder.DecodeElement(&value, &elem); err != nil {
			continue
		}

		conceptName := elem.Name.Local
		if elem.Name.Space != "" {
			conceptName = namespacePrefix(elem.Name.Space) + ":" + elem.Name.Local
		}

		var decimals *int
		if ds := attrValue(elem.Attr, "decimals"); ds != "" && ds != "INF" {
			if d, err := strconv.Atoi(ds); err == nil {
				decimals = &d
			}
		}

		facts = append(facts, Fact{
			Concept:    NormalizeConceptID(conceptName),
			Value:      strings.TrimSpace(value),
			ContextRef: contextRef,
			UnitRef:    attrValue(elem.Attr, "unitRef"),
			Decimals:   decimals,
		})
	}

	return facts, nil
}

// resolveInstanceFacts resolves each fact's context/unit pointers and parses
// its numeric value, collecting non-fatal FactParseError warnings along the
// way.
func resolveInstanceFacts(inst *Instance, pr *ParseResult) {
	contextsByID := make(map[string]*Context, len(inst.Contexts))
	for i := range inst.Contexts {
		contextsByID[inst.Contexts[i].ID] = &inst.Contexts[i]
	}
	unitsByID := make(map[string]*Unit, len(inst.Units))
	for i := range inst.Units {
		unitsByID[inst.Units[i].ID] = &inst.Units[i]
	}

	for i := range inst.Facts {
		f := &inst.Facts[i]

		if ctx, ok := contextsByID[f.ContextRef]; ok {
			f.Context = ctx
		}
		if f.UnitRef != "" {
			if u, ok := unitsByID[f.UnitRef]; ok {
				f.Unit = u
			}
		}

		if f.UnitRef == "" {
			continue // non-numeric fact
		}

		val, err := parseFactValue(f.Value, f.Scale, f.Sign)
		if err != nil {
			pr.warn(&FactParseErrorWarning{Concept: f.Concept, Value: f.Value, Cause: err})
			continue
		}
		f.NumericValue = &val
	}
}

func attrValue(attrs []xml.Attr, name string) string {
	for _, a := range attrs {
		if a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}

// namespacePrefix infers a short taxonomy prefix from a full namespace URI,
// e.g. "http://fasb.org/us-gaap/2023" -> "us-gaap". Unrecognized namespaces
// fall back to the URI's last path segment.
func namespacePrefix(namespace string) string {
	switch {
	case strings.Contains(namespace, "us-gaap"):
		return "us-gaap"
	case strings.Contains(namespace, "ifrs"):
		return "ifrs-full"
	case strings.Contains(namespace, "/dei/"):
		return "dei"
	case strings.Contains(namespace, "xbrli"):
		return "xbrli"
	}

	parts := strings.Split(namespace, "/")
	if len(parts) > 0 && parts[len(parts)-1] != "" {
		return parts[len(parts)-1]
	}
	return "unknown"
}
