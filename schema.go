package xbrlstmt

import (
	"encoding/xml"
	"fmt"
	"strings"
)

// rawSchema mirrors the subset of an XBRL taxonomy schema (XSD) the engine
// needs: element declarations with their XBRL-specific periodType/balance
// attributes.
type rawSchema struct {
	TargetNamespace string          `xml:"targetNamespace,attr"`
	Elements        []rawXSDElement `xml:"element"`
}

type rawXSDElement struct {
	Name           string `xml:"name,attr"`
	Type           string `xml:"type,attr"`
	SubstGroup     string `xml:"substitutionGroup,attr"`
	Abstract       bool   `xml:"abstract,attr"`
	Nillable       bool   `xml:"nillable,attr"`
	PeriodTypeAttr string `xml:"periodType,attr"` // xbrli:periodType
	BalanceAttr    string `xml:"balance,attr"`     // xbrli:balance
}

// LoadSchema parses a taxonomy schema document and declares every element it
// finds into registry. prefix is the taxonomy's conventional namespace
// prefix (e.g. "us-gaap"); when it is empty, a prefix is inferred from the
// schema's target namespace instead.
//
// Per spec §4.1: every declared concept produces one registry entry;
// duplicate, conflicting declarations are a fatal SchemaConflict for this
// filing. Arcs referencing concepts this function didn't declare are handled
// later, by the linkbase loader, as dangling-arc warnings, not here.
func LoadSchema(data []byte, prefix string, registry *ConceptRegistry) *ParseResult {
	pr := newParseResult()

	var schema rawSchema
	if err := xml.Unmarshal(data, &schema); err != nil {
		pr.fatal(fmt.Errorf("failed to parse taxonomy schema: %w", err))
		return pr
	}

	if prefix == "" {
		prefix = inferPrefixFromNamespace(schema.TargetNamespace)
	}

	for _, el := range schema.Elements {
		if el.Name == "" {
			continue
		}

		c := Concept{
			ID:         prefix + ":" + el.Name,
			Namespace:  schema.TargetNamespace,
			Prefix:     prefix,
			LocalName:  el.Name,
			DataType:   dataTypeFromXSDType(el.Type),
			PeriodType: PeriodType(el.PeriodTypeAttr),
			Balance:    Balance(el.BalanceAttr),
			Abstract:   el.Abstract,
			Nillable:   el.Nillable,
		}

		if err := registry.Declare(c); err != nil {
			pr.fatal(err)
			return pr
		}
	}

	return pr
}

func inferPrefixFromNamespace(ns string) string {
	switch {
	case strings.Contains(ns, "us-gaap"):
		return "us-gaap"
	case strings.Contains(ns, "ifrs"):
		return "ifrs-full"
	case strings.Contains(ns, "/dei/"):
		return "dei"
	}
	parts := strings.Split(strings.TrimRight(ns, "/"), "/")
	if len(parts) > 0 {
		return parts[len(parts)-1]
	}
	return "concept"
}

// dataTypeFromXSDType maps an XSD type reference (e.g. "xbrli:monetaryItemType")
// to our closed DataType enum. Unrecognized types map to DataTypeUnknown.
func dataTypeFromXSDType(xsdType string) DataType {
	t := strings.ToLower(xsdType)
	switch {
	case strings.Contains(t, "monetaryitemtype"):
		return DataTypeMonetary
	case strings.Contains(t, "sharesitemtype"):
		return DataTypeShares
	case strings.Contains(t, "pershareitemtype"):
		return DataTypePerShare
	case strings.Contains(t, "decimalitemtype") || strings.Contains(t, "percentitemtype"):
		return DataTypeDecimal
	case strings.Contains(t, "booleanitemtype"):
		return DataTypeBoolean
	case strings.Contains(t, "dateitemtype"):
		return DataTypeDate
	case strings.Contains(t, "stringitemtype") || strings.Contains(t, "textblockitemtype"):
		return DataTypeString
	default:
		return DataTypeUnknown
	}
}
