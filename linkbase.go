package xbrlstmt

import (
	"encoding/xml"
	"fmt"
	"sort"
	"strings"
)

// Arc is one edge of a relationship graph: a parent concept pointing at a
// child concept within one extended-link role, carrying the attributes the
// rest of the engine needs (ordering, calculation weight, preferred label,
// dimensional arcrole).
type Arc struct {
	From           string
	To             string
	Order          float64
	Weight         float64 // calculation linkbase only; meaningless elsewhere
	PreferredLabel string  // presentation linkbase only
	ArcRole        string  // definition linkbase only: hypercube-dimension, dimension-domain, domain-member, all, notAll
	Priority       int
	Prohibited     bool
}

// RoleNetwork is one role's forest of arcs: the parent/child edges that
// survived priority/prohibition resolution and cycle breaking.
type RoleNetwork struct {
	RoleURI    string
	Definition string
	Roots      []string
	Children   map[string][]Arc // parent id -> ordered child arcs
}

// ChildrenOf returns the ordered child arcs of a concept within this role,
// or nil if it has none.
func (rn *RoleNetwork) ChildrenOf(conceptID string) []Arc {
	return rn.Children[NormalizeConceptID(conceptID)]
}

// RelationshipGraph is the set of role networks parsed from one linkbase
// (presentation, calculation, or definition).
type RelationshipGraph struct {
	Roles map[string]*RoleNetwork
}

func newRelationshipGraph() *RelationshipGraph {
	return &RelationshipGraph{Roles: make(map[string]*RoleNetwork)}
}

// Role returns the network for a role URI, or nil.
func (g *RelationshipGraph) Role(uri string) *RoleNetwork {
	return g.Roles[uri]
}

// LabelGraph maps concept -> (role, language) -> text.
type LabelGraph struct {
	// labels[conceptID][langRoleKey] = text
	labels map[string]map[string]string
}

const (
	LabelRoleStandard  = "http://www.xbrl.org/2003/role/label"
	LabelRoleTerse     = "http://www.xbrl.org/2003/role/terseLabel"
	LabelRoleVerbose   = "http://www.xbrl.org/2003/role/verboseLabel"
	LabelRoleNegated   = "http://www.xbrl.org/2003/role/negatedLabel"
	LabelRoleTotal     = "http://www.xbrl.org/2003/role/totalLabel"
	LabelRoleDoc       = "http://www.xbrl.org/2003/role/documentation"
)

func newLabelGraph() *LabelGraph {
	return &LabelGraph{labels: make(map[string]map[string]string)}
}

// Label returns the text for a concept in the given role and language,
// falling back to English if lang is empty.
func (g *LabelGraph) Label(conceptID, role, lang string) (string, bool) {
	byKey, ok := g.labels[NormalizeConceptID(conceptID)]
	if !ok {
		return "", false
	}
	if lang == "" {
		lang = "en-US"
	}
	if text, ok := byKey[role+"|"+lang]; ok {
		return text, true
	}
	// Null-safe fallback: any language for the same role.
	for key, text := range byKey {
		if strings.HasPrefix(key, role+"|") {
			return text, true
		}
	}
	return "", false
}

// AllLabels returns every label form recorded for a concept (standard,
// terse, verbose, documentation, ...), used by the fact store's
// label/text-search filters.
func (g *LabelGraph) AllLabels(conceptID string) []string {
	byKey, ok := g.labels[NormalizeConceptID(conceptID)]
	if !ok {
		return nil
	}
	out := make([]string, 0, len(byKey))
	for _, text := range byKey {
		out = append(out, text)
	}
	return out
}

func (g *LabelGraph) add(conceptID, role, lang, text string) {
	id := NormalizeConceptID(conceptID)
	if g.labels[id] == nil {
		g.labels[id] = make(map[string]string)
	}
	if lang == "" {
		lang = "en-US"
	}
	g.labels[id][role+"|"+lang] = text
}

// --- raw XML shapes -------------------------------------------------------

type rawLoc struct {
	Label string `xml:"label,attr"`
	Href  string `xml:"href,attr"`
}

type rawArc struct {
	From           string   `xml:"from,attr"`
	To             string   `xml:"to,attr"`
	Order          float64  `xml:"order,attr"`
	Weight         *float64 `xml:"weight,attr"`
	PreferredLabel string   `xml:"preferredLabel,attr"`
	Use            string   `xml:"use,attr"`
	Priority       int      `xml:"priority,attr"`
	ArcRole        string   `xml:"arcrole,attr"`
}

type rawExtendedLink struct {
	Role string   `xml:"role,attr"`
	Locs []rawLoc `xml:"loc"`
	Arcs []rawArc `xml:",any"`
}

type rawPresentationLinkbase struct {
	Links []rawExtendedLink `xml:"presentationLink"`
}

type rawCalculationLinkbase struct {
	Links []rawExtendedLink `xml:"calculationLink"`
}

type rawDefinitionLinkbase struct {
	Links []rawExtendedLink `xml:"definitionLink"`
}

type rawLabelResource struct {
	Label string `xml:"label,attr"`
	Role  string `xml:"role,attr"`
	Lang  string `xml:"lang,attr"`
	Text  string `xml:",chardata"`
}

type rawLabelArc struct {
	From string `xml:"from,attr"`
	To   string `xml:"to,attr"`
}

type rawLabelLink struct {
	Locs   []rawLoc           `xml:"loc"`
	Labels []rawLabelResource `xml:"label"`
	Arcs   []rawLabelArc      `xml:"labelArc"`
}

type rawLabelLinkbase struct {
	Links []rawLabelLink `xml:"labelLink"`
}

// LoadPresentationLinkbase parses a presentation linkbase document.
func LoadPresentationLinkbase(data []byte) (*RelationshipGraph, *ParseResult) {
	var raw rawPresentationLinkbase
	pr := newParseResult()
	if err := xml.Unmarshal(data, &raw); err != nil {
		pr.fatal(fmt.Errorf("failed to parse presentation linkbase: %w", err))
		return nil, pr
	}
	return buildRelationshipGraph(raw.Links, pr), pr
}

// LoadCalculationLinkbase parses a calculation linkbase document.
func LoadCalculationLinkbase(data []byte) (*RelationshipGraph, *ParseResult) {
	var raw rawCalculationLinkbase
	pr := newParseResult()
	if err := xml.Unmarshal(data, &raw); err != nil {
		pr.fatal(fmt.Errorf("failed to parse calculation linkbase: %w", err))
		return nil, pr
	}
	return buildRelationshipGraph(raw.Links, pr), pr
}

// LoadDefinitionLinkbase parses a definition (dimensional) linkbase document.
func LoadDefinitionLinkbase(data []byte) (*RelationshipGraph, *ParseResult) {
	var raw rawDefinitionLinkbase
	pr := newParseResult()
	if err := xml.Unmarshal(data, &raw); err != nil {
		pr.fatal(fmt.Errorf("failed to parse definition linkbase: %w", err))
		return nil, pr
	}
	return buildRelationshipGraph(raw.Links, pr), pr
}

// LoadLabelLinkbase parses a label linkbase document.
func LoadLabelLinkbase(data []byte) (*LabelGraph, *ParseResult) {
	var raw rawLabelLinkbase
	pr := newParseResult()
	if err := xml.Unmarshal(data, &raw); err != nil {
		pr.fatal(fmt.Errorf("failed to parse label linkbase: %w", err))
		return nil, pr
	}

	graph := newLabelGraph()

	for _, link := range raw.Links {
		hrefByLabel := make(map[string]string, len(link.Locs))
		for _, loc := range link.Locs {
			hrefByLabel[loc.Label] = conceptIDFromHref(loc.Href)
		}
		textByLabel := make(map[string]rawLabelResource, len(link.Labels))
		for _, l := range link.Labels {
			textByLabel[l.Label] = l
		}

		for _, arc := range link.Arcs {
			conceptID, ok := hrefByLabel[arc.From]
			if !ok {
				pr.warn(&DanglingArcWarning{Role: "label", From: arc.From, To: arc.To})
				continue
			}
			res, ok := textByLabel[arc.To]
			if !ok {
				pr.warn(&DanglingArcWarning{Role: "label", From: arc.From, To: arc.To})
				continue
			}
			role := res.Role
			if role == "" {
				role = LabelRoleStandard
			}
			graph.add(conceptID, role, res.Lang, strings.TrimSpace(res.Text))
		}
	}

	return graph, pr
}

// buildRelationshipGraph resolves locators, applies arc priority/prohibition
// within each (from, to) pair, and breaks cycles, per spec §4.1.
func buildRelationshipGraph(links []rawExtendedLink, pr *ParseResult) *RelationshipGraph {
	graph := newRelationshipGraph()

	for _, link := range links {
		hrefByLabel := make(map[string]string, len(link.Locs))
		for _, loc := range link.Locs {
			hrefByLabel[loc.Label] = conceptIDFromHref(loc.Href)
		}

		// key "from|to" -> surviving arc, chosen by highest priority.
		winners := make(map[string]Arc)

		for _, raw := range link.Arcs {
			fromID, fromOK := hrefByLabel[raw.From]
			toID, toOK := hrefByLabel[raw.To]
			if !fromOK || !toOK {
				pr.warn(&DanglingArcWarning{Role: link.Role, From: raw.From, To: raw.To})
				continue
			}

			weight := 1.0
			if raw.Weight != nil {
				weight = *raw.Weight
			}

			arc := Arc{
				From:           fromID,
				To:             toID,
				Order:          raw.Order,
				Weight:         weight,
				PreferredLabel: raw.PreferredLabel,
				ArcRole:        raw.ArcRole,
				Priority:       raw.Priority,
				Prohibited:     raw.Use == "prohibited",
			}

			key := fromID + "->" + toID
			if existing, ok := winners[key]; !ok || arc.Priority >= existing.Priority {
				winners[key] = arc
			}
		}

		children := make(map[string][]Arc)
		var roots []string
		hasIncoming := make(map[string]bool)

		var ordered []Arc
		for _, arc := range winners {
			if arc.Prohibited {
				continue
			}
			ordered = append(ordered, arc)
		}
		sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Order < ordered[j].Order })

		for _, arc := range ordered {
			children[arc.From] = append(children[arc.From], arc)
			hasIncoming[arc.To] = true
		}
		for parent := range children {
			if !hasIncoming[parent] {
				roots = append(roots, parent)
			}
		}
		sort.Strings(roots)

		network := &RoleNetwork{RoleURI: link.Role, Children: children, Roots: roots}
		breakCycles(network, pr)
		graph.Roles[link.Role] = network
	}

	return graph
}

// breakCycles walks each root depth-first; if it revisits a node already on
// the current path, the repeated edge is dropped and a LinkbaseCycleWarning
// recorded, per spec §4.1 ("cycles ... broken at the repeated node").
// Parents still unvisited after the roots (a cycle with no root of its own)
// are then walked in sorted order, and each such starting node becomes a
// root.
func breakCycles(network *RoleNetwork, pr *ParseResult) {
	onPath := make(map[string]bool)
	visited := make(map[string]bool)

	var visit func(node string)
	visit = func(node string) {
		visited[node] = true
		onPath[node] = true
		kept := network.Children[node][:0]
		for _, arc := range network.Children[node] {
			if onPath[arc.To] {
				pr.warn(&LinkbaseCycleWarning{Role: network.RoleURI, Repeat: arc.To})
				continue
			}
			kept = append(kept, arc)
			visit(arc.To)
		}
		network.Children[node] = kept
		onPath[node] = false
	}

	for _, root := range network.Roots {
		visit(root)
	}

	parents := make([]string, 0, len(network.Children))
	for parent := range network.Children {
		parents = append(parents, parent)
	}
	sort.Strings(parents)
	for _, parent := range parents {
		if !visited[parent] {
			network.Roots = append(network.Roots, parent)
			visit(parent)
		}
	}
}

// conceptIDFromHref extracts and normalizes the concept id from an xlink:href
// of the form "schema.xsd#us-gaap_Assets" or "#us-gaap_Assets".
func conceptIDFromHref(href string) string {
	if i := strings.IndexByte(href, '#'); i >= 0 {
		href = href[i+1:]
	}
	return NormalizeConceptID(href)
}
