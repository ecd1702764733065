package xbrlstmt

import "github.com/shopspring/decimal"

// Reconciler applies a calculation linkbase's parent/child weights to a set
// of facts, flipping sign on contributing facts whose weight is negative so
// that summing children reproduces the parent (per spec §4.5). It is
// idempotent: calling Reconcile twice on the same store with the same role
// has no additional effect, because each concept is negated at most once.
type Reconciler struct {
	graph     *RelationshipGraph
	processed map[string]bool
}

// NewReconciler builds a reconciler over a calculation relationship graph.
func NewReconciler(graph *RelationshipGraph) *Reconciler {
	return &Reconciler{graph: graph, processed: make(map[string]bool)}
}

// ReconcileRole walks role's calculation tree and negates, in place, the
// value of every fact whose concept is reached via a weight of -1 relative
// to its parent. store is mutated: matching facts' NumericValue and Value
// are flipped via Fact.negateValue.
func (r *Reconciler) ReconcileRole(store *FactStore, roleURI string) {
	network := r.graph.Role(roleURI)
	if network == nil {
		return
	}

	var walk func(parent string)
	walk = func(parent string) {
		for _, arc := range network.ChildrenOf(parent) {
			r.applyWeight(store, arc)
			walk(arc.To)
		}
	}
	for _, root := range network.Roots {
		walk(root)
	}
}

func (r *Reconciler) applyWeight(store *FactStore, arc Arc) {
	if arc.Weight >= 0 {
		return
	}
	if r.processed[arc.To] {
		return
	}
	r.processed[arc.To] = true

	for i := range store.facts {
		f := &store.facts[i]
		if f.Concept != arc.To || f.NumericValue == nil {
			continue
		}
		f.negateValue()
	}
}

// Verify reports, for each parent concept in role whose children all carry
// non-nil numeric values for a given period key, whether the weighted sum
// of children equals the parent within tolerance. It never mutates facts;
// it is a read-only check used by tests and callers validating a filing's
// internal consistency rather than a step in the main load path.
func (r *Reconciler) Verify(store *FactStore, roleURI, periodKey string, tolerance float64) map[string]bool {
	network := r.graph.Role(roleURI)
	if network == nil {
		return nil
	}

	results := make(map[string]bool)

	var walk func(parent string)
	walk = func(parent string) {
		children := network.ChildrenOf(parent)
		if len(children) == 0 {
			return
		}

		parentFacts := store.Query().ByConcept(parent).ByPeriodKeys(periodKey).Get()
		if len(parentFacts) == 0 || parentFacts[0].NumericValue == nil {
			for _, arc := range children {
				walk(arc.To)
			}
			return
		}

		sum := decimal.Zero
		complete := true
		for _, arc := range children {
			childFacts := store.Query().ByConcept(arc.To).ByPeriodKeys(periodKey).Get()
			if len(childFacts) == 0 || childFacts[0].NumericValue == nil {
				complete = false
				break
			}
			weighted := childFacts[0].NumericValue.Mul(decimalFromFloat(arc.Weight))
			sum = sum.Add(weighted)
		}

		if complete {
			diff := sum.Sub(*parentFacts[0].NumericValue).Abs()
			results[parent] = diff.LessThanOrEqual(decimalFromFloat(tolerance))
		}

		for _, arc := range children {
			walk(arc.To)
		}
	}

	for _, root := range network.Roots {
		walk(root)
	}

	return results
}
