package service

import (
	"sort"

	"github.com/priceforge/priceforge/internal/domain/pricing"
	"github.com/priceforge/priceforge/internal/domain/rule"
	"github.com/priceforge/priceforge/internal/types"
)

// RelationResolver applies inter-rule relations to the eligible set,
// producing the ordered applicable set. The resolution is deterministic: the
// graph is held in index arenas (nodes are positions in the eligible slice,
// edges are relation kinds), rules are walked in priority order with the rule
// id as a stable tie-break, and no map is iterated where order matters.
type RelationResolver struct{}

func NewRelationResolver() *RelationResolver {
	return &RelationResolver{}
}

// Resolve returns the applicable rules in application order and the relation
// rejection trail. Application order is: accumulable and exclusive rules
// first, then cascade rules, priority-ordered within each group, because
// cascade rules discount the already-discounted price.
func (rr *RelationResolver) Resolve(eligible []*rule.DiscountRule) ([]*rule.DiscountRule, []pricing.RejectedRule) {
	n := len(eligible)
	if n == 0 {
		return []*rule.DiscountRule{}, []pricing.RejectedRule{}
	}

	index := make(map[string]int, n)
	for i, r := range eligible {
		index[r.ID] = i
	}

	// reasons[i] non-empty marks node i rejected; the first assigned reason
	// sticks
	reasons := make([]types.IneligibilityReason, n)
	reject := func(i int, reason types.IneligibilityReason) {
		if reasons[i] == "" {
			reasons[i] = reason
		}
	}

	requires := rr.resolveRequired(eligible, index, reasons, reject)
	rr.resolveOverrides(eligible, index, reasons, reject)
	// an override can drop a required target after the required pass, so
	// propagation runs again to take dependents down with it
	rr.propagateRequired(eligible, requires, reasons, reject)

	// conflict graph closed symmetrically: a one-sided Conflict declaration
	// blocks both directions
	conflicts := rr.buildConflictGraph(eligible, index)

	// priority descending, id ascending as the stable tie-break; ties are
	// common when merchants forget to set priority
	order := make([]int, 0, n)
	for i := range eligible {
		order = append(order, i)
	}
	sort.SliceStable(order, func(a, b int) bool {
		ra, rb := eligible[order[a]], eligible[order[b]]
		if ra.Priority != rb.Priority {
			return ra.Priority > rb.Priority
		}
		return ra.ID < rb.ID
	})

	selected := rr.walk(eligible, order, conflicts, reasons, reject)

	// accumulable and exclusive rules discount the original price; cascade
	// rules run after them on the running price, priority order within each
	// group preserved from the walk
	applicable := make([]*rule.DiscountRule, 0, len(selected))
	for _, i := range selected {
		if eligible[i].EffectiveApplicationMode() != types.ApplicationModeCascade {
			applicable = append(applicable, eligible[i])
		}
	}
	for _, i := range selected {
		if eligible[i].EffectiveApplicationMode() == types.ApplicationModeCascade {
			applicable = append(applicable, eligible[i])
		}
	}

	rejected := make([]pricing.RejectedRule, 0)
	for i, r := range eligible {
		if reasons[i] != "" {
			rejected = append(rejected, pricing.RejectedRule{RuleID: r.ID, Reason: reasons[i]})
		}
	}

	return applicable, rejected
}

// resolveRequired rejects rules whose required targets are absent from the
// eligible set, rejects every member of a circular requirement chain, and
// propagates removals until stable.
func (rr *RelationResolver) resolveRequired(
	eligible []*rule.DiscountRule,
	index map[string]int,
	reasons []types.IneligibilityReason,
	reject func(int, types.IneligibilityReason),
) [][]int {
	n := len(eligible)

	// required edges into the arena; targets outside the eligible set reject
	// the declarer immediately
	requires := make([][]int, n)
	for i, r := range eligible {
		for _, targetID := range r.RelatedIDs(types.RelationKindRequired) {
			j, ok := index[targetID]
			if !ok {
				reject(i, types.ReasonRequiredMissing(targetID))
				continue
			}
			requires[i] = append(requires[i], j)
		}
	}

	// cycle detection with white/grey/black marking; every node on a cycle is
	// rejected since no member's requirement is satisfiable in isolation
	const (
		white = 0
		grey  = 1
		black = 2
	)
	color := make([]int, n)
	onCycle := make([]bool, n)
	stack := make([]int, 0, n)

	var visit func(i int)
	visit = func(i int) {
		color[i] = grey
		stack = append(stack, i)
		for _, j := range requires[i] {
			switch color[j] {
			case white:
				visit(j)
			case grey:
				// back edge: everything from j to the top of the stack is on
				// the cycle
				for k := len(stack) - 1; k >= 0; k-- {
					onCycle[stack[k]] = true
					if stack[k] == j {
						break
					}
				}
			}
		}
		stack = stack[:len(stack)-1]
		color[i] = black
	}
	for i := 0; i < n; i++ {
		if color[i] == white {
			visit(i)
		}
	}
	for i := 0; i < n; i++ {
		if onCycle[i] {
			reject(i, types.ReasonCircularRequirement)
		}
	}

	rr.propagateRequired(eligible, requires, reasons, reject)
	return requires
}

// propagateRequired rejects every rule whose required target has been
// rejected, iterating until no new rejection appears.
func (rr *RelationResolver) propagateRequired(
	eligible []*rule.DiscountRule,
	requires [][]int,
	reasons []types.IneligibilityReason,
	reject func(int, types.IneligibilityReason),
) {
	for changed := true; changed; {
		changed = false
		for i := range eligible {
			if reasons[i] != "" {
				continue
			}
			for _, j := range requires[i] {
				if reasons[j] != "" {
					reject(i, types.ReasonRequiredMissing(eligible[j].ID))
					changed = true
					break
				}
			}
		}
	}
}

// resolveOverrides drops the target of every override declared by a surviving
// rule, regardless of priority. Declarers are processed in input order; a
// rule already dropped cannot override.
func (rr *RelationResolver) resolveOverrides(
	eligible []*rule.DiscountRule,
	index map[string]int,
	reasons []types.IneligibilityReason,
	reject func(int, types.IneligibilityReason),
) {
	for i, r := range eligible {
		if reasons[i] != "" {
			continue
		}
		for _, targetID := range r.RelatedIDs(types.RelationKindOverride) {
			if j, ok := index[targetID]; ok && reasons[j] == "" {
				reject(j, types.ReasonOverriddenBy(r.ID))
			}
		}
	}
}

func (rr *RelationResolver) buildConflictGraph(eligible []*rule.DiscountRule, index map[string]int) [][]int {
	n := len(eligible)
	adj := make([][]int, n)
	seen := make(map[[2]int]bool)
	addEdge := func(a, b int) {
		if a == b || seen[[2]int{a, b}] {
			return
		}
		seen[[2]int{a, b}] = true
		seen[[2]int{b, a}] = true
		adj[a] = append(adj[a], b)
		adj[b] = append(adj[b], a)
	}
	for i, r := range eligible {
		for _, targetID := range r.RelatedIDs(types.RelationKindConflict) {
			if j, ok := index[targetID]; ok {
				addEdge(i, j)
			}
		}
	}
	return adj
}

// walk selects rules greedily in priority order. The higher-priority rule of
// a conflicting pair always survives; an exclusive rule locks out every
// lower-priority rule that is not explicitly combinable with it.
func (rr *RelationResolver) walk(
	eligible []*rule.DiscountRule,
	order []int,
	conflicts [][]int,
	reasons []types.IneligibilityReason,
	reject func(int, types.IneligibilityReason),
) []int {
	selected := make([]int, 0, len(order))
	inSelected := make([]bool, len(eligible))

	for pos, i := range order {
		if reasons[i] != "" {
			continue
		}

		conflicting := -1
		for _, j := range conflicts[i] {
			if inSelected[j] {
				conflicting = j
				break
			}
		}
		if conflicting >= 0 {
			reject(i, types.ReasonConflictsWith(eligible[conflicting].ID))
			continue
		}

		selected = append(selected, i)
		inSelected[i] = true

		if eligible[i].EffectiveApplicationMode() == types.ApplicationModeExclusive {
			for _, j := range order[pos+1:] {
				if reasons[j] != "" {
					continue
				}
				if rr.combinable(eligible[i], eligible[j]) {
					continue
				}
				reject(j, types.ReasonExcludedBy(eligible[i].ID))
			}
		}
	}

	return selected
}

// combinable reports whether either rule declares a combinable relation to
// the other
func (rr *RelationResolver) combinable(a, b *rule.DiscountRule) bool {
	return a.HasCombinableWith(b.ID) || b.HasCombinableWith(a.ID)
}
