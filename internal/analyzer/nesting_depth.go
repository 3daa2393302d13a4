package analyzer

import (
	"math"

	"github.com/ludo-technologies/schemascan/domain"
)

// NestingDepthConfig holds nesting depth limits
type NestingDepthConfig struct {
	// MaxDepth bounds recursion and the reported depth
	MaxDepth int

	// RecommendedDepth is the deepest nesting considered healthy
	RecommendedDepth int

	// MaxExpansions bounds the child visits spent on each component
	MaxExpansions int
}

// DefaultNestingDepthConfig returns a config with sensible defaults
func DefaultNestingDepthConfig() *NestingDepthConfig {
	return &NestingDepthConfig{
		MaxDepth:         10,
		RecommendedDepth: 3,
		MaxExpansions:    100000,
	}
}

// NestingDepthCalculator computes the longest component containment chain
// under every component
type NestingDepthCalculator struct {
	config *NestingDepthConfig
}

// NewNestingDepthCalculator creates a new NestingDepthCalculator
func NewNestingDepthCalculator(config *NestingDepthConfig) *NestingDepthCalculator {
	if config == nil {
		config = DefaultNestingDepthConfig()
	}
	if config.MaxDepth < 1 {
		config.MaxDepth = 1
	}
	if config.MaxExpansions <= 0 {
		config.MaxExpansions = DefaultNestingDepthConfig().MaxExpansions
	}
	return &NestingDepthCalculator{config: config}
}

// nestingResult is the deepest chain found under one entity
type nestingResult struct {
	depth   int
	path    []string
	listHop bool
}

// nestingMemoEntry is a cached result and the conditions it was computed under
type nestingMemoEntry struct {
	result nestingResult

	// level is the chain position the entity was computed at
	level int

	// exact is false when the depth cap or the expansion budget cut the
	// search below this entity
	exact bool
}

// noAnchor marks a result that skipped no entity above it on the path
const noAnchor = math.MaxInt

// nestingRun holds the state of one Calculate call
type nestingRun struct {
	graph         *domain.RelationGraph
	maxDepth      int
	maxExpansions int
	expansions    int
	memo          map[string]nestingMemoEntry

	// onPath maps the entities of the chain being explored to their level
	onPath map[string]int
}

// Calculate returns the nesting depth of every component in declaration order
func (c *NestingDepthCalculator) Calculate(graph *domain.RelationGraph) []domain.NestingDepth {
	depths := []domain.NestingDepth{}
	if graph == nil {
		return depths
	}

	run := &nestingRun{
		graph:         graph,
		maxDepth:      c.config.MaxDepth,
		maxExpansions: c.config.MaxExpansions,
		memo:          make(map[string]nestingMemoEntry),
		onPath:        make(map[string]int),
	}

	for _, name := range graph.Order {
		node := graph.GetNode(name)
		if node == nil || !node.IsComponent {
			continue
		}
		run.expansions = 0
		result, _, _ := run.depthOf(name, 1)
		depths = append(depths, domain.NestingDepth{
			Entity:     name,
			Depth:      result.depth,
			Path:       result.path,
			HasListHop: result.listHop,
		})
	}

	return depths
}

// OverNested returns the depths deeper than the recommended maximum
func (c *NestingDepthCalculator) OverNested(depths []domain.NestingDepth) []domain.NestingDepth {
	var over []domain.NestingDepth
	for _, d := range depths {
		if d.Depth > c.config.RecommendedDepth {
			over = append(over, d)
		}
	}
	return over
}

// LevelsOverRecommended returns how far the deepest chain exceeds the recommended maximum
func (c *NestingDepthCalculator) LevelsOverRecommended(depths []domain.NestingDepth) int {
	deepest := 0
	for _, d := range depths {
		deepest = max(deepest, d.Depth)
	}
	return max(0, deepest-c.config.RecommendedDepth)
}

// depthOf returns the deepest composition chain starting at name, which sits
// at the given 1-based position of the chain being explored. It also reports
// whether the value is independent of the depth cap, and the lowest level of
// an ancestor the search had to skip (noAnchor when none). A result that
// skipped an ancestor depends on the current path and is not memoized.
func (r *nestingRun) depthOf(name string, level int) (nestingResult, bool, int) {
	if entry, ok := r.memo[name]; ok && (entry.exact || entry.level <= level) && r.disjoint(entry.result.path) {
		result, exact := r.capped(entry, level)
		return result, exact, noAnchor
	}

	r.onPath[name] = level
	defer delete(r.onPath, name)

	best := nestingResult{depth: 1, path: []string{name}}
	exact := true
	anchor := noAnchor
	allowed := r.maxDepth - level + 1

	for _, edge := range r.graph.GetOutgoingEdges(name) {
		if edge.Kind != domain.RelationKindComposition {
			continue
		}
		// A cycle contributes the depth reached so far
		if at, ok := r.onPath[edge.To]; ok {
			anchor = min(anchor, at)
			continue
		}
		if level >= r.maxDepth || best.depth >= allowed {
			exact = false
			break
		}
		if r.expansions >= r.maxExpansions {
			exact = false
			break
		}
		r.expansions++

		child, childExact, childAnchor := r.depthOf(edge.To, level+1)
		if !childExact {
			exact = false
		}
		anchor = min(anchor, childAnchor)
		// Strictly greater keeps the first child in field order on ties
		if child.depth+1 > best.depth {
			path := make([]string, 0, len(child.path)+1)
			path = append(path, name)
			path = append(path, child.path...)
			best = nestingResult{
				depth:   child.depth + 1,
				path:    path,
				listHop: edge.List || child.listHop,
			}
		}
	}

	if anchor < level {
		return best, exact, anchor
	}
	r.memo[name] = nestingMemoEntry{result: best, level: level, exact: exact}
	return best, exact, noAnchor
}

// disjoint reports whether none of path is on the chain being explored
func (r *nestingRun) disjoint(path []string) bool {
	for _, name := range path {
		if _, ok := r.onPath[name]; ok {
			return false
		}
	}
	return true
}

// capped fits a cached result into the depth still available at level
func (r *nestingRun) capped(entry nestingMemoEntry, level int) (nestingResult, bool) {
	allowed := r.maxDepth - level + 1
	if entry.result.depth <= allowed {
		return entry.result, entry.exact
	}
	return nestingResult{
		depth:   allowed,
		path:    entry.result.path[:allowed],
		listHop: entry.result.listHop,
	}, false
}
