package analyzer

import (
	"sort"
	"strings"

	"github.com/ludo-technologies/schemascan/domain"
)

// CycleClassifierConfig bounds the cycle search
type CycleClassifierConfig struct {
	// MaxCycleLength is the maximum number of entities on a searched cycle
	MaxCycleLength int

	// MaxCycles caps the number of distinct cycles reported
	MaxCycles int

	// MaxSteps caps the number of edge expansions across the whole search
	MaxSteps int
}

// DefaultCycleClassifierConfig returns a config with sensible defaults
func DefaultCycleClassifierConfig() *CycleClassifierConfig {
	return &CycleClassifierConfig{
		MaxCycleLength: 6,
		MaxCycles:      100,
		MaxSteps:       200000,
	}
}

// CycleClassifier separates two-way references from true multi-entity cycles
type CycleClassifier struct {
	config *CycleClassifierConfig
}

// NewCycleClassifier creates a new CycleClassifier
func NewCycleClassifier(config *CycleClassifierConfig) *CycleClassifier {
	if config == nil {
		config = DefaultCycleClassifierConfig()
	}
	return &CycleClassifier{config: config}
}

// Classify finds bidirectional pairs and cycles of three or more entities.
// A pair that references each other directly is never reported as a cycle.
func (c *CycleClassifier) Classify(graph *domain.RelationGraph) *domain.CycleAnalysis {
	result := &domain.CycleAnalysis{
		Cycles:             []domain.Cycle{},
		BidirectionalPairs: []domain.BidirectionalPair{},
	}
	if graph == nil || graph.NodeCount() == 0 {
		return result
	}

	result.BidirectionalPairs = c.findBidirectionalPairs(graph)
	result.SelfReferences = SelfReferences(graph)
	result.Cycles, result.Truncated = c.findCycles(graph)

	return result
}

// findBidirectionalPairs emits one pair per unordered pair of entities
// referencing each other, in declaration order of the first member seen
func (c *CycleClassifier) findBidirectionalPairs(graph *domain.RelationGraph) []domain.BidirectionalPair {
	pairs := []domain.BidirectionalPair{}
	seen := make(map[string]bool)

	for _, from := range graph.Order {
		for _, to := range graph.Neighbors(from) {
			if to == from || !graph.HasEdge(to, from) {
				continue
			}

			a, b := from, to
			if b < a {
				a, b = b, a
			}
			pair := domain.BidirectionalPair{A: a, B: b}
			if seen[pair.Key()] {
				continue
			}
			seen[pair.Key()] = true

			pair.FieldsAB = graph.FieldsBetween(a, b)
			pair.FieldsBA = graph.FieldsBetween(b, a)
			pairs = append(pairs, pair)
		}
	}

	return pairs
}

// cycleFrame is one level of the explicit DFS stack
type cycleFrame struct {
	node string
	next int
}

// findCycles enumerates simple cycles of at least three entities. Each cycle
// is searched only from its lowest-ordered member, and only inside its
// strongly connected component.
func (c *CycleClassifier) findCycles(graph *domain.RelationGraph) ([]domain.Cycle, bool) {
	cycles := []domain.Cycle{}
	if c.config.MaxCycleLength < 3 {
		return cycles, false
	}

	component := make(map[string]int)
	for id, scc := range stronglyConnected(graph) {
		// A cycle of three or more needs a component at least that large
		if len(scc) < 3 {
			continue
		}
		for _, name := range scc {
			component[name] = id + 1
		}
	}
	if len(component) == 0 {
		return cycles, false
	}

	seen := make(map[string]bool)
	steps := 0
	truncated := false

	for _, start := range graph.Order {
		startComponent := component[start]
		if startComponent == 0 {
			continue
		}
		startOrder := graph.GetNode(start).Order

		allowed := func(name string) bool {
			node := graph.GetNode(name)
			return node != nil && component[name] == startComponent && node.Order > startOrder
		}

		stack := []cycleFrame{{node: start}}
		path := []string{start}
		onPath := map[string]bool{start: true}

		for len(stack) > 0 {
			if steps >= c.config.MaxSteps {
				return cycles, true
			}

			top := &stack[len(stack)-1]
			neighbors := graph.Neighbors(top.node)
			if top.next >= len(neighbors) {
				delete(onPath, top.node)
				path = path[:len(path)-1]
				stack = stack[:len(stack)-1]
				continue
			}

			next := neighbors[top.next]
			top.next++
			steps++

			if next == start {
				// Two-entity loops are bidirectional pairs, not cycles
				if len(path) < 3 {
					continue
				}
				key := cycleKey(path)
				if seen[key] {
					continue
				}
				if len(cycles) >= c.config.MaxCycles {
					truncated = true
					continue
				}
				seen[key] = true
				cycles = append(cycles, normalizeCycle(path))
				continue
			}

			if onPath[next] || len(path) >= c.config.MaxCycleLength || !allowed(next) {
				continue
			}

			stack = append(stack, cycleFrame{node: next})
			path = append(path, next)
			onPath[next] = true
		}
	}

	return cycles, truncated
}

// cycleKey returns a rotation and direction invariant key for a cycle
func cycleKey(path []string) string {
	members := make([]string, len(path))
	copy(members, path)
	sort.Strings(members)
	return strings.Join(members, "|")
}

// normalizeCycle rotates a cycle to start at its smallest entity name,
// keeping edge direction
func normalizeCycle(path []string) domain.Cycle {
	minIdx := 0
	for i, name := range path {
		if name < path[minIdx] {
			minIdx = i
		}
	}
	entities := make([]string, 0, len(path))
	entities = append(entities, path[minIdx:]...)
	entities = append(entities, path[:minIdx]...)
	return domain.Cycle{Entities: entities, Length: len(entities)}
}

// tarjanFrame is one vertex of the explicit DFS stack and the position of
// its next neighbor to visit
type tarjanFrame struct {
	v         string
	neighbors []string
	next      int
}

// stronglyConnected returns the strongly connected components of graph with
// Tarjan's algorithm, driven by an explicit stack so deep chains cannot
// exhaust the goroutine stack. Roots are taken in declaration order and each
// component is sorted by name.
func stronglyConnected(graph *domain.RelationGraph) [][]string {
	index := 0
	indices := make(map[string]int)
	lowlinks := make(map[string]int)
	onStack := make(map[string]bool)
	var stack []string
	var sccs [][]string

	visit := func(v string) *tarjanFrame {
		indices[v] = index
		lowlinks[v] = index
		index++
		stack = append(stack, v)
		onStack[v] = true
		return &tarjanFrame{v: v, neighbors: graph.Neighbors(v)}
	}

	for _, root := range graph.Order {
		if _, seen := indices[root]; seen {
			continue
		}

		frames := []*tarjanFrame{visit(root)}
		for len(frames) > 0 {
			f := frames[len(frames)-1]

			if f.next < len(f.neighbors) {
				w := f.neighbors[f.next]
				f.next++
				if graph.GetNode(w) == nil {
					continue
				}
				if _, seen := indices[w]; !seen {
					frames = append(frames, visit(w))
				} else if onStack[w] {
					lowlinks[f.v] = min(lowlinks[f.v], indices[w])
				}
				continue
			}

			// All neighbors done: close the component rooted here, then
			// hand the lowlink back to the parent
			frames = frames[:len(frames)-1]
			if lowlinks[f.v] == indices[f.v] {
				var scc []string
				for {
					w := stack[len(stack)-1]
					stack = stack[:len(stack)-1]
					onStack[w] = false
					scc = append(scc, w)
					if w == f.v {
						break
					}
				}
				sort.Strings(scc)
				sccs = append(sccs, scc)
			}
			if len(frames) > 0 {
				parent := frames[len(frames)-1]
				lowlinks[parent.v] = min(lowlinks[parent.v], lowlinks[f.v])
			}
		}
	}

	return sccs
}
