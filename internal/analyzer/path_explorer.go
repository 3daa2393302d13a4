package analyzer

import (
	"sort"

	"github.com/ludo-technologies/schemascan/domain"
)

// PathExplorerConfig holds the hard bounds of the path explorer
type PathExplorerConfig struct {
	// MinPathLength is the number of entities at which a path becomes interesting
	MinPathLength int

	// MaxPathLength is the depth cap in entities
	MaxPathLength int

	// MaxFanOut truncates each node's neighbor list
	MaxFanOut int

	// MaxQueueSize caps the partial paths enqueued per start entity
	MaxQueueSize int

	// MaxPathsPerStart caps recorded paths per start entity
	MaxPathsPerStart int

	// MaxTotalPaths caps recorded paths across all starts
	MaxTotalPaths int

	// HighCostHops is the hop count at which a path is tagged high cost
	HighCostHops int

	// MediumCostHops is the hop count at which a path is tagged medium cost
	MediumCostHops int
}

// DefaultPathExplorerConfig returns a config with sensible defaults
func DefaultPathExplorerConfig() *PathExplorerConfig {
	return &PathExplorerConfig{
		MinPathLength:    4,
		MaxPathLength:    8,
		MaxFanOut:        10,
		MaxQueueSize:     5000,
		MaxPathsPerStart: 20,
		MaxTotalPaths:    200,
		HighCostHops:     6,
		MediumCostHops:   5,
	}
}

// PathExplorer enumerates deep relation chains under fixed budgets
type PathExplorer struct {
	config *PathExplorerConfig
}

// NewPathExplorer creates a new PathExplorer
func NewPathExplorer(config *PathExplorerConfig) *PathExplorer {
	if config == nil {
		config = DefaultPathExplorerConfig()
	}
	return &PathExplorer{config: config}
}

// Explore runs a breadth-first search from every entity and returns the
// longest path per (start, end) pair, ranked longest first
func (e *PathExplorer) Explore(graph *domain.RelationGraph) *domain.PathAnalysis {
	result := &domain.PathAnalysis{Paths: []domain.RelationPath{}}
	if graph == nil || graph.NodeCount() == 0 {
		return result
	}

	total := 0
	for _, start := range graph.Order {
		if total >= e.config.MaxTotalPaths {
			result.Truncated = true
			break
		}

		paths, truncated := e.exploreFrom(graph, start, e.config.MaxTotalPaths-total)
		if truncated {
			result.Truncated = true
		}
		total += len(paths)
		result.Paths = append(result.Paths, paths...)
	}

	sort.SliceStable(result.Paths, func(i, j int) bool {
		return result.Paths[i].Hops > result.Paths[j].Hops
	})

	return result
}

// exploreFrom searches from a single start entity. budget is the number of
// paths that may still be recorded overall.
func (e *PathExplorer) exploreFrom(graph *domain.RelationGraph, start string, budget int) ([]domain.RelationPath, bool) {
	limit := min(e.config.MaxPathsPerStart, budget)
	truncated := false

	// Longest path per end entity, in the order ends were first reached
	var ends []string
	best := make(map[string][]string)

	queue := [][]string{{start}}
	enqueued := 1

	for head := 0; head < len(queue); head++ {
		path := queue[head]
		queue[head] = nil

		if len(path) >= e.config.MinPathLength {
			end := path[len(path)-1]
			if existing, ok := best[end]; ok {
				if len(path) > len(existing) {
					best[end] = path
				}
			} else if len(ends) < limit {
				ends = append(ends, end)
				best[end] = path
			} else {
				truncated = true
			}
		}

		if len(path) >= e.config.MaxPathLength {
			continue
		}

		neighbors := graph.Neighbors(path[len(path)-1])
		if len(neighbors) > e.config.MaxFanOut {
			neighbors = neighbors[:e.config.MaxFanOut]
			truncated = true
		}

		for _, next := range neighbors {
			if containsEntity(path, next) {
				continue
			}
			if enqueued >= e.config.MaxQueueSize {
				truncated = true
				break
			}
			extended := make([]string, len(path)+1)
			copy(extended, path)
			extended[len(path)] = next
			queue = append(queue, extended)
			enqueued++
		}
	}

	paths := make([]domain.RelationPath, 0, len(ends))
	for _, end := range ends {
		entities := best[end]
		hops := len(entities) - 1
		paths = append(paths, domain.RelationPath{
			Entities: entities,
			Hops:     hops,
			Cost:     e.CostTier(hops),
		})
	}
	return paths, truncated
}

// CostTier maps a hop count to its estimated query cost
func (e *PathExplorer) CostTier(hops int) domain.CostTier {
	switch {
	case hops >= e.config.HighCostHops:
		return domain.CostTierHigh
	case hops >= e.config.MediumCostHops:
		return domain.CostTierMedium
	default:
		return domain.CostTierLow
	}
}

func containsEntity(path []string, name string) bool {
	for _, p := range path {
		if p == name {
			return true
		}
	}
	return false
}
