package analyzer

import (
	"sort"

	"github.com/ludo-technologies/schemascan/domain"
)

// SimilarityDetectorConfig holds duplicate detection thresholds
type SimilarityDetectorConfig struct {
	// RedundantThreshold and RedundantMinShared define the should-merge tier
	RedundantThreshold float64
	RedundantMinShared int

	// OverlapThreshold and OverlapMinShared define the should-extract tier
	OverlapThreshold float64
	OverlapMinShared int

	// IgnoredFields are platform-managed field names left out of comparison
	IgnoredFields []string

	// Pattern scan bounds
	PatternSize            int
	PatternMinEntities     int
	PatternMaxFields       int
	PatternMaxCombinations int
}

// DefaultSimilarityDetectorConfig returns a config with sensible defaults
func DefaultSimilarityDetectorConfig() *SimilarityDetectorConfig {
	return &SimilarityDetectorConfig{
		RedundantThreshold: 0.85,
		RedundantMinShared: 4,
		OverlapThreshold:   0.70,
		OverlapMinShared:   3,
		IgnoredFields: []string{
			"id", "createdat", "updatedat", "publishedat",
			"createdby", "updatedby", "publishedby",
			"stage", "locale", "localizations",
			"documentinstages", "scheduledin", "history",
		},
		PatternSize:            3,
		PatternMinEntities:     3,
		PatternMaxFields:       25,
		PatternMaxCombinations: 50000,
	}
}

// SimilarityDetector finds redundant and overlapping entities and enumerations
type SimilarityDetector struct {
	config  *SimilarityDetectorConfig
	ignored map[string]bool
}

// NewSimilarityDetector creates a new SimilarityDetector
func NewSimilarityDetector(config *SimilarityDetectorConfig) *SimilarityDetector {
	if config == nil {
		config = DefaultSimilarityDetectorConfig()
	}
	ignored := make(map[string]bool, len(config.IgnoredFields))
	for _, f := range config.IgnoredFields {
		ignored[NormalizeName(f)] = true
	}
	return &SimilarityDetector{config: config, ignored: ignored}
}

// itemSet is a named, sorted, duplicate-free set of normalized items
type itemSet struct {
	name  string
	items []string
}

// Detect compares entity field sets and enumeration value sets and scans
// for repeated field combinations
func (d *SimilarityDetector) Detect(entities []domain.Entity, enumerations []domain.Enumeration) *domain.SimilarityAnalysis {
	result := &domain.SimilarityAnalysis{
		EntityGroups:      []domain.SimilarityGroup{},
		EnumerationGroups: []domain.SimilarityGroup{},
		AdHocPatterns:     []domain.AdHocPattern{},
	}

	entitySets := make([]itemSet, 0, len(entities))
	for i := range entities {
		entitySets = append(entitySets, itemSet{name: entities[i].Name, items: d.fieldNames(&entities[i], false)})
	}
	result.EntityGroups = d.groupSets(entitySets, domain.SubjectEntityFields)

	enumSets := make([]itemSet, 0, len(enumerations))
	for _, enum := range enumerations {
		enumSets = append(enumSets, itemSet{name: enum.Name, items: normalizeItems(enum.Values, nil)})
	}
	result.EnumerationGroups = d.groupSets(enumSets, domain.SubjectEnumerationValues)

	scan := d.scanPatterns(entities, result.EntityGroups)
	result.AdHocPatterns = scan.patterns
	result.PatternScanTruncated = scan.truncated
	result.SkippedEntities = scan.skipped
	result.KnownPatterns = MatchKnownPatterns(entities)

	return result
}

// SimilarityRatio returns |shared| / min(|a|, |b|) and the shared items.
// Both inputs must be sorted and duplicate-free. The ratio is asymmetric in
// effect: a small set fully contained in a large one scores 1.0.
func SimilarityRatio(a, b []string) (float64, []string) {
	shared := intersectSorted(a, b)
	denominator := min(len(a), len(b))
	if denominator == 0 {
		return 0, shared
	}
	return float64(len(shared)) / float64(denominator), shared
}

// ClassifyPair places a pair into the highest tier it qualifies for
func (d *SimilarityDetector) ClassifyPair(ratio float64, shared int) (domain.SimilarityKind, bool) {
	switch {
	case ratio >= d.config.RedundantThreshold && shared >= d.config.RedundantMinShared:
		return domain.SimilarityRedundant, true
	case ratio >= d.config.OverlapThreshold && shared >= d.config.OverlapMinShared:
		return domain.SimilarityOverlapping, true
	default:
		return "", false
	}
}

// fieldNames returns an entity's normalized field names without ignored
// fields, optionally without reference fields
func (d *SimilarityDetector) fieldNames(entity *domain.Entity, skipReferences bool) []string {
	names := make([]string, 0, len(entity.Fields))
	for _, f := range entity.Fields {
		if skipReferences && f.IsReference() {
			continue
		}
		names = append(names, f.Name)
	}
	return normalizeItems(names, d.ignored)
}

// similarPair is one classified pair of set indexes
type similarPair struct {
	i, j int
	kind domain.SimilarityKind
}

// groupSets classifies every pair, merges redundant pairs into connected
// groups and reports overlapping pairs not already inside a redundant group
func (d *SimilarityDetector) groupSets(sets []itemSet, subject domain.SimilaritySubject) []domain.SimilarityGroup {
	groups := []domain.SimilarityGroup{}

	var pairs []similarPair
	for i := 0; i < len(sets); i++ {
		for j := i + 1; j < len(sets); j++ {
			ratio, shared := SimilarityRatio(sets[i].items, sets[j].items)
			if kind, ok := d.ClassifyPair(ratio, len(shared)); ok {
				pairs = append(pairs, similarPair{i: i, j: j, kind: kind})
			}
		}
	}
	if len(pairs) == 0 {
		return groups
	}

	// Union-find over redundant pairs
	parent := make([]int, len(sets))
	for i := range parent {
		parent[i] = i
	}
	find := func(x int) int {
		for parent[x] != x {
			parent[x] = parent[parent[x]]
			x = parent[x]
		}
		return x
	}
	for _, p := range pairs {
		if p.kind != domain.SimilarityRedundant {
			continue
		}
		ri, rj := find(p.i), find(p.j)
		if ri != rj {
			parent[max(ri, rj)] = min(ri, rj)
		}
	}

	// Collect redundant groups in declaration order of their first member
	members := make(map[int][]int)
	var roots []int
	for _, p := range pairs {
		if p.kind != domain.SimilarityRedundant {
			continue
		}
		root := find(p.i)
		if _, ok := members[root]; !ok {
			roots = append(roots, root)
		}
		members[root] = nil
	}
	for i := range sets {
		root := find(i)
		if _, ok := members[root]; ok {
			members[root] = append(members[root], i)
		}
	}
	sort.Ints(roots)
	for _, root := range roots {
		groups = append(groups, buildGroup(sets, members[root], domain.SimilarityRedundant, subject))
	}

	for _, p := range pairs {
		if p.kind != domain.SimilarityOverlapping {
			continue
		}
		// Already reported as part of a redundant group
		if find(p.i) == find(p.j) {
			continue
		}
		groups = append(groups, buildGroup(sets, []int{p.i, p.j}, domain.SimilarityOverlapping, subject))
	}

	return groups
}

// buildGroup assembles a group with its shared and unique items
func buildGroup(sets []itemSet, indexes []int, kind domain.SimilarityKind, subject domain.SimilaritySubject) domain.SimilarityGroup {
	group := domain.SimilarityGroup{
		Kind:       kind,
		Subject:    subject,
		Members:    make([]string, 0, len(indexes)),
		Similarity: 1,
		Unique:     make(map[string][]string),
	}

	shared := sets[indexes[0]].items
	counts := make(map[string]int)
	for a, i := range indexes {
		group.Members = append(group.Members, sets[i].name)
		shared = intersectSorted(shared, sets[i].items)
		for _, item := range sets[i].items {
			counts[item]++
		}
		for _, j := range indexes[a+1:] {
			ratio, _ := SimilarityRatio(sets[i].items, sets[j].items)
			group.Similarity = min(group.Similarity, ratio)
		}
	}
	group.Shared = shared

	for _, i := range indexes {
		var unique []string
		for _, item := range sets[i].items {
			if counts[item] == 1 {
				unique = append(unique, item)
			}
		}
		if len(unique) > 0 {
			group.Unique[sets[i].name] = unique
		}
	}

	return group
}

// normalizeItems normalizes, filters and sorts items, dropping duplicates
func normalizeItems(items []string, ignored map[string]bool) []string {
	seen := make(map[string]bool, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		n := NormalizeName(item)
		if n == "" || ignored[n] || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// intersectSorted returns the items present in both sorted slices
func intersectSorted(a, b []string) []string {
	out := []string{}
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] == b[j]:
			out = append(out, a[i])
			i++
			j++
		case a[i] < b[j]:
			i++
		default:
			j++
		}
	}
	return out
}
