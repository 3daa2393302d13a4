package analyzer

import (
	"sort"
	"strings"

	"github.com/ludo-technologies/schemascan/domain"
)

// patternScanResult is the outcome of one pattern scan
type patternScanResult struct {
	patterns  []domain.AdHocPattern
	skipped   []string
	truncated bool
}

// scanPatterns finds combinations of non-reference field names shared by
// several entities that no known pattern or redundant group accounts for.
// Entities over the field ceiling are skipped and the number of
// combinations examined is capped.
func (d *SimilarityDetector) scanPatterns(entities []domain.Entity, groups []domain.SimilarityGroup) patternScanResult {
	result := patternScanResult{patterns: []domain.AdHocPattern{}}
	k := d.config.PatternSize
	if k < 1 {
		return result
	}

	occurrences := make(map[string][]string)
	var keys []string
	examined := 0

scan:
	for i := range entities {
		fields := d.fieldNames(&entities[i], true)
		if len(fields) > d.config.PatternMaxFields {
			result.skipped = append(result.skipped, entities[i].Name)
			continue
		}
		if len(fields) < k {
			continue
		}

		// Walk index combinations in lexicographic order
		idx := make([]int, k)
		for j := range idx {
			idx[j] = j
		}
		for {
			if examined >= d.config.PatternMaxCombinations {
				result.truncated = true
				break scan
			}
			examined++

			combo := make([]string, k)
			for j, x := range idx {
				combo[j] = fields[x]
			}
			key := strings.Join(combo, "|")
			if _, ok := occurrences[key]; !ok {
				keys = append(keys, key)
			}
			occurrences[key] = append(occurrences[key], entities[i].Name)

			if !nextCombination(idx, len(fields)) {
				break
			}
		}
	}

	// Merge qualifying combinations that occur in exactly the same entities
	merged := make(map[string]*domain.AdHocPattern)
	var order []string
	for _, key := range keys {
		owners := occurrences[key]
		if len(owners) < d.config.PatternMinEntities {
			continue
		}
		combo := strings.Split(key, "|")
		if _, covered := CoveredByKnownPattern(combo); covered {
			continue
		}
		if withinRedundantGroup(owners, groups) {
			continue
		}

		ownersKey := strings.Join(owners, "|")
		pattern, ok := merged[ownersKey]
		if !ok {
			pattern = &domain.AdHocPattern{Entities: owners}
			merged[ownersKey] = pattern
			order = append(order, ownersKey)
		}
		for _, f := range combo {
			if !containsEntity(pattern.Fields, f) {
				pattern.Fields = append(pattern.Fields, f)
			}
		}
	}

	for _, ownersKey := range order {
		pattern := merged[ownersKey]
		sort.Strings(pattern.Fields)
		result.patterns = append(result.patterns, *pattern)
	}
	sort.SliceStable(result.patterns, func(i, j int) bool {
		return len(result.patterns[i].Entities) > len(result.patterns[j].Entities)
	})

	return result
}

// nextCombination advances idx to the next k-combination of n items,
// returning false after the last one
func nextCombination(idx []int, n int) bool {
	k := len(idx)
	i := k - 1
	for i >= 0 && idx[i] == n-k+i {
		i--
	}
	if i < 0 {
		return false
	}
	idx[i]++
	for j := i + 1; j < k; j++ {
		idx[j] = idx[j-1] + 1
	}
	return true
}

// withinRedundantGroup reports whether every entity belongs to a single redundant group
func withinRedundantGroup(entities []string, groups []domain.SimilarityGroup) bool {
	for _, g := range groups {
		if g.Kind != domain.SimilarityRedundant {
			continue
		}
		all := true
		for _, e := range entities {
			if !containsEntity(g.Members, e) {
				all = false
				break
			}
		}
		if all {
			return true
		}
	}
	return false
}
