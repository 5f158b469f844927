// Package search matches filenames against a filter query.
package search

import (
	"strings"

	"github.com/sahilm/fuzzy"
)

// MatchResult identifies a matched name and which of its characters matched.
type MatchResult struct {
	Index          int   // Index into the searched name list
	MatchedIndexes []int // Character positions that matched (for highlighting)
}

// SubstringMatchNames performs case-insensitive substring matching on a list
// of names and returns the matches with their matched character positions.
// An empty query matches nothing.
func SubstringMatchNames(query string, names []string) []MatchResult {
	if query == "" {
		return nil
	}

	lowerQuery := strings.ToLower(query)
	var results []MatchResult

	for i, name := range names {
		lowerName := strings.ToLower(name)
		if idx := strings.Index(lowerName, lowerQuery); idx != -1 {
			matchedIndexes := make([]int, len(query))
			for j := 0; j < len(query); j++ {
				matchedIndexes[j] = idx + j
			}
			results = append(results, MatchResult{
				Index:          i,
				MatchedIndexes: matchedIndexes,
			})
		}
	}

	return results
}

// FuzzyMatchNames performs fuzzy matching on a list of names, best matches
// first. An empty query matches nothing.
func FuzzyMatchNames(query string, names []string) []MatchResult {
	if query == "" {
		return nil
	}

	matches := fuzzy.Find(query, names)

	results := make([]MatchResult, 0, len(matches))
	for _, match := range matches {
		results = append(results, MatchResult{
			Index:          match.Index,
			MatchedIndexes: match.MatchedIndexes,
		})
	}

	return results
}
