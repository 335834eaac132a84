// internal/pipeline/filters.go
package pipeline

import (
	"regexp"

	"keywordgen/internal/models"
)

// Over-generic phrasings that rarely convert. Research-sourced records are
// exempt: a real user asked for them, however generic they look.
var broadPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^what is \w+$`),
	regexp.MustCompile(`^\w+ vs \w+$`),
	regexp.MustCompile(`^best \w+$`),
	regexp.MustCompile(`^top \w+$`),
	regexp.MustCompile(`^\w+ guide$`),
	regexp.MustCompile(`^\w+ definition$`),
	regexp.MustCompile(`^\w+ meaning$`),
}

// FilterByScore keeps records whose score meets the threshold.
func FilterByScore(records []models.Keyword, minScore int) []models.Keyword {
	kept := make([]models.Keyword, 0, len(records))
	for _, kw := range records {
		if kw.Score >= minScore {
			kept = append(kept, kw)
		}
	}
	return kept
}

// FilterByWordCount keeps records with at least minWords tokens.
func FilterByWordCount(records []models.Keyword, minWords int) []models.Keyword {
	kept := make([]models.Keyword, 0, len(records))
	for _, kw := range records {
		if kw.WordCount() >= minWords {
			kept = append(kept, kw)
		}
	}
	return kept
}

// FilterBroadPatterns drops records matching a broad generic phrasing,
// unless they were discovered through community research.
func FilterBroadPatterns(records []models.Keyword) []models.Keyword {
	kept := make([]models.Keyword, 0, len(records))
	for _, kw := range records {
		if kw.IsResearchSourced() || !matchesBroadPattern(kw.Text) {
			kept = append(kept, kw)
		}
	}
	return kept
}

func matchesBroadPattern(text string) bool {
	normalized := models.Normalize(text)
	for _, pattern := range broadPatterns {
		if pattern.MatchString(normalized) {
			return true
		}
	}
	return false
}
