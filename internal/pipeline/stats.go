// internal/pipeline/stats.go
package pipeline

import (
	"keywordgen/internal/models"
)

// Word-length buckets for the statistics breakdown.
const (
	lengthShort  = "short"  // <= 3 words
	lengthMedium = "medium" // 4-5 words
	lengthLong   = "long"   // >= 6 words
)

// ComputeStatistics produces the aggregate summary of a finished run in a
// single pass over the final record set.
func ComputeStatistics(records []models.Keyword, duplicateCount int) models.Statistics {
	stats := models.Statistics{
		Total:                  len(records),
		IntentBreakdown:        make(map[string]int),
		WordLengthDistribution: make(map[string]int),
		SourceBreakdown:        make(map[string]int),
		DuplicateCount:         duplicateCount,
	}
	if len(records) == 0 {
		return stats
	}

	scoreSum := 0
	for _, kw := range records {
		stats.IntentBreakdown[kw.Intent]++
		stats.SourceBreakdown[kw.Source]++
		scoreSum += kw.Score

		switch words := kw.WordCount(); {
		case words <= 3:
			stats.WordLengthDistribution[lengthShort]++
		case words <= 5:
			stats.WordLengthDistribution[lengthMedium]++
		default:
			stats.WordLengthDistribution[lengthLong]++
		}
	}
	stats.AvgScore = float64(scoreSum) / float64(len(records))

	return stats
}
