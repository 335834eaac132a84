// internal/pipeline/cluster.go
package pipeline

import (
	"context"
	"fmt"
	"strings"

	"keywordgen/internal/common/logger"
	"keywordgen/internal/common/metrics"
	"keywordgen/internal/common/retry"
	"keywordgen/internal/llm"
	"keywordgen/internal/models"
)

// Fallback cluster labels. "Other" marks a keyword the LLM omitted from an
// otherwise usable grouping; "General" marks a run where the clustering call
// itself failed. Both strings are part of the observable contract.
const (
	clusterFallbackOmitted = "Other"
	clusterFallbackFailed  = "General"
)

const clustersSchema = `{
	"type": "object",
	"required": ["clusters"],
	"properties": {
		"clusters": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["cluster_name", "keywords"],
				"properties": {
					"cluster_name": {"type": "string"},
					"keywords": {"type": "array", "items": {"type": "string"}}
				}
			}
		}
	}
}`

// clusterer partitions the final keyword set into named semantic groups with
// a single LLM call.
type clusterer struct {
	llm    llm.Client
	logger logger.Logger
}

// Cluster asks for exactly clusterCount named groups and applies the labels
// back by normalized-text match. Keywords missing from the response get the
// omitted fallback; a failed call labels every record with the failure
// fallback instead.
func (c *clusterer) Cluster(ctx context.Context, records []models.Keyword, profile models.CompanyProfile, clusterCount int) []models.Keyword {
	if len(records) == 0 {
		return nil
	}

	prompt := buildClusterPrompt(records, profile, clusterCount)

	var raw string
	err := retry.Do(ctx, llmAttempts, retryBaseDelay, func(ctx context.Context) error {
		metrics.LLMRequests.WithLabelValues("cluster").Inc()
		var err error
		raw, err = c.llm.Generate(ctx, prompt, llm.GenerateOptions{Temperature: 0.5, JSONMode: true})
		return err
	})

	var payload struct {
		Clusters []struct {
			ClusterName string   `json:"cluster_name"`
			Keywords    []string `json:"keywords"`
		} `json:"clusters"`
	}
	if err == nil {
		err = llm.DecodeValidated(raw, clustersSchema, &payload)
	}
	if err != nil {
		metrics.LLMRequestFailures.WithLabelValues("cluster").Inc()
		c.logger.WithError(err).Error("clustering failed, applying fallback label", nil)
		out := make([]models.Keyword, 0, len(records))
		for _, kw := range records {
			kw.ClusterName = clusterFallbackFailed
			out = append(out, kw)
		}
		return out
	}

	labelByText := make(map[string]string)
	for _, cluster := range payload.Clusters {
		name := cluster.ClusterName
		if name == "" {
			name = clusterFallbackOmitted
		}
		for _, text := range cluster.Keywords {
			labelByText[models.Normalize(text)] = name
		}
	}

	out := make([]models.Keyword, 0, len(records))
	for _, kw := range records {
		if name, ok := labelByText[models.Normalize(kw.Text)]; ok {
			kw.ClusterName = name
		} else {
			kw.ClusterName = clusterFallbackOmitted
		}
		out = append(out, kw)
	}

	c.logger.Info("clustering completed", map[string]interface{}{
		"keywords": len(out),
		"clusters": len(payload.Clusters),
	})
	return out
}

func buildClusterPrompt(records []models.Keyword, profile models.CompanyProfile, clusterCount int) string {
	lines := make([]string, 0, len(records))
	for _, kw := range records {
		lines = append(lines, "- "+kw.Text)
	}

	var parts []string
	parts = append(parts, fmt.Sprintf("Group these keywords into %d semantic clusters for %s.", clusterCount, profile.Name))
	parts = append(parts, "Keywords:\n"+strings.Join(lines, "\n"))
	parts = append(parts, fmt.Sprintf("Requirements:\n- Create exactly %d clusters\n- Each cluster needs a descriptive name (2-4 words)\n- Group keywords by theme/topic\n- Each keyword belongs to exactly one cluster", clusterCount))
	parts = append(parts, `Return ONLY a JSON object: {"clusters": [{"cluster_name": "Product Features", "keywords": ["keyword1", "keyword2"]}]}`)
	return strings.Join(parts, "\n\n")
}
