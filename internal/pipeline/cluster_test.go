// internal/pipeline/cluster_test.go
package pipeline

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"keywordgen/internal/common/logger"
	"keywordgen/internal/models"
)

func TestClusterAppliesLabels(t *testing.T) {
	client := &fakeLLM{respond: func(prompt string, call int) (string, error) {
		return `{"clusters": [
			{"cluster_name": "Pricing", "keywords": ["CRM Pricing", "crm cost"]},
			{"cluster_name": "Automation", "keywords": ["email automation"]}
		]}`, nil
	}}
	c := &clusterer{llm: client, logger: logger.NewTestLogger(t)}

	records := []models.Keyword{
		{Text: "crm pricing"},
		{Text: "crm cost"},
		{Text: "email automation"},
	}

	clustered := c.Cluster(context.Background(), records, models.CompanyProfile{Name: "Acme"}, 2)

	assert.Equal(t, "Pricing", clustered[0].ClusterName)
	assert.Equal(t, "Pricing", clustered[1].ClusterName)
	assert.Equal(t, "Automation", clustered[2].ClusterName)
}

func TestClusterOmittedKeywordGetsFallback(t *testing.T) {
	client := &fakeLLM{respond: func(prompt string, call int) (string, error) {
		return `{"clusters": [{"cluster_name": "Pricing", "keywords": ["crm pricing"]}]}`, nil
	}}
	c := &clusterer{llm: client, logger: logger.NewTestLogger(t)}

	records := []models.Keyword{
		{Text: "crm pricing"},
		{Text: "forgotten keyword"},
	}

	clustered := c.Cluster(context.Background(), records, models.CompanyProfile{Name: "Acme"}, 2)

	assert.Equal(t, "Pricing", clustered[0].ClusterName)
	assert.Equal(t, "Other", clustered[1].ClusterName)
}

func TestClusterFailureLabelsEverythingGeneral(t *testing.T) {
	client := &fakeLLM{respond: func(prompt string, call int) (string, error) {
		return "broken response", nil
	}}
	c := &clusterer{llm: client, logger: logger.NewTestLogger(t)}

	records := []models.Keyword{
		{Text: "crm pricing"},
		{Text: "email automation"},
	}

	clustered := c.Cluster(context.Background(), records, models.CompanyProfile{Name: "Acme"}, 2)

	for _, kw := range clustered {
		assert.Equal(t, "General", kw.ClusterName)
	}
}

func TestClusterEmptyInput(t *testing.T) {
	c := &clusterer{llm: &fakeLLM{}, logger: logger.NewTestLogger(t)}
	assert.Nil(t, c.Cluster(context.Background(), nil, models.CompanyProfile{Name: "Acme"}, 2))
}
