// internal/models/company.go
package models

// CompanyProfile describes the business keywords are generated for. Name is
// the only required field; everything else sharpens the prompts and the
// hyper-niche variant synthesis.
type CompanyProfile struct {
	Name           string   `json:"name"`
	URL            string   `json:"url,omitempty"`
	Industry       string   `json:"industry,omitempty"`
	Description    string   `json:"description,omitempty"`
	Services       []string `json:"services,omitempty"`
	Products       []string `json:"products,omitempty"`
	Brands         []string `json:"brands,omitempty"`
	TargetLocation string   `json:"target_location,omitempty"`
	TargetAudience string   `json:"target_audience,omitempty"`
	Competitors    []string `json:"competitors,omitempty"`
}

// GenerationConfig enumerates the per-run knobs of the pipeline.
type GenerationConfig struct {
	TargetCount      int    `json:"target_count" mapstructure:"target_count"`
	MinScore         int    `json:"min_score" mapstructure:"min_score"`
	EnableClustering bool   `json:"enable_clustering" mapstructure:"enable_clustering"`
	ClusterCount     int    `json:"cluster_count" mapstructure:"cluster_count"`
	Language         string `json:"language" mapstructure:"language"`
	Region           string `json:"region" mapstructure:"region"`

	// MinWordCount below 3 disables the word-count filter entirely. 4+ is
	// the hyper-niche long-tail-only mode.
	MinWordCount int `json:"min_word_count" mapstructure:"min_word_count"`

	EnableResearch bool `json:"enable_research" mapstructure:"enable_research"`
	// ResearchFocus implies research and turns on strict broad-pattern
	// filtering of generic phrasings.
	ResearchFocus      bool `json:"research_focus" mapstructure:"research_focus"`
	EnableGapAnalysis  bool `json:"enable_gap_analysis" mapstructure:"enable_gap_analysis"`
	EnableAutocomplete bool `json:"enable_autocomplete" mapstructure:"enable_autocomplete"`

	EnableSERPAnalysis bool `json:"enable_serp_analysis" mapstructure:"enable_serp_analysis"`
	SERPSampleSize     int  `json:"serp_sample_size" mapstructure:"serp_sample_size"`
	EnableVolumeLookup bool `json:"enable_volume_lookup" mapstructure:"enable_volume_lookup"`
	EnableTrends       bool `json:"enable_trends" mapstructure:"enable_trends"`
}

// DefaultGenerationConfig returns the baseline knobs used when the caller
// does not override them.
func DefaultGenerationConfig() GenerationConfig {
	return GenerationConfig{
		TargetCount:      50,
		MinScore:         40,
		EnableClustering: true,
		ClusterCount:     6,
		Language:         "english",
		Region:           "us",
		MinWordCount:     2,
		SERPSampleSize:   15,
	}
}

// Normalized resolves implied settings: research focus forces research on and
// bumps the minimum word count into long-tail territory.
func (c GenerationConfig) Normalized() GenerationConfig {
	out := c
	if out.TargetCount <= 0 {
		out.TargetCount = 50
	}
	if out.ClusterCount <= 0 {
		out.ClusterCount = 6
	}
	if out.Language == "" {
		out.Language = "english"
	}
	if out.Region == "" {
		out.Region = "us"
	}
	if out.SERPSampleSize <= 0 {
		out.SERPSampleSize = 15
	}
	if out.ResearchFocus {
		out.EnableResearch = true
		if out.MinWordCount < 4 {
			out.MinWordCount = 4
		}
	}
	return out
}
