// internal/pipeline/variants.go
package pipeline

import (
	"fmt"

	"keywordgen/internal/models"
)

const (
	sourceVariantLocation = "hyper_niche_location"
	sourceVariantAudience = "hyper_niche_audience"
	sourceVariantIndustry = "hyper_niche_industry"
)

// How many offerings to expand; variants multiply fast and fast dedup runs
// again right after injection.
const maxVariantOfferings = 8

// SynthesizeVariants constructs hyper-niche long-tail candidates by
// combining the company's offerings with its geography, audience and
// industry. They enter the pipeline unscored, like any other source
// contribution.
func SynthesizeVariants(profile models.CompanyProfile) []models.Keyword {
	offerings := make([]string, 0, maxVariantOfferings)
	offerings = append(offerings, profile.Services...)
	offerings = append(offerings, profile.Products...)
	if len(offerings) > maxVariantOfferings {
		offerings = offerings[:maxVariantOfferings]
	}

	var variants []models.Keyword
	add := func(text, source string) {
		variants = append(variants, models.Keyword{
			Text:       text,
			Intent:     models.IntentCommercial,
			Source:     source,
			Difficulty: 50,
		})
	}

	for _, offering := range offerings {
		if offering == "" {
			continue
		}
		if profile.TargetLocation != "" {
			add(fmt.Sprintf("%s %s", offering, profile.TargetLocation), sourceVariantLocation)
			add(fmt.Sprintf("%s near %s", offering, profile.TargetLocation), sourceVariantLocation)
		}
		if profile.TargetAudience != "" {
			add(fmt.Sprintf("%s for %s", offering, profile.TargetAudience), sourceVariantAudience)
		}
		if profile.Industry != "" {
			add(fmt.Sprintf("%s for %s companies", offering, profile.Industry), sourceVariantIndustry)
		}
	}

	return variants
}
