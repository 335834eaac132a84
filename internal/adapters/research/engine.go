// internal/adapters/research/engine.go
package research

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"keywordgen/internal/common/logger"
	"keywordgen/internal/common/retry"
	"keywordgen/internal/llm"
	"keywordgen/internal/models"
)

var ErrResearchFailed = errors.New("RESEARCH_FAILED")

const (
	sourceReddit = "research_reddit"
	sourceQuora  = "research_quora"
	sourceNiche  = "research_niche"

	subResearchAttempts = 2
	retryBaseDelay      = 2 * time.Second
)

const keywordListSchema = `{
	"type": "object",
	"required": ["keywords"],
	"properties": {
		"keywords": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["keyword"],
				"properties": {
					"keyword": {"type": "string"},
					"intent": {"type": "string"}
				}
			}
		}
	}
}`

// Engine discovers hyper-niche keywords from community discussions (reddit
// threads, quora questions, niche terminology) through search-grounded LLM
// research. Keywords found here represent verified demand and are exempt
// from the broad-pattern filter downstream.
type Engine struct {
	llm    llm.Client
	logger logger.Logger
}

func NewEngine(client llm.Client, log logger.Logger) *Engine {
	return &Engine{
		llm:    client,
		logger: log.With(map[string]interface{}{"adapter": "research"}),
	}
}

// DiscoverKeywords fans out the three sub-researches in parallel and merges
// their findings. A failed sub-research degrades to an empty contribution;
// only the case where every sub-research fails is an error.
func (e *Engine) DiscoverKeywords(ctx context.Context, profile models.CompanyProfile, language string, targetCount int) ([]models.Keyword, error) {
	perSource := targetCount / 2
	if perSource < 15 {
		perSource = 15
	}

	prompts := []struct {
		source string
		prompt string
	}{
		{sourceReddit, e.redditPrompt(profile, language, perSource)},
		{sourceQuora, e.questionsPrompt(profile, language, perSource)},
		{sourceNiche, e.nicheTermsPrompt(profile, language, perSource)},
	}

	results := make([][]models.Keyword, len(prompts))
	var wg sync.WaitGroup
	for i, p := range prompts {
		wg.Add(1)
		go func(i int, source, prompt string) {
			defer wg.Done()
			found, err := e.research(ctx, source, prompt)
			if err != nil {
				e.logger.WithError(err).Warn("sub-research failed", map[string]interface{}{
					"source": source,
				})
				return
			}
			results[i] = found
		}(i, p.source, p.prompt)
	}
	wg.Wait()

	var all []models.Keyword
	for _, found := range results {
		all = append(all, found...)
	}
	if len(all) == 0 {
		return nil, fmt.Errorf("%w: no sub-research produced keywords", ErrResearchFailed)
	}

	// Exact dedup inside the adapter; cross-source dedup is the pipeline's job.
	seen := make(map[string]struct{}, len(all))
	unique := all[:0]
	for _, kw := range all {
		norm := models.Normalize(kw.Text)
		if norm == "" {
			continue
		}
		if _, ok := seen[norm]; ok {
			continue
		}
		seen[norm] = struct{}{}
		unique = append(unique, kw)
	}

	e.logger.Info("research completed", map[string]interface{}{
		"raw":    len(all),
		"unique": len(unique),
	})
	return unique, nil
}

func (e *Engine) research(ctx context.Context, source, prompt string) ([]models.Keyword, error) {
	var raw string
	err := retry.Do(ctx, subResearchAttempts, retryBaseDelay, func(ctx context.Context) error {
		var err error
		raw, err = e.llm.Generate(ctx, prompt, llm.GenerateOptions{Temperature: 0.7, JSONMode: true})
		return err
	})
	if err != nil {
		return nil, err
	}

	var payload struct {
		Keywords []struct {
			Keyword string `json:"keyword"`
			Intent  string `json:"intent"`
		} `json:"keywords"`
	}
	if err := llm.DecodeValidated(raw, keywordListSchema, &payload); err != nil {
		return nil, err
	}

	keywords := make([]models.Keyword, 0, len(payload.Keywords))
	for _, item := range payload.Keywords {
		text := strings.TrimSpace(item.Keyword)
		if text == "" {
			continue
		}
		isQuestion := source == sourceQuora || strings.EqualFold(item.Intent, models.IntentQuestion)
		keywords = append(keywords, models.Keyword{
			Text:       text,
			Intent:     models.ParseIntent(item.Intent, isQuestion),
			IsQuestion: isQuestion,
			Source:     source,
			Difficulty: 50,
		})
	}
	return keywords, nil
}

func (e *Engine) redditPrompt(profile models.CompanyProfile, language string, count int) string {
	services := strings.Join(profile.Services, ", ")
	if services == "" {
		services = profile.Industry
	}

	var parts []string
	parts = append(parts, fmt.Sprintf("You are a keyword researcher. Search Reddit for real discussions about %s.", profile.Industry))
	parts = append(parts, fmt.Sprintf("Search for: %q and %q", profile.Industry+" site:reddit.com", services+" site:reddit.com"))
	parts = append(parts, fmt.Sprintf("Find %d unique keyword phrases real users type when discussing problems, questions and solutions around %s.", count, services))
	parts = append(parts, fmt.Sprintf("All keywords must be in %s. Prefer long-tail phrases (4-7 words), questions, problem phrasings, comparisons and hyper-local variations.", strings.ToUpper(language)))
	parts = append(parts, `Return JSON: {"keywords": [{"keyword": "...", "intent": "question|commercial|informational|transactional|comparison"}]}`)
	return strings.Join(parts, "\n\n")
}

func (e *Engine) questionsPrompt(profile models.CompanyProfile, language string, count int) string {
	services := strings.Join(profile.Services, ", ")
	if services == "" {
		services = profile.Industry
	}

	var parts []string
	parts = append(parts, fmt.Sprintf("You are a keyword researcher. Search for real questions people ask about %s.", profile.Industry))
	parts = append(parts, fmt.Sprintf("Search: %q and %q", profile.Industry+" site:quora.com", "people also ask "+services))
	parts = append(parts, fmt.Sprintf("Find %d unique complete question phrases in %s: buying decisions, comparisons, troubleshooting, location-specific questions.", count, strings.ToUpper(language)))
	parts = append(parts, `Return JSON: {"keywords": [{"keyword": "...", "intent": "question"}]}`)
	return strings.Join(parts, "\n\n")
}

func (e *Engine) nicheTermsPrompt(profile models.CompanyProfile, language string, count int) string {
	context := profile.Industry
	if len(profile.Services) > 0 {
		context += ", " + strings.Join(profile.Services, ", ")
	}
	if len(profile.Products) > 0 {
		context += ", " + strings.Join(profile.Products, ", ")
	}

	var parts []string
	parts = append(parts, fmt.Sprintf("You are a keyword researcher. Search forums and specialized communities for niche terminology around: %s.", context))
	parts = append(parts, fmt.Sprintf("Find %d hyper-specific long-tail keywords in %s: industry jargon, role-specific and use-case-specific phrases, vertical-specific modifiers.", count, strings.ToUpper(language)))
	parts = append(parts, `Return JSON: {"keywords": [{"keyword": "...", "intent": "commercial|informational|transactional"}]}`)
	return strings.Join(parts, "\n\n")
}
