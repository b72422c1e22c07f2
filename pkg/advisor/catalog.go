package advisor

import "github.com/pario-ai/costscope/pkg/models"

// DeduplicationTitle names the recommendation promoted when calls retry often.
const DeduplicationTitle = "Implement Request Deduplication"

var templates = []models.Recommendation{
	{
		Title:            "Enable Response Caching",
		Description:      "Cache frequently used API responses to reduce redundant calls. This is especially effective for queries that are repeated within short time windows.",
		Category:         models.CategoryCaching,
		EstimatedSavings: 30,
		Difficulty:       models.DifficultyEasy,
		CodeSuggestion: `key := hashRequest(params)
if e, ok := cache.Get(key); ok && !e.Expired() {
	return e.Data, nil
}
result, err := client.Call(ctx, params)
if err != nil {
	return nil, err
}
cache.Put(key, result)
return result, nil`,
		Priority: 1,
	},
	{
		Title:            "Batch API Requests",
		Description:      "Combine multiple individual requests into fewer batch requests. This reduces overhead and often provides better API discounts.",
		Category:         models.CategoryBatching,
		EstimatedSavings: 25,
		Difficulty:       models.DifficultyMedium,
		CodeSuggestion: `reqs := []Request{userReq(id1), userReq(id2)}
results, err := client.BatchFetch(ctx, reqs)`,
		Priority: 2,
	},
	{
		Title:            "Use Cheaper Model Variant",
		Description:      "Switch from Pro model to Flash for non-critical tasks. Flash provides 95% of Pro's capabilities at 1/10th the cost.",
		Category:         models.CategoryModelOptimization,
		EstimatedSavings: 40,
		Difficulty:       models.DifficultyEasy,
		CodeSuggestion: `model := "gemini-2.5-flash"
if isComplexTask {
	model = "gemini-2.5-pro"
}
resp, err := client.GenerateContent(ctx, model, prompt)`,
		Priority: 1,
	},
	{
		Title:            "Implement Circuit Breaker Pattern",
		Description:      "Prevent cascading failures and wasted retries by implementing circuit breaker pattern. This reduces costs from failed retry attempts.",
		Category:         models.CategoryErrorHandling,
		EstimatedSavings: 20,
		Difficulty:       models.DifficultyMedium,
		CodeSuggestion: `type Breaker struct {
	failures  int
	threshold int
}

func (b *Breaker) Do(fn func() error) error {
	if b.failures >= b.threshold {
		return errors.New("circuit breaker is open")
	}
	if err := fn(); err != nil {
		b.failures++
		return err
	}
	b.failures = 0
	return nil
}`,
		Priority: 2,
	},
	{
		Title:            "Reduce Token Usage",
		Description:      "Minimize input tokens by removing unnecessary context, using summaries, and filtering data before sending to API.",
		Category:         models.CategoryArchitecture,
		EstimatedSavings: 35,
		Difficulty:       models.DifficultyMedium,
		CodeSuggestion: `full := fetchDocument()          // 100k tokens
relevant := extractRelevant(full) // 5k tokens
resp, err := client.Process(ctx, relevant)`,
		Priority: 1,
	},
	{
		Title:            DeduplicationTitle,
		Description:      "Detect and prevent duplicate requests within a short window. Great for handling race conditions and async operations.",
		Category:         models.CategoryArchitecture,
		EstimatedSavings: 15,
		Difficulty:       models.DifficultyEasy,
		CodeSuggestion: `var group singleflight.Group
v, err, _ := group.Do(key, func() (any, error) {
	return client.Call(ctx, params)
})`,
		Priority: 2,
	},
}

// Catalog returns a copy of the recommendation templates in declaration order.
func Catalog() []models.Recommendation {
	out := make([]models.Recommendation, len(templates))
	copy(out, templates)
	return out
}

// ByCategory returns the templates in category, in declaration order.
func ByCategory(category models.RecommendationCategory) []models.Recommendation {
	var out []models.Recommendation
	for _, r := range templates {
		if r.Category == category {
			out = append(out, r)
		}
	}
	return out
}
