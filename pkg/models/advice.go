package models

// RecommendationCategory groups recommendations by the kind of change.
type RecommendationCategory string

const (
	CategoryCaching           RecommendationCategory = "caching"
	CategoryBatching          RecommendationCategory = "batching"
	CategoryModelOptimization RecommendationCategory = "model-optimization"
	CategoryErrorHandling     RecommendationCategory = "error-handling"
	CategoryArchitecture      RecommendationCategory = "architecture"
)

// Difficulty is the implementation effort of a recommendation.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Recommendation is a cost optimization suggestion. Lower Priority is more urgent.
type Recommendation struct {
	Title            string                 `json:"title"`
	Description      string                 `json:"description"`
	Category         RecommendationCategory `json:"category"`
	EstimatedSavings float64                `json:"estimated_savings"`
	Difficulty       Difficulty             `json:"implementation_difficulty"`
	CodeSuggestion   string                 `json:"code_suggestion,omitempty"`
	Priority         int                    `json:"priority"`
}
