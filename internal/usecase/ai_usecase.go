package usecase

import "context"

// --- Input DTOs ---

// GenerateDescriptionInput defines the product attributes fed into the
// description prompt.
type GenerateDescriptionInput struct {
	ProductName string
	Category    string
	Materials   string
	Region      string
	Keywords    []string
}

// SuggestPriceInput defines the product attributes fed into the pricing
// prompt.
type SuggestPriceInput struct {
	ProductName  string
	Category     string
	MaterialCost float64
	HoursOfWork  float64
	Region       string
}

// AssistantInput defines one user turn of the shopping assistant.
type AssistantInput struct {
	Message string
}

// --- Output DTOs ---

// DescriptionOutput is the structured description the model produced.
type DescriptionOutput struct {
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
}

// PriceSuggestion is the structured pricing advice the model produced.
type PriceSuggestion struct {
	MinPrice         float64 `json:"minPrice"`
	MaxPrice         float64 `json:"maxPrice"`
	RecommendedPrice float64 `json:"recommendedPrice"`
	Reasoning        string  `json:"reasoning"`
}

// TrendItem is one market trend in a trend report.
type TrendItem struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Demand      string `json:"demand"` // "rising", "steady" or "falling"
}

// TrendReport is the structured trend summary the model produced.
type TrendReport struct {
	Summary string      `json:"summary"`
	Trends  []TrendItem `json:"trends"`
}

// FundingReport summarizes an artisan's investment standing.
type FundingReport struct {
	Summary         string   `json:"summary"`
	Recommendations []string `json:"recommendations"`
}

// InsightsReport summarizes a user's activity on the platform.
type InsightsReport struct {
	Summary     string   `json:"summary"`
	Suggestions []string `json:"suggestions"`
}

// AssistantOutput is the assistant's reply for one turn.
type AssistantOutput struct {
	Reply string `json:"reply"`
}

// AIUsecase defines the interface for the AI-assisted content operations.
type AIUsecase interface {
	GenerateDescription(ctx context.Context, input *GenerateDescriptionInput) (*DescriptionOutput, error)
	SuggestPrice(ctx context.Context, input *SuggestPriceInput) (*PriceSuggestion, error)
	Trends(ctx context.Context, category string) (*TrendReport, error)
	FundingReport(ctx context.Context, caller Caller) (*FundingReport, error)
	PersonalInsights(ctx context.Context, caller Caller) (*InsightsReport, error)
	Assistant(ctx context.Context, caller Caller, input *AssistantInput) (*AssistantOutput, error)
}
