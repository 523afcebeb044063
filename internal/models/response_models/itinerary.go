package response_models

type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type ActivityLocation struct {
	Name        string      `json:"name"`
	Address     string      `json:"address,omitempty"`
	Coordinates Coordinates `json:"coordinates"`
}

type Activity struct {
	Time              string           `json:"time"` // HH:MM
	Title             string           `json:"title"`
	Description       string           `json:"description"`
	Location          ActivityLocation `json:"location"`
	DurationMinutes   int              `json:"duration_minutes"`
	Cost              float64          `json:"cost"`
	Category          string           `json:"category"`
	Notes             string           `json:"notes,omitempty"`
	FallbackGenerated bool             `json:"fallback_generated,omitempty"`
}

type Day struct {
	Date       string     `json:"date"` // YYYY-MM-DD
	Activities []Activity `json:"activities"`
}

type ItinerarySummary struct {
	TotalDays              int     `json:"total_days"`
	TotalActivities        int     `json:"total_activities"`
	EstimatedCost          float64 `json:"estimated_cost"`
	Currency               string  `json:"currency,omitempty"`
	SuccessfulChunks       int     `json:"successful_chunks"`
	FallbackChunks         int     `json:"fallback_chunks"`
	GenerationSuccessRatio float64 `json:"generation_success_ratio"`
}

type FinalItinerary struct {
	Days           []Day            `json:"days"`
	Summary        ItinerarySummary `json:"summary"`
	FallbackReason string           `json:"fallback_reason,omitempty"`
}

// TokenBudget is the pre-flight sizing returned by the estimate endpoint.
type TokenBudget struct {
	Estimated            int    `json:"estimated"`
	BudgetWithMargin     int    `json:"budget_with_margin"`
	RecommendedModel     string `json:"recommended_model"`
	ChunkCountSuggestion int    `json:"chunk_count_suggestion"`
}
