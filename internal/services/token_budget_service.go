package services

import (
	"math"
	"strings"
	"wayfarer/internal/models/request_models"
	"wayfarer/internal/models/response_models"
)

// Per-day generation cost tables. The numbers are calibrated against observed
// Gemini output sizes for the three verbosity tiers.
var (
	baseTokensPerDay = map[DetailLevel]int{
		DetailComprehensive: 450,
		DetailBalanced:      320,
		DetailSimplified:    200,
	}
	activitiesPerDay = map[DetailLevel]int{
		DetailComprehensive: 4,
		DetailBalanced:      3,
		DetailSimplified:    2,
	}
	tokensPerActivity = map[DetailLevel]int{
		DetailComprehensive: 90,
		DetailBalanced:      70,
		DetailSimplified:    50,
	}
	focusComplexity = map[ChunkFocus]float64{
		FocusArrivalOrientation:     1.1,
		FocusCulturalImmersion:      1.2,
		FocusFoodDiscovery:          1.0,
		FocusNatureExploration:      1.05,
		FocusHistoricalSites:        1.15,
		FocusEntertainmentLeisure:   1.0,
		FocusNightlifeEntertainment: 1.1,
		FocusDepartureLogistics:     0.8,
	}
)

// Destinations whose culture/script tends to need longer explanations.
var complexDestinations = []string{
	"tokyo", "kyoto", "osaka", "seoul", "beijing", "shanghai",
	"marrakech", "cairo", "istanbul", "varanasi", "delhi", "mumbai",
}

// continuationOverheadTokens is the fixed cost of the carried context block
// prepended to every chunk after the first.
const continuationOverheadTokens = 250

// Per-chunk estimates above this threshold get routed to the larger model.
const highCapacityThreshold = 4000

type TokenBudgetServiceInterface interface {
	EstimateChunk(chunk Chunk, trip request_models.Trip) int
	EstimateTotal(chunks []Chunk, trip request_models.Trip) int
	EstimateStandard(trip request_models.Trip, detail DetailLevel) int
	CalculateTokenBudget(estimate int, marginPct float64) response_models.TokenBudget
}

type TokenBudgetService struct{}

func NewTokenBudgetService() TokenBudgetServiceInterface {
	return &TokenBudgetService{}
}

// EstimateChunk is deterministic given fixed inputs; the planner and the
// orchestrator both rely on that for reproducible budgeting.
func (s *TokenBudgetService) EstimateChunk(chunk Chunk, trip request_models.Trip) int {
	tokens := chunk.Length() * s.perDayTokens(chunk.DetailLevel, focusFactor(chunk.Focus), destinationFactor(trip.Destination.Name))
	if chunk.IsContinuation() {
		tokens += continuationOverheadTokens
	}
	return tokens
}

func (s *TokenBudgetService) EstimateTotal(chunks []Chunk, trip request_models.Trip) int {
	total := 0
	for _, chunk := range chunks {
		total += s.EstimateChunk(chunk, trip)
	}
	return total
}

func (s *TokenBudgetService) EstimateStandard(trip request_models.Trip, detail DetailLevel) int {
	return trip.Duration * s.perDayTokens(detail, 1.0, destinationFactor(trip.Destination.Name))
}

func (s *TokenBudgetService) perDayTokens(detail DetailLevel, focus, destination float64) int {
	base, ok := baseTokensPerDay[detail]
	if !ok {
		base = baseTokensPerDay[DetailBalanced]
		detail = DetailBalanced
	}
	perActivity := float64(activitiesPerDay[detail]*tokensPerActivity[detail]) * focus * destination
	return base + int(math.Ceil(perActivity))
}

func (s *TokenBudgetService) CalculateTokenBudget(estimate int, marginPct float64) response_models.TokenBudget {
	if marginPct <= 0 {
		marginPct = 0.2
	}

	model := "fast"
	if estimate > highCapacityThreshold {
		model = "high-capacity"
	}

	suggestion := int(math.Ceil(float64(estimate) / float64(highCapacityThreshold)))
	if suggestion < 1 {
		suggestion = 1
	}

	return response_models.TokenBudget{
		Estimated:            estimate,
		BudgetWithMargin:     int(math.Ceil(float64(estimate) * (1 + marginPct))),
		RecommendedModel:     model,
		ChunkCountSuggestion: suggestion,
	}
}

func focusFactor(focus ChunkFocus) float64 {
	if f, ok := focusComplexity[focus]; ok {
		return f
	}
	return 1.0
}

func destinationFactor(name string) float64 {
	lower := strings.ToLower(name)
	for _, dest := range complexDestinations {
		if strings.Contains(lower, dest) {
			return 1.3
		}
	}
	return 1.0
}
