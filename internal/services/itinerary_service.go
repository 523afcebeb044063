package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"wayfarer/internal/models/request_models"
	"wayfarer/internal/models/response_models"
	"wayfarer/pkg/utils"
)

// HealthReport is introspection only: configuration plus which collaborators
// are wired. No behavior hangs off it.
type HealthReport struct {
	Provider      string          `json:"provider"`
	Configuration ChunkingConfig  `json:"configuration"`
	Subcomponents map[string]bool `json:"subcomponents"`
}

// ItineraryServiceInterface is the single entry point the controllers consume.
type ItineraryServiceInterface interface {
	AnalyzeTrip(trip request_models.Trip) (TripAnalysis, error)
	EstimateTokens(trip request_models.Trip) (response_models.TokenBudget, error)
	PreviewChunks(trip request_models.Trip) ([]Chunk, error)
	GenerateLongTripItinerary(ctx context.Context, trip request_models.Trip) (*response_models.FinalItinerary, error)
	HealthStatus() HealthReport
}

type ItineraryService struct {
	planner   ChunkPlannerInterface
	budget    TokenBudgetServiceInterface
	generator ChunkGeneratorInterface
	fallback  FallbackGeneratorInterface
	prompts   PromptBuilderInterface
	parser    ResponseParserInterface
	combiner  ResultCombinerInterface
	ai        utils.AIClientInterface
	config    ChunkingConfig
}

func NewItineraryService(
	planner ChunkPlannerInterface,
	budget TokenBudgetServiceInterface,
	generator ChunkGeneratorInterface,
	fallback FallbackGeneratorInterface,
	prompts PromptBuilderInterface,
	parser ResponseParserInterface,
	combiner ResultCombinerInterface,
	ai utils.AIClientInterface,
	config ChunkingConfig,
) ItineraryServiceInterface {
	return &ItineraryService{
		planner:   planner,
		budget:    budget,
		generator: generator,
		fallback:  fallback,
		prompts:   prompts,
		parser:    parser,
		combiner:  combiner,
		ai:        ai,
		config:    config,
	}
}

func (s *ItineraryService) AnalyzeTrip(trip request_models.Trip) (TripAnalysis, error) {
	if err := validateTrip(trip); err != nil {
		return TripAnalysis{}, err
	}
	return s.planner.Analyze(trip), nil
}

func (s *ItineraryService) EstimateTokens(trip request_models.Trip) (response_models.TokenBudget, error) {
	if err := validateTrip(trip); err != nil {
		return response_models.TokenBudget{}, err
	}
	analysis := s.planner.Analyze(trip)
	return s.budget.CalculateTokenBudget(analysis.EstimatedTokens, s.config.BudgetMarginPct), nil
}

func (s *ItineraryService) PreviewChunks(trip request_models.Trip) ([]Chunk, error) {
	if err := validateTrip(trip); err != nil {
		return nil, err
	}
	return s.planner.Analyze(trip).Chunks, nil
}

// GenerateLongTripItinerary dispatches to the standard, chunked or emergency
// strategy. Apart from trip validation it never returns an error: degraded
// generations are reported through the summary, not thrown.
func (s *ItineraryService) GenerateLongTripItinerary(ctx context.Context, trip request_models.Trip) (*response_models.FinalItinerary, error) {
	if err := validateTrip(trip); err != nil {
		return nil, err
	}

	analysis := s.planner.Analyze(trip)
	log.Printf("generating %d-day trip to %s: strategy=%s chunks=%d estimated_tokens=%d",
		trip.Duration, trip.Destination.Name, analysis.Strategy, len(analysis.Chunks), analysis.EstimatedTokens)

	if !analysis.NeedsChunking {
		return s.generateStandard(ctx, trip, analysis), nil
	}
	return s.generator.GenerateChunkedItinerary(ctx, trip, analysis), nil
}

// generateStandard is the single-shot path for short trips: one provider call
// for the whole trip, fallback days for the whole trip if it fails.
func (s *ItineraryService) generateStandard(ctx context.Context, trip request_models.Trip, analysis TripAnalysis) *response_models.FinalItinerary {
	chunk := analysis.Chunks[0]

	result := ChunkResult{ChunkID: chunk.ID}
	days, tokensUsed, err := s.tryStandardGeneration(ctx, trip, analysis, chunk)
	if err != nil {
		log.Printf("standard generation failed: %v, falling back", err)
		result.Days = s.fallback.GenerateFallbackDays(trip, chunk)
		result.FallbackUsed = true
		result.Error = err.Error()
	} else {
		result.Success = true
		result.Days = days
		result.TokensUsed = tokensUsed
	}

	return s.combiner.Combine([]ChunkResult{result}, trip)
}

func (s *ItineraryService) tryStandardGeneration(ctx context.Context, trip request_models.Trip, analysis TripAnalysis, chunk Chunk) ([]response_models.Day, int, error) {
	start, err := trip.StartTime()
	if err != nil {
		return nil, 0, err
	}

	tokenBudget := s.budget.CalculateTokenBudget(analysis.EstimatedTokens, s.config.BudgetMarginPct)
	content, tokensUsed, err := s.ai.GenerateItineraryJSON(ctx, s.prompts.BuildStandardPrompt(trip), utils.GenerationOptions{
		MaxOutputTokens: tokenBudget.BudgetWithMargin,
		Temperature:     temperatureFor(chunk.Priority),
	})
	if err != nil {
		return nil, 0, err
	}

	days, err := s.parser.ParseDays(content, trip.Duration, start)
	if err != nil {
		return nil, 0, err
	}
	return days, tokensUsed, nil
}

func (s *ItineraryService) HealthStatus() HealthReport {
	provider := ""
	if s.ai != nil {
		provider = s.ai.Provider()
	}
	return HealthReport{
		Provider:      provider,
		Configuration: s.config,
		Subcomponents: map[string]bool{
			"chunk_planner":      s.planner != nil,
			"token_budget":       s.budget != nil,
			"chunk_generator":    s.generator != nil,
			"fallback_generator": s.fallback != nil,
			"prompt_builder":     s.prompts != nil,
			"response_parser":    s.parser != nil,
			"result_combiner":    s.combiner != nil,
			"ai_client":          s.ai != nil,
		},
	}
}

// validateTrip is the only fatal error surface: a trip with no duration,
// destination or parsable start date has nothing valid to fall back from.
func validateTrip(trip request_models.Trip) error {
	if trip.Duration < 1 {
		return fmt.Errorf("%w: duration must be at least 1 day", utils.ErrInvalidTrip)
	}
	if strings.TrimSpace(trip.Destination.Name) == "" {
		return fmt.Errorf("%w: destination name is required", utils.ErrInvalidTrip)
	}
	if _, err := trip.StartTime(); err != nil {
		return fmt.Errorf("%w: start date must be YYYY-MM-DD", utils.ErrInvalidTrip)
	}
	return nil
}
