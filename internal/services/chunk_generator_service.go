package services

import (
	"context"
	"log"
	"sort"
	"time"
	"wayfarer/internal/models/request_models"
	"wayfarer/internal/models/response_models"
	"wayfarer/pkg/utils"
)

// GenerationContext carries continuity state across sequential chunk calls.
// It belongs to exactly one generation request and is mutated only between
// chunks, never concurrently.
type GenerationContext struct {
	PreviousDays       []response_models.Day
	ProcessedChunks    int
	TotalBudgetUsed    float64
	ActivityCategories map[string]struct{}
	OverallTheme       string
	Constraints        []string

	overlap int
}

func NewGenerationContext(trip request_models.Trip, overlapDays int) *GenerationContext {
	theme := ""
	if len(trip.Preferences.Interests) > 0 {
		theme = trip.Preferences.Interests[0]
	}
	return &GenerationContext{
		ActivityCategories: make(map[string]struct{}),
		OverallTheme:       theme,
		Constraints:        trip.Preferences.Constraints,
		overlap:            overlapDays,
	}
}

// RecordChunk folds a completed chunk's days into the context: slides the
// previous-days window, accumulates categories and realized cost.
func (gc *GenerationContext) RecordChunk(days []response_models.Day) {
	gc.PreviousDays = append(gc.PreviousDays, days...)
	if len(gc.PreviousDays) > gc.overlap {
		gc.PreviousDays = gc.PreviousDays[len(gc.PreviousDays)-gc.overlap:]
	}

	for _, day := range days {
		for _, act := range day.Activities {
			if act.Category != "" {
				gc.ActivityCategories[act.Category] = struct{}{}
			}
			gc.TotalBudgetUsed += act.Cost
		}
	}
	gc.ProcessedChunks++
}

func (gc *GenerationContext) CategoryList() []string {
	out := make([]string, 0, len(gc.ActivityCategories))
	for c := range gc.ActivityCategories {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// ChunkResult is the per-chunk outcome fed to the combiner.
type ChunkResult struct {
	ChunkID      string                `json:"chunk_id"`
	Success      bool                  `json:"success"`
	Days         []response_models.Day `json:"days"`
	FallbackUsed bool                  `json:"fallback_used"`
	Error        string                `json:"error,omitempty"`
	TokensUsed   int                   `json:"tokens_used,omitempty"`
}

type ChunkGeneratorInterface interface {
	GenerateChunkedItinerary(ctx context.Context, trip request_models.Trip, analysis TripAnalysis) *response_models.FinalItinerary
}

type ChunkGeneratorService struct {
	ai       utils.AIClientInterface
	prompts  PromptBuilderInterface
	parser   ResponseParserInterface
	fallback FallbackGeneratorInterface
	budget   TokenBudgetServiceInterface
	combiner ResultCombinerInterface
	config   ChunkingConfig
}

func NewChunkGeneratorService(
	ai utils.AIClientInterface,
	prompts PromptBuilderInterface,
	parser ResponseParserInterface,
	fallback FallbackGeneratorInterface,
	budget TokenBudgetServiceInterface,
	combiner ResultCombinerInterface,
	config ChunkingConfig,
) ChunkGeneratorInterface {
	return &ChunkGeneratorService{
		ai:       ai,
		prompts:  prompts,
		parser:   parser,
		fallback: fallback,
		budget:   budget,
		combiner: combiner,
		config:   config,
	}
}

// GenerateChunkedItinerary drives the chunk plan strictly sequentially: chunk
// i+1's prompt depends on the realized output of chunk i. Provider failures
// are recovered per chunk via the fallback generator and never abort the loop.
func (s *ChunkGeneratorService) GenerateChunkedItinerary(ctx context.Context, trip request_models.Trip, analysis TripAnalysis) *response_models.FinalItinerary {
	chunks := analysis.Chunks

	// Pre-flight circuit breaker: if the whole plan cannot fit the configured
	// ceiling there is no point burning provider calls chunk by chunk.
	totalEstimate := s.budget.EstimateTotal(chunks, trip)
	if totalEstimate > s.config.MaxTokensPerRequest*len(chunks) {
		log.Printf("token estimate %d exceeds budget %d, using emergency fallback",
			totalEstimate, s.config.MaxTokensPerRequest*len(chunks))
		itinerary := s.fallback.GenerateEmergencyFallback(trip)
		itinerary.FallbackReason = "estimated token cost exceeds configured budget"
		return itinerary
	}

	genCtx := NewGenerationContext(trip, s.config.ContextOverlapDays)
	results := make([]ChunkResult, 0, len(chunks))

	for i, chunk := range chunks {
		if ctx.Err() != nil {
			// Cancelled between chunks: backfill the un-generated range with
			// fallback days so the caller still gets a complete itinerary.
			log.Printf("generation cancelled after %d/%d chunks, backfilling", i, len(chunks))
			for _, remaining := range chunks[i:] {
				results = append(results, ChunkResult{
					ChunkID:      remaining.ID,
					Days:         s.fallback.GenerateFallbackDays(trip, remaining),
					FallbackUsed: true,
					Error:        "generation cancelled",
				})
			}
			break
		}

		result := s.generateChunk(ctx, trip, chunk, genCtx)
		results = append(results, result)
		genCtx.RecordChunk(result.Days)

		// Fixed pause between chunks to stay under provider rate limits.
		if i < len(chunks)-1 {
			select {
			case <-ctx.Done():
			case <-time.After(s.config.InterChunkDelay):
			}
		}
	}

	return s.combiner.Combine(results, trip)
}

func (s *ChunkGeneratorService) generateChunk(ctx context.Context, trip request_models.Trip, chunk Chunk, genCtx *GenerationContext) ChunkResult {
	chunkTrip := chunkTripView(trip, chunk)

	start, err := chunkTrip.StartTime()
	if err != nil {
		log.Printf("chunk %s: unparsable start date %q, falling back", chunk.ID, chunkTrip.Destination.StartDate)
		return s.fallbackResult(trip, chunk, "invalid start date")
	}

	prompt := s.prompts.BuildChunkedPrompt(chunkTrip, chunk, genCtx)
	tokenBudget := s.budget.CalculateTokenBudget(s.budget.EstimateChunk(chunk, trip), s.config.BudgetMarginPct)

	content, tokensUsed, err := s.ai.GenerateItineraryJSON(ctx, prompt, utils.GenerationOptions{
		MaxOutputTokens: tokenBudget.BudgetWithMargin,
		Temperature:     temperatureFor(chunk.Priority),
	})
	if err != nil {
		log.Printf("chunk %s: provider error: %v, falling back", chunk.ID, err)
		return s.fallbackResult(trip, chunk, err.Error())
	}

	days, err := s.parser.ParseDays(content, chunk.Length(), start)
	if err != nil {
		log.Printf("chunk %s: parse error: %v, falling back", chunk.ID, err)
		return s.fallbackResult(trip, chunk, err.Error())
	}

	return ChunkResult{
		ChunkID:    chunk.ID,
		Success:    true,
		Days:       days,
		TokensUsed: tokensUsed,
	}
}

func (s *ChunkGeneratorService) fallbackResult(trip request_models.Trip, chunk Chunk, reason string) ChunkResult {
	return ChunkResult{
		ChunkID:      chunk.ID,
		Days:         s.fallback.GenerateFallbackDays(trip, chunk),
		FallbackUsed: true,
		Error:        reason,
	}
}

// chunkTripView narrows the trip to the chunk's day range with a shifted
// start date, so the prompt builder and parser see a self-contained trip.
func chunkTripView(trip request_models.Trip, chunk Chunk) request_models.Trip {
	view := trip
	view.Duration = chunk.Length()
	view.Destination.StartDate = trip.DayDate(chunk.StartDay)
	return view
}

// Arrival chunks want factual accuracy (flight times, check-in details);
// middle chunks can afford more creative variety.
func temperatureFor(priority ChunkPriority) float32 {
	switch priority {
	case PriorityHigh:
		return 0.2
	case PriorityLow:
		return 0.3
	default:
		return 0.6
	}
}
