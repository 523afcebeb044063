package services

import (
	"fmt"
	"math"
	"strings"
	"time"
	"wayfarer/internal/models/request_models"
)

type ChunkPriority string

const (
	PriorityLow    ChunkPriority = "low"
	PriorityNormal ChunkPriority = "normal"
	PriorityHigh   ChunkPriority = "high"
)

type ChunkFocus string

const (
	FocusArrivalOrientation     ChunkFocus = "arrival_orientation"
	FocusCulturalImmersion      ChunkFocus = "cultural_immersion"
	FocusFoodDiscovery          ChunkFocus = "food_discovery"
	FocusNatureExploration      ChunkFocus = "nature_exploration"
	FocusHistoricalSites        ChunkFocus = "historical_sites"
	FocusEntertainmentLeisure   ChunkFocus = "entertainment_leisure"
	FocusNightlifeEntertainment ChunkFocus = "nightlife_entertainment"
	FocusDepartureLogistics     ChunkFocus = "departure_logistics"
)

type DetailLevel string

const (
	DetailComprehensive DetailLevel = "comprehensive"
	DetailBalanced      DetailLevel = "balanced"
	DetailSimplified    DetailLevel = "simplified"
)

// Chunk is a contiguous 1-based inclusive day range with one generation focus.
type Chunk struct {
	ID          string        `json:"id"`
	StartDay    int           `json:"start_day"`
	EndDay      int           `json:"end_day"`
	Priority    ChunkPriority `json:"priority"`
	Focus       ChunkFocus    `json:"focus"`
	DetailLevel DetailLevel   `json:"detail_level"`
}

func (c Chunk) Length() int { return c.EndDay - c.StartDay + 1 }

// IsContinuation reports whether the chunk follows earlier generated days and
// therefore pays the carried-context overhead.
func (c Chunk) IsContinuation() bool { return c.StartDay > 1 }

const (
	StrategySingleGeneration    = "single_generation"
	StrategyProgressiveChunking = "progressive_chunking"
)

type TripAnalysis struct {
	NeedsChunking   bool    `json:"needs_chunking"`
	Strategy        string  `json:"strategy"`
	Chunks          []Chunk `json:"chunks"`
	EstimatedTokens int     `json:"estimated_tokens"`
}

// ChunkingConfig holds the planner and orchestrator tunables. Defaults match
// the values the estimate/preview endpoints document.
type ChunkingConfig struct {
	MinDaysForChunking  int
	ArrivalSize         int
	DepartureSize       int
	BaseChunkSize       int
	ContextOverlapDays  int
	InterChunkDelay     time.Duration
	MaxTokensPerRequest int
	BudgetMarginPct     float64
}

func DefaultChunkingConfig() ChunkingConfig {
	return ChunkingConfig{
		MinDaysForChunking:  5,
		ArrivalSize:         2,
		DepartureSize:       1,
		BaseChunkSize:       6,
		ContextOverlapDays:  2,
		InterChunkDelay:     time.Second,
		MaxTokensPerRequest: 8000,
		BudgetMarginPct:     0.2,
	}
}

type ChunkPlannerInterface interface {
	Analyze(trip request_models.Trip) TripAnalysis
}

type ChunkPlannerService struct {
	tokenService TokenBudgetServiceInterface
	config       ChunkingConfig
}

func NewChunkPlannerService(tokenService TokenBudgetServiceInterface, config ChunkingConfig) ChunkPlannerInterface {
	return &ChunkPlannerService{
		tokenService: tokenService,
		config:       config,
	}
}

// middleFocusRotation is cycled through for middle chunks so long trips get
// thematic variety instead of six identical sightseeing blocks.
var middleFocusRotation = []ChunkFocus{
	FocusCulturalImmersion,
	FocusFoodDiscovery,
	FocusNatureExploration,
	FocusHistoricalSites,
	FocusEntertainmentLeisure,
}

// Analyze decides whether the trip needs chunked generation and produces the
// ordered chunk plan. It is a pure function of (duration, preferences): no
// randomness, no clock reads, so the day-range partition can be verified
// independently.
func (s *ChunkPlannerService) Analyze(trip request_models.Trip) TripAnalysis {
	if trip.Duration < s.config.MinDaysForChunking {
		single := Chunk{
			ID:          chunkID(1, trip.Duration),
			StartDay:    1,
			EndDay:      trip.Duration,
			Priority:    PriorityNormal,
			Focus:       FocusCulturalImmersion,
			DetailLevel: DetailBalanced,
		}
		return TripAnalysis{
			NeedsChunking:   false,
			Strategy:        StrategySingleGeneration,
			Chunks:          []Chunk{single},
			EstimatedTokens: s.tokenService.EstimateStandard(trip, DetailBalanced),
		}
	}

	chunks := s.planChunks(trip)
	return TripAnalysis{
		NeedsChunking:   true,
		Strategy:        StrategyProgressiveChunking,
		Chunks:          chunks,
		EstimatedTokens: s.tokenService.EstimateTotal(chunks, trip),
	}
}

func (s *ChunkPlannerService) planChunks(trip request_models.Trip) []Chunk {
	duration := trip.Duration

	arrivalEnd := s.config.ArrivalSize
	if arrivalEnd > duration {
		arrivalEnd = duration
	}

	chunks := []Chunk{{
		ID:          chunkID(1, arrivalEnd),
		StartDay:    1,
		EndDay:      arrivalEnd,
		Priority:    PriorityHigh,
		Focus:       FocusArrivalOrientation,
		DetailLevel: DetailComprehensive,
	}}

	chunkSize := s.middleChunkSize(trip.Preferences.Pace)
	lastMiddleDay := duration - s.config.DepartureSize

	cursor := arrivalEnd + 1
	middleIdx := 0
	for cursor <= lastMiddleDay {
		end := cursor + chunkSize - 1
		if end > lastMiddleDay {
			end = lastMiddleDay
		}

		// The chunk index here counts all chunks, arrival included, to match
		// the positional weekend heuristic below.
		chunkIdx := len(chunks)
		chunks = append(chunks, Chunk{
			ID:          chunkID(cursor, end),
			StartDay:    cursor,
			EndDay:      end,
			Priority:    PriorityNormal,
			Focus:       s.middleFocus(middleIdx, chunkIdx, trip),
			DetailLevel: DetailBalanced,
		})

		cursor = end + 1
		middleIdx++
	}

	chunks = append(chunks, Chunk{
		ID:          chunkID(lastMiddleDay+1, duration),
		StartDay:    lastMiddleDay + 1,
		EndDay:      duration,
		Priority:    PriorityLow,
		Focus:       FocusDepartureLogistics,
		DetailLevel: DetailSimplified,
	})

	return chunks
}

func (s *ChunkPlannerService) middleChunkSize(pace string) int {
	factor := 1.0
	switch strings.ToLower(pace) {
	case "easy":
		factor = 0.8
	case "intense":
		factor = 1.2
	}
	size := int(math.Round(float64(s.config.BaseChunkSize) * factor))
	if size < 1 {
		size = 1
	}
	return size
}

// middleFocus rotates the theme list and splices nightlife in at weekend-like
// positions. The positional check (chunk index 1, or 3 for trips of a week or
// more) is a deliberate heuristic carried over from the original planner: it
// guesses at weekends by position rather than doing calendar arithmetic.
func (s *ChunkPlannerService) middleFocus(middleIdx, chunkIdx int, trip request_models.Trip) ChunkFocus {
	focus := middleFocusRotation[middleIdx%len(middleFocusRotation)]

	nightlife := strings.ToLower(trip.Preferences.Nightlife)
	if nightlife == "" || nightlife == "none" {
		return focus
	}

	weekendLike := chunkIdx == 1 || (chunkIdx == 3 && trip.Duration >= 7)
	if weekendLike || nightlife == "heavy" {
		return FocusNightlifeEntertainment
	}
	return focus
}

func chunkID(startDay, endDay int) string {
	return fmt.Sprintf("chunk-%02d-%02d", startDay, endDay)
}
