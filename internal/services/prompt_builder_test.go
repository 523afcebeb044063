package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"wayfarer/internal/models/request_models"
	"wayfarer/internal/models/response_models"
)

func TestBuildChunkedPromptContents(t *testing.T) {
	builder := NewPromptBuilderService()

	trip := testTrip(7)
	trip.Preferences.Interests = []string{"food", "history"}
	trip.Preferences.Pace = "easy"
	trip.Preferences.Constraints = []string{"no seafood"}
	trip.Budget = &request_models.TripBudget{Total: 1500, Currency: "EUR"}

	chunk := Chunk{
		ID: "chunk-03-06", StartDay: 3, EndDay: 6,
		Focus: FocusFoodDiscovery, DetailLevel: DetailBalanced,
	}
	chunkTrip := trip
	chunkTrip.Duration = 4
	chunkTrip.Destination.StartDate = "2026-09-03"

	prompt := builder.BuildChunkedPrompt(chunkTrip, chunk, NewGenerationContext(trip, 2))

	assert.Contains(t, prompt, "days 3 to 6")
	assert.Contains(t, prompt, "Generate exactly 4 day(s), starting on 2026-09-03")
	assert.Contains(t, prompt, "markets, street food")
	assert.Contains(t, prompt, "Plan 3 activities per day")
	assert.Contains(t, prompt, "food, history")
	assert.Contains(t, prompt, "no seafood")
	assert.Contains(t, prompt, "1500 EUR")
	assert.Contains(t, prompt, "Return ONLY valid JSON")
	assert.Contains(t, prompt, `"days"`)
	assert.NotContains(t, prompt, "Already planned")
}

func TestBuildChunkedPromptIncludesPreviousDays(t *testing.T) {
	builder := NewPromptBuilderService()
	trip := testTrip(7)

	gc := NewGenerationContext(trip, 2)
	gc.RecordChunk([]response_models.Day{{
		Date: "2026-09-01",
		Activities: []response_models.Activity{
			{Time: "10:00", Title: "Louvre visit", Category: "culture"},
		},
	}})

	chunk := Chunk{ID: "chunk-02-04", StartDay: 2, EndDay: 4, Focus: FocusCulturalImmersion, DetailLevel: DetailBalanced}
	prompt := builder.BuildChunkedPrompt(trip, chunk, gc)

	assert.Contains(t, prompt, "Already planned (do NOT repeat these places):")
	assert.Contains(t, prompt, "Louvre visit")
	assert.Contains(t, prompt, "Categories already covered: culture")
}

func TestBuildStandardPrompt(t *testing.T) {
	builder := NewPromptBuilderService()

	prompt := builder.BuildStandardPrompt(testTrip(4))

	assert.Contains(t, prompt, "Create a 4-day travel itinerary for Paris")
	assert.Contains(t, prompt, "starting on 2026-09-01")
	assert.Contains(t, prompt, "Generate exactly 4 day(s)")
	assert.Contains(t, prompt, "Return JSON in this EXACT format")
}
