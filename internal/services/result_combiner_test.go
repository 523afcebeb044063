package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"wayfarer/internal/models/request_models"
	"wayfarer/internal/models/response_models"
)

func dayWith(date string, cost float64) response_models.Day {
	return response_models.Day{
		Date: date,
		Activities: []response_models.Activity{
			{Time: "09:00", Title: "Something", Cost: cost, Category: "sightseeing"},
		},
	}
}

func TestCombineOrdersAndSummarizes(t *testing.T) {
	combiner := NewResultCombinerService()
	trip := testTrip(4)

	results := []ChunkResult{
		{ChunkID: "chunk-03-04", Success: true, Days: []response_models.Day{
			dayWith("2026-09-03", 20), dayWith("2026-09-04", 5),
		}, TokensUsed: 900},
		{ChunkID: "chunk-01-02", FallbackUsed: true, Error: "provider error", Days: []response_models.Day{
			dayWith("2026-09-01", 10), dayWith("2026-09-02", 15),
		}},
	}

	itinerary := combiner.Combine(results, trip)

	require.Len(t, itinerary.Days, 4)
	assert.Equal(t, "2026-09-01", itinerary.Days[0].Date)
	assert.Equal(t, "2026-09-04", itinerary.Days[3].Date)

	assert.Equal(t, 4, itinerary.Summary.TotalDays)
	assert.Equal(t, 4, itinerary.Summary.TotalActivities)
	assert.Equal(t, 50.0, itinerary.Summary.EstimatedCost)
	assert.Equal(t, 1, itinerary.Summary.SuccessfulChunks)
	assert.Equal(t, 1, itinerary.Summary.FallbackChunks)
	assert.Equal(t, 0.5, itinerary.Summary.GenerationSuccessRatio)
}

func TestCombinePadsMissingDays(t *testing.T) {
	combiner := NewResultCombinerService()
	trip := testTrip(3)

	itinerary := combiner.Combine([]ChunkResult{
		{ChunkID: "chunk-01-01", Success: true, Days: []response_models.Day{dayWith("2026-09-01", 12)}},
	}, trip)

	require.Len(t, itinerary.Days, 3)
	assert.Equal(t, "2026-09-02", itinerary.Days[1].Date)
	assert.Empty(t, itinerary.Days[1].Activities)
	assert.Equal(t, "2026-09-03", itinerary.Days[2].Date)
}

func TestCombineTruncatesExtraDays(t *testing.T) {
	combiner := NewResultCombinerService()
	trip := testTrip(2)

	itinerary := combiner.Combine([]ChunkResult{
		{ChunkID: "chunk-01-03", Success: true, Days: []response_models.Day{
			dayWith("2026-09-01", 1), dayWith("2026-09-02", 2), dayWith("2026-09-03", 3),
		}},
	}, trip)

	require.Len(t, itinerary.Days, 2)
	assert.Equal(t, "2026-09-02", itinerary.Days[1].Date)
}

func TestCombineUsesBudgetCurrency(t *testing.T) {
	combiner := NewResultCombinerService()

	trip := testTrip(1)
	trip.Budget = &request_models.TripBudget{Total: 500, Currency: "eur"}

	itinerary := combiner.Combine([]ChunkResult{
		{ChunkID: "chunk-01-01", Success: true, Days: []response_models.Day{dayWith("2026-09-01", 9)}},
	}, trip)

	assert.Equal(t, "EUR", itinerary.Summary.Currency)
}

func TestCombineEmptyResults(t *testing.T) {
	combiner := NewResultCombinerService()

	itinerary := combiner.Combine(nil, testTrip(2))

	require.Len(t, itinerary.Days, 2)
	assert.Zero(t, itinerary.Summary.TotalActivities)
	assert.Zero(t, itinerary.Summary.GenerationSuccessRatio)
}
