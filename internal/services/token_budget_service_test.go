package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEstimateChunkArrival(t *testing.T) {
	budget := NewTokenBudgetService()

	arrival := Chunk{
		ID: "chunk-01-02", StartDay: 1, EndDay: 2,
		Focus: FocusArrivalOrientation, DetailLevel: DetailComprehensive,
	}

	// 450 base + ceil(4*90*1.1) = 846 per day, two days, no continuation.
	assert.Equal(t, 1692, budget.EstimateChunk(arrival, testTrip(7)))
}

func TestEstimateChunkContinuationOverhead(t *testing.T) {
	budget := NewTokenBudgetService()

	middle := Chunk{
		ID: "chunk-03-08", StartDay: 3, EndDay: 8,
		Focus: FocusCulturalImmersion, DetailLevel: DetailBalanced,
	}

	// 320 base + ceil(3*70*1.2) = 572 per day, six days, plus carried context.
	assert.Equal(t, 6*572+250, budget.EstimateChunk(middle, testTrip(10)))

	// Same range starting at day 1 skips the continuation overhead.
	first := middle
	first.StartDay, first.EndDay = 1, 6
	assert.Equal(t, 6*572, budget.EstimateChunk(first, testTrip(10)))
}

func TestEstimateChunkComplexDestination(t *testing.T) {
	budget := NewTokenBudgetService()

	chunk := Chunk{StartDay: 1, EndDay: 3, Focus: FocusFoodDiscovery, DetailLevel: DetailBalanced}

	paris := testTrip(3)
	tokyo := testTrip(3)
	tokyo.Destination.Name = "Tokyo"
	tokyo.Destination.Country = "Japan"

	assert.Greater(t, budget.EstimateChunk(chunk, tokyo), budget.EstimateChunk(chunk, paris))
}

func TestEstimateTotalGrowsWithDuration(t *testing.T) {
	planner := newTestPlanner()
	budget := NewTokenBudgetService()

	prev := 0
	for _, duration := range []int{5, 8, 12, 20, 30} {
		trip := testTrip(duration)
		total := budget.EstimateTotal(planner.Analyze(trip).Chunks, trip)
		assert.Greater(t, total, prev, "duration %d", duration)
		prev = total
	}
}

func TestEstimateStandard(t *testing.T) {
	budget := NewTokenBudgetService()

	// 320 + ceil(3*70*1.0) = 530 per day.
	assert.Equal(t, 4*530, budget.EstimateStandard(testTrip(4), DetailBalanced))
}

func TestCalculateTokenBudget(t *testing.T) {
	budget := NewTokenBudgetService()

	small := budget.CalculateTokenBudget(3000, 0.2)
	assert.Equal(t, 3000, small.Estimated)
	assert.Equal(t, 3600, small.BudgetWithMargin)
	assert.Equal(t, "fast", small.RecommendedModel)
	assert.Equal(t, 1, small.ChunkCountSuggestion)

	large := budget.CalculateTokenBudget(9000, 0.2)
	assert.Equal(t, "high-capacity", large.RecommendedModel)
	assert.Equal(t, 3, large.ChunkCountSuggestion)
}

func TestCalculateTokenBudgetDefaultsMargin(t *testing.T) {
	budget := NewTokenBudgetService()

	withDefault := budget.CalculateTokenBudget(1000, 0)
	assert.Equal(t, 1200, withDefault.BudgetWithMargin)
}
