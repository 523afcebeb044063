package services

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"wayfarer/internal/models/request_models"
	"wayfarer/internal/models/response_models"
	"wayfarer/pkg/utils"
)

// mockChunkGenerator records whether the chunked path was taken.
type mockChunkGenerator struct {
	called bool
}

func (m *mockChunkGenerator) GenerateChunkedItinerary(ctx context.Context, trip request_models.Trip, analysis TripAnalysis) *response_models.FinalItinerary {
	m.called = true
	return &response_models.FinalItinerary{}
}

func newTestItineraryService(ai utils.AIClientInterface, generator ChunkGeneratorInterface) ItineraryServiceInterface {
	config := testGeneratorConfig()
	budget := NewTokenBudgetService()
	fallback := NewFallbackGeneratorService(stubLocations{}, rand.New(rand.NewSource(1)))
	return NewItineraryService(
		NewChunkPlannerService(budget, config),
		budget,
		generator,
		fallback,
		NewPromptBuilderService(),
		NewResponseParserService(),
		NewResultCombinerService(),
		ai,
		config,
	)
}

func TestGenerateLongTripItineraryValidation(t *testing.T) {
	service := newTestItineraryService(&mockAIClient{}, &mockChunkGenerator{})

	cases := []struct {
		name   string
		mutate func(*request_models.Trip)
	}{
		{"zero duration", func(tr *request_models.Trip) { tr.Duration = 0 }},
		{"blank destination", func(tr *request_models.Trip) { tr.Destination.Name = "  " }},
		{"bad start date", func(tr *request_models.Trip) { tr.Destination.StartDate = "01/09/2026" }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			trip := testTrip(7)
			tc.mutate(&trip)
			_, err := service.GenerateLongTripItinerary(context.Background(), trip)
			require.Error(t, err)
			assert.True(t, errors.Is(err, utils.ErrInvalidTrip))
		})
	}
}

func TestGenerateDispatchesStandardForShortTrips(t *testing.T) {
	generator := &mockChunkGenerator{}
	ai := &mockAIClient{generate: func(call int, prompt string) (string, int, error) {
		return providerJSON(4), 400, nil
	}}
	service := newTestItineraryService(ai, generator)

	itinerary, err := service.GenerateLongTripItinerary(context.Background(), testTrip(4))
	require.NoError(t, err)

	assert.False(t, generator.called)
	assert.Len(t, ai.prompts, 1)
	require.Len(t, itinerary.Days, 4)
	assert.Equal(t, 1, itinerary.Summary.SuccessfulChunks)
	assert.Equal(t, 1.0, itinerary.Summary.GenerationSuccessRatio)
}

func TestGenerateDispatchesChunkedForLongTrips(t *testing.T) {
	generator := &mockChunkGenerator{}
	ai := &mockAIClient{generate: func(call int, prompt string) (string, int, error) {
		t.Fatal("standard path must not be used for chunked trips")
		return "", 0, nil
	}}
	service := newTestItineraryService(ai, generator)

	_, err := service.GenerateLongTripItinerary(context.Background(), testTrip(12))
	require.NoError(t, err)
	assert.True(t, generator.called)
}

func TestGenerateStandardFallsBackOnProviderError(t *testing.T) {
	ai := &mockAIClient{generate: func(call int, prompt string) (string, int, error) {
		return "", 0, errors.New("quota exhausted")
	}}
	service := newTestItineraryService(ai, &mockChunkGenerator{})

	itinerary, err := service.GenerateLongTripItinerary(context.Background(), testTrip(3))
	require.NoError(t, err, "provider failures degrade, they do not error")

	require.Len(t, itinerary.Days, 3)
	assert.Zero(t, itinerary.Summary.SuccessfulChunks)
	assert.Equal(t, 1, itinerary.Summary.FallbackChunks)
	for _, day := range itinerary.Days {
		require.NotEmpty(t, day.Activities)
		assert.True(t, day.Activities[0].FallbackGenerated)
	}
}

func TestAnalyzeTripAndPreviewChunks(t *testing.T) {
	service := newTestItineraryService(&mockAIClient{}, &mockChunkGenerator{})

	analysis, err := service.AnalyzeTrip(testTrip(10))
	require.NoError(t, err)
	assert.True(t, analysis.NeedsChunking)

	chunks, err := service.PreviewChunks(testTrip(10))
	require.NoError(t, err)
	assert.Equal(t, analysis.Chunks, chunks)

	_, err = service.AnalyzeTrip(request_models.Trip{})
	assert.True(t, errors.Is(err, utils.ErrInvalidTrip))
}

func TestEstimateTokensAppliesMargin(t *testing.T) {
	service := newTestItineraryService(&mockAIClient{}, &mockChunkGenerator{})

	budget, err := service.EstimateTokens(testTrip(10))
	require.NoError(t, err)

	assert.Greater(t, budget.Estimated, 0)
	assert.Equal(t, int(math.Ceil(float64(budget.Estimated)*1.2)), budget.BudgetWithMargin)
	assert.NotEmpty(t, budget.RecommendedModel)
	assert.GreaterOrEqual(t, budget.ChunkCountSuggestion, 1)
}

func TestHealthStatus(t *testing.T) {
	service := newTestItineraryService(&mockAIClient{}, &mockChunkGenerator{})

	report := service.HealthStatus()
	assert.Equal(t, "mock", report.Provider)
	assert.Equal(t, 5, report.Configuration.MinDaysForChunking)
	for name, wired := range report.Subcomponents {
		assert.True(t, wired, "subcomponent %s not wired", name)
	}
}
