package services

import (
	"sort"

	"github.com/samber/lo"
	"wayfarer/internal/models/request_models"
	"wayfarer/internal/models/response_models"
)

// ResultCombinerInterface merges per-chunk results into the final itinerary.
// It performs no I/O and cannot fail on well-formed input.
type ResultCombinerInterface interface {
	Combine(results []ChunkResult, trip request_models.Trip) *response_models.FinalItinerary
}

type ResultCombinerService struct{}

func NewResultCombinerService() ResultCombinerInterface {
	return &ResultCombinerService{}
}

func (s *ResultCombinerService) Combine(results []ChunkResult, trip request_models.Trip) *response_models.FinalItinerary {
	days := lo.FlatMap(results, func(r ChunkResult, _ int) []response_models.Day {
		return r.Days
	})

	// Chunks arrive ordered, but a fallback insertion could be out of place;
	// sorting keeps the invariant cheap to guarantee.
	sort.SliceStable(days, func(i, j int) bool {
		return days[i].Date < days[j].Date
	})

	if len(days) > trip.Duration {
		days = days[:trip.Duration]
	}
	for len(days) < trip.Duration {
		days = append(days, response_models.Day{
			Date:       trip.DayDate(len(days) + 1),
			Activities: []response_models.Activity{},
		})
	}

	successful := lo.CountBy(results, func(r ChunkResult) bool { return r.Success })
	fallbacks := lo.CountBy(results, func(r ChunkResult) bool { return r.FallbackUsed })

	ratio := 0.0
	if len(results) > 0 {
		ratio = float64(successful) / float64(len(results))
	}

	totalActivities := lo.SumBy(days, func(d response_models.Day) int { return len(d.Activities) })
	totalCost := lo.SumBy(days, func(d response_models.Day) float64 {
		return lo.SumBy(d.Activities, func(a response_models.Activity) float64 { return a.Cost })
	})

	currency, _ := budgetCurrency(trip)

	return &response_models.FinalItinerary{
		Days: days,
		Summary: response_models.ItinerarySummary{
			TotalDays:              len(days),
			TotalActivities:        totalActivities,
			EstimatedCost:          roundCost(totalCost),
			Currency:               currency,
			SuccessfulChunks:       successful,
			FallbackChunks:         fallbacks,
			GenerationSuccessRatio: ratio,
		},
	}
}
