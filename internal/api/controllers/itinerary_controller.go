package controllers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"wayfarer/internal/models/request_models"
	"wayfarer/internal/repositories"
	"wayfarer/internal/services"
	"wayfarer/pkg/utils"
)

type ItineraryController struct {
	itineraryService services.ItineraryServiceInterface
	itineraryRepo    repositories.ItineraryRepository
}

func NewItineraryController(
	itineraryService services.ItineraryServiceInterface,
	itineraryRepo repositories.ItineraryRepository,
) *ItineraryController {
	return &ItineraryController{
		itineraryService: itineraryService,
		itineraryRepo:    itineraryRepo,
	}
}

func (ic *ItineraryController) GenerateItineraryHandler(c *gin.Context) {
	var trip request_models.Trip
	if err := c.ShouldBindJSON(&trip); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	itinerary, err := ic.itineraryService.GenerateLongTripItinerary(c.Request.Context(), trip)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	analysis, _ := ic.itineraryService.AnalyzeTrip(trip)
	id, err := ic.itineraryRepo.SaveGeneratedItinerary(c.Request.Context(), trip, itinerary, analysis.Strategy)
	if err != nil {
		// Persistence is best-effort; the generated itinerary still goes back.
		log.Printf("failed to persist itinerary: %v", err)
	}

	utils.RespondSuccess(c, gin.H{
		"id":        id,
		"itinerary": itinerary,
	}, "Itinerary generated")
}

func (ic *ItineraryController) AnalyzeTripHandler(c *gin.Context) {
	var trip request_models.Trip
	if err := c.ShouldBindJSON(&trip); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	analysis, err := ic.itineraryService.AnalyzeTrip(trip)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, analysis, "Trip analyzed")
}

func (ic *ItineraryController) EstimateTokensHandler(c *gin.Context) {
	var trip request_models.Trip
	if err := c.ShouldBindJSON(&trip); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	budget, err := ic.itineraryService.EstimateTokens(trip)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, budget, "Token budget estimated")
}

func (ic *ItineraryController) PreviewChunksHandler(c *gin.Context) {
	var trip request_models.Trip
	if err := c.ShouldBindJSON(&trip); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	chunks, err := ic.itineraryService.PreviewChunks(trip)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, chunks, "Chunk plan")
}

func (ic *ItineraryController) GetItineraryHandler(c *gin.Context) {
	itinerary, err := ic.itineraryRepo.GetItineraryById(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, itinerary, "Itinerary")
}

func (ic *ItineraryController) HealthHandler(c *gin.Context) {
	utils.RespondSuccess(c, ic.itineraryService.HealthStatus(), "OK")
}
