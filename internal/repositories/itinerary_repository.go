package repositories

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	dbm "wayfarer/internal/models/db_models"
	req "wayfarer/internal/models/request_models"
	resp "wayfarer/internal/models/response_models"
	"wayfarer/pkg/utils"
)

type ItineraryRepository interface {
	SaveGeneratedItinerary(ctx context.Context, trip req.Trip, itinerary *resp.FinalItinerary, strategy string) (uuid.UUID, error)
	GetItineraryById(ctx context.Context, id string) (*resp.FinalItinerary, error)
}

type itineraryRepository struct {
	db *gorm.DB
}

func NewItineraryRepository(db *gorm.DB) ItineraryRepository {
	return &itineraryRepository{db: db}
}

func (r *itineraryRepository) SaveGeneratedItinerary(ctx context.Context, trip req.Trip, itinerary *resp.FinalItinerary, strategy string) (uuid.UUID, error) {
	tripJSON, err := json.Marshal(trip)
	if err != nil {
		return uuid.Nil, err
	}
	itineraryJSON, err := json.Marshal(itinerary)
	if err != nil {
		return uuid.Nil, err
	}

	startDate, err := trip.StartTime()
	if err != nil {
		return uuid.Nil, err
	}

	record := dbm.ItineraryRecord{
		Destination:   trip.Destination.Name,
		StartDate:     startDate,
		DurationDays:  trip.Duration,
		Strategy:      strategy,
		SuccessRatio:  itinerary.Summary.GenerationSuccessRatio,
		TripJSON:      string(tripJSON),
		ItineraryJSON: string(itineraryJSON),
	}

	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		return uuid.Nil, utils.ErrDatabaseError
	}
	return record.ID, nil
}

func (r *itineraryRepository) GetItineraryById(ctx context.Context, id string) (*resp.FinalItinerary, error) {
	recordID, err := uuid.Parse(id)
	if err != nil {
		return nil, utils.ErrInvalidInput
	}

	var record dbm.ItineraryRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", recordID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrItineraryNotFound
		}
		return nil, utils.ErrDatabaseError
	}

	var itinerary resp.FinalItinerary
	if err := json.Unmarshal([]byte(record.ItineraryJSON), &itinerary); err != nil {
		return nil, utils.ErrDatabaseError
	}
	return &itinerary, nil
}
