package db_models

import "time"

// ItineraryRecord is the persisted result of one generation request. The
// orchestration core never touches this; persistence is the HTTP layer's job.
type ItineraryRecord struct {
	BaseModel
	Destination   string
	StartDate     time.Time
	DurationDays  int
	Strategy      string
	SuccessRatio  float64
	TripJSON      string `gorm:"type:jsonb"`
	ItineraryJSON string `gorm:"type:jsonb"`
}
