package request_models

import "time"

type Trip struct {
	Duration    int          `json:"duration" binding:"required,min=1"`
	Destination Destination  `json:"destination" binding:"required"`
	Budget      *TripBudget  `json:"budget,omitempty"`
	Travelers   Travelers    `json:"travelers"`
	Preferences Preferences  `json:"preferences"`
}

type Destination struct {
	Name      string `json:"name" binding:"required"`
	Country   string `json:"country,omitempty"`
	StartDate string `json:"start_date" binding:"required"` // YYYY-MM-DD
}

type TripBudget struct {
	Total    float64 `json:"total"`
	Currency string  `json:"currency"`
}

type Travelers struct {
	Adults   int `json:"adults"`
	Children int `json:"children"`
	Infants  int `json:"infants"`
}

type Preferences struct {
	Interests   []string `json:"interests"`
	Pace        string   `json:"pace"`      // "easy" | "moderate" | "intense"
	Nightlife   string   `json:"nightlife"` // "none" | "some" | "heavy"
	Constraints []string `json:"constraints"`
}

// StartTime parses the destination start date. Zero time on failure so
// validation can report a single error instead of panicking downstream.
func (t Trip) StartTime() (time.Time, error) {
	return time.Parse("2006-01-02", t.Destination.StartDate)
}

// DayDate returns the calendar date of the 1-based trip day.
func (t Trip) DayDate(day int) string {
	start, err := t.StartTime()
	if err != nil {
		return ""
	}
	return start.AddDate(0, 0, day-1).Format("2006-01-02")
}
