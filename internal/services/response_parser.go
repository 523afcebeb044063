package services

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"
	"wayfarer/internal/models/response_models"
	"wayfarer/pkg/utils"
)

// ResponseParserInterface validates and normalizes raw provider output into
// days. Malformed content is an error for the caller to recover from — the
// parser never guesses.
type ResponseParserInterface interface {
	ParseDays(content string, expectedDays int, startDate time.Time) ([]response_models.Day, error)
}

type ResponseParserService struct{}

func NewResponseParserService() ResponseParserInterface {
	return &ResponseParserService{}
}

var timePattern = regexp.MustCompile(`^([01]?[0-9]|2[0-3]):[0-5][0-9]$`)

type rawItinerary struct {
	Days []struct {
		Day        int `json:"day"`
		Activities []struct {
			Time        string `json:"time"`
			Title       string `json:"title"`
			Description string `json:"description"`
			Location    struct {
				Name    string  `json:"name"`
				Address string  `json:"address"`
				Lat     float64 `json:"lat"`
				Lng     float64 `json:"lng"`
			} `json:"location"`
			DurationMinutes int     `json:"duration_minutes"`
			Cost            float64 `json:"cost"`
			Category        string  `json:"category"`
			Notes           string  `json:"notes"`
		} `json:"activities"`
	} `json:"days"`
}

func (s *ResponseParserService) ParseDays(content string, expectedDays int, startDate time.Time) ([]response_models.Day, error) {
	cleaned := cleanJSONResponse(content)
	if cleaned == "" {
		return nil, fmt.Errorf("%w: empty response content", utils.ErrMalformedResponse)
	}

	var raw rawItinerary
	if err := json.Unmarshal([]byte(cleaned), &raw); err != nil {
		return nil, fmt.Errorf("%w: invalid itinerary JSON: %v", utils.ErrMalformedResponse, err)
	}

	if len(raw.Days) != expectedDays {
		return nil, fmt.Errorf("%w: expected %d days, got %d", utils.ErrMalformedResponse, expectedDays, len(raw.Days))
	}

	days := make([]response_models.Day, 0, expectedDays)
	for i, rawDay := range raw.Days {
		if rawDay.Day != i+1 {
			return nil, fmt.Errorf("day %d has incorrect day number: %d", i+1, rawDay.Day)
		}
		if len(rawDay.Activities) == 0 {
			return nil, fmt.Errorf("day %d has no activities", rawDay.Day)
		}

		activities := make([]response_models.Activity, 0, len(rawDay.Activities))
		for j, a := range rawDay.Activities {
			if strings.TrimSpace(a.Title) == "" {
				return nil, fmt.Errorf("day %d, activity %d: title cannot be empty", rawDay.Day, j+1)
			}
			if !timePattern.MatchString(a.Time) {
				return nil, fmt.Errorf("day %d, activity %d: invalid time format: %s (expected HH:MM)", rawDay.Day, j+1, a.Time)
			}

			activities = append(activities, response_models.Activity{
				Time:        a.Time,
				Title:       a.Title,
				Description: a.Description,
				Location: response_models.ActivityLocation{
					Name:    a.Location.Name,
					Address: a.Location.Address,
					Coordinates: response_models.Coordinates{
						Lat: a.Location.Lat,
						Lng: a.Location.Lng,
					},
				},
				DurationMinutes: a.DurationMinutes,
				Cost:            a.Cost,
				Category:        a.Category,
				Notes:           a.Notes,
			})
		}

		days = append(days, response_models.Day{
			Date:       startDate.AddDate(0, 0, i).Format("2006-01-02"),
			Activities: activities,
		})
	}

	return days, nil
}

// cleanJSONResponse removes markdown formatting and any prose wrapped around
// the JSON payload.
func cleanJSONResponse(response string) string {
	response = strings.ReplaceAll(response, "```json", "")
	response = strings.ReplaceAll(response, "```JSON", "")
	response = strings.ReplaceAll(response, "```", "")
	response = strings.TrimSpace(response)

	prefixes := []string{
		"Here's the travel plan:",
		"Here is the itinerary:",
		"The travel plan is:",
		"Travel plan:",
		"Itinerary:",
	}
	for _, prefix := range prefixes {
		if strings.HasPrefix(response, prefix) {
			response = strings.TrimSpace(strings.TrimPrefix(response, prefix))
			break
		}
	}

	start := strings.Index(response, "{")
	if start == -1 {
		return ""
	}
	end := findMatchingBrace(response, start)
	if end == -1 {
		return ""
	}
	return response[start : end+1]
}

// findMatchingBrace finds the matching closing brace for an opening brace,
// skipping over string literals.
func findMatchingBrace(s string, start int) int {
	if start >= len(s) || s[start] != '{' {
		return -1
	}

	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(s); i++ {
		char := s[i]

		if escaped {
			escaped = false
			continue
		}
		if char == '\\' && inString {
			escaped = true
			continue
		}
		if char == '"' {
			inString = !inString
			continue
		}
		if inString {
			continue
		}

		switch char {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}

	return -1
}
