package services

import (
	"fmt"
	"strings"
	"wayfarer/internal/models/request_models"
)

type PromptBuilderInterface interface {
	BuildChunkedPrompt(chunkTrip request_models.Trip, chunk Chunk, gc *GenerationContext) string
	BuildStandardPrompt(trip request_models.Trip) string
}

type PromptBuilderService struct{}

func NewPromptBuilderService() PromptBuilderInterface {
	return &PromptBuilderService{}
}

const itinerarySchema = `{
  "days": [
    {
      "day": 1,
      "activities": [
        {
          "time": "09:00",
          "title": "Visit [place]",
          "description": "What to do there",
          "location": {"name": "Place name", "address": "Street address", "lat": 0.0, "lng": 0.0},
          "duration_minutes": 120,
          "cost": 15.0,
          "category": "culture",
          "notes": ""
        }
      ]
    }
  ]
}`

var focusInstructions = map[ChunkFocus]string{
	FocusArrivalOrientation:     "These are arrival days: include check-in logistics, an orientation walk and low-effort activities close to the accommodation.",
	FocusCulturalImmersion:      "Emphasize museums, local traditions, workshops and neighborhood life.",
	FocusFoodDiscovery:          "Emphasize markets, street food, regional dishes and memorable meals.",
	FocusNatureExploration:      "Emphasize parks, trails, gardens and viewpoints.",
	FocusHistoricalSites:        "Emphasize monuments, heritage districts and guided historical context.",
	FocusEntertainmentLeisure:   "Emphasize shows, shopping, relaxed pacing and free time.",
	FocusNightlifeEntertainment: "Emphasize evening venues: bars, live music and late dinners; keep mornings light.",
	FocusDepartureLogistics:     "This is the departure day: short activities only, packing time and the airport transfer with margin.",
}

var detailInstructions = map[DetailLevel]string{
	DetailComprehensive: "Plan 4 activities per day with rich descriptions.",
	DetailBalanced:      "Plan 3 activities per day with concise descriptions.",
	DetailSimplified:    "Plan 2 activities per day with brief descriptions.",
}

// BuildChunkedPrompt renders the per-chunk generation prompt, folding in the
// sliding window of previously generated days so the narrative stays
// continuous across chunks.
func (p *PromptBuilderService) BuildChunkedPrompt(chunkTrip request_models.Trip, chunk Chunk, gc *GenerationContext) string {
	var prompt strings.Builder

	prompt.WriteString(fmt.Sprintf("You are planning days %d to %d of a longer trip to %s.\n",
		chunk.StartDay, chunk.EndDay, chunkTrip.Destination.Name))
	prompt.WriteString(fmt.Sprintf("Generate exactly %d day(s), starting on %s.\n\n",
		chunkTrip.Duration, chunkTrip.Destination.StartDate))

	if inst, ok := focusInstructions[chunk.Focus]; ok {
		prompt.WriteString(inst + "\n")
	}
	if inst, ok := detailInstructions[chunk.DetailLevel]; ok {
		prompt.WriteString(inst + "\n")
	}

	p.writeTravelerContext(&prompt, chunkTrip)

	if gc != nil && len(gc.PreviousDays) > 0 {
		prompt.WriteString("\nAlready planned (do NOT repeat these places):\n")
		for _, day := range gc.PreviousDays {
			for _, act := range day.Activities {
				prompt.WriteString(fmt.Sprintf("- %s: %s (%s)\n", day.Date, act.Title, act.Category))
			}
		}
	}
	if gc != nil && len(gc.ActivityCategories) > 0 {
		prompt.WriteString(fmt.Sprintf("\nCategories already covered: %s. Favor variety.\n",
			strings.Join(gc.CategoryList(), ", ")))
	}

	p.writeSchemaBlock(&prompt, chunkTrip.Duration)
	return prompt.String()
}

// BuildStandardPrompt is the single-shot variant for trips short enough to
// generate in one request.
func (p *PromptBuilderService) BuildStandardPrompt(trip request_models.Trip) string {
	var prompt strings.Builder

	prompt.WriteString(fmt.Sprintf("Create a %d-day travel itinerary for %s, starting on %s.\n",
		trip.Duration, trip.Destination.Name, trip.Destination.StartDate))
	prompt.WriteString(detailInstructions[DetailBalanced] + "\n")

	p.writeTravelerContext(&prompt, trip)
	p.writeSchemaBlock(&prompt, trip.Duration)
	return prompt.String()
}

func (p *PromptBuilderService) writeTravelerContext(prompt *strings.Builder, trip request_models.Trip) {
	if len(trip.Preferences.Interests) > 0 {
		prompt.WriteString(fmt.Sprintf("Traveler interests: %s.\n", strings.Join(trip.Preferences.Interests, ", ")))
	}
	if trip.Preferences.Pace != "" {
		prompt.WriteString(fmt.Sprintf("Pace: %s.\n", trip.Preferences.Pace))
	}
	if len(trip.Preferences.Constraints) > 0 {
		prompt.WriteString(fmt.Sprintf("Constraints: %s.\n", strings.Join(trip.Preferences.Constraints, "; ")))
	}
	party := trip.Travelers.Adults + trip.Travelers.Children + trip.Travelers.Infants
	if party > 0 {
		prompt.WriteString(fmt.Sprintf("Party: %d adult(s), %d child(ren), %d infant(s).\n",
			trip.Travelers.Adults, trip.Travelers.Children, trip.Travelers.Infants))
	}
	if trip.Budget != nil && trip.Budget.Total > 0 {
		prompt.WriteString(fmt.Sprintf("Total trip budget: %.0f %s; keep daily spend proportionate.\n",
			trip.Budget.Total, trip.Budget.Currency))
	}
}

func (p *PromptBuilderService) writeSchemaBlock(prompt *strings.Builder, dayCount int) {
	prompt.WriteString("\nCRITICAL REQUIREMENTS:\n")
	prompt.WriteString(fmt.Sprintf("1. Generate exactly %d day(s) in \"days\", day numbers 1..%d with no gaps\n", dayCount, dayCount))
	prompt.WriteString("2. Times formatted HH:MM between 08:00 and 23:00, in ascending order per day\n")
	prompt.WriteString("3. Every activity needs a real, named location with coordinates\n")
	prompt.WriteString("4. Return ONLY valid JSON, no extra text\n\n")
	prompt.WriteString("Return JSON in this EXACT format:\n")
	prompt.WriteString(itinerarySchema)
}
