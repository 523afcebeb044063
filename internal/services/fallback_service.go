package services

import (
	"fmt"
	"math/rand"
	"strings"
	"wayfarer/internal/models/request_models"
	"wayfarer/internal/models/response_models"
)

// FallbackGeneratorInterface synthesizes itinerary days from templates when
// the provider fails. It is the last line of defense: total over its input
// domain, it never returns an error.
type FallbackGeneratorInterface interface {
	GenerateFallbackDays(trip request_models.Trip, chunk Chunk) []response_models.Day
	GenerateEmergencyFallback(trip request_models.Trip) *response_models.FinalItinerary
}

type FallbackGeneratorService struct {
	locations LocationServiceInterface
	rng       *rand.Rand
}

// NewFallbackGeneratorService takes a seeded random source so coordinate
// jitter is reproducible in tests.
func NewFallbackGeneratorService(locations LocationServiceInterface, rng *rand.Rand) FallbackGeneratorInterface {
	return &FallbackGeneratorService{
		locations: locations,
		rng:       rng,
	}
}

type activityTemplate struct {
	Title           string // %s is the destination city
	Description     string
	Category        string
	LocationNoun    string
	DurationMinutes int
	BaseCostUSD     float64
}

var fallbackTemplates = map[ChunkFocus][]activityTemplate{
	FocusArrivalOrientation: {
		{"Check in and settle around %s", "Drop your bags, freshen up and get your bearings in the neighborhood.", "logistics", "Hotel District", 90, 0},
		{"Orientation walk through central %s", "An easy first walk past the main squares and landmarks to map the city in your head.", "sightseeing", "Old Town", 120, 0},
		{"Welcome meal in %s", "A relaxed first dinner with unmissable local staples.", "food", "Market Quarter", 90, 25},
		{"Evening stroll along the %s waterfront", "Wind down with an easy evening walk and a first look at the city lights.", "leisure", "Promenade", 60, 0},
	},
	FocusCulturalImmersion: {
		{"Morning at the %s main museum", "Work through the headline galleries before the crowds build.", "culture", "National Museum", 150, 18},
		{"Craft workshop in %s", "A hands-on session with a local artisan — pottery, textiles or cooking depending on the season.", "culture", "Artisan Quarter", 120, 40},
		{"Traditional lunch in %s", "A sit-down meal of regional classics in a family-run spot.", "food", "Old Market", 90, 20},
		{"Neighborhood immersion walk in %s", "Side streets, local shops and the everyday rhythm of the city.", "culture", "Historic Quarter", 120, 0},
	},
	FocusFoodDiscovery: {
		{"Street food crawl through %s", "Graze across the busiest stalls, one signature bite at a time.", "food", "Night Market", 150, 22},
		{"Market tour in %s", "Produce, spices and snacks — taste while you browse the central market.", "food", "Central Market", 120, 10},
		{"Regional tasting lunch in %s", "A guided tasting menu of the dishes the region is known for.", "food", "Food Hall", 120, 35},
		{"Coffee and dessert stop in %s", "The city's best-loved café for a slow afternoon break.", "food", "Café District", 60, 8},
	},
	FocusNatureExploration: {
		{"Morning hike outside %s", "An accessible trail with the best viewpoint within easy reach of the city.", "nature", "Scenic Trail", 180, 0},
		{"Botanical gardens of %s", "A slow loop through the gardens and greenhouses.", "nature", "Botanical Garden", 120, 8},
		{"Picnic lunch near %s", "Stock up at a market and eat outdoors the way locals do.", "food", "City Park", 90, 12},
		{"Sunset viewpoint over %s", "Time the best panorama of the trip for golden hour.", "nature", "Lookout Point", 90, 0},
	},
	FocusHistoricalSites: {
		{"Guided visit of the %s citadel", "The city's defining monument, with the context that makes it land.", "history", "Citadel", 150, 20},
		{"Walking tour of historic %s", "Layers of the city's past, told street by street.", "history", "Heritage District", 150, 15},
		{"Lunch near the %s old walls", "A classic spot in the shadow of the oldest part of town.", "food", "Old Gate", 90, 18},
		{"Afternoon at the %s history museum", "The long arc of the region in a single collection.", "history", "History Museum", 120, 12},
	},
	FocusEntertainmentLeisure: {
		{"Late morning in %s shopping streets", "Browse the flagship stores and local designers at your own pace.", "leisure", "Shopping District", 120, 0},
		{"Long lunch in %s", "No agenda — a proper unhurried meal.", "food", "Riverside", 120, 25},
		{"Afternoon show or gallery in %s", "Whatever is on: a matinee, an exhibition or a local performance.", "entertainment", "Theater District", 150, 30},
		{"Games and people-watching in %s", "Cafés, squares and the city at leisure.", "leisure", "Main Square", 90, 5},
	},
	FocusNightlifeEntertainment: {
		{"Aperitivo hour in %s", "Start the evening where the locals do.", "nightlife", "Bar District", 90, 15},
		{"Dinner and live music in %s", "A venue that pairs a good kitchen with a nightly act.", "nightlife", "Music Quarter", 150, 45},
		{"Bar hop through %s", "Three stops, from classic institution to new favorite.", "nightlife", "Old Town", 150, 30},
		{"Late-night views over %s", "A rooftop nightcap to close the day.", "nightlife", "Skyline Bar", 90, 18},
	},
	FocusDepartureLogistics: {
		{"Last morning walk in %s", "One unhurried loop past your favorite corner of the trip.", "leisure", "City Center", 90, 0},
		{"Souvenir run in %s", "Pick up the things you kept putting off buying.", "shopping", "Market Street", 90, 20},
		{"Pack up and check out in %s", "Settle the room, stash the bags and keep the timeline honest.", "logistics", "Hotel District", 60, 0},
		{"Transfer to the airport from %s", "Leave margin for traffic and security.", "logistics", "Transit Hub", 90, 30},
	},
}

var activitiesPerDetailLevel = map[DetailLevel]int{
	DetailComprehensive: 4,
	DetailBalanced:      3,
	DetailSimplified:    2,
}

// Activities start at 09:00 in fixed 3-hour slots.
var slotTimes = []string{"09:00", "12:00", "15:00", "18:00"}

var expensiveCities = []string{
	"tokyo", "zurich", "geneva", "new york", "london", "paris",
	"singapore", "oslo", "copenhagen", "sydney", "san francisco",
}

var lowCostRegions = []string{
	"hanoi", "ho chi minh", "bangkok", "delhi", "mumbai", "cairo",
	"marrakech", "mexico city", "lima", "manila",
}

// usdRates converts USD template costs into the trip's budget currency when
// recognized. Rates are intentionally coarse; fallback pricing is an estimate.
var usdRates = map[string]float64{
	"USD": 1.0,
	"EUR": 0.92,
	"GBP": 0.79,
	"CHF": 0.88,
	"AUD": 1.52,
	"JPY": 150,
	"VND": 25400,
	"THB": 36,
	"INR": 84,
}

func (s *FallbackGeneratorService) GenerateFallbackDays(trip request_models.Trip, chunk Chunk) []response_models.Day {
	templates, ok := fallbackTemplates[chunk.Focus]
	if !ok {
		templates = fallbackTemplates[FocusCulturalImmersion]
	}

	count, ok := activitiesPerDetailLevel[chunk.DetailLevel]
	if !ok {
		count = activitiesPerDetailLevel[DetailBalanced]
	}

	city := trip.Destination.Name
	costFactor := destinationCostFactor(city)
	_, rate := budgetCurrency(trip)

	base := s.baseCoordinates(city)

	days := make([]response_models.Day, 0, chunk.Length())
	for day := chunk.StartDay; day <= chunk.EndDay; day++ {
		activities := make([]response_models.Activity, 0, count)
		for slot := 0; slot < count; slot++ {
			// Rotate the template table by absolute day so consecutive days
			// in the same chunk don't repeat the same four activities.
			tpl := templates[(day-chunk.StartDay+slot)%len(templates)]

			activities = append(activities, response_models.Activity{
				Time:        slotTimes[slot],
				Title:       fmt.Sprintf(tpl.Title, city),
				Description: tpl.Description,
				Location: response_models.ActivityLocation{
					Name:        fmt.Sprintf("%s %s", city, tpl.LocationNoun),
					Coordinates: s.jitter(base),
				},
				DurationMinutes:   tpl.DurationMinutes,
				Cost:              roundCost(tpl.BaseCostUSD * costFactor * rate),
				Category:          tpl.Category,
				Notes:             "Suggested automatically; confirm opening hours locally.",
				FallbackGenerated: true,
			})
		}

		days = append(days, response_models.Day{
			Date:       trip.DayDate(day),
			Activities: activities,
		})
	}

	return days
}

// GenerateEmergencyFallback produces a complete trip without any provider
// call: arrival themes on day one, departure logistics on the last day, the
// rotation in between.
func (s *FallbackGeneratorService) GenerateEmergencyFallback(trip request_models.Trip) *response_models.FinalItinerary {
	days := make([]response_models.Day, 0, trip.Duration)

	for day := 1; day <= trip.Duration; day++ {
		focus := middleFocusRotation[(day-2+len(middleFocusRotation)*2)%len(middleFocusRotation)]
		detail := DetailBalanced
		switch {
		case day == 1:
			focus = FocusArrivalOrientation
			detail = DetailComprehensive
		case day == trip.Duration && trip.Duration > 1:
			focus = FocusDepartureLogistics
			detail = DetailSimplified
		}

		generated := s.GenerateFallbackDays(trip, Chunk{
			ID:          chunkID(day, day),
			StartDay:    day,
			EndDay:      day,
			Priority:    PriorityNormal,
			Focus:       focus,
			DetailLevel: detail,
		})
		days = append(days, generated...)
	}

	currency, _ := budgetCurrency(trip)

	total := 0
	cost := 0.0
	for _, d := range days {
		total += len(d.Activities)
		for _, a := range d.Activities {
			cost += a.Cost
		}
	}

	return &response_models.FinalItinerary{
		Days: days,
		Summary: response_models.ItinerarySummary{
			TotalDays:              len(days),
			TotalActivities:        total,
			EstimatedCost:          roundCost(cost),
			Currency:               currency,
			SuccessfulChunks:       0,
			FallbackChunks:         1,
			GenerationSuccessRatio: 0,
		},
	}
}

func (s *FallbackGeneratorService) baseCoordinates(city string) response_models.Coordinates {
	if found := s.locations.FindCoordinates(city); found != nil {
		return response_models.Coordinates{Lat: found.Lat, Lng: found.Lng}
	}
	return response_models.Coordinates{}
}

// jitter spreads synthetic venues around the city centroid so they don't all
// stack on one point. ~±0.01 degrees, roughly a kilometre.
func (s *FallbackGeneratorService) jitter(c response_models.Coordinates) response_models.Coordinates {
	if c.Lat == 0 && c.Lng == 0 {
		return c
	}
	return response_models.Coordinates{
		Lat: c.Lat + (s.rng.Float64()-0.5)*0.02,
		Lng: c.Lng + (s.rng.Float64()-0.5)*0.02,
	}
}

func destinationCostFactor(city string) float64 {
	lower := strings.ToLower(city)
	for _, c := range expensiveCities {
		if strings.Contains(lower, c) {
			return 2.0
		}
	}
	for _, c := range lowCostRegions {
		if strings.Contains(lower, c) {
			return 0.3
		}
	}
	return 1.0
}

func budgetCurrency(trip request_models.Trip) (string, float64) {
	if trip.Budget == nil {
		return "USD", 1.0
	}
	code := strings.ToUpper(trip.Budget.Currency)
	if rate, ok := usdRates[code]; ok {
		return code, rate
	}
	return "USD", 1.0
}

func roundCost(v float64) float64 {
	return float64(int(v*100+0.5)) / 100
}
