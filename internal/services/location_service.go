package services

import (
	"log"
	"math"
	"strings"

	"github.com/ringsaturn/tzf"
	"wayfarer/internal/models/response_models"
)

type CityCoordinates struct {
	Lat      float64 `json:"lat"`
	Lng      float64 `json:"lng"`
	Timezone string  `json:"timezone"`
}

type CoordinateValidation struct {
	Valid bool   `json:"valid"`
	Error string `json:"error,omitempty"`
}

type ClosestCity struct {
	Name        string                     `json:"name"`
	Coordinates response_models.Coordinates `json:"coordinates"`
	DistanceKm  float64                    `json:"distance_km"`
}

// LocationServiceInterface is a pure lookup helper: unknown places yield nil,
// never an error, so callers fall back to the destination centroid.
type LocationServiceInterface interface {
	FindCoordinates(name string) *CityCoordinates
	Distance(a, b response_models.Coordinates, unit string) float64
	EstimateTravelTime(a, b response_models.Coordinates, mode string) int
	ValidateCoordinates(c response_models.Coordinates) CoordinateValidation
	FindClosestCity(c response_models.Coordinates) *ClosestCity
}

type LocationService struct {
	tzFinder tzf.F
}

func NewLocationService() LocationServiceInterface {
	finder, err := tzf.NewDefaultFinder()
	if err != nil {
		// Lookup still works without timezones; log and degrade.
		log.Printf("timezone finder unavailable: %v", err)
		finder = nil
	}
	return &LocationService{tzFinder: finder}
}

// gazetteer is a small static city table. It only needs to cover the
// destinations the fallback generator synthesizes coordinates for; anything
// else resolves through partial matching or comes back nil.
var gazetteer = map[string]response_models.Coordinates{
	"paris":         {Lat: 48.8566, Lng: 2.3522},
	"london":        {Lat: 51.5074, Lng: -0.1278},
	"rome":          {Lat: 41.9028, Lng: 12.4964},
	"barcelona":     {Lat: 41.3874, Lng: 2.1686},
	"amsterdam":     {Lat: 52.3676, Lng: 4.9041},
	"berlin":        {Lat: 52.5200, Lng: 13.4050},
	"prague":        {Lat: 50.0755, Lng: 14.4378},
	"vienna":        {Lat: 48.2082, Lng: 16.3738},
	"lisbon":        {Lat: 38.7223, Lng: -9.1393},
	"istanbul":      {Lat: 41.0082, Lng: 28.9784},
	"new york":      {Lat: 40.7128, Lng: -74.0060},
	"san francisco": {Lat: 37.7749, Lng: -122.4194},
	"mexico city":   {Lat: 19.4326, Lng: -99.1332},
	"rio de janeiro": {Lat: -22.9068, Lng: -43.1729},
	"buenos aires":  {Lat: -34.6037, Lng: -58.3816},
	"tokyo":         {Lat: 35.6762, Lng: 139.6503},
	"kyoto":         {Lat: 35.0116, Lng: 135.7681},
	"seoul":         {Lat: 37.5665, Lng: 126.9780},
	"beijing":       {Lat: 39.9042, Lng: 116.4074},
	"bangkok":       {Lat: 13.7563, Lng: 100.5018},
	"singapore":     {Lat: 1.3521, Lng: 103.8198},
	"hanoi":         {Lat: 21.0285, Lng: 105.8542},
	"ho chi minh":   {Lat: 10.8231, Lng: 106.6297},
	"delhi":         {Lat: 28.6139, Lng: 77.2090},
	"mumbai":        {Lat: 19.0760, Lng: 72.8777},
	"sydney":        {Lat: -33.8688, Lng: 151.2093},
	"cairo":         {Lat: 30.0444, Lng: 31.2357},
	"marrakech":     {Lat: 31.6295, Lng: -7.9811},
	"cape town":     {Lat: -33.9249, Lng: 18.4241},
	"zurich":        {Lat: 47.3769, Lng: 8.5417},
}

// FindCoordinates resolves a place name to coordinates and timezone. Matching
// is case-insensitive and tolerates the city name being embedded in a longer
// string ("Paris, France").
func (s *LocationService) FindCoordinates(name string) *CityCoordinates {
	lower := strings.ToLower(strings.TrimSpace(name))
	if lower == "" {
		return nil
	}

	if coords, ok := gazetteer[lower]; ok {
		return s.withTimezone(coords)
	}

	for city, coords := range gazetteer {
		if strings.Contains(lower, city) || strings.Contains(city, lower) {
			return s.withTimezone(coords)
		}
	}

	return nil
}

func (s *LocationService) withTimezone(c response_models.Coordinates) *CityCoordinates {
	tz := ""
	if s.tzFinder != nil {
		tz = s.tzFinder.GetTimezoneName(c.Lng, c.Lat)
	}
	return &CityCoordinates{Lat: c.Lat, Lng: c.Lng, Timezone: tz}
}

const earthRadiusKm = 6371.0

// Distance computes the Haversine great-circle distance. unit is "km"
// (default) or "mi".
func (s *LocationService) Distance(a, b response_models.Coordinates, unit string) float64 {
	latA := a.Lat * math.Pi / 180
	latB := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLng := (b.Lng - a.Lng) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(latA)*math.Cos(latB)*math.Sin(dLng/2)*math.Sin(dLng/2)
	km := earthRadiusKm * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	if strings.EqualFold(unit, "mi") {
		return km * 0.621371
	}
	return km
}

var travelSpeedsKmh = map[string]float64{
	"walking": 4.5,
	"transit": 25,
	"driving": 40,
}

// EstimateTravelTime returns whole minutes for the straight-line distance at a
// mode-typical speed, plus a flat 10-minute buffer for the last bit of
// navigation. Unknown modes are treated as driving.
func (s *LocationService) EstimateTravelTime(a, b response_models.Coordinates, mode string) int {
	speed, ok := travelSpeedsKmh[strings.ToLower(mode)]
	if !ok {
		speed = travelSpeedsKmh["driving"]
	}

	km := s.Distance(a, b, "km")
	if km == 0 {
		return 0
	}
	return int(math.Ceil(km/speed*60)) + 10
}

func (s *LocationService) ValidateCoordinates(c response_models.Coordinates) CoordinateValidation {
	switch {
	case c.Lat < -90 || c.Lat > 90:
		return CoordinateValidation{Valid: false, Error: "latitude out of range [-90, 90]"}
	case c.Lng < -180 || c.Lng > 180:
		return CoordinateValidation{Valid: false, Error: "longitude out of range [-180, 180]"}
	case c.Lat == 0 && c.Lng == 0:
		return CoordinateValidation{Valid: false, Error: "null island coordinates"}
	default:
		return CoordinateValidation{Valid: true}
	}
}

func (s *LocationService) FindClosestCity(c response_models.Coordinates) *ClosestCity {
	var best *ClosestCity
	for city, coords := range gazetteer {
		d := s.Distance(c, coords, "km")
		if best == nil || d < best.DistanceKm {
			best = &ClosestCity{Name: city, Coordinates: coords, DistanceKm: d}
		}
	}
	return best
}
