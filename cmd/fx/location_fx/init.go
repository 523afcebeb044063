package location_fx

import (
	"math/rand"
	"time"
	"wayfarer/internal/services"

	"go.uber.org/fx"
)

var Module = fx.Provide(
	provideLocationService,
	provideFallbackGenerator)

func provideLocationService() services.LocationServiceInterface {
	return services.NewLocationService()
}

func provideFallbackGenerator(locations services.LocationServiceInterface) services.FallbackGeneratorInterface {
	// Time-seeded in production; tests construct the generator with a fixed
	// seed to make the coordinate jitter reproducible.
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	return services.NewFallbackGeneratorService(locations, rng)
}
