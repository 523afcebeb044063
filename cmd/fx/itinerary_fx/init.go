package itinerary_fx

import (
	"log"
	"os"
	"strconv"
	"time"
	"wayfarer/internal/api/controllers"
	"wayfarer/internal/repositories"
	"wayfarer/internal/services"
	"wayfarer/pkg/utils"

	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Provide(
	ProvideChunkingConfig,
	ProvideTokenBudgetService,
	ProvideChunkPlanner,
	ProvidePromptBuilder,
	ProvideResponseParser,
	ProvideResultCombiner,
	ProvideChunkGenerator,
	ProvideItineraryService,
	ProvideItineraryRepository,
	ProvideItineraryController)

// ProvideChunkingConfig starts from the documented defaults and applies any
// environment overrides.
func ProvideChunkingConfig() services.ChunkingConfig {
	config := services.DefaultChunkingConfig()

	if v := envInt("MIN_DAYS_FOR_CHUNKING"); v > 0 {
		config.MinDaysForChunking = v
	}
	if v := envInt("MAX_TOKENS_PER_REQUEST"); v > 0 {
		config.MaxTokensPerRequest = v
	}
	if v := envInt("INTER_CHUNK_DELAY_MS"); v > 0 {
		config.InterChunkDelay = time.Duration(v) * time.Millisecond
	}
	if v := envInt("CONTEXT_OVERLAP_DAYS"); v > 0 {
		config.ContextOverlapDays = v
	}

	return config
}

func envInt(key string) int {
	raw := os.Getenv(key)
	if raw == "" {
		return 0
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		log.Printf("ignoring %s=%q: %v", key, raw, err)
		return 0
	}
	return v
}

func ProvideTokenBudgetService() services.TokenBudgetServiceInterface {
	return services.NewTokenBudgetService()
}

func ProvideChunkPlanner(
	tokenService services.TokenBudgetServiceInterface,
	config services.ChunkingConfig,
) services.ChunkPlannerInterface {
	return services.NewChunkPlannerService(tokenService, config)
}

func ProvidePromptBuilder() services.PromptBuilderInterface {
	return services.NewPromptBuilderService()
}

func ProvideResponseParser() services.ResponseParserInterface {
	return services.NewResponseParserService()
}

func ProvideResultCombiner() services.ResultCombinerInterface {
	return services.NewResultCombinerService()
}

func ProvideChunkGenerator(
	ai utils.AIClientInterface,
	prompts services.PromptBuilderInterface,
	parser services.ResponseParserInterface,
	fallback services.FallbackGeneratorInterface,
	budget services.TokenBudgetServiceInterface,
	combiner services.ResultCombinerInterface,
	config services.ChunkingConfig,
) services.ChunkGeneratorInterface {
	return services.NewChunkGeneratorService(ai, prompts, parser, fallback, budget, combiner, config)
}

func ProvideItineraryService(
	planner services.ChunkPlannerInterface,
	budget services.TokenBudgetServiceInterface,
	generator services.ChunkGeneratorInterface,
	fallback services.FallbackGeneratorInterface,
	prompts services.PromptBuilderInterface,
	parser services.ResponseParserInterface,
	combiner services.ResultCombinerInterface,
	ai utils.AIClientInterface,
	config services.ChunkingConfig,
) services.ItineraryServiceInterface {
	return services.NewItineraryService(planner, budget, generator, fallback, prompts, parser, combiner, ai, config)
}

func ProvideItineraryRepository(db *gorm.DB) repositories.ItineraryRepository {
	return repositories.NewItineraryRepository(db)
}

func ProvideItineraryController(
	itineraryService services.ItineraryServiceInterface,
	itineraryRepo repositories.ItineraryRepository,
) *controllers.ItineraryController {
	return controllers.NewItineraryController(itineraryService, itineraryRepo)
}
