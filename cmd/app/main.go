package main

import (
	"context"
	"log"
	"os"
	"wayfarer/cmd/fx/ai_fx"
	"wayfarer/cmd/fx/db_fx"
	"wayfarer/cmd/fx/itinerary_fx"
	"wayfarer/cmd/fx/location_fx"
	"wayfarer/internal/api/controllers"
	"wayfarer/internal/infra"
	"wayfarer/pkg/middleware"
	"wayfarer/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	app := fx.New(
		db_fx.Module,
		ai_fx.Module,
		location_fx.Module,
		itinerary_fx.Module,

		fx.Provide(ProvideRouter),
		fx.Invoke(StartServer),
	)

	app.Run()
}

func StartServer(lc fx.Lifecycle, engine *gin.Engine, db *gorm.DB, ai utils.AIClientInterface) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				port := os.Getenv("PORT")
				if port == "" {
					port = "8080"
				}
				log.Printf("Starting HTTP server at :%s", port)
				if err := engine.Run(":" + port); err != nil {
					log.Fatalf("Failed to start server: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Println("Stopping HTTP server")
			infra.ClosePostgresql(db)
			if err := ai.Close(); err != nil {
				log.Printf("Error closing AI client: %v", err)
			}
			return nil
		},
	})
}

func ProvideRouter(itineraryController *controllers.ItineraryController) *gin.Engine {
	r := gin.Default()
	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.Use(middleware.CORSMiddleware())
	r.Use(middleware.TraceIDMiddleware())

	RegisterRoutes(r, itineraryController)

	return r
}

func RegisterRoutes(r *gin.Engine, itineraryController *controllers.ItineraryController) {

	itineraries := r.Group("/itineraries")
	itineraries.POST("/generate", itineraryController.GenerateItineraryHandler)
	itineraries.POST("/analyze", itineraryController.AnalyzeTripHandler)
	itineraries.POST("/estimate", itineraryController.EstimateTokensHandler)
	itineraries.POST("/preview-chunks", itineraryController.PreviewChunksHandler)
	itineraries.GET("/:id", itineraryController.GetItineraryHandler)

	r.GET("/health", itineraryController.HealthHandler)
}
