package main

import (
	"github.com/joho/godotenv"

	"tutormatch/internal/availability/handler"
	"tutormatch/internal/availability/repository"
	"tutormatch/internal/availability/service"
	"tutormatch/internal/availability/validator"
	"tutormatch/pkg/app"
	"tutormatch/pkg/config"
	"tutormatch/pkg/health"
)

const ServiceName = "availability"

func main() {
	_ = godotenv.Load()

	cfg := config.Load(ServiceName)
	cfg.SetMongo()

	cfg.Log.Info("Starting Availability service")
	availabilityService := initServices(cfg)

	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(
		handler.NewAvailabilityHandler(availabilityService, cfg.Log),
		health.NewHandler(cfg.Client.Mongo, cfg.Log),
	)
	serverApp.Run()
}

func initServices(cfg *config.Config) service.AvailabilityService {
	availabilityValidator := validator.NewAvailabilityValidator(cfg.Log)
	availabilityRepo := repository.NewMongoAvailabilityRepository(cfg)
	availabilityService := service.NewAvailabilityService(
		availabilityRepo,
		availabilityValidator,
		cfg,
	)

	cfg.Log.Info("Availability service initialized", "database", cfg.MongoDatabaseName)
	return availabilityService
}
