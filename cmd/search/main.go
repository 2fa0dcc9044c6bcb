package main

import (
	"github.com/joho/godotenv"

	"tutormatch/internal/search/handler"
	"tutormatch/internal/search/repository"
	"tutormatch/internal/search/service"
	"tutormatch/internal/search/validator"
	"tutormatch/pkg/app"
	"tutormatch/pkg/config"
	"tutormatch/pkg/health"
)

const ServiceName = "search"

func main() {
	_ = godotenv.Load()

	cfg := config.Load(ServiceName)
	cfg.SetMongo()

	cfg.Log.Info("Starting Search service")
	searchService := initServices(cfg)

	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(
		handler.NewSearchHandler(searchService, cfg.DefaultSearchRadiusKm, cfg.Log),
		health.NewHandler(cfg.Client.Mongo, cfg.Log),
	)
	serverApp.Run()
}

func initServices(cfg *config.Config) service.SearchService {
	searchValidator := validator.NewSearchValidator(cfg.MaxSearchRadiusKm, cfg.Log)
	tutorRepo := repository.NewMongoTutorRepository(cfg)
	searchService := service.NewSearchService(
		tutorRepo,
		searchValidator,
		cfg,
	)

	cfg.Log.Info("Search service initialized", "database", cfg.MongoDatabaseName)
	return searchService
}
