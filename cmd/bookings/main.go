package main

import (
	"github.com/joho/godotenv"

	availabilityrepository "tutormatch/internal/availability/repository"
	availabilityservice "tutormatch/internal/availability/service"
	availabilityvalidator "tutormatch/internal/availability/validator"
	"tutormatch/internal/bookings/handler"
	"tutormatch/internal/bookings/repository"
	"tutormatch/internal/bookings/service"
	"tutormatch/internal/bookings/validator"
	searchrepository "tutormatch/internal/search/repository"
	"tutormatch/pkg/app"
	"tutormatch/pkg/config"
	"tutormatch/pkg/health"
	"tutormatch/pkg/kafka"
	kafka_config "tutormatch/pkg/kafka/config"
	"tutormatch/pkg/notify"
	"tutormatch/pkg/payments"
)

const ServiceName = "bookings"

func main() {
	_ = godotenv.Load()

	cfg := config.Load(ServiceName)
	cfg.SetMongo()

	cfg.Log.Info("Starting Bookings service")
	bookingService := initServices(cfg)

	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(
		handler.NewBookingHandler(bookingService, cfg.Log),
		health.NewHandler(cfg.Client.Mongo, cfg.Log),
	)
	serverApp.Run()
}

func initServices(cfg *config.Config) service.BookingService {
	bookingValidator := validator.NewBookingValidator(cfg.Log)
	bookingRepo := repository.NewMongoBookingRepository(cfg)
	lockRepo := repository.NewBookingLockRepository(cfg)
	tutorRepo := searchrepository.NewMongoTutorRepository(cfg)

	calendar := availabilityservice.NewAvailabilityService(
		availabilityrepository.NewMongoAvailabilityRepository(cfg),
		availabilityvalidator.NewAvailabilityValidator(cfg.Log),
		cfg,
	)

	gateway := payments.NewHTTPGateway(
		cfg.PaymentGatewayURL,
		cfg.PaymentGatewayKey,
		cfg.PaymentGatewayTimeout,
		cfg.PaymentGatewayRetries,
		cfg.Log,
	)

	bookingService := service.NewBookingService(
		bookingRepo,
		lockRepo,
		tutorRepo,
		calendar,
		gateway,
		initNotifier(cfg),
		bookingValidator,
		cfg,
	)

	cfg.Log.Info("Booking service initialized", "database", cfg.MongoDatabaseName)
	return bookingService
}

// initNotifier wires the event bus producer. A bus that cannot be reached at
// boot degrades to the no-op notifier; bookings never depend on it.
func initNotifier(cfg *config.Config) notify.Notifier {
	producer, err := kafka.NewProducer(kafka_config.Load(), notify.TopicBookingEvents)
	if err != nil {
		cfg.Log.Warn("Notification producer unavailable, events disabled", "error", err)
		return notify.NopNotifier{}
	}
	return notify.NewKafkaNotifier(producer, ServiceName, cfg.Log)
}
