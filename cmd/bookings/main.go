package main

import (
	availabilityrepo "tutorly/internal/availability/repository"
	"tutorly/internal/bookings/handler"
	"tutorly/internal/bookings/notify"
	"tutorly/internal/bookings/repository"
	"tutorly/internal/bookings/service"
	"tutorly/internal/bookings/validator"
	"tutorly/pkg/app"
	"tutorly/pkg/config"
	"tutorly/pkg/kafka"
	kafka_config "tutorly/pkg/kafka/config"
)

const ServiceName = "bookings"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	cfg.Log.Info("Starting Bookings service")
	bookingService, cleanup := initServices(cfg)
	defer cleanup()

	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(handler.NewBookingHandler(bookingService, cfg.Log))
	serverApp.Run()
}

func initServices(cfg *config.Config) (service.BookingService, func()) {
	bookingValidator := validator.NewBookingValidator(cfg.Log)
	bookingRepo := repository.NewMongoBookingRepository(cfg)
	reservationRepo := repository.NewMongoReservationRepository(cfg)
	availabilityRepo := availabilityrepo.NewMongoAvailabilityRepository(cfg)

	notifier, cleanup := initNotifier(cfg)

	bookingService := service.NewBookingService(
		bookingRepo,
		reservationRepo,
		availabilityRepo,
		bookingValidator,
		notifier,
		cfg,
	)

	cfg.Log.Info("Booking service initialized", "database", cfg.MongoDatabaseName)
	return bookingService, cleanup
}

func initNotifier(cfg *config.Config) (notify.Notifier, func()) {
	if !cfg.NotificationsEnabled {
		cfg.Log.Info("Notifications disabled, booking events will be logged only")
		return notify.NewLogNotifier(cfg.Log), func() {}
	}

	kafkaCfg := kafka_config.Load()
	producer, err := kafka.NewProducer(kafkaCfg, kafka.TopicBookingEvents)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka producer", "error", err)
	}

	cfg.Log.Info("Kafka notifier initialized",
		"brokers", kafkaCfg.Brokers,
		"topic", kafka.TopicBookingEvents,
	)
	return notify.NewKafkaNotifier(producer, ServiceName, cfg.Log), func() {
		if err := producer.Close(); err != nil {
			cfg.Log.Warn("Failed to close Kafka producer", "error", err)
		}
	}
}
