package main

import (
	adminhandler "roost/internal/admin/handler"
	adminservice "roost/internal/admin/service"
	bookinghandler "roost/internal/bookings/handler"
	bookingrepo "roost/internal/bookings/repository"
	bookingservice "roost/internal/bookings/service"
	bookingvalidator "roost/internal/bookings/validator"
	contacthandler "roost/internal/contacts/handler"
	contactrepo "roost/internal/contacts/repository"
	contactservice "roost/internal/contacts/service"
	contactvalidator "roost/internal/contacts/validator"
	listingrepo "roost/internal/listings/repository"
	"roost/internal/payments/gateway"
	paymenthandler "roost/internal/payments/handler"
	paymentservice "roost/internal/payments/service"
	reviewhandler "roost/internal/reviews/handler"
	reviewrepo "roost/internal/reviews/repository"
	reviewservice "roost/internal/reviews/service"
	reviewvalidator "roost/internal/reviews/validator"
	userhandler "roost/internal/users/handler"
	userrepo "roost/internal/users/repository"
	userservice "roost/internal/users/service"
	"roost/pkg/app"
	"roost/pkg/config"
	"roost/pkg/contracts"
	"roost/pkg/events"
)

const ServiceName = "api"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	var publisher events.Publisher
	if cfg.EventsEnabled() {
		producer, err := events.NewProducer(cfg.KafkaBrokers, cfg.KafkaBookingTopic, cfg.KafkaBookingDLQTopic, ServiceName, cfg.Log)
		if err != nil {
			cfg.Log.Fatal("Failed to initialize event producer", "error", err)
		}
		defer producer.Close()
		publisher = producer
		cfg.Log.Info("Booking event stream enabled", "topic", cfg.KafkaBookingTopic)
	} else {
		cfg.Log.Info("Booking event stream disabled; no Kafka brokers configured")
	}

	handlers := initHandlers(cfg, publisher)

	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(handlers...)
	serverApp.Run()
}

func initHandlers(cfg *config.Config, publisher events.Publisher) []contracts.Handler {
	bookingRepo := bookingrepo.NewMongoBookingRepository(cfg)
	listingRepo := listingrepo.NewMongoListingRepository(cfg)
	userRepo := userrepo.NewMongoUserRepository(cfg)
	reviewRepo := reviewrepo.NewMongoReviewRepository(cfg)
	contactRepo := contactrepo.NewMongoContactRepository(cfg)

	bookingService := bookingservice.NewBookingService(
		bookingRepo,
		listingRepo,
		userRepo,
		bookingvalidator.NewBookingValidator(cfg.Log),
		publisher,
		cfg,
	)

	paymentGateway := gateway.NewStripeGateway(cfg.StripeSecretKey)
	paymentService := paymentservice.NewPaymentService(bookingService, paymentGateway, cfg)

	reviewService := reviewservice.NewReviewService(
		reviewRepo,
		reviewvalidator.NewReviewValidator(cfg.Log),
		cfg,
	)

	contactService := contactservice.NewContactService(
		contactRepo,
		contactvalidator.NewContactValidator(cfg.Log),
		cfg,
	)

	userService := userservice.NewUserService(userRepo, listingRepo, cfg)

	adminService := adminservice.NewAdminService(userRepo, listingRepo, bookingRepo, cfg)

	cfg.Log.Info("Services initialized", "database", cfg.MongoDatabaseName)

	return []contracts.Handler{
		bookinghandler.NewBookingHandler(bookingService, cfg),
		paymenthandler.NewPaymentHandler(paymentService, cfg),
		reviewhandler.NewReviewHandler(reviewService, cfg),
		contacthandler.NewContactHandler(contactService, cfg),
		userhandler.NewUserHandler(userService, cfg),
		adminhandler.NewAdminHandler(adminService, cfg),
	}
}
