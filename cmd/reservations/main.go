package main

import (
	"context"
	"time"

	adminhandler "buffet/internal/admin/handler"
	adminservice "buffet/internal/admin/service"
	bookingshandler "buffet/internal/bookings/handler"
	bookingsrepo "buffet/internal/bookings/repository"
	bookingsservice "buffet/internal/bookings/service"
	"buffet/internal/capacity"
	capacityhandler "buffet/internal/capacity/handler"
	contacthandler "buffet/internal/contact/handler"
	contactrepo "buffet/internal/contact/repository"
	contactservice "buffet/internal/contact/service"
	draftshandler "buffet/internal/drafts/handler"
	draftsrepo "buffet/internal/drafts/repository"
	draftsservice "buffet/internal/drafts/service"
	"buffet/internal/events"
	"buffet/internal/menu"
	menuhandler "buffet/internal/menu/handler"
	profileshandler "buffet/internal/profiles/handler"
	profilesrepo "buffet/internal/profiles/repository"
	profilesservice "buffet/internal/profiles/service"
	"buffet/internal/scheduling"
	schedulinghandler "buffet/internal/scheduling/handler"
	"buffet/internal/scheduling/webhook"
	settingshandler "buffet/internal/settings/handler"
	settingsrepo "buffet/internal/settings/repository"
	settingsservice "buffet/internal/settings/service"
	"buffet/pkg/app"
	"buffet/pkg/client"
	"buffet/pkg/config"
	"buffet/pkg/contracts"
	"buffet/pkg/kafka"
	kafkaconfig "buffet/pkg/kafka/config"
	kafkamiddleware "buffet/pkg/kafka/middleware"
	"buffet/pkg/locale"
	"buffet/pkg/sealer"
	"buffet/pkg/validation"
)

const (
	ServiceName   = "reservations"
	statsInterval = time.Minute
)

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	cfg.SetRedis()

	cfg.Log.Info("Starting Reservations service")
	serverApp := app.NewApplication(cfg)
	serverApp.OpenPaths(schedulinghandler.ProxyPath)
	serverApp.SetApp(initHandlers(cfg, serverApp))
	serverApp.Run()
}

func initHandlers(cfg *config.Config, serverApp *app.Application) contracts.Handlers {
	log := cfg.Log
	v := validation.New(log)
	phoneRegions := locale.PhoneRegions(cfg.RestaurantTimezone)

	catalog, err := menu.Load()
	if err != nil {
		log.Fatal("Failed to load menu catalog", "error", err)
	}

	settingService := settingsservice.NewSettingService(settingsrepo.NewMongoSettingRepository(cfg), v, log)
	profileService := profilesservice.NewProfileService(profilesrepo.NewMongoProfileRepository(cfg), v, phoneRegions, log)

	bookingRepo := bookingsrepo.NewMongoBookingRepository(cfg)
	capacityService := capacity.NewService(
		bookingRepo,
		settingService,
		capacity.NewCache(cfg.Client.Redis, cfg.CapacityCacheTTL, log),
		cfg.Location,
		capacity.DefaultWeekends,
		log,
	)

	schedulingClient := scheduling.NewClient(
		client.NewHttpClient(cfg.SchedulingTimeout, cfg.SchedulingRatePerSec),
		cfg.SchedulingAPIToken,
		cfg.SchedulingAPIHosts,
		log,
	)

	draftOpts := draftsservice.Options{PhoneRegions: phoneRegions, WidgetURL: cfg.SchedulingWidgetURL}
	var opener webhook.TokenOpener
	if cfg.SealerKey != "" {
		s, err := sealer.New(cfg.SealerKey)
		if err != nil {
			log.Fatal("Invalid sealer key", "error", err)
		}
		draftOpts.Sealer = s
		opener = s
	}

	draftRepo := draftsrepo.NewMongoDraftRepository(cfg)
	draftService := draftsservice.NewDraftService(draftRepo, profileService, v, draftOpts, log)

	bookingService := bookingsservice.NewBookingService(
		bookingRepo,
		bookingsrepo.NewBookingLockRepository(cfg),
		draftRepo,
		schedulingClient,
		capacityService,
		newPublisher(cfg, serverApp),
		v,
		bookingsservice.Options{
			Location:           cfg.Location,
			CancellationCutoff: cfg.CancellationCutoff,
			HorizonWeeks:       cfg.BookingHorizonWeeks,
		},
		log,
	)

	adminService := adminservice.NewAdminService(bookingRepo, profileService, bookingService, capacityService, cfg.Location, log)
	contactService := contactservice.NewContactService(contactrepo.NewMongoContactRepository(cfg), v, phoneRegions, log)

	if cfg.SchedulingWebhookSecret == "" {
		log.Warn("SCHEDULING_WEBHOOK_SECRET not set, webhook signatures are not verified")
	}

	log.Info("Reservation services initialized", "database", cfg.MongoDatabaseName, "timezone", cfg.Location.String())
	return contracts.Handlers{
		menuhandler.NewMenuHandler(catalog, log),
		contacthandler.NewContactHandler(contactService, log),
		capacityhandler.NewAvailabilityHandler(capacityService, log),
		profileshandler.NewProfileHandler(profileService, log),
		draftshandler.NewDraftHandler(draftService, log),
		bookingshandler.NewBookingHandler(bookingService, log),
		settingshandler.NewSettingHandler(settingService, log),
		adminhandler.NewAdminHandler(adminService, cfg.Location, log),
		schedulinghandler.NewProxyHandler(schedulingClient, cfg.CORSAllowedOrigin, log),
		webhook.NewHandler(bookingService, opener, cfg.SchedulingWebhookSecret, cfg.SchedulingWebhookMaxSkew, log),
	}
}

// newPublisher returns a Kafka publisher when KAFKA_ENABLED is set and a
// logging no-op otherwise.
func newPublisher(cfg *config.Config, serverApp *app.Application) events.Publisher {
	if !cfg.KafkaEnabled {
		cfg.Log.Info("Kafka disabled, booking events are logged only")
		return events.NewNoopPublisher(cfg.Log)
	}

	kcfg, err := kafkaconfig.Load()
	if err != nil {
		cfg.Log.Fatal("Invalid Kafka configuration", "error", err)
	}
	kcfg.LogConfiguration(cfg.Log)

	producer, err := kafka.NewProducer(kcfg, cfg.BookingEventsTopic, cfg.BookingEventsDLQTopic, cfg.Log)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka producer", "error", err)
	}

	metrics := kafkamiddleware.NewMetrics()
	producer.Use(kafkamiddleware.LoggingProducerMiddleware(cfg.Log))
	producer.Use(metrics.ProducerMiddleware())

	ctx, cancel := context.WithCancel(context.Background())
	go metrics.Report(ctx, statsInterval, cfg.Log)

	serverApp.OnShutdown(func() {
		cancel()
		if err := producer.Close(); err != nil {
			cfg.Log.Error("Failed to close Kafka producer", "error", err)
		}
	})
	return events.NewKafkaPublisher(producer, ServiceName)
}
