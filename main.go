package main

import (
	"fmt"
	"os"

	"github.com/hostelhq/reservation-service/config"
	"github.com/hostelhq/reservation-service/internal/handler"
	"github.com/hostelhq/reservation-service/internal/middleware"
	"github.com/hostelhq/reservation-service/internal/models"
	"github.com/hostelhq/reservation-service/internal/notifier"
	"github.com/hostelhq/reservation-service/internal/repository"
	"github.com/hostelhq/reservation-service/internal/service"
	"github.com/hostelhq/reservation-service/pkg/cache"
	"github.com/hostelhq/reservation-service/pkg/database"
	"github.com/hostelhq/reservation-service/pkg/logger"
	"github.com/hostelhq/reservation-service/pkg/rabbitmq"
	"github.com/labstack/echo/v4"
	echoMw "github.com/labstack/echo/v4/middleware"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "reservation-service",
		Short: "Hostel bed reservation and allocation service",
	}
	rootCmd.AddCommand(serveCmd(), migrateCmd(), seedCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			log := logger.Must(logger.New())
			defer func() { _ = log.Sync() }()

			db, err := database.NewPostgresDB(cfg.DSN())
			if err != nil {
				return err
			}

			// RabbitMQ is optional: a missing broker only disables notifications.
			var publisher *rabbitmq.Publisher
			if cfg.RabbitURL != "" {
				publisher, err = rabbitmq.NewPublisher(cfg.RabbitURL)
				if err != nil {
					log.Warn("rabbitmq unavailable, notifications disabled", zap.Error(err))
				} else {
					defer publisher.Close()
				}
			}

			availCache := cache.NewAvailabilityCache(
				cache.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword),
				cfg.CacheTTL,
				log.Named("cache.availability"),
			)
			if availCache == nil {
				log.Info("redis unavailable, availability cache disabled")
			}

			ntf := notifier.New(publisher, log.Named("notifier"))

			officeRepo := repository.NewOfficeRepository(db)
			bedRepo := repository.NewBedRepository(db)
			scheduleRepo := repository.NewScheduleRepository(db)
			stayRepo := repository.NewStayDetailRepository(db)
			reservationRepo := repository.NewReservationRepository(db)

			eligibility := service.NewEligibilityResolver(scheduleRepo, log.Named("svc.eligibility"))
			availability := service.NewAvailabilityService(bedRepo, stayRepo, eligibility, availCache, log.Named("svc.availability"))
			reservations := service.NewReservationService(reservationRepo, officeRepo, ntf, log.Named("svc.reservation"))
			allocation := service.NewAllocationService(reservationRepo, stayRepo, bedRepo, availability, eligibility, ntf, availCache, log.Named("svc.allocation"))
			modification := service.NewModificationService(reservationRepo, stayRepo, bedRepo, reservations, ntf, availCache, log.Named("svc.modification"))
			billing := service.NewBillingService(reservationRepo, ntf, availCache, log.Named("svc.billing"))
			tokens := service.NewTokenService(cfg.TokenSecret, cfg.TokenTTL)

			e := echo.New()
			e.HTTPErrorHandler = middleware.ErrorHandler(log.Named("http"))
			e.Use(echoMw.RequestLoggerWithConfig(echoMw.RequestLoggerConfig{
				LogStatus: true,
				LogURI:    true,
				LogMethod: true,
				LogValuesFunc: func(c echo.Context, v echoMw.RequestLoggerValues) error {
					log.Info("request",
						zap.String("method", v.Method),
						zap.String("uri", v.URI),
						zap.Int("status", v.Status))
					return nil
				},
			}))
			e.Use(echoMw.Recover())

			e.GET("/health", func(c echo.Context) error {
				return c.JSON(200, map[string]string{"status": "ok", "service": "reservation-service"})
			})

			handler.NewAvailabilityHandler(availability, eligibility).RegisterRoutes(e)
			handler.NewReservationHandler(reservations, allocation, billing, tokens).RegisterRoutes(e)
			handler.NewModificationHandler(modification, tokens).RegisterRoutes(e)

			log.Info("reservation service starting", zap.String("port", cfg.ServerPort))
			return e.Start(":" + cfg.ServerPort)
		},
	}
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the database schema and constraints",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			_, err := database.NewPostgresDB(cfg.DSN())
			return err
		},
	}
}

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load a small office/room/bed catalog for local development",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			db, err := database.NewPostgresDB(cfg.DSN())
			if err != nil {
				return err
			}
			return seedCatalog(db)
		},
	}
}

func seedCatalog(db *gorm.DB) error {
	office := models.Office{Name: "Manila Main", Code: "MNL"}
	if err := db.FirstOrCreate(&office, models.Office{Code: "MNL"}).Error; err != nil {
		return err
	}

	rooms := []models.Room{
		{OfficeID: office.ID, Name: "Room 101", EligibleGender: models.GenderAny},
		{OfficeID: office.ID, Name: "Room 102", EligibleGender: models.GenderFemale},
		{OfficeID: office.ID, Name: "Room 201", EligibleGender: models.GenderMale},
	}
	for i := range rooms {
		if err := db.FirstOrCreate(&rooms[i], models.Room{OfficeID: office.ID, Name: rooms[i].Name}).Error; err != nil {
			return err
		}
		for b := 1; b <= 4; b++ {
			bed := models.Bed{RoomID: rooms[i].ID, Name: fmt.Sprintf("Bed %d", b), Price: 25000}
			if err := db.FirstOrCreate(&bed, models.Bed{RoomID: rooms[i].ID, Name: bed.Name}).Error; err != nil {
				return err
			}
		}
	}
	return nil
}
