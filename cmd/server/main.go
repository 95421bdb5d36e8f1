package main // Entry point package

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/kmcdaid/dental-clinic-api/internal/clinic"
	"github.com/kmcdaid/dental-clinic-api/internal/config"
	"github.com/kmcdaid/dental-clinic-api/internal/database"
	"github.com/kmcdaid/dental-clinic-api/internal/handler"
	"github.com/kmcdaid/dental-clinic-api/internal/middleware"
	"github.com/kmcdaid/dental-clinic-api/internal/queue"
	"github.com/kmcdaid/dental-clinic-api/internal/repository"
	"github.com/kmcdaid/dental-clinic-api/internal/router"
	"github.com/kmcdaid/dental-clinic-api/internal/schedule"
	queue_publisher "github.com/kmcdaid/dental-clinic-api/internal/service"
)

func main() {
	// .env is optional; real deployments set variables in the environment.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := database.EnsureSchema(ctx, db); err != nil {
		cancel()
		log.Fatalf("ensure schema: %v", err)
	}
	if cfg.SeedDemoData {
		if err := database.SeedDemoData(ctx, db); err != nil {
			cancel()
			log.Fatalf("seed demo data: %v", err)
		}
	}
	cancel()

	// Repositories over the shared connection pool.
	patients := repository.NewPatientRepo(db)
	dentists := repository.NewDentistRepo(db)
	treatments := repository.NewTreatmentRepo(db)
	appointments := repository.NewAppointmentRepo(db)
	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)

	// Scheduling service with the configured clinic hours and the RabbitMQ
	// publisher hooks.
	scheduler := clinic.New(appointments, patients, dentists, treatments, schedule.Hours{
		Opening:     cfg.OpeningHour,
		Closing:     cfg.ClosingHour,
		SlotMinutes: cfg.SlotMinutes,
	})
	scheduler.PublishBooked = queue_publisher.PublishAppointmentBooked
	scheduler.PublishCancelled = queue_publisher.PublishAppointmentCancelled

	// Redis backs the response cache and rate limiter; a nil client turns
	// both into no-ops.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable; response cache and rate limiting disabled")
	}

	e := echo.New()
	e.HideBanner = true

	router.RegisterRoutes(e)
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, users, tokens), cfg.JWTSecret)
	router.RegisterClinic(e,
		handler.NewClinicHandler(patients, dentists, treatments, appointments, scheduler),
		middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb),
		middleware.NewRedisCache(config.LoadCacheConfig(), rdb),
	)

	// The consumer keeps its own reconnect loop; run it for the lifetime of
	// the process.
	go func() {
		if err := queue.StartAppointmentConsumer(); err != nil {
			log.Printf("appointment consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
