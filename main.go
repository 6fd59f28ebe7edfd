package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Eursukkul/dormmate-service/config"
	"github.com/Eursukkul/dormmate-service/internal/assistant"
	"github.com/Eursukkul/dormmate-service/internal/consumer"
	"github.com/Eursukkul/dormmate-service/internal/handler"
	"github.com/Eursukkul/dormmate-service/internal/jobs"
	"github.com/Eursukkul/dormmate-service/internal/middleware"
	"github.com/Eursukkul/dormmate-service/internal/realtime"
	"github.com/Eursukkul/dormmate-service/internal/repository"
	"github.com/Eursukkul/dormmate-service/internal/service"
	"github.com/Eursukkul/dormmate-service/pkg/cache"
	"github.com/Eursukkul/dormmate-service/pkg/database"
	"github.com/Eursukkul/dormmate-service/pkg/rabbitmq"
	"github.com/Eursukkul/dormmate-service/pkg/storage"
	"github.com/labstack/echo/v4"
	echoMw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg := config.Load()

	db := database.NewPostgresDB(cfg.DSN())
	database.SeedAdmin(db, database.AdminSeed{
		Email:      cfg.AdminEmail,
		Password:   cfg.AdminPassword,
		FullName:   cfg.AdminFullName,
		BcryptCost: cfg.BcryptCost,
	})

	// Realtime: changes go through RabbitMQ when configured so every
	// instance's subscribers see them; otherwise straight to the local hub.
	hub := realtime.NewHub(64)
	changes := consumer.NewChangeConsumer(hub)

	var pub realtime.Publisher
	if cfg.RabbitURL != "" {
		mqPublisher, err := rabbitmq.NewPublisher(cfg.RabbitURL)
		if err != nil {
			log.Fatalf("failed to connect to RabbitMQ: %v", err)
		}
		defer mqPublisher.Close()

		mqConsumer, err := rabbitmq.NewConsumer(cfg.RabbitURL)
		if err != nil {
			log.Fatalf("failed to connect to RabbitMQ: %v", err)
		}
		defer mqConsumer.Close()

		msgs, err := mqConsumer.Consume()
		if err != nil {
			log.Fatalf("failed to start consuming: %v", err)
		}
		changes.Start(msgs)
		pub = mqPublisher
	} else {
		log.Println("[Realtime] RABBITMQ_URL not set, using in-process change feed")
		pub = realtime.NewLocalPublisher(changes.Handle)
	}

	var bucket storage.Bucket
	if b, err := storage.New(cfg.Storage); err != nil {
		log.Printf("[Storage] disabled: %v", err)
	} else {
		bucket = b
	}

	rdb := cache.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if rdb != nil {
		defer rdb.Close()
	}

	// Repositories
	tx := repository.NewTransactor(db)
	userRepo := repository.NewUserRepository(db)
	tokenRepo := repository.NewTokenRepository(db)
	roomRepo := repository.NewRoomRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	attendanceRepo := repository.NewAttendanceRepository(db)
	menuRepo := repository.NewMenuRepository(db)
	hostelRepo := repository.NewHostelRepository(db)
	complaintRepo := repository.NewComplaintRepository(db)

	// Services
	authSvc := service.NewAuthService(userRepo, tokenRepo, pub, service.AuthConfig{
		Secret:     cfg.JWTSecret,
		AccessTTL:  cfg.AccessTTL,
		RefreshTTL: cfg.RefreshTTL,
		BcryptCost: cfg.BcryptCost,
	})
	studentSvc := service.NewStudentService(tx, userRepo, bookingRepo, pub, cfg.BcryptCost)
	roomSvc := service.NewRoomService(tx, roomRepo, bookingRepo, pub)
	bookingSvc := service.NewBookingService(tx, bookingRepo, roomRepo, userRepo, pub)
	attendanceSvc := service.NewAttendanceService(tx, attendanceRepo, userRepo, pub)
	menuSvc := service.NewMenuService(menuRepo, pub)
	hostelSvc := service.NewHostelService(hostelRepo, bucket, pub, service.HostelConfig{
		PurgeOnRemove: cfg.Storage.PurgeOnRemove,
		MaxImageEdge:  cfg.Storage.MaxImageEdgePix,
	})
	complaintSvc := service.NewComplaintService(complaintRepo, roomRepo, pub)
	statsSvc := service.NewStatsService(roomRepo, bookingRepo, userRepo, attendanceSvc, hub)
	defer statsSvc.Close()
	dashboardSvc := service.NewDashboardService(userRepo, statsSvc, menuSvc, attendanceSvc, studentSvc, hostelSvc)

	bot, err := assistant.New(cfg.Chat, assistant.NewServiceSource(studentSvc, menuSvc, bookingSvc))
	if err != nil {
		log.Fatalf("failed to configure assistant: %v", err)
	}
	log.Printf("[Chat] using %s backend", bot.Backend())

	sweeper, err := jobs.NewScheduler(cfg.CompletionSweepSchedule, bookingSvc)
	if err != nil {
		log.Fatalf("failed to schedule booking sweep: %v", err)
	}
	sweeper.Start()

	// Echo
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = middleware.ErrorHandler
	e.Validator = middleware.NewValidator()
	e.Use(echoMw.RequestLoggerWithConfig(echoMw.RequestLoggerConfig{
		LogStatus: true,
		LogURI:    true,
		LogMethod: true,
		LogValuesFunc: func(c echo.Context, v echoMw.RequestLoggerValues) error {
			log.Printf("%s %s %d", v.Method, v.URI, v.Status)
			return nil
		},
	}))
	e.Use(echoMw.Recover())
	e.Use(echoMw.CORSWithConfig(echoMw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok", "service": "dormmate"})
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	if cfg.Storage.Driver == "local" || cfg.Storage.Driver == "" {
		e.Static(cfg.Storage.PublicBaseURL, cfg.Storage.LocalDir)
	}

	handler.Register(e, handler.Handlers{
		Auth:       handler.NewAuthHandler(authSvc),
		Students:   handler.NewStudentHandler(studentSvc),
		Rooms:      handler.NewRoomHandler(roomSvc),
		Bookings:   handler.NewBookingHandler(bookingSvc),
		Attendance: handler.NewAttendanceHandler(attendanceSvc),
		Menu:       handler.NewMenuHandler(menuSvc),
		Hostels:    handler.NewHostelHandler(hostelSvc, cfg.Storage.MaxUploadBytes),
		Complaints: handler.NewComplaintHandler(complaintSvc),
		Dashboard:  handler.NewDashboardHandler(dashboardSvc, statsSvc),
		Chat:       handler.NewChatHandler(bot),
		Realtime:   handler.NewRealtimeHandler(hub, cfg.CORSOrigins),
	}, handler.Guards{
		Auth:     middleware.JWTAuth(cfg.JWTSecret),
		Optional: middleware.OptionalAuth(cfg.JWTSecret),
		Limit:    middleware.RateLimit(cfg.RateLimit, rdb),
	})

	go func() {
		log.Printf("DormMate starting on :%s", cfg.ServerPort)
		if err := e.Start(":" + cfg.ServerPort); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("shutting down")

	sweeper.Stop()
	hub.Close()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}
