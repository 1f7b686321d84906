package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/DO1FFE/adventskalender-backend/api/routes"
	"github.com/DO1FFE/adventskalender-backend/internal/artifact"
	"github.com/DO1FFE/adventskalender-backend/internal/config"
	"github.com/DO1FFE/adventskalender-backend/internal/handlers"
	mongorepo "github.com/DO1FFE/adventskalender-backend/internal/repositories/mongodb"
	"github.com/DO1FFE/adventskalender-backend/internal/services"
	"github.com/DO1FFE/adventskalender-backend/pkg/mongodb"
	"github.com/joho/godotenv"
	"golang.org/x/exp/slog"
)

func main() {
	// .env is optional; real deployments use environment variables
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	setupLogger(cfg.LogLevel)

	mongoClient, err := mongodb.NewClient(cfg.MongoDB.URI)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			log.Printf("Error disconnecting from MongoDB: %v", err)
		}
	}()

	db := mongoClient.Database(cfg.MongoDB.Database)

	// Repositories
	userRepo := mongorepo.NewUserRepository(db)
	participationRepo := mongorepo.NewParticipationRepository(db)
	rewardRepo := mongorepo.NewRewardRepository(db)
	prizeRepo := mongorepo.NewPrizeRepository(db)
	calendarRepo := mongorepo.NewCalendarRepository(db)

	// The unique indexes are the last line of defence for the
	// exactly-once guarantees, so refusing to start without them is
	// deliberate.
	indexCtx, cancelIndexes := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelIndexes()
	for _, ensure := range []func(context.Context) error{
		userRepo.EnsureIndexes,
		participationRepo.EnsureIndexes,
		rewardRepo.EnsureIndexes,
		prizeRepo.EnsureIndexes,
	} {
		if err := ensure(indexCtx); err != nil {
			log.Fatalf("Failed to create indexes: %v", err)
		}
	}

	artifacts, err := artifact.NewStore(cfg.Artifact.Dir)
	if err != nil {
		log.Fatalf("Failed to initialize artifact store: %v", err)
	}

	loc, err := time.LoadLocation(cfg.Calendar.Timezone)
	if err != nil {
		log.Fatalf("Invalid calendar timezone %q: %v", cfg.Calendar.Timezone, err)
	}

	// Services
	authService := services.NewAuthService(userRepo, cfg)
	calendarService := services.NewCalendarService(calendarRepo)
	prizeService := services.NewPrizeService(prizeRepo)
	doorService := services.NewDoorService(participationRepo, rewardRepo, userRepo, prizeService, calendarService, artifacts, cfg.Calendar.WinHours)
	rewardService := services.NewRewardService(rewardRepo, userRepo, artifacts)
	userService := services.NewUserService(userRepo, rewardRepo, prizeService, artifacts)

	// Handlers
	deps := routes.HandlerDependencies{
		AuthHandler:   handlers.NewAuthHandler(authService),
		UserHandler:   handlers.NewUserHandler(userService),
		DoorHandler:   handlers.NewDoorHandler(doorService, loc),
		RewardHandler: handlers.NewRewardHandler(rewardService, loc),
		AdminHandler:  handlers.NewAdminHandler(prizeService, calendarService, doorService, rewardService, loc),
	}

	router := routes.SetupRouter(cfg, deps)

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	log.Printf("Server starting on port %s", cfg.Server.Port)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown: ", err)
	}

	log.Println("Server exiting")
}

func setupLogger(level string) {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})))
}
