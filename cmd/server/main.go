package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/foliowatch/sentinel/internal/clients/disclosures"
	"github.com/foliowatch/sentinel/internal/clients/marketdata"
	"github.com/foliowatch/sentinel/internal/config"
	"github.com/foliowatch/sentinel/internal/database"
	"github.com/foliowatch/sentinel/internal/database/repositories"
	"github.com/foliowatch/sentinel/internal/modules/evaluation"
	"github.com/foliowatch/sentinel/internal/modules/report"
	"github.com/foliowatch/sentinel/internal/scheduler"
	"github.com/foliowatch/sentinel/internal/server"
	"github.com/foliowatch/sentinel/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	// Initialize logger
	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.DevMode,
	})
	logger.SetGlobalLogger(log)

	log.Info().Msg("Starting Sentinel")

	// Initialize database
	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer db.Close()

	// Run migrations
	if err := db.Migrate(); err != nil {
		log.Fatal().Err(err).Msg("Failed to run migrations")
	}

	// Wire clients, repositories and the evaluation pipeline
	market := marketdata.NewClient(cfg.MarketDataBaseURL, log)
	disc := disclosures.NewClient(cfg.DisclosuresBaseURL, log)
	historyRepo := repositories.NewHistoryRepository(db.Conn(), log)
	service := evaluation.NewService(log)
	runner := evaluation.NewRunner(cfg, service, market, disc, historyRepo, report.Markdown, log)

	// Initialize scheduler
	sched := scheduler.New(log)
	calendar := scheduler.NewTradingCalendar(log)

	evalJob := scheduler.NewDailyEvaluationJob(runner, calendar, log)
	if err := sched.AddJob(cfg.EvalSchedule, evalJob); err != nil {
		log.Fatal().Err(err).Msg("Failed to register evaluation job")
	}

	healthJob := scheduler.NewHealthCheckJob(db, log)
	if err := sched.AddJob("0 0 */6 * * *", healthJob); err != nil {
		log.Fatal().Err(err).Msg("Failed to register health check job")
	}

	sched.Start()
	defer sched.Stop()

	// Initialize HTTP server
	srv := server.New(server.Config{
		Port:    cfg.Port,
		Log:     log,
		Config:  cfg,
		Runner:  runner,
		History: historyRepo,
		DevMode: cfg.DevMode,
	})

	// Start server in goroutine
	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	log.Info().Int("port", cfg.Port).Msg("Server started successfully")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server stopped")
}
