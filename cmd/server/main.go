package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"carrental/internal/booking"
	"carrental/internal/commons"
	"carrental/internal/config"
	"carrental/internal/infrastructure/logger"
	"carrental/internal/infrastructure/mysql"
	"carrental/internal/jobs"
	"carrental/internal/listing"
	listingrepo "carrental/internal/listing/repository"
	"carrental/internal/server"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		cfg, err = commons.LoadConfigFile(path, cfg)
		if err != nil {
			log.Fatalf("loading config file: %v", err)
		}
	}

	zapLogger, err := logger.New(cfg.Log.Level)
	if err != nil {
		log.Fatalf("creating logger: %v", err)
	}
	defer zapLogger.Sync()

	db, err := mysql.NewConnection(cfg.Database)
	if err != nil {
		zapLogger.Fatal("connecting to database", zap.Error(err))
	}
	defer db.Close()
	zapLogger.Info("database connected")

	listingCtrl := listing.NewModule(db, zapLogger)
	bookingCtrl := booking.NewModule(db, cfg, zapLogger)

	router := server.NewRouter(listingCtrl, bookingCtrl, zapLogger)

	srv := server.New(cfg.Server.Port, router, zapLogger)

	var monitor *jobs.ConsistencyMonitor
	if cfg.Monitor.Enabled {
		monitor = jobs.NewConsistencyMonitor(listingrepo.NewMySQLListingRepository(db), zapLogger)
		if err := monitor.Start(cfg.Monitor.Schedule); err != nil {
			zapLogger.Fatal("starting consistency monitor", zap.Error(err))
		}
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := srv.Start(); err != nil {
			zapLogger.Fatal("server error", zap.Error(err))
		}
	}()

	<-quit
	zapLogger.Info("received shutdown signal")

	if monitor != nil {
		monitor.Stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Fatal("server shutdown failed", zap.Error(err))
	}

	zapLogger.Info("server stopped gracefully")
}
