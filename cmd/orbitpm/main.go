package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/orbitpm/orbitpm/db"
	"github.com/orbitpm/orbitpm/internal/auth"
	"github.com/orbitpm/orbitpm/internal/config"
	"github.com/orbitpm/orbitpm/internal/logger"
	"github.com/orbitpm/orbitpm/internal/router"
	"go.uber.org/zap"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println(".env file not found, using environment variables")
	}

	cfg, err := config.Load()

	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := logger.Init(cfg.Log.Level, cfg.Server.Env); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zap.L().Sync()

	if err := auth.Init(cfg.JWT.Secret); err != nil {
		zap.L().Fatal("Failed to initialize token codec", zap.Error(err))
	}

	if err := db.ConnectDatabase(cfg.DSN()); err != nil {
		zap.L().Fatal("Failed to connect to database", zap.Error(err))
	}

	if err := db.MigrateDatabase(); err != nil {
		zap.L().Fatal("Failed to migrate database", zap.Error(err))
	}

	r := router.NewRouter()

	zap.L().Info("Starting server", zap.String("port", cfg.Server.Port), zap.String("environment", cfg.Server.Env))

	if err := r.Run(":" + cfg.Server.Port); err != nil {
		zap.L().Fatal("Failed to start server", zap.Error(err))
	}
}
