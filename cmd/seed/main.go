package main

import (
	"context"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"phoenixmart/internal/config"
	"phoenixmart/internal/db"
	"phoenixmart/internal/logger"
	"phoenixmart/internal/seed"
)

func main() {
	_ = godotenv.Load()
	cfg := config.FromEnv()

	log, err := logger.New(cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		log.Fatal("connect db", zap.Error(err))
	}
	defer pool.Close()

	if err := seed.Apply(ctx, pool); err != nil {
		log.Fatal("apply seed", zap.Error(err))
	}

	log.Info("seed data applied")
}
