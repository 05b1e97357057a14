package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/Spok95/school-console/internal/app"
	"github.com/Spok95/school-console/internal/config"
	"github.com/Spok95/school-console/internal/logging"
	"github.com/Spok95/school-console/internal/observability"
)

var version = "dev"

func main() {
	// .env необязателен
	_ = godotenv.Load()

	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	lg, err := logging.Init(cfg.LogLevel, cfg.Env)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer lg.Closer()

	flush, err := observability.InitSentry(cfg.SentryDSN, cfg.Env, version)
	if err != nil {
		lg.Base.Warn("sentry init failed", zap.Error(err))
	}
	defer flush()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, lg.Base)
	if err != nil {
		lg.Base.Error("startup failed", zap.Error(err))
		observability.CaptureErr(err)
		os.Exit(1)
	}
	defer func() { _ = a.Close() }()

	if err := a.Run(ctx, os.Stdin, os.Stdout); err != nil && ctx.Err() == nil {
		lg.Base.Error("console stopped", zap.Error(err))
		observability.CaptureErr(err)
	}
}
