package main

import (
	"DreamInterpreter/internal/config"
	"DreamInterpreter/internal/handlers"
	"DreamInterpreter/internal/interpret"
	"DreamInterpreter/internal/middleware"
	"DreamInterpreter/internal/repo"
	"DreamInterpreter/internal/service"
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
)

func main() {
	cfg := config.NewConfig()

	// создаём предустановленный регистратор zap
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}

	// делаем регистратор SugaredLogger
	sugar := logger.Sugar()
	middleware.SetLogger(sugar) // передаём логгер в middleware
	//сброс буфера логгера
	defer func() {
		if err := logger.Sync(); err != nil {
			sugar.Errorw("Failed to sync logger", "error", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	gormDB, err := repo.InitDB(cfg.DatabaseDSN, logger)
	if err != nil {
		sugar.Fatalw("failed to initialize database", "error", err)
	}

	userService := service.NewUserService(repo.NewUserRepository(gormDB), cfg.BcryptCost)
	dreamService := service.NewDreamService(repo.NewDreamRepository(gormDB), cfg.PageSize)

	if cfg.InterpretAPIKey == "" {
		sugar.Warnw("HUGGING_FACE_API_KEY is empty, interpretation requests will likely fail")
	}
	interpreter := interpret.NewClient(interpret.Config{
		URL:     cfg.InterpretAPIURL,
		Token:   cfg.InterpretAPIKey,
		Timeout: cfg.InterpretTimeout,
		RPS:     cfg.InterpretRPS,
	}, sugar)

	health := func(ctx context.Context) error { return repo.Ping(ctx, gormDB) }
	h := handlers.NewHandler(userService, dreamService, interpreter, health, sugar, cfg)

	sugar.Infow("Config",
		"BaseURL", cfg.BaseURL,
		"EnableHTTPS", cfg.EnableHTTPS,
		"InterpretAPIURL", cfg.InterpretAPIURL,
		"InterpretTimeout", cfg.InterpretTimeout,
	)

	srv := &http.Server{
		Addr:              cfg.BaseURL,
		Handler:           h.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		sugar.Infow("Starting server", "addr", cfg.BaseURL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			sugar.Fatalw("Server failed", "error", err)
		}
	}()

	<-ctx.Done()
	sugar.Infow("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		sugar.Errorw("Graceful shutdown failed", "error", err)
	}
}
