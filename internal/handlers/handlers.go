package handlers

import (
	"DreamInterpreter/internal/config"
	"DreamInterpreter/internal/middleware"
	"DreamInterpreter/internal/service"
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Interpreter выдаёт интерпретацию сна; при сбоях возвращает текст-заглушку.
type Interpreter interface {
	Interpret(ctx context.Context, description string) string
}

// HealthFunc проверка зависимостей для /healthz.
type HealthFunc func(ctx context.Context) error

type Handler struct {
	Router chi.Router
}

// NewHandler разводящий для хендлеров
func NewHandler(
	userService *service.UserService,
	dreamService *service.DreamService,
	interpreter Interpreter,
	health HealthFunc,
	logger *zap.SugaredLogger,
	config *config.Config,
) *Handler {
	r := chi.NewRouter()

	r.Use(middleware.WithGzip)
	r.Use(middleware.WithLogging)
	r.Use(middleware.WithMetrics)
	r.Use(middleware.WithAuth(config.AuthSecret))

	views := newRenderer(logger)
	cookieOpts := []middleware.CookieOption{
		middleware.WithTTL(config.SessionTTL),
		middleware.WithSecure(config.EnableHTTPS),
	}

	// Handlers
	userHandler := NewUserHandler(userService, dreamService, views, logger, config, cookieOpts)
	dreamHandler := NewDreamHandler(dreamService, interpreter, views, logger)

	// User routes
	r.Get("/register", userHandler.Register)
	r.Post("/register", userHandler.Register)
	r.Get("/login", userHandler.Login)
	r.Post("/login", userHandler.Login)
	r.Get("/logout", userHandler.Logout)
	r.Get("/users/{id}", userHandler.Profile)

	// Dream routes
	r.Get("/", dreamHandler.Submit)
	r.Post("/", dreamHandler.Submit)
	// старый адрес формы
	r.HandleFunc("/submit_dream", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/", http.StatusPermanentRedirect)
	})

	// Service routes
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/healthz", healthz(health, logger))

	return &Handler{Router: r}
}

func healthz(check HealthFunc, logger *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if check != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := check(ctx); err != nil {
				logger.Errorw("Healthz: check failed", "error", err)
				http.Error(w, "unavailable", http.StatusServiceUnavailable)
				return
			}
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	}
}
