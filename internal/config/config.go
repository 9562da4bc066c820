package config

import (
	"flag"
	"regexp"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

const (
	defaultBaseURL      = "localhost:8080"
	defaultAuthSecret   = "dev-secret-key"
	defaultInterpretURL = "https://api-inference.huggingface.co/models/gpt2"
	defaultSQLitePath   = "dreams.db"
)

type Config struct {
	// Server
	DatabaseDSN string `env:"DATABASE_URI"`
	AuthSecret  string `env:"AUTH_SECRET"`
	BaseURL     string `env:"BASE_URL"`
	EnableHTTPS bool   `env:"ENABLE_HTTPS"`

	// Сессии и пароли
	SessionTTL time.Duration `env:"SESSION_TTL" envDefault:"24h"`
	BcryptCost int           `env:"BCRYPT_COST" envDefault:"10"`
	PageSize   int           `env:"PAGE_SIZE" envDefault:"5"`

	// Внешний API интерпретации
	InterpretAPIURL  string        `env:"INTERPRET_API_URL"`
	InterpretAPIKey  string        `env:"HUGGING_FACE_API_KEY"`
	InterpretTimeout time.Duration `env:"INTERPRET_TIMEOUT" envDefault:"30s"`
	InterpretRPS     float64       `env:"INTERPRET_RPS" envDefault:"0"`
}

func NewConfig() *Config {
	_ = godotenv.Load()

	cfg := &Config{}
	_ = env.Parse(cfg)

	// flags перекрывают значения из env
	flag.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "строка подключения к БД (пусто — локальный sqlite)")
	flag.StringVar(&cfg.AuthSecret, "auth-secret", cfg.AuthSecret, "секрет для подписи cookie сессии")
	flag.StringVar(&cfg.BaseURL, "base-url", cfg.BaseURL, "адрес сервера в формате host:port")
	flag.BoolVar(&cfg.EnableHTTPS, "https", cfg.EnableHTTPS, "сервер за HTTPS (Secure cookie)")
	flag.StringVar(&cfg.InterpretAPIURL, "api-url", cfg.InterpretAPIURL, "URL модели для интерпретации снов")
	flag.StringVar(&cfg.InterpretAPIKey, "api-key", cfg.InterpretAPIKey, "bearer токен внешнего API")
	flag.DurationVar(&cfg.InterpretTimeout, "api-timeout", cfg.InterpretTimeout, "таймаут запроса к внешнему API")
	flag.Float64Var(&cfg.InterpretRPS, "api-rps", cfg.InterpretRPS, "лимит запросов к внешнему API в секунду (0 — без лимита)")

	flag.Parse()

	// Defaults
	if cfg.AuthSecret == "" {
		cfg.AuthSecret = defaultAuthSecret
	}
	if cfg.DatabaseDSN == "" {
		cfg.DatabaseDSN = defaultSQLitePath
	}
	if cfg.InterpretAPIURL == "" {
		cfg.InterpretAPIURL = defaultInterpretURL
	}
	hostPortRe := regexp.MustCompile(`^[A-Za-z0-9\.\-]*:\d{1,5}$`)
	if !hostPortRe.MatchString(cfg.BaseURL) {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 24 * time.Hour
	}
	if cfg.BcryptCost <= 0 {
		cfg.BcryptCost = 10
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = 5
	}
	if cfg.InterpretTimeout <= 0 {
		cfg.InterpretTimeout = 30 * time.Second
	}
	if cfg.InterpretRPS < 0 {
		cfg.InterpretRPS = 0
	}

	return cfg
}
