// Package interpret обращается к внешнему API генерации текста за интерпретацией сна.
package interpret

import (
	"DreamInterpreter/internal/metrics"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	PromptPrefix = "Please interpret the following dream: "

	// Тексты-заглушки, которые видит пользователь вместо интерпретации.
	NoInterpretation = "No interpretation available."
	QueryFailed      = "An error occurred while querying the API."

	defaultTimeout   = 30 * time.Second
	maxResponseBytes = 1 << 20
)

// Config настройки клиента.
type Config struct {
	URL     string
	Token   string
	Timeout time.Duration
	// RPS ограничивает частоту запросов; 0 — без ограничения.
	RPS float64
}

// Client синхронный клиент без повторов.
type Client struct {
	httpClient *http.Client
	url        string
	token      string
	limiter    *rate.Limiter
	logger     *zap.SugaredLogger
}

// NewClient создаёт клиента API интерпретации.
func NewClient(cfg Config, logger *zap.SugaredLogger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	c := &Client{
		httpClient: &http.Client{Timeout: timeout},
		url:        cfg.URL,
		token:      cfg.Token,
		logger:     logger,
	}
	if cfg.RPS > 0 {
		burst := int(cfg.RPS)
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RPS), burst)
	}
	return c
}

// Prompt строит текст запроса из описания сна.
func Prompt(description string) string {
	return PromptPrefix + description
}

// Interpret возвращает интерпретацию или текст-заглушку. Ошибок наружу не отдаёт.
func (c *Client) Interpret(ctx context.Context, description string) string {
	prompt := Prompt(description)

	start := time.Now()
	res := c.Query(ctx, prompt)
	metrics.InterpretationsTotal.WithLabelValues(res.outcome()).Inc()
	metrics.InterpretationDuration.WithLabelValues(res.outcome()).Observe(time.Since(start).Seconds())

	switch r := res.(type) {
	case Success:
		return r.Text
	case Malformed:
		c.logger.Warnw("Interpret: unexpected response shape", "reason", r.Reason)
		return NoInterpretation
	case HTTPError:
		c.logger.Warnw("Interpret: non-2xx response", "status", r.Status)
		return QueryFailed
	case TransportError:
		c.logger.Errorw("Interpret: request failed", "error", r.Err)
		return QueryFailed
	default:
		c.logger.Errorw("Interpret: unknown result", "result", fmt.Sprintf("%T", res))
		return QueryFailed
	}
}

type queryRequest struct {
	Inputs string `json:"inputs"`
}

// Query выполняет один POST к API и разбирает ответ.
func (c *Client) Query(ctx context.Context, prompt string) Result {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return TransportError{Err: fmt.Errorf("rate limit wait: %w", err)}
		}
	}

	payload, err := json.Marshal(queryRequest{Inputs: prompt})
	if err != nil {
		return TransportError{Err: fmt.Errorf("marshal request: %w", err)}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return TransportError{Err: fmt.Errorf("build request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return TransportError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return TransportError{Err: fmt.Errorf("read response: %w", err)}
	}
	return Parse(resp.StatusCode, body, prompt)
}
