package service

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"repurpose-server/internal/config"
	"repurpose-server/internal/models"

	"github.com/ollama/ollama/api"
	"github.com/pkoukk/tiktoken-go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	openaigo "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

var (
	aiRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "repurpose_ai_requests_total",
			Help: "Total number of requests to the AI provider.",
		},
		[]string{"model", "status"},
	)
	aiRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "repurpose_ai_request_duration_seconds",
			Help:    "Histogram of AI provider request durations.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"model"},
	)
	aiPromptTokens = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "repurpose_ai_prompt_tokens",
			Help:    "Histogram of prompt token counts.",
			Buckets: prometheus.LinearBuckets(250, 250, 20), // 250, 500, ..., 5000
		},
		[]string{"model"},
	)
	aiCompletionTokens = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "repurpose_ai_completion_tokens",
			Help:    "Histogram of completion token counts.",
			Buckets: prometheus.LinearBuckets(100, 100, 20), // 100, 200, ..., 2000
		},
		[]string{"model"},
	)
)

// UsageInfo содержит информацию об использовании токенов провайдером.
type UsageInfo struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// AIClient интерфейс для взаимодействия с AI API.
// Реализации возвращают ошибки из models: ErrUpstreamTimeout при превышении
// дедлайна, ErrUpstreamError при ответе провайдера с ошибкой или пустом ответе,
// ErrUpstreamUnavailable при сетевых проблемах.
type AIClient interface {
	// Complete генерирует текст по подготовленному промту.
	Complete(ctx context.Context, prompt string) (string, UsageInfo, error)
}

// --- OpenAI-compatible Client Implementation ---

// openAIClient реализует AIClient поверх go-openai.
// Через BaseURL работает с любым OpenAI-совместимым провайдером (Groq и т.п.).
type openAIClient struct {
	client *openaigo.Client
	model  string
	logger *zap.Logger
}

// Complete отправляет промт одним user-сообщением и возвращает текст ответа.
func (c *openAIClient) Complete(ctx context.Context, prompt string) (string, UsageInfo, error) {
	usageInfo := UsageInfo{}

	if strings.TrimSpace(prompt) == "" {
		c.logger.Error("Prompt is empty, refusing to call provider")
		aiRequestsTotal.With(prometheus.Labels{"model": c.model, "status": "error"}).Inc()
		return "", usageInfo, fmt.Errorf("%w: prompt is empty", models.ErrUpstreamError)
	}

	startTime := time.Now()
	c.logger.Debug("Sending request to AI provider",
		zap.String("model", c.model), zap.Int("promptBytes", len(prompt)))

	resp, err := c.client.CreateChatCompletion(
		ctx,
		openaigo.ChatCompletionRequest{
			Model: c.model,
			Messages: []openaigo.ChatCompletionMessage{
				{
					Role:    openaigo.ChatMessageRoleUser,
					Content: prompt,
				},
			},
		},
	)

	duration := time.Since(startTime)

	if err != nil {
		c.logger.Warn("AI provider request failed",
			zap.Error(err), zap.Duration("duration", duration), zap.String("model", c.model))
		aiRequestsTotal.With(prometheus.Labels{"model": c.model, "status": "error"}).Inc()
		return "", usageInfo, mapUpstreamError(err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		c.logger.Warn("AI provider returned an empty response",
			zap.Duration("duration", duration), zap.String("model", c.model))
		aiRequestsTotal.With(prometheus.Labels{"model": c.model, "status": "error_empty_response"}).Inc()
		return "", usageInfo, fmt.Errorf("%w: empty completion", models.ErrUpstreamError)
	}

	aiRequestsTotal.With(prometheus.Labels{"model": c.model, "status": "success"}).Inc()
	aiRequestDuration.With(prometheus.Labels{"model": c.model}).Observe(duration.Seconds())

	generatedText := resp.Choices[0].Message.Content
	c.logger.Debug("AI provider response received",
		zap.Duration("duration", duration), zap.Int("responseLength", len(generatedText)))

	usageInfo.PromptTokens = resp.Usage.PromptTokens
	usageInfo.CompletionTokens = resp.Usage.CompletionTokens
	usageInfo.TotalTokens = resp.Usage.TotalTokens
	if usageInfo.TotalTokens == 0 {
		// Провайдер не вернул usage, оцениваем токены сами
		usageInfo.PromptTokens = estimateTokens(c.model, prompt)
		usageInfo.CompletionTokens = estimateTokens(c.model, generatedText)
		usageInfo.TotalTokens = usageInfo.PromptTokens + usageInfo.CompletionTokens
	}
	aiPromptTokens.With(prometheus.Labels{"model": c.model}).Observe(float64(usageInfo.PromptTokens))
	aiCompletionTokens.With(prometheus.Labels{"model": c.model}).Observe(float64(usageInfo.CompletionTokens))

	return generatedText, usageInfo, nil
}

// --- Ollama Client Implementation ---

// ollamaClient реализует AIClient с использованием ollama/api.
type ollamaClient struct {
	client *api.Client
	model  string
	logger *zap.Logger
}

// newOllamaClient создает новый клиент для взаимодействия с Ollama.
func newOllamaClient(cfg *config.Config, logger *zap.Logger) (AIClient, error) {
	httpClient := &http.Client{
		Timeout: cfg.AIRequestTimeout,
	}

	// api.NewClient требует URL без суффикса /v1
	ollamaBaseURL := strings.TrimSuffix(cfg.AIBaseURL, "/v1")
	ollamaBaseURL = strings.TrimSuffix(ollamaBaseURL, "/")

	parsedURL, err := url.Parse(ollamaBaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse ollama base URL %q: %w", ollamaBaseURL, err)
	}

	client := api.NewClient(parsedURL, httpClient)
	logger.Info("Ollama client created",
		zap.String("baseURL", ollamaBaseURL),
		zap.String("model", cfg.AIModel),
		zap.Duration("timeout", cfg.AIRequestTimeout))

	return &ollamaClient{
		client: client,
		model:  cfg.AIModel,
		logger: logger.Named("OllamaClient"),
	}, nil
}

// Complete генерирует текст с использованием Ollama.
func (c *ollamaClient) Complete(ctx context.Context, prompt string) (string, UsageInfo, error) {
	usageInfo := UsageInfo{}

	if strings.TrimSpace(prompt) == "" {
		c.logger.Error("Prompt is empty, refusing to call Ollama")
		aiRequestsTotal.With(prometheus.Labels{"model": c.model, "status": "error"}).Inc()
		return "", usageInfo, fmt.Errorf("%w: prompt is empty", models.ErrUpstreamError)
	}

	stream := false
	req := &api.ChatRequest{
		Model: c.model,
		Messages: []api.Message{
			{Role: "user", Content: prompt},
		},
		Stream: &stream,
	}

	startTime := time.Now()
	c.logger.Debug("Sending request to Ollama",
		zap.String("model", c.model), zap.Int("promptBytes", len(prompt)))

	var resp api.ChatResponse
	err := c.client.Chat(ctx, req, func(r api.ChatResponse) error {
		resp = r // Сохраняем последний (полный) ответ
		return nil
	})

	duration := time.Since(startTime)

	if err != nil {
		c.logger.Warn("Ollama request failed",
			zap.Error(err), zap.Duration("duration", duration), zap.String("model", c.model))
		aiRequestsTotal.With(prometheus.Labels{"model": c.model, "status": "error"}).Inc()
		return "", usageInfo, mapUpstreamError(err)
	}

	if resp.Message.Content == "" {
		c.logger.Warn("Ollama returned an empty response",
			zap.Duration("duration", duration), zap.String("model", c.model))
		aiRequestsTotal.With(prometheus.Labels{"model": c.model, "status": "error_empty_response"}).Inc()
		return "", usageInfo, fmt.Errorf("%w: empty completion", models.ErrUpstreamError)
	}

	aiRequestsTotal.With(prometheus.Labels{"model": c.model, "status": "success"}).Inc()
	aiRequestDuration.With(prometheus.Labels{"model": c.model}).Observe(duration.Seconds())

	generatedText := resp.Message.Content
	c.logger.Debug("Ollama response received",
		zap.Duration("duration", duration), zap.Int("responseLength", len(generatedText)))

	usageInfo.PromptTokens = resp.PromptEvalCount
	usageInfo.CompletionTokens = resp.EvalCount
	usageInfo.TotalTokens = resp.PromptEvalCount + resp.EvalCount
	if usageInfo.TotalTokens > 0 {
		aiPromptTokens.With(prometheus.Labels{"model": c.model}).Observe(float64(usageInfo.PromptTokens))
		aiCompletionTokens.With(prometheus.Labels{"model": c.model}).Observe(float64(usageInfo.CompletionTokens))
	}

	return generatedText, usageInfo, nil
}

// --- Helpers ---

// mapUpstreamError классифицирует ошибку обращения к провайдеру.
// Дедлайн и сетевые таймауты - ErrUpstreamTimeout, ответ API с ошибкой -
// ErrUpstreamError, остальные транспортные проблемы - ErrUpstreamUnavailable.
func mapUpstreamError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", models.ErrUpstreamTimeout, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: %v", models.ErrUpstreamTimeout, err)
	}
	var apiErr *openaigo.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("%w: %v", models.ErrUpstreamError, err)
	}
	var reqErr *openaigo.RequestError
	if errors.As(err, &reqErr) {
		return fmt.Errorf("%w: %v", models.ErrUpstreamError, err)
	}
	var ollamaErr api.StatusError
	if errors.As(err, &ollamaErr) {
		return fmt.Errorf("%w: %v", models.ErrUpstreamError, err)
	}
	return fmt.Errorf("%w: %v", models.ErrUpstreamUnavailable, err)
}

// estimateTokens оценивает число токенов, когда провайдер не вернул usage.
// Для незнакомых моделей используется базовая кодировка cl100k_base,
// при недоступности токенизатора - грубая оценка по длине текста.
func estimateTokens(model, text string) int {
	tke, err := tiktoken.EncodingForModel(model)
	if err != nil {
		tke, err = tiktoken.GetEncoding("cl100k_base")
		if err != nil {
			return len(text) / 4
		}
	}
	return len(tke.Encode(text, nil, nil))
}

// --- Factory Function ---

// NewAIClient создает клиент AI в зависимости от конфигурации.
func NewAIClient(cfg *config.Config, logger *zap.Logger) (AIClient, error) {
	switch strings.ToLower(cfg.AIClientType) {
	case "openai":
		if cfg.AIAPIKey == "" {
			return nil, fmt.Errorf("AI API key is required for the openai client type")
		}
		openaiConfig := openaigo.DefaultConfig(cfg.AIAPIKey)
		openaiConfig.BaseURL = cfg.AIBaseURL
		openaiConfig.HTTPClient = &http.Client{
			Timeout: cfg.AIRequestTimeout,
		}
		client := openaigo.NewClientWithConfig(openaiConfig)
		logger.Info("OpenAI-compatible client created",
			zap.String("baseURL", cfg.AIBaseURL),
			zap.String("model", cfg.AIModel),
			zap.Duration("timeout", cfg.AIRequestTimeout))
		return &openAIClient{
			client: client,
			model:  cfg.AIModel,
			logger: logger.Named("OpenAIClient"),
		}, nil
	case "ollama":
		return newOllamaClient(cfg, logger)
	default:
		return nil, fmt.Errorf("unknown AI client type: %q", cfg.AIClientType)
	}
}
