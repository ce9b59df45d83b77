package llm

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

// Manager routes generation to the primary Gemini provider with an
// optional single fallback to OpenAI. There is no multi-attempt retry:
// each provider is tried at most once per call.
type Manager struct {
	primary        Provider
	fallback       Provider
	enableFallback bool
	logger         *zap.Logger
}

type ManagerConfig struct {
	GeminiAPIKey   string
	GeminiModel    string
	OpenAIAPIKey   string
	OpenAIModel    string
	EnableFallback bool
}

func NewManager(ctx context.Context, cfg ManagerConfig, logger *zap.Logger) (*Manager, error) {
	geminiClient, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	geminiModel := cfg.GeminiModel
	if geminiModel == "" {
		geminiModel = "gemini-2.5-flash"
	}
	openaiModel := cfg.OpenAIModel
	if openaiModel == "" {
		openaiModel = "gpt-4o-mini"
	}

	m := &Manager{
		primary: NewGeminiProvider(geminiClient, geminiModel, logger),
		logger:  logger,
	}

	if openaiProvider := NewOpenAIProvider(cfg.OpenAIAPIKey, openaiModel, logger); openaiProvider != nil {
		m.fallback = openaiProvider
		m.enableFallback = cfg.EnableFallback
		logger.Info("OpenAI fallback configured",
			zap.String("model", openaiModel),
			zap.Bool("enabled", cfg.EnableFallback))
	} else {
		logger.Info("OpenAI fallback disabled (no API key)")
	}

	return m, nil
}

// NewManagerWithProviders wires explicit providers. Used by tests and
// callers that construct their own clients.
func NewManagerWithProviders(primary, fallback Provider, logger *zap.Logger) *Manager {
	return &Manager{
		primary:        primary,
		fallback:       fallback,
		enableFallback: fallback != nil,
		logger:         logger,
	}
}

// Generate produces text for the prompt. A primary-provider failure is
// retried once on the fallback provider when configured; any remaining
// failure propagates to the caller.
func (m *Manager) Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error) {
	text, primaryErr := m.primary.Generate(ctx, prompt, opts)
	if primaryErr == nil {
		return text, nil
	}

	if !m.enableFallback || m.fallback == nil {
		return "", primaryErr
	}

	m.logger.Warn("Primary provider failed, using fallback",
		zap.String("primary", m.primary.Name()),
		zap.String("fallback", m.fallback.Name()),
		zap.Error(primaryErr),
	)

	text, fallbackErr := m.fallback.Generate(ctx, prompt, opts)
	if fallbackErr != nil {
		return "", fmt.Errorf("all providers failed: %w", fallbackErr)
	}
	return text, nil
}

// Complete satisfies the resolver's language-model capability with
// deterministic plain-text generation.
func (m *Manager) Complete(ctx context.Context, prompt string) (string, error) {
	return m.Generate(ctx, prompt, GenerateOptions{Temperature: 0})
}
