// Package app assembles the application's dependency graph.
package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/icelab/icebreaker/internal/agent"
	"github.com/icelab/icebreaker/internal/config"
	"github.com/icelab/icebreaker/internal/llm"
	"github.com/icelab/icebreaker/internal/pipeline"
	"github.com/icelab/icebreaker/internal/prompt"
	"github.com/icelab/icebreaker/internal/search"
	"github.com/icelab/icebreaker/internal/server"
	"github.com/icelab/icebreaker/internal/service"
	"go.uber.org/zap"
)

// Container bundles the assembled services behind the HTTP server.
type Container struct {
	Config *config.Config
	Logger *zap.Logger
	Server *server.Server
}

// Build performs all heavy-weight initialization up front. Client
// availability (microblog credentials, search key) is decided here and
// passed into the services explicitly; nothing is resolved from global
// state at request time.
func Build(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger must not be nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	httpClient := &http.Client{Timeout: 30 * time.Second}

	models, err := llm.NewManager(ctx, llm.ManagerConfig{
		GeminiAPIKey:   cfg.Gemini.APIKey,
		GeminiModel:    cfg.Gemini.Model,
		OpenAIAPIKey:   cfg.OpenAI.APIKey,
		OpenAIModel:    cfg.OpenAI.Model,
		EnableFallback: cfg.OpenAI.EnableFallback,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create model manager: %w", err)
	}

	var searchClient search.Client
	if cfg.Tavily.APIKey != "" {
		searchClient = search.NewTavilyClient(httpClient, "", cfg.Tavily.APIKey, logger)
		logger.Info("Using Tavily web search")
	} else {
		searchClient = search.NewDuckDuckGoClient(httpClient, "", logger)
		logger.Info("Tavily key not configured, using DuckDuckGo web search")
	}

	resolver := agent.NewResolver(models, searchClient, logger)

	profiles := service.NewProfileService(httpClient, service.ProfileServiceConfig{
		APIKey:     cfg.Scrapin.APIKey,
		BaseURL:    cfg.Scrapin.BaseURL,
		FixtureURL: cfg.Fixtures.ProfileURL,
		Timeout:    cfg.Scrapin.Timeout,
	}, logger)

	posts := service.NewPostService(httpClient, service.PostServiceConfig{
		BearerToken:   cfg.Twitter.BearerToken,
		BaseURL:       cfg.Twitter.BaseURL,
		FixtureURL:    cfg.Fixtures.PostsURL,
		DefaultHandle: cfg.Fixtures.DefaultHandle,
	}, logger)

	iceBreaker := pipeline.New(pipeline.Dependencies{
		Resolver:  resolver,
		Profiles:  profiles,
		Posts:     posts,
		Generator: models,
		Prompts:   prompt.NewBuilder(),
		UseMock:   cfg.Fixtures.UseMock,
		Logger:    logger,
	})

	srv := server.New(server.Config{
		Addr:  cfg.Server.Addr,
		Debug: cfg.Server.Debug,
	}, iceBreaker, logger)

	return &Container{
		Config: cfg,
		Logger: logger,
		Server: srv,
	}, nil
}
