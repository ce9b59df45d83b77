// Package pipeline orchestrates an end-to-end ice breaker generation:
// profile discovery, data retrieval, prompt synthesis and structured
// output parsing.
package pipeline

import (
	"context"
	"fmt"

	"github.com/icelab/icebreaker/internal/domain"
	"github.com/icelab/icebreaker/internal/llm"
	"github.com/icelab/icebreaker/internal/prompt"
	"github.com/icelab/icebreaker/internal/util"
	"github.com/icelab/icebreaker/pkg/errors"
	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"
)

const defaultPostCount = 5

// ProfileResolver turns a person's name into a profile identifier on a
// target network.
type ProfileResolver interface {
	Resolve(ctx context.Context, personName string, network domain.Network) (string, error)
}

// ProfileFetcher retrieves a cleaned professional profile.
type ProfileFetcher interface {
	Fetch(ctx context.Context, profileURL string, useMock bool) (domain.ProfileRecord, error)
}

// PostFetcher retrieves recent original microblog posts.
type PostFetcher interface {
	Fetch(ctx context.Context, handle string, count int, useMock bool) ([]domain.Post, error)
}

// TextGenerator is the synthesis language model.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string, opts llm.GenerateOptions) (string, error)
}

type IceBreaker struct {
	resolver  ProfileResolver
	profiles  ProfileFetcher
	posts     PostFetcher
	generator TextGenerator
	prompts   *prompt.Builder
	useMock   bool
	postCount int
	logger    *zap.Logger
}

type Dependencies struct {
	Resolver  ProfileResolver
	Profiles  ProfileFetcher
	Posts     PostFetcher
	Generator TextGenerator
	Prompts   *prompt.Builder
	UseMock   bool
	PostCount int
	Logger    *zap.Logger
}

func New(deps Dependencies) *IceBreaker {
	postCount := deps.PostCount
	if postCount <= 0 {
		postCount = defaultPostCount
	}
	return &IceBreaker{
		resolver:  deps.Resolver,
		profiles:  deps.Profiles,
		posts:     deps.Posts,
		generator: deps.Generator,
		prompts:   deps.Prompts,
		useMock:   deps.UseMock,
		postCount: postCount,
		logger:    deps.Logger,
	}
}

// Generate produces the structured summary and the profile photo URL
// ("" when absent) for the named person. The professional and microblog
// branches share no state and run concurrently; a failure in either
// aborts the request, and no partial result is ever returned.
func (ib *IceBreaker) Generate(ctx context.Context, personName string) (*domain.Summary, string, error) {
	if personName == "" {
		return nil, "", errors.NewValidationError("person name must not be empty", "name", personName)
	}

	ib.logger.Info("Generating ice breaker", zap.String("person", personName))

	var (
		profile domain.ProfileRecord
		posts   []domain.Post
	)

	p := pool.New().WithContext(ctx).WithCancelOnError()
	p.Go(func(ctx context.Context) error {
		identifier, err := ib.resolver.Resolve(ctx, personName, domain.NetworkProfessional)
		if err != nil {
			return err
		}
		profileURL := util.ExtractURL(identifier)
		ib.logger.Debug("Resolved professional profile",
			zap.String("person", personName),
			zap.String("url", profileURL),
		)

		profile, err = ib.profiles.Fetch(ctx, profileURL, ib.useMock)
		return err
	})
	p.Go(func(ctx context.Context) error {
		identifier, err := ib.resolver.Resolve(ctx, personName, domain.NetworkMicroblog)
		if err != nil {
			return err
		}
		handle := util.ExtractHandle(identifier)
		ib.logger.Debug("Resolved microblog handle",
			zap.String("person", personName),
			zap.String("handle", handle),
		)

		posts, err = ib.posts.Fetch(ctx, handle, ib.postCount, ib.useMock)
		return err
	})
	if err := p.Wait(); err != nil {
		return nil, "", err
	}

	summaryPrompt, err := ib.prompts.BuildSummaryPrompt(profile, posts)
	if err != nil {
		return nil, "", fmt.Errorf("build summary prompt: %w", err)
	}

	raw, err := ib.generator.Generate(ctx, summaryPrompt, llm.GenerateOptions{
		Temperature: 0,
		JSONMode:    true,
	})
	if err != nil {
		return nil, "", fmt.Errorf("summary generation failed: %w", err)
	}

	summary, err := prompt.ParseSummary(raw)
	if err != nil {
		return nil, "", err
	}

	ib.logger.Info("Ice breaker generated",
		zap.String("person", personName),
		zap.Int("facts", len(summary.Facts)),
	)

	return summary, profile.PhotoURL(), nil
}
