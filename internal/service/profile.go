// Package service contains the upstream data fetchers: the professional
// profile enrichment client and the microblog post client, each with a
// hosted-fixture degradation path.
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/icelab/icebreaker/internal/domain"
	"go.uber.org/zap"
)

// ProfileService fetches professional profiles from a Scrapin-style
// enrichment API. Transport failures degrade once to the fixture
// document; schema problems after a successful response propagate.
type ProfileService struct {
	httpClient *http.Client
	apiKey     string
	baseURL    string
	fixtureURL string
	timeout    time.Duration
	logger     *zap.Logger
}

type ProfileServiceConfig struct {
	APIKey     string
	BaseURL    string
	FixtureURL string
	Timeout    time.Duration
}

func NewProfileService(httpClient *http.Client, cfg ProfileServiceConfig, logger *zap.Logger) *ProfileService {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &ProfileService{
		httpClient: httpClient,
		apiKey:     cfg.APIKey,
		baseURL:    cfg.BaseURL,
		fixtureURL: cfg.FixtureURL,
		timeout:    timeout,
		logger:     logger,
	}
}

// profileEnvelope is the enrichment API response wrapper.
type profileEnvelope struct {
	Person domain.ProfileRecord `json:"person"`
}

// Fetch retrieves and cleans the profile behind profileURL. With
// useMock set, or without a configured API key, the fixture document is
// used instead of the live service.
func (s *ProfileService) Fetch(ctx context.Context, profileURL string, useMock bool) (domain.ProfileRecord, error) {
	if useMock || s.apiKey == "" {
		if s.apiKey == "" && !useMock {
			s.logger.Warn("Enrichment API key not configured, using fixture profile data")
		} else {
			s.logger.Info("Using fixture profile data")
		}
		return s.fetchFixture(ctx)
	}

	body, err := s.fetchLive(ctx, profileURL)
	if err != nil {
		// Single unconditional degrade on transport failure. Not a
		// retry against the live service.
		s.logger.Warn("Live profile fetch failed, degrading to fixture data",
			zap.String("profile_url", profileURL),
			zap.Error(err),
		)
		return s.fetchFixture(ctx)
	}

	return decodeProfile(body)
}

func (s *ProfileService) fetchLive(ctx context.Context, profileURL string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	params := url.Values{}
	params.Set("apikey", s.apiKey)
	params.Set("linkedInUrl", profileURL)
	reqURL := s.baseURL + "/enrichment/profile?" + params.Encode()

	s.logger.Info("Fetching professional profile",
		zap.String("profile_url", profileURL))

	return s.get(ctx, reqURL)
}

func (s *ProfileService) fetchFixture(ctx context.Context) (domain.ProfileRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	body, err := s.get(ctx, s.fixtureURL)
	if err != nil {
		return nil, fmt.Errorf("fixture profile fetch failed: %w", err)
	}
	return decodeProfile(body)
}

func (s *ProfileService) get(ctx context.Context, reqURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("profile request returned status %d", resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}

func decodeProfile(body []byte) (domain.ProfileRecord, error) {
	var envelope profileEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("unexpected profile response shape: %w", err)
	}
	if envelope.Person == nil {
		envelope.Person = domain.ProfileRecord{}
	}
	return envelope.Person.Clean(), nil
}
