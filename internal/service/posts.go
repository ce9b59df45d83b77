package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/icelab/icebreaker/internal/domain"
	"github.com/icelab/icebreaker/internal/util"
	"github.com/icelab/icebreaker/pkg/errors"
	"go.uber.org/zap"
)

const (
	postsRequestTimeout = 10 * time.Second
	maxPostsPerRequest  = 100
)

// PostService fetches a user's recent original posts (no reshares, no
// replies) from a Twitter-API-v2-style service. Unlike ProfileService,
// every live-path failure degrades to the fixture document; only the
// fixture path itself fails soft to an empty result.
type PostService struct {
	httpClient    *http.Client
	bearerToken   string
	baseURL       string
	fixtureURL    string
	defaultHandle string
	available     bool
	logger        *zap.Logger
}

type PostServiceConfig struct {
	BearerToken   string
	BaseURL       string
	FixtureURL    string
	DefaultHandle string
}

// NewPostService decides client availability up front: with no bearer
// token the service is built in fixture-only mode rather than failing
// at startup.
func NewPostService(httpClient *http.Client, cfg PostServiceConfig, logger *zap.Logger) *PostService {
	available := cfg.BearerToken != ""
	if !available {
		logger.Warn("Microblog credentials not configured, post fetches will use fixture data")
	}
	return &PostService{
		httpClient:    httpClient,
		bearerToken:   cfg.BearerToken,
		baseURL:       cfg.BaseURL,
		fixtureURL:    cfg.FixtureURL,
		defaultHandle: cfg.DefaultHandle,
		available:     available,
		logger:        logger,
	}
}

// Fetch returns up to count of the user's most recent original posts,
// most recent first.
func (s *PostService) Fetch(ctx context.Context, handle string, count int, useMock bool) ([]domain.Post, error) {
	if useMock || !s.available {
		return s.fetchFixture(ctx, handle, count)
	}

	posts, err := s.fetchLive(ctx, handle, count)
	if err != nil {
		s.logger.Warn("Live post fetch failed, degrading to fixture data",
			zap.String("handle", handle),
			zap.Error(err),
		)
		return s.fetchFixture(ctx, handle, count)
	}
	return posts, nil
}

type userLookupResponse struct {
	Data *struct {
		ID string `json:"id"`
	} `json:"data"`
}

type timelineResponse struct {
	Data []struct {
		ID   string `json:"id"`
		Text string `json:"text"`
	} `json:"data"`
}

func (s *PostService) fetchLive(ctx context.Context, handle string, count int) ([]domain.Post, error) {
	ctx, cancel := context.WithTimeout(ctx, postsRequestTimeout)
	defer cancel()

	s.logger.Info("Fetching recent posts", zap.String("handle", handle))

	body, err := s.get(ctx, s.baseURL+"/2/users/by/username/"+url.PathEscape(handle), nil)
	if err != nil {
		return nil, err
	}

	var user userLookupResponse
	if err := json.Unmarshal(body, &user); err != nil {
		return nil, fmt.Errorf("unexpected user lookup response: %w", err)
	}
	if user.Data == nil || user.Data.ID == "" {
		return nil, errors.NewNotFoundError("user not found", handle)
	}

	params := url.Values{}
	params.Set("max_results", fmt.Sprintf("%d", util.Min(count, maxPostsPerRequest)))
	params.Set("exclude", "retweets,replies")

	body, err = s.get(ctx, s.baseURL+"/2/users/"+user.Data.ID+"/tweets", params)
	if err != nil {
		return nil, err
	}

	var timeline timelineResponse
	if err := json.Unmarshal(body, &timeline); err != nil {
		return nil, fmt.Errorf("unexpected timeline response: %w", err)
	}

	posts := make([]domain.Post, 0, util.Min(count, len(timeline.Data)))
	for _, item := range timeline.Data {
		if len(posts) >= count {
			break
		}
		posts = append(posts, domain.Post{
			Text: item.Text,
			URL:  postURL(handle, item.ID),
		})
	}

	s.logger.Info("Fetched posts", zap.String("handle", handle), zap.Int("count", len(posts)))
	return posts, nil
}

// fixturePost matches the hosted fixture document: an array of raw
// {id, text} records.
type fixturePost struct {
	ID   any    `json:"id"`
	Text string `json:"text"`
}

// fetchFixture maps fixture records through the same URL-synthesis rule
// as the live path. This is the one path that fails soft: if even the
// fixture document is unreachable, an empty sequence is returned.
func (s *PostService) fetchFixture(ctx context.Context, handle string, count int) ([]domain.Post, error) {
	if handle == "" {
		handle = s.defaultHandle
	}
	s.logger.Info("Using fixture post data", zap.String("handle", handle))

	ctx, cancel := context.WithTimeout(ctx, postsRequestTimeout)
	defer cancel()

	body, err := s.get(ctx, s.fixtureURL, nil)
	if err != nil {
		s.logger.Error("Fixture post fetch failed, returning no posts", zap.Error(err))
		return []domain.Post{}, nil
	}

	decoder := json.NewDecoder(bytes.NewReader(body))
	decoder.UseNumber()
	var records []fixturePost
	if err := decoder.Decode(&records); err != nil {
		s.logger.Error("Fixture post data malformed, returning no posts", zap.Error(err))
		return []domain.Post{}, nil
	}

	posts := make([]domain.Post, 0, util.Min(count, len(records)))
	for _, record := range records {
		if len(posts) >= count {
			break
		}
		posts = append(posts, domain.Post{
			Text: record.Text,
			URL:  postURL(handle, stringifyID(record.ID)),
		})
	}
	return posts, nil
}

func (s *PostService) get(ctx context.Context, reqURL string, params url.Values) ([]byte, error) {
	if params != nil {
		reqURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}
	if s.bearerToken != "" {
		req.Header.Set("Authorization", "Bearer "+s.bearerToken)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.NewAPIError(fmt.Sprintf("post request returned status %d", resp.StatusCode), resp.StatusCode, map[string]any{
			"url": reqURL,
		})
	}

	return io.ReadAll(resp.Body)
}

func postURL(handle, id string) string {
	return fmt.Sprintf("https://twitter.com/%s/status/%s", handle, id)
}

func stringifyID(id any) string {
	switch v := id.(type) {
	case string:
		return v
	case json.Number:
		return v.String()
	case float64:
		return fmt.Sprintf("%.0f", v)
	default:
		return fmt.Sprintf("%v", v)
	}
}
