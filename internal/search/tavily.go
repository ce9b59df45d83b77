package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/icelab/icebreaker/pkg/errors"
	"go.uber.org/zap"
)

const tavilyMaxResults = 5

type TavilyClient struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	logger     *zap.Logger
}

func NewTavilyClient(httpClient *http.Client, baseURL, apiKey string, logger *zap.Logger) *TavilyClient {
	if baseURL == "" {
		baseURL = "https://api.tavily.com"
	}
	return &TavilyClient{
		httpClient: httpClient,
		baseURL:    baseURL,
		apiKey:     apiKey,
		logger:     logger,
	}
}

type tavilyRequest struct {
	APIKey        string `json:"api_key"`
	Query         string `json:"query"`
	MaxResults    int    `json:"max_results"`
	SearchDepth   string `json:"search_depth"`
	IncludeAnswer bool   `json:"include_answer"`
}

type tavilyResponse struct {
	Answer  string `json:"answer"`
	Results []struct {
		Title   string `json:"title"`
		URL     string `json:"url"`
		Content string `json:"content"`
	} `json:"results"`
}

func (c *TavilyClient) Search(ctx context.Context, query string) (string, error) {
	payload, err := json.Marshal(tavilyRequest{
		APIKey:        c.apiKey,
		Query:         query,
		MaxResults:    tavilyMaxResults,
		SearchDepth:   "basic",
		IncludeAnswer: true,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/search", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", errors.NewAPIError("tavily request failed", 0, map[string]any{
			"query": query,
		}).WithCause(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	if resp.StatusCode != http.StatusOK {
		return "", errors.NewAPIError(fmt.Sprintf("tavily returned status %d", resp.StatusCode), resp.StatusCode, map[string]any{
			"query": query,
		})
	}

	var parsed tavilyResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("invalid tavily response: %w", err)
	}

	c.logger.Debug("Tavily search complete",
		zap.String("query", query),
		zap.Int("results", len(parsed.Results)),
	)

	var sb strings.Builder
	if parsed.Answer != "" {
		sb.WriteString("Answer: ")
		sb.WriteString(parsed.Answer)
		sb.WriteString("\n")
	}
	for _, result := range parsed.Results {
		sb.WriteString(fmt.Sprintf("- %s (%s): %s\n", result.Title, result.URL, result.Content))
	}
	if sb.Len() == 0 {
		return "No results found.", nil
	}
	return sb.String(), nil
}
