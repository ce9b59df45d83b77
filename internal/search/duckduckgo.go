package search

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/icelab/icebreaker/pkg/errors"
	"go.uber.org/zap"
)

const ddgMaxResults = 5

// DuckDuckGoClient scrapes the HTML results page. It needs no API key,
// which makes it the default search capability when Tavily is not
// configured.
type DuckDuckGoClient struct {
	httpClient *http.Client
	baseURL    string
	logger     *zap.Logger
}

func NewDuckDuckGoClient(httpClient *http.Client, baseURL string, logger *zap.Logger) *DuckDuckGoClient {
	if baseURL == "" {
		baseURL = "https://html.duckduckgo.com"
	}
	return &DuckDuckGoClient{
		httpClient: httpClient,
		baseURL:    baseURL,
		logger:     logger,
	}
}

func (c *DuckDuckGoClient) Search(ctx context.Context, query string) (string, error) {
	reqURL := c.baseURL + "/html/?q=" + url.QueryEscape(query)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; icebreaker/1.0)")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", errors.NewAPIError("duckduckgo request failed", 0, map[string]any{
			"query": query,
		}).WithCause(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", errors.NewAPIError(fmt.Sprintf("duckduckgo returned status %d", resp.StatusCode), resp.StatusCode, nil)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to parse search results: %w", err)
	}

	var sb strings.Builder
	count := 0
	doc.Find(".result").Each(func(_ int, result *goquery.Selection) {
		if count >= ddgMaxResults {
			return
		}
		link := result.Find(".result__a")
		title := strings.TrimSpace(link.Text())
		href, _ := link.Attr("href")
		snippet := strings.TrimSpace(result.Find(".result__snippet").Text())
		if title == "" || href == "" {
			return
		}
		sb.WriteString(fmt.Sprintf("- %s (%s): %s\n", title, resolveRedirect(href), snippet))
		count++
	})

	c.logger.Debug("DuckDuckGo search complete",
		zap.String("query", query),
		zap.Int("results", count),
	)

	if count == 0 {
		return "No results found.", nil
	}
	return sb.String(), nil
}

// resolveRedirect unwraps DuckDuckGo's /l/?uddg=<target> redirect links.
func resolveRedirect(href string) string {
	parsed, err := url.Parse(href)
	if err != nil {
		return href
	}
	if target := parsed.Query().Get("uddg"); target != "" {
		return target
	}
	return href
}
