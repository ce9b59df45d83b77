package service

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"

	"go.uber.org/zap"
)

const postsFixtureBody = `[
	{"id": 1734567890123456789, "text": "Shipped a new course today"},
	{"id": "1734567890123456790", "text": "Go generics are growing on me"},
	{"id": 1734567890123456791, "text": "Talk accepted at GopherCon"},
	{"id": 1734567890123456792, "text": "Reading about retrieval pipelines"}
]`

func newPostService(t *testing.T, liveHandler, fixtureHandler http.HandlerFunc, bearer string) *PostService {
	t.Helper()

	live := httptest.NewServer(liveHandler)
	t.Cleanup(live.Close)
	fixture := httptest.NewServer(fixtureHandler)
	t.Cleanup(fixture.Close)

	return NewPostService(live.Client(), PostServiceConfig{
		BearerToken:   bearer,
		BaseURL:       live.URL,
		FixtureURL:    fixture.URL,
		DefaultHandle: "sampleuser",
	}, zap.NewNop())
}

func TestPostFetchFixtureTruncatesToCount(t *testing.T) {
	svc := newPostService(t, func(w http.ResponseWriter, _ *http.Request) {
		t.Error("live endpoint must not be called with useMock set")
	}, serveJSON(postsFixtureBody), "token")

	posts, err := svc.Fetch(context.Background(), "janedoe", 3, true)
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if len(posts) != 3 {
		t.Fatalf("len(posts) = %d, want 3", len(posts))
	}

	wantIDs := []string{"1734567890123456789", "1734567890123456790", "1734567890123456791"}
	for i, post := range posts {
		if post.Text == "" {
			t.Errorf("post %d has empty text", i)
		}
		if !strings.Contains(post.URL, "janedoe") {
			t.Errorf("post %d URL %q missing requested handle", i, post.URL)
		}
		if !strings.Contains(post.URL, wantIDs[i]) {
			t.Errorf("post %d URL %q missing id %s", i, post.URL, wantIDs[i])
		}
	}
}

func TestPostFetchLiveExcludesResharesAndReplies(t *testing.T) {
	var timelineQuery string
	liveHandler := func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasPrefix(r.URL.Path, "/2/users/by/username/"):
			serveJSON(`{"data": {"id": "42"}}`)(w, r)
		case r.URL.Path == "/2/users/42/tweets":
			timelineQuery = r.URL.RawQuery
			serveJSON(`{"data": [
				{"id": "900", "text": "first"},
				{"id": "901", "text": "second"}
			]}`)(w, r)
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}
	svc := newPostService(t, liveHandler, func(w http.ResponseWriter, _ *http.Request) {
		t.Error("fixture endpoint must not be called on the live path")
	}, "token")

	posts, err := svc.Fetch(context.Background(), "janedoe", 5, false)
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if len(posts) != 2 {
		t.Fatalf("len(posts) = %d, want 2", len(posts))
	}
	if !strings.Contains(timelineQuery, "exclude=retweets%2Creplies") {
		t.Errorf("timeline query %q missing exclusion filter", timelineQuery)
	}
	if posts[0].URL != "https://twitter.com/janedoe/status/900" {
		t.Errorf("posts[0].URL = %q", posts[0].URL)
	}
}

func TestPostFetchCountClampedToAPILimit(t *testing.T) {
	var timelineQuery string
	liveHandler := func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasPrefix(r.URL.Path, "/2/users/by/username/"):
			serveJSON(`{"data": {"id": "42"}}`)(w, r)
		default:
			timelineQuery = r.URL.RawQuery
			serveJSON(`{"data": []}`)(w, r)
		}
	}
	svc := newPostService(t, liveHandler, serveJSON(postsFixtureBody), "token")

	if _, err := svc.Fetch(context.Background(), "janedoe", 500, false); err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if !strings.Contains(timelineQuery, "max_results=100") {
		t.Errorf("timeline query %q not clamped to 100", timelineQuery)
	}
}

func TestPostFetchAnyLiveFailureMatchesFixturePath(t *testing.T) {
	failures := map[string]http.HandlerFunc{
		"server error": func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		},
		"user not found": serveJSON(`{"data": null}`),
		"malformed body": serveJSON(`{{{`),
	}

	for name, handler := range failures {
		t.Run(name, func(t *testing.T) {
			svc := newPostService(t, handler, serveJSON(postsFixtureBody), "token")

			viaFallback, err := svc.Fetch(context.Background(), "janedoe", 2, false)
			if err != nil {
				t.Fatalf("Fetch() error = %v", err)
			}
			direct, err := svc.Fetch(context.Background(), "janedoe", 2, true)
			if err != nil {
				t.Fatalf("fixture Fetch() error = %v", err)
			}

			if !reflect.DeepEqual(viaFallback, direct) {
				t.Errorf("fallback result %v differs from fixture path %v", viaFallback, direct)
			}
		})
	}
}

func TestPostFetchMissingCredentialsUsesFixture(t *testing.T) {
	svc := newPostService(t, func(w http.ResponseWriter, _ *http.Request) {
		t.Error("live endpoint must not be called without credentials")
	}, serveJSON(postsFixtureBody), "")

	posts, err := svc.Fetch(context.Background(), "janedoe", 2, false)
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if len(posts) != 2 {
		t.Errorf("len(posts) = %d, want 2", len(posts))
	}
}

func TestPostFetchBlankHandleUsesDefaultOnFixture(t *testing.T) {
	svc := newPostService(t, serveJSON(`{}`), serveJSON(postsFixtureBody), "")

	posts, err := svc.Fetch(context.Background(), "", 1, true)
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if len(posts) != 1 {
		t.Fatalf("len(posts) = %d, want 1", len(posts))
	}
	if !strings.Contains(posts[0].URL, "sampleuser") {
		t.Errorf("URL %q missing default handle", posts[0].URL)
	}
}

func TestPostFetchFixtureFailureFailsSoftToEmpty(t *testing.T) {
	svc := newPostService(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}, "token")

	posts, err := svc.Fetch(context.Background(), "janedoe", 5, false)
	if err != nil {
		t.Fatalf("Fetch() error = %v, want soft failure", err)
	}
	if posts == nil {
		t.Fatal("posts = nil, want empty sequence")
	}
	if len(posts) != 0 {
		t.Errorf("len(posts) = %d, want 0", len(posts))
	}
}

func TestStringifyID(t *testing.T) {
	tests := []struct {
		id   any
		want string
	}{
		{"abc", "abc"},
		{float64(123), "123"},
	}
	for _, tt := range tests {
		if got := stringifyID(tt.id); got != tt.want {
			t.Errorf("stringifyID(%v) = %q, want %q", tt.id, got, tt.want)
		}
	}
	if got := stringifyID(fmt.Sprint(42)); got != "42" {
		t.Errorf("stringifyID = %q", got)
	}
}
