package service

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ludo-technologies/schemascan/domain"
	"github.com/ludo-technologies/schemascan/internal/config"
	"github.com/ludo-technologies/schemascan/internal/testutil"
)

type fakeCountFetcher struct {
	mu     sync.Mutex
	counts map[string]domain.ContentCount
	fail   map[string]bool
	calls  []string
}

func (f *fakeCountFetcher) FetchCount(_ context.Context, entity string) (domain.ContentCount, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, entity)
	if f.fail[entity] {
		return domain.ContentCount{}, errors.New("service unavailable")
	}
	return f.counts[entity], nil
}

func TestContentCountSampler_Sample(t *testing.T) {
	schema := testutil.NewSchema().
		Model("Article", testutil.Scalar("title")).
		Model("Author", testutil.Scalar("name")).
		Model("Legacy", testutil.Scalar("title")).
		System("User", testutil.Scalar("email")).
		Count("Legacy", 0, 1).
		Build()

	fetcher := &fakeCountFetcher{
		counts: map[string]domain.ContentCount{"Article": {Draft: 1, Published: 5}},
		fail:   map[string]bool{"Author": true},
	}
	sampler := NewContentCountSampler(fetcher, &config.SourceConfig{BatchSize: 2, RequestsPerSecond: 1000}, nil)

	skipped, err := sampler.Sample(context.Background(), schema)
	require.NoError(t, err)

	require.Len(t, skipped, 1)
	assert.Equal(t, "Author", skipped[0].Entity)
	assert.Contains(t, skipped[0].Error(), "content count for Author")

	assert.Equal(t, domain.ContentCount{Draft: 1, Published: 5}, schema.Counts["Article"])
	assert.Equal(t, domain.ContentCount{Published: 1}, schema.Counts["Legacy"], "existing counts are kept")
	_, hasAuthor := schema.Counts["Author"]
	assert.False(t, hasAuthor)

	assert.ElementsMatch(t, []string{"Article", "Author"}, fetcher.calls)
}

func TestContentCountSampler_Cancelled(t *testing.T) {
	schema := testutil.NewSchema().Model("Article").Build()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sampler := NewContentCountSampler(&fakeCountFetcher{}, nil, nil)
	_, err := sampler.Sample(ctx, schema)

	var domainErr *domain.DomainError
	require.True(t, errors.As(err, &domainErr), "expected DomainError, got %v", err)
	assert.Equal(t, domain.ErrCodeSource, domainErr.Code)
}

func TestHTTPContentCountFetcher(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		switch r.URL.Path {
		case "/api/Article/counts":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"draft": 3, "published": 7}`))
		case "/api/Broken/counts":
			_, _ = w.Write([]byte(`{"draft": -1}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	fetcher := NewHTTPContentCountFetcher(&config.SourceConfig{
		CountsEndpoint: server.URL + "/api/",
		Token:          "secret",
		TimeoutSeconds: 5,
	})

	count, err := fetcher.FetchCount(context.Background(), "Article")
	require.NoError(t, err)
	assert.Equal(t, domain.ContentCount{Draft: 3, Published: 7}, count)

	_, err = fetcher.FetchCount(context.Background(), "Missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")

	_, err = fetcher.FetchCount(context.Background(), "Broken")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "negative counts")
}
