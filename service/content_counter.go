package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/ludo-technologies/schemascan/domain"
	"github.com/ludo-technologies/schemascan/internal/config"
	"github.com/ludo-technologies/schemascan/internal/logging"
)

// CountSkip records an entity whose content count could not be fetched
type CountSkip struct {
	Entity string
	Err    error
}

// Error implements the error interface
func (s CountSkip) Error() string {
	return fmt.Sprintf("content count for %s: %v", s.Entity, s.Err)
}

// ContentCountSampler fetches stored entry counts for every entity with
// bounded concurrency. A failing entity is skipped; the others continue.
type ContentCountSampler struct {
	fetcher   domain.ContentCountFetcher
	batchSize int
	limiter   *rate.Limiter
	logger    *slog.Logger
}

// NewContentCountSampler creates a sampler from the source configuration
func NewContentCountSampler(fetcher domain.ContentCountFetcher, cfg *config.SourceConfig, logger *slog.Logger) *ContentCountSampler {
	batchSize := config.DefaultBatchSize
	rps := config.DefaultRequestsPerSecond
	if cfg != nil {
		if cfg.BatchSize > 0 {
			batchSize = cfg.BatchSize
		}
		if cfg.RequestsPerSecond > 0 {
			rps = cfg.RequestsPerSecond
		}
	}
	return &ContentCountSampler{
		fetcher:   fetcher,
		batchSize: batchSize,
		limiter:   rate.NewLimiter(rate.Limit(rps), batchSize),
		logger:    logging.OrDiscard(logger),
	}
}

// Sample fetches counts for the schema's analyzable entities and merges
// them into schema.Counts, keeping counts already present. It returns the
// entities that were skipped.
func (s *ContentCountSampler) Sample(ctx context.Context, schema *domain.Schema) ([]CountSkip, error) {
	if schema == nil {
		return nil, nil
	}
	if schema.Counts == nil {
		schema.Counts = map[string]domain.ContentCount{}
	}

	var names []string
	for _, e := range schema.AnalyzableEntities() {
		if _, known := schema.Counts[e.Name]; !known {
			names = append(names, e.Name)
		}
	}

	var mu sync.Mutex
	var skipped []CountSkip
	fetched := make(map[string]domain.ContentCount, len(names))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(s.batchSize)
	for _, name := range names {
		g.Go(func() error {
			if err := s.limiter.Wait(gCtx); err != nil {
				return err
			}
			count, err := s.fetcher.FetchCount(gCtx, name)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				s.logger.Warn("content count skipped", "entity", name, "error", err)
				skipped = append(skipped, CountSkip{Entity: name, Err: err})
				return nil
			}
			fetched[name] = count
			return nil
		})
	}
	// Only cancellation of ctx surfaces here
	if err := g.Wait(); err != nil {
		return skipped, domain.NewSourceError("content count sampling interrupted", err)
	}

	for name, count := range fetched {
		schema.Counts[name] = count
	}
	sortSkips(skipped, names)
	return skipped, nil
}

// sortSkips orders skips by entity declaration order
func sortSkips(skips []CountSkip, order []string) {
	index := make(map[string]int, len(order))
	for i, n := range order {
		index[n] = i
	}
	sort.SliceStable(skips, func(i, j int) bool {
		return index[skips[i].Entity] < index[skips[j].Entity]
	})
}

// HTTPContentCountFetcher fetches counts from GET {endpoint}/{entity}/counts
type HTTPContentCountFetcher struct {
	endpoint string
	token    string
	client   *http.Client
}

// NewHTTPContentCountFetcher creates a fetcher from the source configuration
func NewHTTPContentCountFetcher(cfg *config.SourceConfig) *HTTPContentCountFetcher {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = config.DefaultSourceTimeout * time.Second
	}
	return &HTTPContentCountFetcher{
		endpoint: strings.TrimRight(cfg.CountsEndpoint, "/"),
		token:    cfg.Token,
		client:   &http.Client{Timeout: timeout},
	}
}

// FetchCount implements domain.ContentCountFetcher
func (f *HTTPContentCountFetcher) FetchCount(ctx context.Context, entity string) (domain.ContentCount, error) {
	var count domain.ContentCount
	u := fmt.Sprintf("%s/%s/counts", f.endpoint, url.PathEscape(entity))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return count, err
	}
	req.Header.Set("Accept", "application/json")
	if f.token != "" {
		req.Header.Set("Authorization", "Bearer "+f.token)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return count, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return count, fmt.Errorf("unexpected status %s", resp.Status)
	}
	if err := json.NewDecoder(resp.Body).Decode(&count); err != nil {
		return count, fmt.Errorf("failed to decode counts: %w", err)
	}
	if count.Draft < 0 || count.Published < 0 {
		return domain.ContentCount{}, fmt.Errorf("negative counts in response")
	}
	return count, nil
}
