package localmaps

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kailas-cloud/localmaps/internal/config"
	dbRedis "github.com/kailas-cloud/localmaps/internal/db/redis"
	"github.com/kailas-cloud/localmaps/internal/domain/geo"
	"github.com/kailas-cloud/localmaps/internal/domain/place"
	"github.com/kailas-cloud/localmaps/internal/domain/search/request"
	"github.com/kailas-cloud/localmaps/internal/domain/search/result"
	budgetrepo "github.com/kailas-cloud/localmaps/internal/repository/budget"
	"github.com/kailas-cloud/localmaps/internal/repository/classcache"
	openaiCls "github.com/kailas-cloud/localmaps/internal/transport/openai"
	"github.com/kailas-cloud/localmaps/internal/transport/places"
	healthuc "github.com/kailas-cloud/localmaps/internal/usecase/health"
	searchuc "github.com/kailas-cloud/localmaps/internal/usecase/search"
	usageuc "github.com/kailas-cloud/localmaps/internal/usecase/usage"
)

const (
	defaultReadinessTimeout = 10 * time.Second
	defaultSearchTimeout    = 10 * time.Second
	defaultClassifyTimeout  = 15 * time.Second
)

// Internal interface for substitution in tests.
type searchUseCase interface {
	Run(ctx context.Context, req request.Request) (result.Result, error)
	Place(ctx context.Context, placeID string) (place.Details, error)
}

// Client is the localmaps SDK entry point. Safe for concurrent use.
type Client struct {
	cache     *dbRedis.Store
	searchSvc searchUseCase
	healthSvc healthUseCase
	obs       *observer
}

// New creates a Client. With a cache option the provided context bounds the
// initial readiness check.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		placesBaseURL:     config.DefaultPlacesBaseURL,
		classifierBaseURL: config.DefaultClassifierBaseURL,
		model:             config.DefaultClassifierModel,
		searchTimeout:     defaultSearchTimeout,
		classifyTimeout:   defaultClassifyTimeout,
	}
	for _, o := range opts {
		o.apply(cfg)
	}

	if cfg.placesKey == "" {
		return nil, errors.New("localmaps: places API key required (use WithPlaces)")
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	var cache *dbRedis.Store
	if cfg.cacheDriver != "" {
		cache, err = openCache(ctx, cfg)
		if err != nil {
			return nil, err
		}
	}

	return wireClient(ctx, cfg, cache, obs), nil
}

func openCache(ctx context.Context, cfg *clientConfig) (*dbRedis.Store, error) {
	switch cfg.cacheDriver {
	case "valkey", "redis":
	default:
		return nil, fmt.Errorf("localmaps: unknown cache driver %q", cfg.cacheDriver)
	}
	if len(cfg.cacheAddrs) == 0 || cfg.cacheAddrs[0] == "" {
		return nil, fmt.Errorf("localmaps: %s cache address required", cfg.cacheDriver)
	}

	s, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.cacheAddrs,
		Password: cfg.cachePassword,
	})
	if err != nil {
		return nil, fmt.Errorf("localmaps: create %s cache: %w", cfg.cacheDriver, err)
	}
	if err := s.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
		s.Close()
		return nil, fmt.Errorf("localmaps: cache not ready: %w", err)
	}
	return s, nil
}

func wireClient(ctx context.Context, cfg *clientConfig, cache *dbRedis.Store, obs *observer) *Client {
	var budget *usageuc.BudgetTracker
	var recorder openaiCls.TokenRecorder
	if cfg.dailyTokens > 0 || cfg.monthlyTokens > 0 {
		budget = usageuc.NewBudgetTracker(cfg.dailyTokens, cfg.monthlyTokens, usageuc.BudgetActionReject, nil)
		if cache != nil {
			budget = budget.WithStore(ctx,
				budgetrepo.New(cache, budgetrepo.DefaultDailyTTL, budgetrepo.DefaultMonthlyTTL))
		}
		recorder = budget
	}

	placesClient := places.New(places.Config{
		APIKey:  cfg.placesKey,
		BaseURL: cfg.placesBaseURL,
		Timeout: cfg.searchTimeout,
	})
	llm := openaiCls.NewClassifier(&openaiCls.Config{
		APIKey:      cfg.classifierKey,
		BaseURL:     cfg.classifierBaseURL,
		Model:       cfg.model,
		Temperature: cfg.temperature,
		Usage:       recorder,
	})

	var classifier searchuc.Classifier = llm
	if budget != nil {
		classifier = usageuc.NewBudgetedClassifier(classifier, budget)
	}
	var pinger healthuc.StoragePinger
	if cache != nil {
		if cfg.cacheTTL > 0 {
			classifier = classcache.New(classifier, cache, cfg.cacheTTL, nil)
		}
		pinger = cache
	}

	return &Client{
		cache: cache,
		searchSvc: searchuc.New(placesClient, classifier, searchuc.Timeouts{
			Search:   cfg.searchTimeout,
			Classify: cfg.classifyTimeout,
		}),
		healthSvc: healthuc.New(pinger, placesClient, llm),
		obs:       obs,
	}
}

// Close releases the cache connection, if any.
func (c *Client) Close() {
	if c.cache != nil {
		c.cache.Close()
	}
}

// Search finds independent businesses matching query around (lat, lng).
func (c *Client) Search(
	ctx context.Context, query string, lat, lng float64, opts ...SearchOption,
) (res SearchResult, err error) {
	start := time.Now()
	defer func() { c.obs.observeSearch(start, res, err) }()

	var p searchParams
	for _, o := range opts {
		o(&p)
	}

	origin := geo.Coordinates{Latitude: lat, Longitude: lng}
	req, err := request.New(query, &origin, p.radiusMeters, p.minRating, p.openNow)
	if err != nil {
		return SearchResult{}, fmt.Errorf("search: %w", err)
	}

	out, err := c.searchSvc.Run(ctx, req)
	if err != nil {
		return SearchResult{}, fmt.Errorf("search: %w", err)
	}
	return fromResult(&out), nil
}

// Place fetches contact details for one place id.
func (c *Client) Place(ctx context.Context, placeID string) (d PlaceDetails, err error) {
	start := time.Now()
	defer func() { c.obs.observe("place", start, err) }()

	details, err := c.searchSvc.Place(ctx, placeID)
	if err != nil {
		return PlaceDetails{}, fmt.Errorf("place %s: %w", placeID, err)
	}
	return PlaceDetails{
		Place:       fromCandidate(details.Candidate),
		Phone:       details.Phone,
		Website:     details.Website,
		MapsURL:     details.MapsURL,
		WeekdayText: details.WeekdayText,
	}, nil
}

func fromResult(r *result.Result) SearchResult {
	candidates := r.Places()
	out := SearchResult{
		Places:         make([]Place, 0, len(candidates)),
		Candidates:     r.CandidateCount(),
		Classification: string(r.Classification()),
	}
	for _, c := range candidates {
		out.Places = append(out.Places, fromCandidate(c))
	}
	return out
}

func fromCandidate(c place.Candidate) Place {
	p := Place{
		ID:      c.ExternalID(),
		Name:    c.Name(),
		Address: c.Address(),
		Types:   c.Types(),
	}
	if v, ok := c.Rating(); ok {
		p.Rating = &v
	}
	if v, ok := c.RatingCount(); ok {
		p.RatingCount = &v
	}
	if v, ok := c.OpenNow(); ok {
		p.OpenNow = &v
	}
	if pos, ok := c.Position(); ok {
		p.Lat = &pos.Latitude
		p.Lng = &pos.Longitude
	}
	return p
}
