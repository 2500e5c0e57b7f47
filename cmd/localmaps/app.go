package main

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/localmaps/internal/config"
	dbRedis "github.com/kailas-cloud/localmaps/internal/db/redis"
	"github.com/kailas-cloud/localmaps/internal/db/sqlite"
	"github.com/kailas-cloud/localmaps/internal/metrics"
	accountrepo "github.com/kailas-cloud/localmaps/internal/repository/account"
	budgetrepo "github.com/kailas-cloud/localmaps/internal/repository/budget"
	"github.com/kailas-cloud/localmaps/internal/repository/classcache"
	favoritesrepo "github.com/kailas-cloud/localmaps/internal/repository/favorites"
	openaiCls "github.com/kailas-cloud/localmaps/internal/transport/openai"
	"github.com/kailas-cloud/localmaps/internal/transport/places"
	accountuc "github.com/kailas-cloud/localmaps/internal/usecase/account"
	favoritesuc "github.com/kailas-cloud/localmaps/internal/usecase/favorites"
	healthuc "github.com/kailas-cloud/localmaps/internal/usecase/health"
	searchuc "github.com/kailas-cloud/localmaps/internal/usecase/search"
	usageuc "github.com/kailas-cloud/localmaps/internal/usecase/usage"
)

// storage is the set of backends selected by storage.driver.
type storage struct {
	accounts  accountuc.Repository
	favorites favoritesuc.Repository
	pinger    healthuc.StoragePinger
	// cache and counters are nil for drivers without a key-value store.
	cache    classcacheStore
	counters usageuc.BudgetStore
	close    func()
}

type classcacheStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

func openStorage(ctx context.Context, cfg config.Config, logger *zap.Logger) (*storage, error) {
	switch cfg.Storage.Driver {
	case config.DriverValkey, config.DriverRedis:
		store, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Storage.Addrs,
			Password: cfg.Storage.Password,
		})
		if err != nil {
			return nil, fmt.Errorf("create %s store: %w", cfg.Storage.Driver, err)
		}
		if err := store.WaitForReady(ctx, time.Duration(cfg.Storage.ReadinessTimeout)*time.Second); err != nil {
			store.Close()
			return nil, fmt.Errorf("storage not ready: %w", err)
		}
		logger.Info("Connected to storage",
			zap.String("driver", cfg.Storage.Driver),
			zap.Strings("addrs", cfg.Storage.Addrs),
		)
		return &storage{
			accounts:  accountrepo.NewRedis(store),
			favorites: favoritesrepo.NewRedis(store),
			pinger:    store,
			cache:     store,
			counters:  budgetrepo.New(store, budgetrepo.DefaultDailyTTL, budgetrepo.DefaultMonthlyTTL),
			close:     store.Close,
		}, nil

	case config.DriverSQLite:
		st, err := sqlite.Open(ctx, cfg.Storage.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		logger.Info("Opened storage",
			zap.String("driver", cfg.Storage.Driver),
			zap.String("path", cfg.Storage.SQLitePath),
		)
		return &storage{
			accounts:  accountrepo.NewSQLite(st.DB()),
			favorites: favoritesrepo.NewSQLite(st.DB()),
			pinger:    st,
			close:     st.Close,
		}, nil

	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}

// providers are the two outbound clients of the search pipeline.
type providers struct {
	places     *places.Client
	classifier *openaiCls.Classifier
}

// newBudget returns nil when no classifier token limit is configured.
// counters may be nil; the budget then lives in memory only.
func newBudget(ctx context.Context, cfg config.Config, counters usageuc.BudgetStore, logger *zap.Logger) *usageuc.BudgetTracker {
	b := cfg.Classifier.Budget
	if !b.Enabled() {
		return nil
	}
	bt := usageuc.NewBudgetTracker(b.DailyTokens, b.MonthlyTokens, usageuc.BudgetAction(b.Action), logger)
	if counters != nil {
		bt = bt.WithStore(ctx, counters)
	}
	logger.Info("Classifier token budget enabled",
		zap.Int64("daily_tokens", b.DailyTokens),
		zap.Int64("monthly_tokens", b.MonthlyTokens),
		zap.String("action", b.Action),
		zap.Bool("persistent", counters != nil),
	)
	return bt
}

// newProviders builds the outbound clients. budget may be nil.
func newProviders(cfg config.Config, budget *usageuc.BudgetTracker, logger *zap.Logger) providers {
	var recorder openaiCls.TokenRecorder
	if budget != nil {
		recorder = budget
	}
	return providers{
		places: places.New(places.Config{
			APIKey:  cfg.Places.APIKey,
			BaseURL: cfg.Places.BaseURL,
			Timeout: cfg.PlacesTimeout(),
		}),
		classifier: openaiCls.NewClassifier(&openaiCls.Config{
			APIKey:      cfg.Classifier.APIKey,
			BaseURL:     cfg.Classifier.BaseURL,
			Model:       cfg.Classifier.Model,
			Temperature: cfg.Classifier.Temperature,
			Logger:      logger,
			Usage:       recorder,
		}),
	}
}

// newSearchService assembles places -> (cached (budgeted)) classifier -> orchestrator.
// cache and budget may be nil. Cache hits do not count against the budget.
func newSearchService(
	cfg config.Config, p providers, cache classcacheStore, budget *usageuc.BudgetTracker, logger *zap.Logger,
) *searchuc.Service {
	var classifier searchuc.Classifier = p.classifier
	if budget != nil {
		classifier = usageuc.NewBudgetedClassifier(classifier, budget)
	}
	if cache != nil && cfg.Classifier.CacheTTLSec > 0 {
		ttl := time.Duration(cfg.Classifier.CacheTTLSec) * time.Second
		classifier = classcache.New(classifier, cache, ttl, metrics.ClassificationCacheTotal)
		logger.Info("Classification cache enabled", zap.Duration("ttl", ttl))
	}

	return searchuc.New(p.places, classifier, searchuc.Timeouts{
		Search:   cfg.PlacesTimeout(),
		Classify: cfg.ClassifierTimeout(),
	})
}
