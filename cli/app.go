package cli

import (
	"context"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/agrivista/api-go/cache"
	"github.com/agrivista/api-go/clients"
	"github.com/agrivista/api-go/config"
	"github.com/agrivista/api-go/logger"
	"github.com/agrivista/api-go/routes"
	"github.com/agrivista/api-go/store"
	"github.com/agrivista/api-go/utils"
)

// app owns the connections opened for one process.
type app struct {
	deps     *routes.Dependencies
	registry *prometheus.Registry
	closers  []func(context.Context) error
}

func (a *app) Close(ctx context.Context) {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			logger.L.Warn("close resource", zap.Error(err))
		}
	}
}

func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	a := &app{registry: prometheus.NewRegistry()}
	a.registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	db, err := config.InitDB(cfg.Database)
	if err != nil {
		return nil, err
	}
	if sqlDB, err := db.DB(); err == nil {
		a.closers = append(a.closers, func(context.Context) error { return sqlDB.Close() })
	}

	deps := &routes.Dependencies{
		DB:            db,
		Tokens:        utils.NewTokenIssuer(cfg.JWT.Secret, cfg.JWT.TTL),
		Cache:         cache.Nop{},
		Google:        config.NewGoogleConfig(cfg.Google),
		R2:            cfg.R2,
		SecureCookies: cfg.IsProd(),
	}
	a.deps = deps

	if cfg.History.Backend == "mongo" {
		client, err := config.ConnectMongo(ctx, cfg.Mongo)
		if err != nil {
			a.Close(ctx)
			return nil, err
		}
		a.closers = append(a.closers, client.Disconnect)
		history := store.NewMongoHistory(client.Database(cfg.Mongo.Database))
		if err := history.EnsureIndexes(ctx); err != nil {
			logger.L.Warn("ensure mongo indexes", zap.Error(err))
		}
		deps.History = history
	} else {
		deps.History = store.NewSQLHistory(db)
	}

	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		// a dead redis degrades to uncached responses
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.L.Warn("redis unavailable, caching disabled", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
			_ = rdb.Close()
		} else {
			a.closers = append(a.closers, func(context.Context) error { return rdb.Close() })
			deps.Cache = cache.NewRedisCache(rdb, "agrivista:")
		}
	}

	deps.ML = clients.NewMLClient(cfg.ML.URL, cfg.ML.Timeout)
	deps.LLM = clients.NewGroqClient(cfg.Groq.BaseURL, cfg.Groq.APIKey, cfg.Groq.Model, cfg.Groq.Timeout)
	deps.Weather = clients.NewWeatherClient(cfg.Weather.BaseURL, cfg.Weather.APIKey, cfg.Weather.Timeout)
	deps.Wiki = clients.NewWikiClient(cfg.Wiki.BaseURL, cfg.Weather.Timeout)

	gemini, err := clients.NewGeminiClient(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model)
	if err != nil {
		a.Close(ctx)
		return nil, errors.Wrap(err, "gemini")
	}
	deps.Chat = gemini

	logEnabled(cfg)
	return a, nil
}

func logEnabled(cfg *config.Config) {
	logger.L.Info("integrations",
		zap.String("history", cfg.History.Backend),
		zap.Bool("redis", cfg.Redis.Addr != ""),
		zap.Bool("groq", cfg.Groq.APIKey != ""),
		zap.Bool("gemini", cfg.Gemini.APIKey != ""),
		zap.Bool("weather", cfg.Weather.APIKey != ""),
		zap.Bool("google", cfg.Google.ClientID != ""),
		zap.Bool("r2", cfg.R2.BucketName != ""),
	)
}
