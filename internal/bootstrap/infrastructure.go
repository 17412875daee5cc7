package bootstrap

import (
	"context"
	"log/slog"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"

	"github.com/lexiglot/translate-backend/internal/audio"
	"github.com/lexiglot/translate-backend/internal/cache"
	"github.com/lexiglot/translate-backend/internal/health"
	"github.com/lexiglot/translate-backend/internal/oneshot"
	"github.com/lexiglot/translate-backend/internal/realtime"
	"github.com/lexiglot/translate-backend/internal/translate"
)

func normalizeConfig(cfg *Config) audio.NormalizeConfig {
	return audio.NormalizeConfig{
		MaxBoost:   cfg.AudioMaxBoost,
		TargetPeak: cfg.AudioTargetPeak,
	}
}

func ProvideRedisClient(cfg *Config) *redis.Client {
	if !cfg.CacheEnabled {
		return nil
	}
	return redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
}

func ProvideRealtimeClient(lc fx.Lifecycle, cfg *Config, logger *slog.Logger) *realtime.Client {
	if cfg.ProviderMode != ProviderRealtime {
		return nil
	}
	client := realtime.NewClient(realtime.Config{
		URL:            cfg.UpstreamURL,
		APIKey:         cfg.APIKey,
		Model:          cfg.Model,
		Voice:          cfg.Voice,
		RequestTimeout: cfg.RequestTimeout,
		MaxTokens:      cfg.MaxTokens,
		Normalize:      normalizeConfig(cfg),
	}, logger)
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return client.Close()
		},
	})
	return client
}

func ProvideProvider(cfg *Config, rt *realtime.Client, logger *slog.Logger) translate.Provider {
	if rt != nil {
		return rt
	}
	return oneshot.NewClient(oneshot.Config{
		URL:       cfg.OneshotURL,
		APIKey:    cfg.APIKey,
		Model:     cfg.Model,
		Voice:     cfg.Voice,
		Normalize: normalizeConfig(cfg),
	}, logger)
}

func ProvideCache(redisClient *redis.Client, logger *slog.Logger) translate.Cache {
	if redisClient == nil {
		return nil
	}
	return cache.NewRedisCache(redisClient, logger)
}

func ProvideUpstream(rt *realtime.Client) health.Upstream {
	if rt == nil {
		return nil
	}
	return rt
}

var InfrastructureModule = fx.Options(
	fx.Provide(
		ProvideRedisClient,
		ProvideRealtimeClient,
		ProvideProvider,
		ProvideCache,
		ProvideUpstream,
	),
)
