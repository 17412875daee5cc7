package bootstrap

import (
	"log/slog"
	"os"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"

	"github.com/lexiglot/translate-backend/internal/gateway"
	"github.com/lexiglot/translate-backend/internal/health"
	"github.com/lexiglot/translate-backend/internal/translate"
)

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func ProvideLogger(cfg *Config) *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	}))
}

func ProvideService(provider translate.Provider, c translate.Cache, cfg *Config, logger *slog.Logger) *translate.Service {
	return translate.NewService(provider, c, cfg.CacheTTL, logger.With("component", "translate"))
}

func ProvideGatewayHandler(service *translate.Service, logger *slog.Logger) *gateway.Handler {
	return gateway.NewHandler(service, logger)
}

func ProvideHealthHandler(upstream health.Upstream, redisClient *redis.Client, cfg *Config) *health.Handler {
	return health.NewHandler(upstream, redisClient, cfg.Version)
}

func metricsMiddleware(h *health.Handler) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			h.IncrementRequests()
			h.IncrementConnections()
			defer h.DecrementConnections()
			return next(c)
		}
	}
}

func RegisterRoutes(e *echo.Echo, gatewayHandler *gateway.Handler, healthHandler *health.Handler) {
	// The websocket handler blocks for the connection's lifetime, so the
	// connection gauge tracks live browser sockets as well as HTTP requests.
	e.Use(metricsMiddleware(healthHandler))
	e.GET("/ws", gatewayHandler.HandleWebSocket)
	healthHandler.RegisterRoutes(e)
}

var HandlersModule = fx.Options(
	fx.Provide(
		ProvideLogger,
		ProvideService,
		ProvideGatewayHandler,
		ProvideHealthHandler,
	),
	fx.Invoke(RegisterRoutes),
)
