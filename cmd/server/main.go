package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/genix/genix-site/internal/config"
	"github.com/genix/genix-site/internal/database"
	"github.com/genix/genix-site/internal/handler"
	"github.com/genix/genix-site/internal/metrics"
	"github.com/genix/genix-site/internal/middleware"
	"github.com/genix/genix-site/internal/redis"
	"github.com/genix/genix-site/internal/repository"
	"github.com/genix/genix-site/internal/service"
	"github.com/genix/genix-site/internal/token"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	setLogLevel(cfg.LogLevel)

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid config")
	}

	db, err := database.Connect(cfg.DatabaseURL, cfg.Pool())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), config.DBPingTimeout)
	if err := db.Ping(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to ping database")
	}
	cancel()
	log.Info().Msg("database connected")

	var loginLimiter middleware.Limiter
	if cfg.RedisURL != "" {
		redisClient, err := redis.NewClient(context.Background(), cfg.RedisURL)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to redis")
		}
		defer redisClient.Close()
		log.Info().Msg("redis connected")
		loginLimiter = service.NewRateLimiter(redisClient.Client, "admin-login")
	} else {
		log.Warn().Msg("REDIS_URL not set, login rate limit is per instance")
		loginLimiter = middleware.NewLoginRateLimiter()
	}

	codec, err := token.NewCodec(token.Config{
		Secret: cfg.JWTSecret,
		TTL:    cfg.TokenTTL,
		Issuer: config.TokenIssuer,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create token codec")
	}

	authMetrics := metrics.NewAuth(prometheus.DefaultRegisterer)

	adminRepo := repository.NewAdminRepository(db.DB)
	sessionService := service.NewSessionService(adminRepo, codec, authMetrics)

	cookies := middleware.NewCookiePolicy(cfg.IsProduction(), cfg.TokenTTL)
	gate := middleware.NewRouteGate(middleware.DefaultGateRules(), codec, cookies, authMetrics)
	loginLimit := middleware.NewIPRateLimitMiddleware(loginLimiter, cfg.LoginAttemptsPerMin, config.LoginRateWindow, "admin-login")

	r := newRouter(routerDeps{
		sessionHandler: handler.NewSessionHandler(sessionService, cookies),
		gate:           gate,
		loginLimit:     loginLimit,
		trustedProxies: middleware.NewTrustedProxies(cfg.TrustedProxies),
		metrics:        promhttp.Handler(),
		staticDir:      cfg.StaticDir,
		isProduction:   cfg.IsProduction(),
	})

	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  config.ServerReadTimeout,
		WriteTimeout: config.ServerWriteTimeout,
		IdleTimeout:  config.ServerIdleTimeout,
	}

	go func() {
		log.Info().Str("addr", cfg.Addr()).Str("env", cfg.Environment).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), config.ServerShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}

func setLogLevel(level string) {
	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}
