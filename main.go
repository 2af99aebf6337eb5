package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"collegedir/cache"
	"collegedir/config"
	"collegedir/database"
	"collegedir/events"
	"collegedir/forms"
	"collegedir/handlers"
	"collegedir/logger"
	"collegedir/repository"
	"collegedir/routes"
	"collegedir/service"
	"collegedir/validation"
)

const version = "1.0.0"

func main() {
	// Load environment variables
	envErr := godotenv.Load()

	cfg, err := config.Load()
	logger.Init(os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FORMAT"))
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	logger.Init(cfg.LogLevel, cfg.LogFormat)
	if envErr != nil {
		log.Debug().Msg("no .env file loaded")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	store, err := database.Connect(ctx, cfg)
	cancel()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}

	registry, err := forms.NewRegistry(cfg.Forms)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid form definitions")
	}

	listingCache := openCache(cfg)
	publisher := openPublisher(cfg)

	directory := service.NewDirectoryService(
		repository.NewInstitutionRepository(store.Institutions(), cfg.StoreTimeout),
		listingCache, cfg.CacheTTL, cfg.ShowcaseIDs,
	)
	leads := service.NewLeadService(
		repository.NewLeadRepository(store.Database(), cfg.StoreTimeout),
		registry, validation.New(), publisher,
	)

	router := routes.NewRouter(routes.Dependencies{
		Colleges:    handlers.NewCollegeHandler(directory),
		Leads:       handlers.NewLeadHandler(leads),
		Health:      handlers.NewHealthHandler(store, version),
		Forms:       registry,
		Store:       store,
		CORSOrigins: cfg.CORSOrigins,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Int("forms", len(registry.All())).Msg("college directory API listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	<-quit
	log.Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced shutdown")
	}
	if err := publisher.Close(); err != nil {
		log.Warn().Err(err).Msg("closing event publisher")
	}
	if err := listingCache.Close(); err != nil {
		log.Warn().Err(err).Msg("closing cache")
	}
	store.Disconnect(shutdownCtx)
	log.Info().Msg("server stopped")
}

// openCache falls back to no caching when Redis is unset or unreachable.
func openCache(cfg *config.Config) cache.Cache {
	if cfg.RedisURL == "" {
		return cache.Noop{}
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	c, err := cache.NewRedisCache(ctx, cfg.RedisURL)
	if err != nil {
		log.Warn().Err(err).Msg("redis unavailable, listing cache disabled")
		return cache.Noop{}
	}
	log.Info().Dur("ttl", cfg.CacheTTL).Msg("listing cache enabled")
	return c
}

func openPublisher(cfg *config.Config) events.Publisher {
	if cfg.RabbitURI == "" {
		return events.Noop{}
	}
	p, err := events.NewAMQPPublisher(cfg.RabbitURI, cfg.RabbitExchange)
	if err != nil {
		log.Warn().Err(err).Msg("rabbitmq unavailable, lead events disabled")
		return events.Noop{}
	}
	log.Info().Str("exchange", cfg.RabbitExchange).Msg("lead events enabled")
	return p
}
