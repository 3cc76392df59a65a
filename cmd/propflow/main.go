package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/plugbts/propflow/internal/cache"
	"github.com/plugbts/propflow/internal/config"
	"github.com/plugbts/propflow/internal/db"
	"github.com/plugbts/propflow/internal/handlers"
	"github.com/plugbts/propflow/internal/identity"
	"github.com/plugbts/propflow/internal/metrics"
	"github.com/plugbts/propflow/internal/pipeline"
	"github.com/plugbts/propflow/internal/props"
	"github.com/plugbts/propflow/internal/provider"
	"github.com/plugbts/propflow/internal/ratelimit"
	"github.com/plugbts/propflow/internal/registry"
	"github.com/plugbts/propflow/internal/store"
	"github.com/plugbts/propflow/sports/basketball_nba"
	"github.com/plugbts/propflow/sports/football_nfl"
)

func main() {
	fmt.Println("=== Propflow Odds Ingestion Service v0 ===")

	// Load .env for local development; real deployments set env directly
	_ = godotenv.Load()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		fmt.Printf("❌ Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	// Connect to Postgres
	dbClient, err := db.NewClient(cfg.DatabaseURL)
	if err != nil {
		fmt.Printf("❌ Failed to connect to Postgres: %v\n", err)
		os.Exit(1)
	}
	defer dbClient.Close()
	fmt.Println("✓ Connected to Postgres")

	// Connect to Redis
	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		fmt.Printf("❌ Failed to parse Redis URL: %v\n", err)
		os.Exit(1)
	}
	redisClient := redis.NewClient(redisOpts)
	defer redisClient.Close()

	ctx := context.Background()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		fmt.Printf("❌ Failed to connect to Redis: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("✓ Connected to Redis")

	// Stores
	rosterStore := db.NewRosterStore(dbClient.DB())
	missingStore := db.NewMissingPlayerStore(dbClient.DB())
	propStore := db.NewPropStore(dbClient.DB())
	rateStore := db.NewRateWindowStore(dbClient.DB())

	// League registry
	leagues := registry.NewLeagueRegistry()
	if err := leagues.Register(football_nfl.NewProfile()); err != nil {
		fmt.Printf("❌ Failed to register NFL profile: %v\n", err)
		os.Exit(1)
	}
	if err := leagues.Register(basketball_nba.NewProfile()); err != nil {
		fmt.Printf("❌ Failed to register NBA profile: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("✓ Registered %d league profiles\n", leagues.Count())

	// Pipeline
	client := provider.NewClient(cfg.ProviderBaseURL, cfg.ProviderAPIKey, cfg.ProviderRPM)
	fetcher := provider.NewEventFetcher(client)
	resolver := identity.NewResolver(rosterStore, missingStore, identity.DefaultTTL)
	assembler := props.NewAssembler(resolver)
	writer := store.NewBatchWriter(propStore, store.DefaultChunkSize)
	collector := metrics.NewCollector()
	pipe := pipeline.NewPipeline(fetcher, assembler, writer, leagues, collector)

	// Serving layer
	edgeCache := cache.NewEdgeCache(redisClient, cfg.CacheTTL)
	limiter := ratelimit.NewLimiter(rateStore, cfg.RateLimitPerMinute)
	handler := handlers.NewHandler(pipe, edgeCache, limiter, collector, missingStore,
		cfg.PurgeSecret, dbClient, redisPinger{redisClient})

	// Router
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(30 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-API-Key"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/health", handler.HealthCheck)
	r.Get("/metrics", handler.GetMetrics)
	r.Post("/ingest", handler.Ingest)

	r.Route("/api", func(r chi.Router) {
		r.Get("/{league}/player-props", handler.GetPlayerProps)
		r.Post("/cache/purge", handler.PurgeCache)
		r.Get("/missing-players", handler.GetMissingPlayers)
	})

	// Scheduler
	schedCtx, cancelSched := context.WithCancel(ctx)
	defer cancelSched()
	scheduler := pipeline.NewScheduler(pipe, cfg.IngestLeagues, cfg.IngestInterval, rateStore)
	go scheduler.Start(schedCtx)

	// Start server
	srv := &http.Server{
		Addr:         cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		fmt.Printf("✓ Propflow listening on %s\n", cfg.Port)
		fmt.Println("  Endpoints:")
		fmt.Println("    GET  /health")
		fmt.Println("    GET  /metrics")
		fmt.Println("    POST /ingest")
		fmt.Println("    GET  /api/{league}/player-props")
		fmt.Println("    POST /api/cache/purge")
		fmt.Println("    GET  /api/missing-players")

		serverErrors <- srv.ListenAndServe()
	}()

	// Wait for interrupt signal
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		fmt.Printf("❌ Server error: %v\n", err)
		os.Exit(1)

	case sig := <-shutdown:
		fmt.Printf("\n⚠️  Received signal: %v\n", sig)
		cancelSched()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			fmt.Printf("⚠️  Graceful shutdown failed: %v\n", err)
			if err := srv.Close(); err != nil {
				fmt.Printf("❌ Could not stop server: %v\n", err)
			}
		}
	}

	fmt.Println("✓ Shutdown complete")
}

// redisPinger adapts the Redis client to the handler's health Pinger
type redisPinger struct {
	client *redis.Client
}

func (p redisPinger) Ping(ctx context.Context) error {
	return p.client.Ping(ctx).Err()
}
