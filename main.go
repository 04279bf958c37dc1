package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	enginex "github.com/voxdesk/voxdesk/engine"
	contractx "github.com/voxdesk/voxdesk/engine/contract"
	executorx "github.com/voxdesk/voxdesk/engine/executor"
	resolverx "github.com/voxdesk/voxdesk/engine/resolver"
	sessionx "github.com/voxdesk/voxdesk/engine/session"
	configx "github.com/voxdesk/voxdesk/pkg/config"
	llmx "github.com/voxdesk/voxdesk/pkg/llm"
	logx "github.com/voxdesk/voxdesk/pkg/logger"
	serverx "github.com/voxdesk/voxdesk/server"
	storagex "github.com/voxdesk/voxdesk/storage"
	"github.com/voxdesk/voxdesk/storage/memstore"
	"github.com/voxdesk/voxdesk/storage/postgres"
)

type AppConfig struct {
	StoreBackend   string        `envconfig:"STORE_BACKEND" split_words:"true" default:"postgres"`
	SessionBackend string        `envconfig:"SESSION_BACKEND" split_words:"true" default:"memory"`
	SessionTTL     time.Duration `envconfig:"SESSION_TTL" split_words:"true" default:"24h"`
	SeedDemoData   bool          `envconfig:"SEED_DEMO_DATA" split_words:"true" default:"true"`
}

// dataStore is everything a storage backend provides to the engine and the
// admin surface.
type dataStore interface {
	contractx.InventoryLedger
	contractx.SchedulingLedger
	contractx.OrderStore
	contractx.ProductStore
	contractx.AppointmentStore
}

func main() {
	logx.Init(*configx.MustNew[logx.Config]("LOG"))

	appCfg := configx.MustNew[AppConfig]("")
	ctx := context.Background()

	store := mustStore(ctx, appCfg.StoreBackend)
	if appCfg.SeedDemoData {
		if err := storagex.Seed(ctx, store, store); err != nil {
			log.Fatal().Err(err).Msg("seed catalog")
		}
	}

	llmCfg := configx.MustNew[llmx.Config]("LLM")
	client, err := llmx.NewClient(*llmCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("init llm client")
	}

	resolver, err := resolverx.New(client, store, llmCfg.Model, llmCfg.Timeout)
	if err != nil {
		log.Fatal().Err(err).Msg("init intent resolver")
	}
	executor, err := executorx.New(store, store, store)
	if err != nil {
		log.Fatal().Err(err).Msg("init transaction executor")
	}

	engine, err := enginex.New(resolver, executor, mustSessionStore(appCfg))
	if err != nil {
		log.Fatal().Err(err).Msg("init engine")
	}

	srvCfg := configx.MustNew[serverx.Config]("HTTP")
	srv := &http.Server{
		Addr:    srvCfg.Addr,
		Handler: serverx.New(engine, store, store, store, store).Router(*srvCfg),
	}

	go func() {
		log.Info().Str("addr", srvCfg.Addr).Msg("http listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http listen")
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}

func mustStore(ctx context.Context, backend string) dataStore {
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case "memory":
		log.Warn().Msg("using in-memory store, data will not survive restarts")
		return memstore.New()
	case "", "postgres":
		pgCfg := configx.MustNew[postgres.Config]("POSTGRES")
		store, err := postgres.Connect(ctx, *pgCfg)
		if err != nil {
			log.Fatal().Err(err).Msg("connect postgres")
		}
		if err := store.EnsureSchema(ctx); err != nil {
			log.Fatal().Err(err).Msg("ensure schema")
		}
		return store
	default:
		log.Fatal().Str("backend", backend).Msg("unknown store backend")
		return nil
	}
}

func mustSessionStore(cfg *AppConfig) sessionx.Store {
	switch strings.ToLower(strings.TrimSpace(cfg.SessionBackend)) {
	case "redis":
		redisCfg := configx.MustNew[sessionx.RedisConfig]("SESSION_REDIS")
		store, err := sessionx.NewRedisStore(*redisCfg, sessionx.WithTTL(cfg.SessionTTL))
		if err != nil {
			log.Fatal().Err(err).Msg("init redis session store")
		}
		return store
	default:
		return sessionx.NewMemoryStore(cfg.SessionTTL)
	}
}
