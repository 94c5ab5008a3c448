// Command server runs the rigsheet catalog API.
//
// Configuration is layered: built-in defaults, a YAML config file
// (-config flag, RIGSHEET_CONFIG, ./config.yaml, /etc/rigsheet/config.yaml),
// then RIGSHEET_* environment overrides. See pkg/config for the full
// surface.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/crypto/bcrypt"

	"github.com/jameswoodtech/rigsheet/pkg/api"
	"github.com/jameswoodtech/rigsheet/pkg/auth"
	"github.com/jameswoodtech/rigsheet/pkg/auth/token"
	"github.com/jameswoodtech/rigsheet/pkg/config"
	"github.com/jameswoodtech/rigsheet/pkg/observability"
	"github.com/jameswoodtech/rigsheet/pkg/storage"
	"github.com/jameswoodtech/rigsheet/pkg/storage/memory"
	"github.com/jameswoodtech/rigsheet/pkg/storage/postgres"
	"github.com/jameswoodtech/rigsheet/pkg/transport"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "path to YAML config file")
	flag.Parse()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	ctx := context.Background()

	store, err := newStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("creating store: %w", err)
	}
	defer store.Close()
	slog.Info("storage ready", "type", cfg.Storage.Type)

	secret, devFallback := cfg.Auth.SecretBytes()
	if devFallback {
		slog.Warn("no token secret configured, using insecure development secret; set RIGSHEET_TOKEN_SECRET for production")
	}
	codec, err := token.NewCodec(secret)
	if err != nil {
		return fmt.Errorf("creating token codec: %w", err)
	}

	if err := seedAdmin(ctx, store, cfg.Seed); err != nil {
		return fmt.Errorf("seeding admin profile: %w", err)
	}

	var limiter *auth.LoginLimiter
	if cfg.Auth.LoginMaxFails > 0 {
		limiter = auth.NewLoginLimiter(cfg.Auth.LoginMaxFails, cfg.Auth.LoginWindow)
	}
	login := auth.NewLoginService(store, codec, cfg.Auth.TokenTTL, limiter)

	adapter := transport.NewAdapter(store, login, transport.DefaultConfig())

	mux := http.NewServeMux()
	mux.Handle("/", adapter.Handler())
	if cfg.Observability.Metrics.Enabled {
		mux.Handle("GET "+cfg.Observability.Metrics.Path, promhttp.Handler())
	}

	handler := transport.Chain(
		transport.Recovery(slog.Default()),
		transport.RequestID,
		transport.Logging(slog.Default()),
		observability.MetricsMiddleware,
		auth.Gate(codec, store),
		auth.Policy(auth.DefaultRules),
	)(mux)

	srv := transport.NewServer(handler, transport.ServerConfig{
		Addr:            ":" + strconv.Itoa(cfg.Server.Port),
		ReadTimeout:     cfg.Server.ReadTimeout,
		WriteTimeout:    cfg.Server.WriteTimeout,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
		Logger:          slog.Default(),
	})

	return srv.ListenAndServe()
}

// newStore selects the storage backend from configuration.
func newStore(ctx context.Context, cfg *config.Config) (storage.Store, error) {
	switch cfg.Storage.Type {
	case "postgres":
		return postgres.New(ctx, postgres.Config{
			DSN:            cfg.Storage.Postgres.DSN,
			MaxConns:       cfg.Storage.Postgres.MaxConns,
			MigrateOnStart: cfg.Storage.Postgres.MigrateOnStart,
		})
	default:
		return memory.New(), nil
	}
}

// seedAdmin creates the bootstrap admin profile when configured and not
// already present.
func seedAdmin(ctx context.Context, store storage.Store, seed config.SeedConfig) error {
	if seed.AdminUsername == "" {
		return nil
	}

	_, err := store.GetProfileByUsername(ctx, seed.AdminUsername)
	if err == nil {
		return nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(seed.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	_, err = store.SaveProfile(ctx, &api.Profile{
		Username:     seed.AdminUsername,
		DisplayName:  seed.AdminUsername,
		PasswordHash: string(hash),
		Roles:        api.RoleUser + ",ROLE_ADMIN",
	})
	if err != nil {
		return err
	}

	slog.Info("seeded admin profile", "username", seed.AdminUsername)
	return nil
}
