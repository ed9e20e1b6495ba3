package di

import (
	"context"
	"log/slog"
	"time"

	"github.com/samber/do/v2"

	"github.com/tilespeak/tilespeak-server/internal/api"
	"github.com/tilespeak/tilespeak-server/internal/auth"
	"github.com/tilespeak/tilespeak-server/internal/config"
	"github.com/tilespeak/tilespeak-server/internal/logger"
	"github.com/tilespeak/tilespeak-server/internal/speech"
	"github.com/tilespeak/tilespeak-server/internal/storage"
	"github.com/tilespeak/tilespeak-server/internal/store"
)

const shutdownTimeout = 10 * time.Second

// ProvideConfig loads the application configuration.
func ProvideConfig(i do.Injector) (*config.Config, error) {
	return config.Load()
}

// ProvideLogger provides the structured logger.
func ProvideLogger(i do.Injector) (*slog.Logger, error) {
	cfg := do.MustInvoke[*config.Config](i)
	return logger.New(cfg.App.Environment, cfg.App.LogLevel), nil
}

// StoreHandle wraps the store with shutdown capability.
type StoreHandle struct {
	*store.Store
}

// Shutdown implements do.Shutdownable.
func (h *StoreHandle) Shutdown() error {
	return h.Close()
}

// ProvideStore provides the database store.
func ProvideStore(i do.Injector) (*StoreHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*slog.Logger](i)

	s, err := store.New(cfg.Data.Dir, log)
	if err != nil {
		return nil, err
	}
	return &StoreHandle{Store: s}, nil
}

// ProvideTokenService provides the session token service, generating the
// signing key on first run.
func ProvideTokenService(i do.Injector) (*auth.TokenService, error) {
	cfg := do.MustInvoke[*config.Config](i)

	key, err := auth.LoadOrGenerateKey(cfg.Auth.KeyPath)
	if err != nil {
		return nil, err
	}
	return auth.NewTokenService(key, cfg.Auth.SessionDuration)
}

// ProvideImageStore provides the S3-backed tile image store.
func ProvideImageStore(i do.Injector) (*storage.ImageStore, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*slog.Logger](i)
	return storage.NewImageStore(context.Background(), cfg.ObjectStore, log)
}

// ProvideSpeechClient provides the Polly speech synthesis client.
func ProvideSpeechClient(i do.Injector) (*speech.Client, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*slog.Logger](i)
	return speech.NewClient(context.Background(), cfg.Speech, log)
}

// HTTPServerHandle wraps the API server with Shutdownable.
type HTTPServerHandle struct {
	server *api.Server
}

// Shutdown implements do.Shutdownable.
func (h *HTTPServerHandle) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return h.server.Shutdown(ctx)
}

// ProvideHTTPServer provides the API server and starts it in the background.
func ProvideHTTPServer(i do.Injector) (*HTTPServerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*slog.Logger](i)

	server := api.NewServer(cfg, provideServices(i), do.MustInvoke[*auth.TokenService](i), log)

	go func() {
		if err := server.Start(); err != nil {
			log.Error("server stopped", "error", err)
		}
	}()

	return &HTTPServerHandle{server: server}, nil
}
