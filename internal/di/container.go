// Package di provides dependency injection configuration for the server.
package di

import (
	"log/slog"

	"github.com/samber/do/v2"

	"github.com/tilespeak/tilespeak-server/internal/api"
	"github.com/tilespeak/tilespeak-server/internal/auth"
	"github.com/tilespeak/tilespeak-server/internal/service"
	"github.com/tilespeak/tilespeak-server/internal/speech"
	"github.com/tilespeak/tilespeak-server/internal/storage"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, ProvideConfig)
	do.Provide(injector, ProvideLogger)
	do.Provide(injector, ProvideStore)
	do.Provide(injector, ProvideTokenService)

	// External collaborators
	do.Provide(injector, ProvideImageStore)
	do.Provide(injector, ProvideSpeechClient)

	// Business services
	do.Provide(injector, ProvideAuthService)
	do.Provide(injector, ProvideBoardService)
	do.Provide(injector, ProvideChoiceService)
	do.Provide(injector, ProvideSpeechService)

	// Server
	do.Provide(injector, ProvideHTTPServer)

	return injector
}

// Bootstrap triggers lazy initialization of every service, ending with the
// HTTP server, which starts listening in the background.
func Bootstrap(injector *do.RootScope) error {
	if _, err := do.Invoke[*slog.Logger](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*StoreHandle](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*auth.TokenService](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*storage.ImageStore](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*speech.Client](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*service.AuthService](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*service.BoardService](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*service.ChoiceService](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*service.SpeechService](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*HTTPServerHandle](injector); err != nil {
		return err
	}
	return nil
}

// ProvideAuthService provides the authentication service.
func ProvideAuthService(i do.Injector) (*service.AuthService, error) {
	return service.NewAuthService(
		do.MustInvoke[*StoreHandle](i).Store,
		do.MustInvoke[*auth.TokenService](i),
		do.MustInvoke[*slog.Logger](i),
	), nil
}

// ProvideBoardService provides the board access and mutation service.
func ProvideBoardService(i do.Injector) (*service.BoardService, error) {
	return service.NewBoardService(
		do.MustInvoke[*StoreHandle](i).Store,
		do.MustInvoke[*storage.ImageStore](i),
		do.MustInvoke[*slog.Logger](i),
	), nil
}

// ProvideChoiceService provides the shared tile catalog service.
func ProvideChoiceService(i do.Injector) (*service.ChoiceService, error) {
	return service.NewChoiceService(
		do.MustInvoke[*StoreHandle](i).Store,
		do.MustInvoke[*storage.ImageStore](i),
		do.MustInvoke[*slog.Logger](i),
	), nil
}

// ProvideSpeechService provides the text-to-speech service.
func ProvideSpeechService(i do.Injector) (*service.SpeechService, error) {
	return service.NewSpeechService(
		do.MustInvoke[*speech.Client](i),
		do.MustInvoke[*slog.Logger](i),
	), nil
}

// provideServices bundles the services for the API server.
func provideServices(i do.Injector) api.Services {
	return api.Services{
		Auth:    do.MustInvoke[*service.AuthService](i),
		Boards:  do.MustInvoke[*service.BoardService](i),
		Choices: do.MustInvoke[*service.ChoiceService](i),
		Speech:  do.MustInvoke[*service.SpeechService](i),
	}
}
