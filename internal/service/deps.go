package service

import (
	"context"
	"io"

	"github.com/tilespeak/tilespeak-server/internal/speech"
)

// ImageStore is the object store surface the services depend on. Satisfied
// by storage.ImageStore; tests substitute fakes.
type ImageStore interface {
	Upload(ctx context.Context, key, contentType string, body io.Reader) error
	SignedURL(ctx context.Context, key string) (string, error)
}

// Synthesizer converts text to audio. Satisfied by speech.Client.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) (*speech.Audio, error)
}
