package service

import (
	"context"
	"log/slog"
	"strings"

	apperrors "github.com/tilespeak/tilespeak-server/internal/errors"
	"github.com/tilespeak/tilespeak-server/internal/speech"
)

// Polly rejects plain text over 3000 billed characters.
const maxSpeechChars = 3000

// SpeechService turns composed sentences into audio.
type SpeechService struct {
	synth  Synthesizer
	logger *slog.Logger
}

// NewSpeechService creates a SpeechService.
func NewSpeechService(synth Synthesizer, logger *slog.Logger) *SpeechService {
	return &SpeechService{synth: synth, logger: logger}
}

// SynthesizeRequest is the payload for text-to-speech.
type SynthesizeRequest struct {
	Text string `json:"text" validate:"required"`
}

// Synthesize converts the text to an MP3 stream. The caller must close the
// returned stream.
func (s *SpeechService) Synthesize(ctx context.Context, req SynthesizeRequest) (*speech.Audio, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Text) == "" {
		return nil, apperrors.InvalidInput("text is required")
	}
	if len(req.Text) > maxSpeechChars {
		return nil, apperrors.InvalidInput("text is too long")
	}

	audio, err := s.synth.Synthesize(ctx, req.Text)
	if err != nil {
		return nil, apperrors.Upstream(err, "synthesizing speech")
	}
	return audio, nil
}
