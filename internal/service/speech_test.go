package service

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/tilespeak/tilespeak-server/internal/errors"
)

func TestSynthesize(t *testing.T) {
	synth := &fakeSynthesizer{}
	svc := NewSpeechService(synth, testLogger())

	audio, err := svc.Synthesize(context.Background(), SynthesizeRequest{Text: "I want juice"})
	require.NoError(t, err)
	defer audio.Stream.Close()

	data, err := io.ReadAll(audio.Stream)
	require.NoError(t, err)
	assert.Equal(t, "mp3-bytes", string(data))
	assert.Equal(t, "audio/mpeg", audio.ContentType)
	assert.Equal(t, "I want juice", synth.last)
}

func TestSynthesizeEmptyText(t *testing.T) {
	svc := NewSpeechService(&fakeSynthesizer{}, testLogger())

	_, err := svc.Synthesize(context.Background(), SynthesizeRequest{Text: "   "})
	assert.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))
}

func TestSynthesizeTooLong(t *testing.T) {
	svc := NewSpeechService(&fakeSynthesizer{}, testLogger())

	_, err := svc.Synthesize(context.Background(), SynthesizeRequest{
		Text: strings.Repeat("a", maxSpeechChars+1),
	})
	assert.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))
}

func TestSynthesizeUpstreamFailure(t *testing.T) {
	svc := NewSpeechService(&fakeSynthesizer{err: errUpstream}, testLogger())

	_, err := svc.Synthesize(context.Background(), SynthesizeRequest{Text: "hello"})
	assert.True(t, apperrors.IsCode(err, apperrors.CodeUpstream))
}
