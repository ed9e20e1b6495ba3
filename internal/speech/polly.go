// Package speech converts phrases to audio using Amazon Polly.
package speech

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/polly"
	"github.com/aws/aws-sdk-go-v2/service/polly/types"

	"github.com/tilespeak/tilespeak-server/internal/config"
)

// Audio is a synthesized speech clip.
type Audio struct {
	Stream      io.ReadCloser
	ContentType string
}

// Client synthesizes speech with Amazon Polly.
type Client struct {
	polly  *polly.Client
	voice  string
	logger *slog.Logger
}

// NewClient creates a Polly client from the speech configuration. Static
// credentials, when set, override the default provider chain so the speech
// service can run under its own key pair.
func NewClient(ctx context.Context, cfg config.SpeechConfig, logger *slog.Logger) (*Client, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("loading speech config: %w", err)
	}
	return &Client{
		polly:  polly.NewFromConfig(awsCfg),
		voice:  cfg.Voice,
		logger: logger,
	}, nil
}

// Synthesize converts text to an MP3 audio stream. The caller must close
// the returned stream.
func (c *Client) Synthesize(ctx context.Context, text string) (*Audio, error) {
	out, err := c.polly.SynthesizeSpeech(ctx, &polly.SynthesizeSpeechInput{
		OutputFormat: types.OutputFormatMp3,
		Text:         aws.String(text),
		VoiceId:      types.VoiceId(c.voice),
	})
	if err != nil {
		return nil, fmt.Errorf("synthesizing speech: %w", err)
	}

	contentType := "audio/mpeg"
	if out.ContentType != nil {
		contentType = *out.ContentType
	}
	c.logger.Info("speech synthesized", "chars", len(text), "voice", c.voice)
	return &Audio{Stream: out.AudioStream, ContentType: contentType}, nil
}
