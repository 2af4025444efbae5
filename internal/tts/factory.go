package tts

import (
	"context"
	"fmt"
	"strings"

	"github.com/tahcohcat/gofigure-voice/config"
)

type Provider string

const (
	ProviderGemini Provider = "gemini"
	ProviderGoogle Provider = "google"
	ProviderDummy  Provider = "dummy"
)

// DefaultVoice returns the voice used when a request names none. tts.default_voice
// wins when set, otherwise the selected provider's own default applies.
func DefaultVoice(cfg *config.Config) string {
	if cfg.Tts.DefaultVoice != "" {
		return cfg.Tts.DefaultVoice
	}
	if Provider(strings.ToLower(cfg.Tts.Type)) == ProviderGoogle {
		return cfg.Google.DefaultVoice
	}
	return cfg.Gemini.DefaultVoice
}

// NewSynthesizer creates the backend selected by the configuration
func NewSynthesizer(ctx context.Context, cfg *config.Config) (Synthesizer, error) {
	if !cfg.Tts.Enabled {
		return NewDummyTts(), nil
	}

	switch Provider(strings.ToLower(cfg.Tts.Type)) {
	case ProviderGemini, "":
		return NewGeminiTTS(cfg.Gemini), nil
	case ProviderGoogle:
		g, err := NewGoogleTTS(ctx, cfg.Google)
		if err != nil {
			return nil, err
		}
		return g, nil
	case ProviderDummy:
		return NewDummyTts(), nil
	default:
		return nil, fmt.Errorf("%w: unsupported TTS provider: %s", ErrConfiguration, cfg.Tts.Type)
	}
}
