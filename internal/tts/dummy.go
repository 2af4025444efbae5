package tts

import (
	"context"
	"fmt"

	"github.com/tahcohcat/gofigure-voice/internal/logger"
)

// DummyTts stands in when synthesis is disabled. Every call fails with ErrConfiguration.
type DummyTts struct {
}

func NewDummyTts() *DummyTts {
	return &DummyTts{}
}

func (d *DummyTts) Synthesize(_ context.Context, _ Request) (*Result, error) {
	logger.New().Debug("no tts configured. rejecting TTS request")
	return nil, fmt.Errorf("%w: no tts backend configured", ErrConfiguration)
}

func (d *DummyTts) Name() string {
	return "dummy"
}
