package tts

import (
	"context"
	"fmt"
	"math"
	"strings"
)

// Style carries the optional voice direction. Pitch and Speed are multipliers
// around a neutral 1.0.
type Style struct {
	Tone            string  `json:"voiceTone"`
	Intention       string  `json:"speakingIntention"`
	Characteristics string  `json:"voiceCharacteristics"`
	Pitch           float64 `json:"pitch"`
	Speed           float64 `json:"speed"`
}

// DefaultStyle is a neutral style: no clauses, pitch and speed at 1.0.
func DefaultStyle() Style {
	return Style{Pitch: 1.0, Speed: 1.0}
}

// Request is a single synthesis call. It does not outlive the call.
type Request struct {
	Text      string
	VoiceName string
	Language  string
	IsSSML    bool
	Style     Style
}

func (r Request) Validate() error {
	if strings.TrimSpace(r.Text) == "" {
		return fmt.Errorf("%w: text cannot be empty", ErrInvalidRequest)
	}
	if r.IsSSML {
		// style is ignored for SSML
		return nil
	}
	if !positiveMultiplier(r.Style.Pitch) {
		return fmt.Errorf("%w: pitch must be a positive multiplier, got %v", ErrInvalidRequest, r.Style.Pitch)
	}
	if !positiveMultiplier(r.Style.Speed) {
		return fmt.Errorf("%w: speed must be a positive multiplier, got %v", ErrInvalidRequest, r.Style.Speed)
	}
	return nil
}

func positiveMultiplier(v float64) bool {
	return v > 0 && !math.IsInf(v, 1)
}

// Result holds the audio exactly as the backend returned it.
type Result struct {
	AudioBase64 string `json:"audioBase64"`
	MimeType    string `json:"mimeType,omitempty"`
}

type Synthesizer interface {
	Synthesize(ctx context.Context, req Request) (*Result, error)
	Name() string
}
