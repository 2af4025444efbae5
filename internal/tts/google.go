package tts

import (
	"context"
	"encoding/base64"
	"fmt"
	"math"
	"strings"

	texttospeech "cloud.google.com/go/texttospeech/apiv1"
	"cloud.google.com/go/texttospeech/apiv1/texttospeechpb"
	"github.com/googleapis/gax-go/v2"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/tahcohcat/gofigure-voice/config"
	"github.com/tahcohcat/gofigure-voice/internal/logger"
)

// Cloud TTS accepts pitch in semitones and speaking rate as a multiplier.
const (
	minPitchSemitones = -20.0
	maxPitchSemitones = 20.0
	minSpeakingRate   = 0.25
	maxSpeakingRate   = 4.0
)

// speechClient is the slice of *texttospeech.Client that GoogleTTS uses.
type speechClient interface {
	SynthesizeSpeech(ctx context.Context, req *texttospeechpb.SynthesizeSpeechRequest, opts ...gax.CallOption) (*texttospeechpb.SynthesizeSpeechResponse, error)
	Close() error
}

type GoogleTTS struct {
	client speechClient
	logger *logger.Log
}

func NewGoogleTTS(ctx context.Context, cfg config.GoogleConfig) (*GoogleTTS, error) {
	var opts []option.ClientOption
	switch {
	case cfg.APIKey != "":
		opts = append(opts, option.WithAPIKey(cfg.APIKey))
	case cfg.CredentialsFile != "":
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	default:
		return nil, fmt.Errorf("%w: google tts needs an api key or a credentials file", ErrConfiguration)
	}
	if cfg.Endpoint != "" {
		opts = append(opts, option.WithEndpoint(cfg.Endpoint))
	}

	client, err := texttospeech.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Google TTS client: %w", err)
	}

	return newGoogleTTS(client), nil
}

func newGoogleTTS(client speechClient) *GoogleTTS {
	return &GoogleTTS{client: client, logger: logger.New()}
}

func (g *GoogleTTS) Name() string {
	return "Google Cloud Text-to-Speech"
}

func (g *GoogleTTS) Close() error {
	if g.client != nil {
		return g.client.Close()
	}
	return nil
}

// Extract language code from voice name (e.g., "en-US-Chirp-HD-F" -> "en-US", "en-GB-Standard-D" -> "en-GB")
func extractLanguageCode(voiceName string) string {
	parts := strings.Split(voiceName, "-")
	if len(parts) >= 3 {
		return fmt.Sprintf("%s-%s", parts[0], parts[1])
	}
	// Fallback to en-US if we can't parse
	return "en-US"
}

func pitchSemitones(multiplier float64) float64 {
	return clamp(12*math.Log2(multiplier), minPitchSemitones, maxPitchSemitones)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func (g *GoogleTTS) buildRequest(req Request) *texttospeechpb.SynthesizeSpeechRequest {
	input := &texttospeechpb.SynthesisInput{}
	if req.IsSSML {
		input.InputSource = &texttospeechpb.SynthesisInput_Ssml{Ssml: WrapSSML(req.Text)}
	} else {
		input.InputSource = &texttospeechpb.SynthesisInput_Text{Text: req.Text}
	}

	speed, pitch := clamp(req.Style.Speed, minSpeakingRate, maxSpeakingRate), pitchSemitones(req.Style.Pitch)
	if req.IsSSML {
		// prosody belongs in the markup
		speed, pitch = 1.0, 0
	}

	languageCode := req.Language
	if languageCode == "" {
		languageCode = extractLanguageCode(req.VoiceName)
	}

	return &texttospeechpb.SynthesizeSpeechRequest{
		Input: input,
		Voice: &texttospeechpb.VoiceSelectionParams{
			LanguageCode: languageCode,
			Name:         req.VoiceName,
		},
		AudioConfig: &texttospeechpb.AudioConfig{
			AudioEncoding: texttospeechpb.AudioEncoding_MP3,
			SpeakingRate:  speed,
			Pitch:         pitch,
		},
	}
}

// Synthesize maps pitch and speed onto the audio config. Cloud voices read text
// literally, so the free-form style fields are not sent.
func (g *GoogleTTS) Synthesize(ctx context.Context, req Request) (*Result, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	s := req.Style
	if !req.IsSSML && (strings.TrimSpace(s.Tone) != "" || strings.TrimSpace(s.Intention) != "" || strings.TrimSpace(s.Characteristics) != "") {
		g.logger.Debug("tone, intention and characteristics are not supported by Google Cloud TTS, ignoring")
	}

	pbReq := g.buildRequest(req)
	g.logger.Debug(fmt.Sprintf("Generating Google TTS audio with voice: %s, language: %s",
		pbReq.Voice.Name, pbReq.Voice.LanguageCode))

	resp, err := g.client.SynthesizeSpeech(ctx, pbReq)
	if err != nil {
		g.logger.WithError(err).Error("Google TTS request failed")
		if status.Code(err) == codes.InvalidArgument {
			return nil, fmt.Errorf("%w: please check your input text (and SSML markup) and try again", ErrInvalidRequest)
		}
		return nil, synthesisFailure(ctx)
	}

	if len(resp.GetAudioContent()) == 0 {
		g.logger.Warn("empty audio content received from Google TTS")
		return nil, fmt.Errorf("%w: no audio data received from API, the input may have been rejected", ErrSynthesis)
	}

	g.logger.Debug(fmt.Sprintf("Generated %d bytes of MP3 audio", len(resp.AudioContent)))
	return &Result{
		AudioBase64: base64.StdEncoding.EncodeToString(resp.AudioContent),
		MimeType:    "audio/mpeg",
	}, nil
}
