package tts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tahcohcat/gofigure-voice/config"
	"github.com/tahcohcat/gofigure-voice/internal/logger"
)

const modalityAudio = "AUDIO"

type GeminiTTS struct {
	apiKey     string
	model      string
	baseURL    string
	logger     *logger.Log
	httpClient *http.Client
}

type geminiRequest struct {
	Contents         []geminiContent `json:"contents"`
	GenerationConfig geminiGenConfig `json:"generationConfig"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text       string            `json:"text,omitempty"`
	InlineData *geminiInlineData `json:"inlineData,omitempty"`
}

type geminiInlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"` // base64 encoded
}

type geminiGenConfig struct {
	ResponseModalities []string            `json:"responseModalities"`
	SpeechConfig       *geminiSpeechConfig `json:"speechConfig,omitempty"`
}

type geminiSpeechConfig struct {
	VoiceConfig geminiVoiceConfig `json:"voiceConfig"`
}

type geminiVoiceConfig struct {
	PrebuiltVoiceConfig geminiPrebuiltVoice `json:"prebuiltVoiceConfig"`
}

type geminiPrebuiltVoice struct {
	VoiceName string `json:"voiceName"`
}

type geminiResponse struct {
	Candidates []struct {
		Content      geminiContent `json:"content"`
		FinishReason string        `json:"finishReason"`
	} `json:"candidates"`
	PromptFeedback *struct {
		BlockReason string `json:"blockReason"`
	} `json:"promptFeedback,omitempty"`
}

// NewGeminiTTS never fails: a missing API key surfaces as ErrConfiguration on the
// first call, before any network activity.
func NewGeminiTTS(cfg config.GeminiConfig) *GeminiTTS {
	model := cfg.Model
	if model == "" {
		model = config.DefaultGeminiModel
	}

	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = config.DefaultGeminiBaseURL
	}

	timeout := time.Duration(cfg.Timeout) * time.Second
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	return &GeminiTTS{
		apiKey:  cfg.APIKey,
		model:   model,
		baseURL: baseURL,
		logger:  logger.New(),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

func (g *GeminiTTS) Name() string {
	return "Gemini TTS (" + g.model + ")"
}

// Synthesize validates the request, renders the effective text and dispatches it.
func (g *GeminiTTS) Synthesize(ctx context.Context, req Request) (*Result, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if req.IsSSML && hasStyle(req.Style) {
		g.logger.Debug("style instructions are ignored for SSML input")
	}
	return g.Dispatch(ctx, BuildEffectiveText(req), req.VoiceName)
}

func hasStyle(s Style) bool {
	return StyleInstruction(s) != ""
}

// Dispatch sends one generateContent call asking for audio only, spoken by the
// given prebuilt voice. The returned base64 payload is not decoded or altered.
func (g *GeminiTTS) Dispatch(ctx context.Context, effectiveText, voiceName string) (*Result, error) {
	if g.apiKey == "" {
		return nil, fmt.Errorf("%w: Gemini API key is not set", ErrConfiguration)
	}

	body, err := json.Marshal(geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: effectiveText}}}},
		GenerationConfig: geminiGenConfig{
			ResponseModalities: []string{modalityAudio},
			SpeechConfig: &geminiSpeechConfig{
				VoiceConfig: geminiVoiceConfig{
					PrebuiltVoiceConfig: geminiPrebuiltVoice{VoiceName: voiceName},
				},
			},
		},
	})
	if err != nil {
		return nil, g.fail(ctx, err, "failed to marshal request")
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", g.baseURL, g.model)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, g.fail(ctx, err, "failed to create request")
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", g.apiKey)

	g.logger.WithField("voice", voiceName).WithField("model", g.model).
		Debug(fmt.Sprintf("Requesting Gemini speech for %d characters", len(effectiveText)))

	resp, err := g.httpClient.Do(httpReq)
	if err != nil {
		return nil, g.fail(ctx, err, "request to Gemini failed")
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, g.fail(ctx, err, "failed to read Gemini response")
	}

	if resp.StatusCode != http.StatusOK {
		return nil, g.classifyStatus(resp.StatusCode, respBody)
	}

	var geminiResp geminiResponse
	if err := json.Unmarshal(respBody, &geminiResp); err != nil {
		return nil, g.fail(ctx, err, "failed to decode Gemini response")
	}

	if data := firstInlineData(geminiResp); data != nil && data.Data != "" {
		g.logger.Debug(fmt.Sprintf("Received %d base64 characters of %s audio", len(data.Data), data.MimeType))
		return &Result{AudioBase64: data.Data, MimeType: data.MimeType}, nil
	}

	l := g.logger
	if geminiResp.PromptFeedback != nil && geminiResp.PromptFeedback.BlockReason != "" {
		l = l.WithField("block_reason", geminiResp.PromptFeedback.BlockReason)
	}
	if len(geminiResp.Candidates) > 0 && geminiResp.Candidates[0].FinishReason != "" {
		l = l.WithField("finish_reason", geminiResp.Candidates[0].FinishReason)
	}
	l.Warn("Gemini returned no audio data")

	return nil, fmt.Errorf("%w: no audio data received from API, the model may have deemed the input unsafe", ErrSynthesis)
}

func firstInlineData(resp geminiResponse) *geminiInlineData {
	if len(resp.Candidates) == 0 {
		return nil
	}
	parts := resp.Candidates[0].Content.Parts
	if len(parts) == 0 {
		return nil
	}
	return parts[0].InlineData
}

// classifyStatus logs the vendor's error body and maps the status onto the error taxonomy.
func (g *GeminiTTS) classifyStatus(status int, body []byte) error {
	var envelope errorResponse
	var detail error = fmt.Errorf("status %d: %s", status, strings.TrimSpace(string(body)))
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error != nil {
		detail = envelope.Error
	}
	g.logger.WithError(detail).Error("Gemini rejected speech request")

	if status == http.StatusBadRequest {
		return fmt.Errorf("%w: please check your input text (and SSML markup) and try again", ErrInvalidRequest)
	}
	return fmt.Errorf("%w: please check your input and API configuration", ErrSynthesis)
}

func (g *GeminiTTS) fail(ctx context.Context, err error, msg string) error {
	g.logger.WithError(err).Error(msg)
	return synthesisFailure(ctx)
}

// synthesisFailure keeps a cancelled or expired context visible to callers.
func synthesisFailure(ctx context.Context) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("%w: request did not complete in time: %w", ErrSynthesis, ctxErr)
	}
	return fmt.Errorf("%w: please check your input and API configuration", ErrSynthesis)
}
