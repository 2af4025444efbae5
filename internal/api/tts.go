package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/tahcohcat/gofigure-voice/internal/logger"
	"github.com/tahcohcat/gofigure-voice/internal/tts"
)

const defaultRequestTimeout = 30 * time.Second

type TTSHandler struct {
	ttsClient    tts.Synthesizer
	voices       *tts.VoiceCatalog // optional; nil accepts any voice name
	defaultVoice string
	timeout      time.Duration
	logger       *logger.Log
}

type Option func(*TTSHandler)

// WithVoiceCatalog makes speak requests reject voices outside the catalog.
func WithVoiceCatalog(c *tts.VoiceCatalog) Option {
	return func(th *TTSHandler) { th.voices = c }
}

func WithDefaultVoice(name string) Option {
	return func(th *TTSHandler) { th.defaultVoice = name }
}

func WithTimeout(d time.Duration) Option {
	return func(th *TTSHandler) {
		if d > 0 {
			th.timeout = d
		}
	}
}

type TTSRequest struct {
	Text                 string   `json:"text"`
	VoiceName            string   `json:"voiceName"`
	Language             string   `json:"language"`
	IsSSML               bool     `json:"isSSML"`
	VoiceTone            string   `json:"voiceTone"`
	SpeakingIntention    string   `json:"speakingIntention"`
	VoiceCharacteristics string   `json:"voiceCharacteristics"`
	Pitch                *float64 `json:"pitch,omitempty"`
	Speed                *float64 `json:"speed,omitempty"`
}

type TTSResponse struct {
	RequestID   string `json:"requestId"`
	AudioBase64 string `json:"audioBase64"`
	MimeType    string `json:"mimeType,omitempty"`
}

type PreviewResponse struct {
	EffectiveText string `json:"effectiveText"`
}

type ErrorResponse struct {
	RequestID string `json:"requestId,omitempty"`
	Error     string `json:"error"`
}

func NewTTSHandler(ttsClient tts.Synthesizer, opts ...Option) *TTSHandler {
	th := &TTSHandler{
		ttsClient: ttsClient,
		timeout:   defaultRequestTimeout,
		logger:    logger.New(),
	}
	for _, opt := range opts {
		opt(th)
	}
	return th
}

// toRequest fills defaults and checks the voice against the catalog, if any.
func (th *TTSHandler) toRequest(req TTSRequest) (tts.Request, error) {
	style := tts.DefaultStyle()
	style.Tone = req.VoiceTone
	style.Intention = req.SpeakingIntention
	style.Characteristics = req.VoiceCharacteristics
	if req.Pitch != nil {
		style.Pitch = *req.Pitch
	}
	if req.Speed != nil {
		style.Speed = *req.Speed
	}

	voice := req.VoiceName
	if voice == "" {
		voice = th.defaultVoice
	}
	if th.voices != nil {
		v, ok := th.voices.Lookup(voice)
		if !ok {
			msg := fmt.Sprintf("unknown voice %q", voice)
			if s := th.voices.Suggest(voice); s != "" {
				msg += fmt.Sprintf(", did you mean %q?", s)
			}
			return tts.Request{}, fmt.Errorf("%w: %s", tts.ErrInvalidRequest, msg)
		}
		voice = v.Name
	}

	out := tts.Request{
		Text:      req.Text,
		VoiceName: voice,
		Language:  req.Language,
		IsSSML:    req.IsSSML,
		Style:     style,
	}
	if err := out.Validate(); err != nil {
		return tts.Request{}, err
	}
	return out, nil
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, tts.ErrInvalidRequest):
		return http.StatusBadRequest
	case errors.Is(err, tts.ErrConfiguration):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusBadGateway
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// speak runs one synthesis and returns the status code with the body to send.
func (th *TTSHandler) speak(ctx context.Context, req TTSRequest) (int, any) {
	requestID := uuid.NewString()
	l := th.logger.WithField("request_id", requestID)

	synthReq, err := th.toRequest(req)
	if err != nil {
		return statusFor(err), ErrorResponse{RequestID: requestID, Error: err.Error()}
	}

	ctx, cancel := context.WithTimeout(ctx, th.timeout)
	defer cancel()

	start := time.Now()
	res, err := th.ttsClient.Synthesize(ctx, synthReq)
	if err != nil {
		l.WithError(err).Warn("speak request failed")
		return statusFor(err), ErrorResponse{RequestID: requestID, Error: err.Error()}
	}

	l.WithField("voice", synthReq.VoiceName).
		Info(fmt.Sprintf("synthesized speech via %s in %s", th.ttsClient.Name(), time.Since(start).Round(time.Millisecond)))

	return http.StatusOK, TTSResponse{
		RequestID:   requestID,
		AudioBase64: res.AudioBase64,
		MimeType:    res.MimeType,
	}
}

// POST /api/v1/tts/speak - Generate speech, returned as base64 audio
func (th *TTSHandler) SpeakText(w http.ResponseWriter, r *http.Request) {
	var req TTSRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	status, body := th.speak(r.Context(), req)
	writeJSON(w, status, body)
}

// POST /api/v1/tts/preview - Show the exact text that would be sent, without synthesizing
func (th *TTSHandler) Preview(w http.ResponseWriter, r *http.Request) {
	var req TTSRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	synthReq, err := th.toRequest(req)
	if err != nil {
		writeJSON(w, statusFor(err), ErrorResponse{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, PreviewResponse{EffectiveText: tts.BuildEffectiveText(synthReq)})
}

// GET /api/v1/tts/voices - List the prebuilt voices
func (th *TTSHandler) ListVoices(w http.ResponseWriter, _ *http.Request) {
	if th.voices == nil {
		writeJSON(w, http.StatusOK, []tts.Voice{})
		return
	}
	writeJSON(w, http.StatusOK, th.voices.Voices())
}

// HandleMessage serves a speak request arriving as a raw JSON message (websocket).
func (th *TTSHandler) HandleMessage(ctx context.Context, msg []byte) []byte {
	var req TTSRequest
	var body any
	if err := json.Unmarshal(msg, &req); err != nil {
		body = ErrorResponse{Error: "invalid request body"}
	} else {
		_, body = th.speak(ctx, req)
	}

	out, err := json.Marshal(body)
	if err != nil {
		th.logger.WithError(err).Error("failed to encode websocket reply")
		return []byte(`{"error":"internal error"}`)
	}
	return out
}

func RegisterTTSRoutes(r *mux.Router, th *TTSHandler) {
	r.HandleFunc("/tts/speak", th.SpeakText).Methods("POST")
	r.HandleFunc("/tts/preview", th.Preview).Methods("POST")
	r.HandleFunc("/tts/voices", th.ListVoices).Methods("GET")
}
