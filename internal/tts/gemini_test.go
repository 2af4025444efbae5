package tts

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tahcohcat/gofigure-voice/config"
)

const sampleAudio = "UklGRiQAAABXQVZFZm10IBAAAAABAAEAQB8AAIA+AAACABAAZGF0YQAAAAA="

func newTestGemini(t *testing.T, handler http.HandlerFunc) (*GeminiTTS, *int32) {
	t.Helper()
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		handler(w, r)
	}))
	t.Cleanup(server.Close)

	g := NewGeminiTTS(config.GeminiConfig{
		APIKey:  "test-key",
		Model:   "gemini-test-tts",
		BaseURL: server.URL + "/",
		Timeout: 5,
	})
	return g, &calls
}

func audioResponse(mime, data string) string {
	resp := map[string]any{
		"candidates": []any{
			map[string]any{
				"content": map[string]any{
					"parts": []any{
						map[string]any{"inlineData": map[string]any{"mimeType": mime, "data": data}},
					},
				},
				"finishReason": "STOP",
			},
		},
	}
	b, _ := json.Marshal(resp)
	return string(b)
}

func TestGeminiDispatch_RequestShape(t *testing.T) {
	var got geminiRequest
	g, _ := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/models/gemini-test-tts:generateContent", r.URL.Path)
		assert.Empty(t, r.URL.RawQuery, "api key must not travel in the URL")
		assert.Equal(t, "test-key", r.Header.Get("x-goog-api-key"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(body, &got))

		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, audioResponse("audio/L16;codec=pcm;rate=24000", sampleAudio))
	})

	res, err := g.Dispatch(context.Background(), "Say hello", "Puck")
	require.NoError(t, err)

	assert.Equal(t, sampleAudio, res.AudioBase64)
	assert.Equal(t, "audio/L16;codec=pcm;rate=24000", res.MimeType)

	require.Len(t, got.Contents, 1)
	require.Len(t, got.Contents[0].Parts, 1)
	assert.Equal(t, "Say hello", got.Contents[0].Parts[0].Text)
	assert.Equal(t, []string{"AUDIO"}, got.GenerationConfig.ResponseModalities)
	require.NotNil(t, got.GenerationConfig.SpeechConfig)
	assert.Equal(t, "Puck", got.GenerationConfig.SpeechConfig.VoiceConfig.PrebuiltVoiceConfig.VoiceName)
}

func TestGeminiSynthesize_SendsEffectiveText(t *testing.T) {
	var sent string
	g, _ := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
		var req geminiRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		sent = req.Contents[0].Parts[0].Text
		io.WriteString(w, audioResponse("audio/wav", sampleAudio))
	})

	style := DefaultStyle()
	style.Tone = "calm"
	_, err := g.Synthesize(context.Background(), Request{Text: "Breathe in.", VoiceName: "Kore", Style: style})
	require.NoError(t, err)
	assert.Equal(t, "Speak with a tone that is calm. The text to say is: Breathe in.", sent)

	_, err = g.Synthesize(context.Background(), Request{Text: "Hello", VoiceName: "Kore", IsSSML: true, Style: style})
	require.NoError(t, err)
	assert.Equal(t, "<speak>Hello</speak>", sent)
}

func TestGeminiDispatch_MissingKeyMakesNoCall(t *testing.T) {
	g, calls := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, audioResponse("audio/wav", sampleAudio))
	})
	g.apiKey = ""

	_, err := g.Dispatch(context.Background(), "hello", "Kore")
	assert.ErrorIs(t, err, ErrConfiguration)

	_, err = g.Synthesize(context.Background(), Request{Text: "hello", VoiceName: "Kore", Style: DefaultStyle()})
	assert.ErrorIs(t, err, ErrConfiguration)

	assert.Equal(t, int32(0), atomic.LoadInt32(calls))
}

func TestGeminiSynthesize_InvalidRequestMakesNoCall(t *testing.T) {
	g, calls := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, audioResponse("audio/wav", sampleAudio))
	})

	_, err := g.Synthesize(context.Background(), Request{Text: "hello", Style: Style{Pitch: 0, Speed: 1}})
	assert.ErrorIs(t, err, ErrInvalidRequest)
	assert.Equal(t, int32(0), atomic.LoadInt32(calls))
}

func TestGeminiDispatch_ErrorClassification(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{
			name:    "bad request",
			status:  http.StatusBadRequest,
			body:    `{"error":{"code":400,"message":"Invalid SSML","status":"INVALID_ARGUMENT"}}`,
			wantErr: ErrInvalidRequest,
		},
		{
			name:    "server error",
			status:  http.StatusInternalServerError,
			body:    `{"error":{"code":500,"message":"internal","status":"INTERNAL"}}`,
			wantErr: ErrSynthesis,
		},
		{
			name:    "forbidden",
			status:  http.StatusForbidden,
			body:    `not json`,
			wantErr: ErrSynthesis,
		},
		{
			name:    "rate limited",
			status:  http.StatusTooManyRequests,
			body:    ``,
			wantErr: ErrSynthesis,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, calls := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				io.WriteString(w, tt.body)
			})

			res, err := g.Dispatch(context.Background(), "hello", "Kore")
			assert.Nil(t, res)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, int32(1), atomic.LoadInt32(calls), "no retries")
		})
	}
}

func TestGeminiDispatch_NoAudio(t *testing.T) {
	bodies := map[string]string{
		"no candidates":  `{"promptFeedback":{"blockReason":"SAFETY"}}`,
		"no parts":       `{"candidates":[{"content":{"parts":[]},"finishReason":"SAFETY"}]}`,
		"text part only": `{"candidates":[{"content":{"parts":[{"text":"I can't say that"}]}}]}`,
		"empty data":     audioResponse("audio/wav", ""),
	}

	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			g, _ := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
				io.WriteString(w, body)
			})

			_, err := g.Dispatch(context.Background(), "hello", "Kore")
			require.ErrorIs(t, err, ErrSynthesis)
			assert.Contains(t, err.Error(), "unsafe")
		})
	}
}

func TestGeminiDispatch_MalformedBody(t *testing.T) {
	g, _ := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"candidates":`)
	})

	_, err := g.Dispatch(context.Background(), "hello", "Kore")
	assert.ErrorIs(t, err, ErrSynthesis)
}

func TestGeminiDispatch_CancelledContext(t *testing.T) {
	g, _ := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, audioResponse("audio/wav", sampleAudio))
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := g.Dispatch(ctx, "hello", "Kore")
	assert.ErrorIs(t, err, ErrSynthesis)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestGeminiDispatch_DeadlineExceeded(t *testing.T) {
	g, _ := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := g.Dispatch(ctx, "hello", "Kore")
	assert.ErrorIs(t, err, ErrSynthesis)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestGeminiDispatch_FailureWithoutDeadline(t *testing.T) {
	g, _ := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `not json`)
	})

	_, err := g.Dispatch(context.Background(), "hello", "Kore")
	assert.ErrorIs(t, err, ErrSynthesis)
	assert.NotErrorIs(t, err, context.DeadlineExceeded)
}

func TestNewGeminiTTS_Defaults(t *testing.T) {
	g := NewGeminiTTS(config.GeminiConfig{})
	assert.Equal(t, config.DefaultGeminiModel, g.model)
	assert.Equal(t, config.DefaultGeminiBaseURL, g.baseURL)
	assert.Contains(t, g.Name(), config.DefaultGeminiModel)
}
