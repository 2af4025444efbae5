// cmd/server/main.go
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/tahcohcat/gofigure-voice/config"
	"github.com/tahcohcat/gofigure-voice/internal/api"
	"github.com/tahcohcat/gofigure-voice/internal/logger"
	"github.com/tahcohcat/gofigure-voice/internal/tts"
	"github.com/tahcohcat/gofigure-voice/internal/websocket"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Error loading config: %s", err)
	}

	level, ok := logger.ParseLevel(cfg.Log.Level)
	logger.SetGlobalLevel(level)
	l := logger.New()
	if !ok {
		l.Warn(fmt.Sprintf("unknown log level %q, using info", cfg.Log.Level))
	}

	synth, err := tts.NewSynthesizer(context.Background(), cfg)
	if err != nil {
		// Keep serving so the preview and voice endpoints still work
		l.WithError(err).Warn("TTS backend unavailable, speech requests will be rejected")
		synth = tts.NewDummyTts()
	}

	opts := []api.Option{
		api.WithDefaultVoice(tts.DefaultVoice(cfg)),
		api.WithTimeout(time.Duration(cfg.Server.RequestTimeout) * time.Second),
	}
	if strings.EqualFold(cfg.Tts.Type, string(tts.ProviderGemini)) {
		opts = append(opts, api.WithVoiceCatalog(tts.NewVoiceCatalog(tts.GeminiVoices)))
	}
	ttsHandler := api.NewTTSHandler(synth, opts...)

	r := mux.NewRouter()

	apiRouter := r.PathPrefix("/api/v1").Subrouter()
	api.RegisterTTSRoutes(apiRouter, ttsHandler)

	hub := websocket.NewHub(ttsHandler)
	go hub.Run()
	defer hub.Stop()
	websocket.RegisterRoutes(r, hub)

	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}).Methods("GET")

	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.Server.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	handler := c.Handler(r)

	l.Info(fmt.Sprintf("🎙️ gofigure-voice starting on port %s", cfg.Server.Port))
	l.Info(fmt.Sprintf("🔊 TTS backend: %s", synth.Name()))

	if err := http.ListenAndServe(":"+cfg.Server.Port, handler); err != nil {
		l.WithError(err).Error("Failed to start server")
	}
}
