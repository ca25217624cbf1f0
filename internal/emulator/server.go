// Package emulator serves a local stand-in for the Lexicore translation and
// text-to-speech APIs, for offline development and integration tests. It
// keeps its model registry in memory and produces deterministic
// pseudo-translations and placeholder audio.
package emulator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/lexicore/lexicore-go/langdetect"
	"github.com/lexicore/lexicore-go/languagetranslation"
	"github.com/lexicore/lexicore-go/texttospeech"
)

// Options configures the emulator server.
type Options struct {
	Host string
	Port int
	// Username and PasswordHash enable a basic-auth gate. PasswordHash is
	// a bcrypt hash; the gate is off when either value is empty.
	Username     string
	PasswordHash string

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// Server is the emulator instance.
type Server struct {
	store  *modelStore
	logger zerolog.Logger
	opts   Options
}

// New builds an emulator server with defaulted timeouts.
func New(logger zerolog.Logger, opts Options) *Server {
	if opts.Host == "" {
		opts.Host = "127.0.0.1"
	}
	if opts.Port <= 0 {
		opts.Port = 8632
	}
	if opts.ReadTimeout <= 0 {
		opts.ReadTimeout = 15 * time.Second
	}
	if opts.WriteTimeout <= 0 {
		opts.WriteTimeout = 30 * time.Second
	}
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = 10 * time.Second
	}
	return &Server{
		store:  newModelStore(),
		logger: logger,
		opts:   opts,
	}
}

// Handler builds the echo instance with all routes and middleware wired,
// so tests can exercise the emulator through httptest without a listener.
func (s *Server) Handler() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:  true,
		LogURI:     true,
		LogMethod:  true,
		LogLatency: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			s.logger.Debug().
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Msg("emulator request")
			return nil
		},
	}))

	if s.opts.Username != "" && s.opts.PasswordHash != "" {
		e.Use(middleware.BasicAuth(func(username, password string, c echo.Context) (bool, error) {
			return username == s.opts.Username && verifyPassword(password, s.opts.PasswordHash), nil
		}))
	}

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	e.POST("/v2/translate", s.handleTranslate)
	e.POST("/v2/identify", s.handleIdentify)
	e.GET("/v2/identifiable_languages", s.handleIdentifiableLanguages)
	e.GET("/v2/models", s.handleListModels)
	e.POST("/v2/models", s.handleCreateModel)
	e.GET("/v2/models/:model_id", s.handleGetModel)
	e.DELETE("/v2/models/:model_id", s.handleDeleteModel)

	e.POST("/v1/synthesize", s.handleSynthesize)
	e.GET("/v1/voices", s.handleVoices)

	return e
}

// Start serves until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	if s == nil {
		return fmt.Errorf("server is not initialized")
	}

	e := s.Handler()
	addr := fmt.Sprintf("%s:%d", s.opts.Host, s.opts.Port)
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      e,
		ReadTimeout:  s.opts.ReadTimeout,
		WriteTimeout: s.opts.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.opts.ShutdownTimeout)
		defer cancel()
		if shutdownErr := e.Shutdown(shutdownCtx); shutdownErr != nil {
			s.logger.Error().Err(shutdownErr).Msg("emulator shutdown failed")
		}
	}()

	s.logger.Info().Str("addr", addr).Msg("lexicore emulator started")
	if err := e.StartServer(httpServer); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("start emulator: %w", err)
	}
	s.logger.Info().Msg("lexicore emulator stopped")
	return nil
}

func writeServiceError(c echo.Context, status int, message string) error {
	return c.JSON(status, map[string]any{
		"code":          status,
		"error_message": message,
	})
}

func (s *Server) handleTranslate(c echo.Context) error {
	payload, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return writeServiceError(c, http.StatusBadRequest, "unreadable request body")
	}
	req, err := validateTranslatePayload(payload)
	if err != nil {
		return writeServiceError(c, http.StatusBadRequest, err.Error())
	}

	target := req.Target
	if req.ModelID != "" {
		model, getErr := s.store.get(req.ModelID)
		if getErr != nil {
			return writeServiceError(c, http.StatusNotFound, fmt.Sprintf("model %q not found", req.ModelID))
		}
		target = model.Target
	}
	if target == "" {
		return writeServiceError(c, http.StatusBadRequest, "a model_id or a target language is required")
	}

	result := languagetranslation.TranslationResult{}
	for _, paragraph := range req.Text {
		result.WordCount += len(strings.Fields(paragraph))
		result.CharacterCount += len([]rune(paragraph))
		result.Translations = append(result.Translations, languagetranslation.Translation{
			Translation: pseudoTranslate(paragraph, target),
		})
	}
	return c.JSON(http.StatusOK, result)
}

// pseudoTranslate tags the original text with the target language instead
// of translating it, keeping emulator output deterministic.
func pseudoTranslate(text, target string) string {
	return "[" + target + "] " + text
}

func (s *Server) handleIdentify(c echo.Context) error {
	payload, err := io.ReadAll(c.Request().Body)
	if err != nil || strings.TrimSpace(string(payload)) == "" {
		return writeServiceError(c, http.StatusBadRequest, "text body is required")
	}

	identified := langdetect.Identify(string(payload))
	if identified == nil {
		identified = []languagetranslation.IdentifiedLanguage{}
	}
	return c.JSON(http.StatusOK, map[string]any{"languages": identified})
}

func (s *Server) handleIdentifiableLanguages(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{"languages": identifiableLanguages})
}

func (s *Server) handleListModels(c echo.Context) error {
	var defaultOnly *bool
	if raw := c.QueryParam("default"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			return writeServiceError(c, http.StatusBadRequest, fmt.Sprintf("invalid default filter %q", raw))
		}
		defaultOnly = &parsed
	}
	models := s.store.list(c.QueryParam("source"), c.QueryParam("target"), defaultOnly)
	return c.JSON(http.StatusOK, map[string]any{"models": models})
}

func (s *Server) handleCreateModel(c echo.Context) error {
	baseModelID := strings.TrimSpace(c.QueryParam("base_model_id"))
	if baseModelID == "" {
		return writeServiceError(c, http.StatusBadRequest, "base_model_id is required")
	}
	// Training files are accepted and discarded; the emulator does not train.
	if form, err := c.MultipartForm(); err == nil {
		for field := range form.File {
			switch field {
			case "forced_glossary", "monolingual_corpus", "parallel_corpus":
			default:
				return writeServiceError(c, http.StatusBadRequest, fmt.Sprintf("unexpected form part %q", field))
			}
		}
	}

	model, err := s.store.create(baseModelID, strings.TrimSpace(c.QueryParam("name")))
	if err != nil {
		return writeServiceError(c, http.StatusNotFound, err.Error())
	}
	return c.JSON(http.StatusOK, model)
}

func (s *Server) handleGetModel(c echo.Context) error {
	model, err := s.store.get(c.Param("model_id"))
	if err != nil {
		return writeServiceError(c, http.StatusNotFound, fmt.Sprintf("model %q not found", c.Param("model_id")))
	}
	return c.JSON(http.StatusOK, model)
}

func (s *Server) handleDeleteModel(c echo.Context) error {
	err := s.store.delete(c.Param("model_id"))
	switch {
	case errors.Is(err, errModelNotFound):
		return writeServiceError(c, http.StatusNotFound, fmt.Sprintf("model %q not found", c.Param("model_id")))
	case errors.Is(err, errModelNotDeletable):
		return writeServiceError(c, http.StatusBadRequest, err.Error())
	case err != nil:
		return writeServiceError(c, http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

type synthesizeRequest struct {
	Text string `json:"text"`
}

// audioMagic maps an Accept media type to the magic bytes of the
// placeholder audio the emulator produces for it.
var audioMagic = map[string][]byte{
	"audio/ogg; codecs=opus": []byte("OggS"),
	"audio/wav":              []byte("RIFF"),
	"audio/flac":             []byte("fLaC"),
}

func (s *Server) handleSynthesize(c echo.Context) error {
	var req synthesizeRequest
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Text) == "" {
		return writeServiceError(c, http.StatusBadRequest, "text is required")
	}

	accept := strings.TrimSpace(c.Request().Header.Get("Accept"))
	if accept == "" {
		accept = "audio/wav"
	}
	magic, ok := audioMagic[accept]
	if !ok {
		return writeServiceError(c, http.StatusNotAcceptable, fmt.Sprintf("unsupported audio format %q", accept))
	}

	voice := strings.TrimSpace(c.QueryParam("voice"))
	if voice != "" && !knownVoice(voice) {
		return writeServiceError(c, http.StatusNotFound, fmt.Sprintf("voice %q not found", voice))
	}

	// Placeholder audio: format magic followed by the input text.
	audio := append(append([]byte{}, magic...), []byte(req.Text)...)
	return c.Blob(http.StatusOK, accept, audio)
}

func (s *Server) handleVoices(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{"voices": voices})
}

var voices = []texttospeech.Voice{
	{Name: "en-US_Michael", Language: "en-US", Gender: "male", Description: "American English, deep"},
	{Name: "en-US_Allison", Language: "en-US", Gender: "female", Description: "American English, expressive"},
	{Name: "es-ES_Enrique", Language: "es-ES", Gender: "male", Description: "Castilian Spanish"},
	{Name: "fr-FR_Renee", Language: "fr-FR", Gender: "female", Description: "French"},
	{Name: "de-DE_Birgit", Language: "de-DE", Gender: "female", Description: "German"},
}

func knownVoice(name string) bool {
	for _, voice := range voices {
		if voice.Name == name {
			return true
		}
	}
	return false
}

var identifiableLanguages = []languagetranslation.IdentifiableLanguage{
	{Language: "ar", Name: "Arabic"},
	{Language: "de", Name: "German"},
	{Language: "en", Name: "English"},
	{Language: "es", Name: "Spanish"},
	{Language: "fr", Name: "French"},
	{Language: "it", Name: "Italian"},
	{Language: "ja", Name: "Japanese"},
	{Language: "ko", Name: "Korean"},
	{Language: "pt", Name: "Portuguese"},
	{Language: "ru", Name: "Russian"},
	{Language: "tr", Name: "Turkish"},
	{Language: "zh", Name: "Chinese"},
}
