// Package texttospeech is the client for the Lexicore Text to Speech v1
// service: speech synthesis into a closed set of audio formats, and voice
// discovery.
package texttospeech

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/lexicore/lexicore-go/core"
)

// DefaultURL is the public endpoint of the service.
const DefaultURL = "https://api.lexicore.cloud/text-to-speech/api"

const (
	pathSynthesize = "/v1/synthesize"
	pathVoices     = "/v1/voices"
)

// Voice is one synthesis voice offered by the service.
type Voice struct {
	Name        string `json:"name"`
	Language    string `json:"language,omitempty"`
	Gender      string `json:"gender,omitempty"`
	URL         string `json:"url,omitempty"`
	Description string `json:"description,omitempty"`
}

// Client calls the Text to Speech v1 service. Safe for concurrent use.
type Client struct {
	service *core.BaseService
}

// New builds a text-to-speech client. An empty Options.URL selects DefaultURL.
func New(opts core.Options) (*Client, error) {
	if strings.TrimSpace(opts.URL) == "" {
		opts.URL = DefaultURL
	}
	service, err := core.NewBaseService(opts)
	if err != nil {
		return nil, fmt.Errorf("text to speech client: %w", err)
	}
	return &Client{service: service}, nil
}

// SynthesizeOptions configures a synthesize call. A zero Format means WAV.
type SynthesizeOptions struct {
	Voice  string
	Format AudioFormat
}

type synthesizePayload struct {
	Text string `json:"text"`
}

// Synthesize renders text as audio in the requested format and returns the
// raw audio bytes.
func (c *Client) Synthesize(text string, opts SynthesizeOptions) *core.Call[[]byte] {
	if err := core.RequireNonEmpty("text", text); err != nil {
		return core.FailCall[[]byte](err)
	}
	format := opts.Format
	if format == 0 {
		format = FormatWAV
	}
	mediaType, err := format.MediaType()
	if err != nil {
		return core.FailCall[[]byte](&core.ValidationError{Field: "format", Reason: err.Error()})
	}

	req := core.NewRequest(http.MethodPost, pathSynthesize).
		Accept(mediaType).
		QueryOptional("voice", opts.Voice).
		JSONBody(synthesizePayload{Text: text})
	return core.Exec(c.service, req, core.RawConverter())
}

// ListVoices lists the voices available for synthesis.
func (c *Client) ListVoices() *core.Call[[]Voice] {
	req := core.NewRequest(http.MethodGet, pathVoices)
	return core.Exec(c.service, req, core.EnvelopeConverter[Voice]("voices"))
}
