package core

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	// Version is the SDK release carried in the User-Agent header.
	Version = "1.2.0"

	transactionIDHeader = "X-Global-Transaction-ID"
	defaultTimeout      = 90 * time.Second
)

// Options configures a service client.
type Options struct {
	// URL is the base endpoint of the service instance, for example
	// "https://api.lexicore.cloud/language-translation/api".
	URL string
	// Username and Password enable HTTP basic authentication.
	Username string
	Password string
	// APIKey enables bearer authentication and takes precedence over
	// basic credentials when both are supplied.
	APIKey string
	// HTTPClient overrides the default transport. The SDK performs no
	// pooling or retries of its own.
	HTTPClient *http.Client
	// Logger receives one debug event per round trip. Defaults to a
	// no-op logger.
	Logger *zerolog.Logger
}

// BaseService carries the immutable endpoint, credential and transport
// configuration shared by every operation of one service client. It holds
// no per-call state, so a single instance is safe for concurrent use.
type BaseService struct {
	endpoint  string
	username  string
	password  string
	apiKey    string
	client    *http.Client
	logger    zerolog.Logger
	userAgent string
}

// NewBaseService validates the endpoint URL and builds the shared service
// base used by the per-service clients.
func NewBaseService(opts Options) (*BaseService, error) {
	endpoint := strings.TrimSpace(opts.URL)
	if endpoint == "" {
		return nil, &ValidationError{Field: "url", Reason: "cannot be empty"}
	}
	parsed, err := url.Parse(endpoint)
	if err != nil || parsed.Host == "" || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return nil, &ValidationError{Field: "url", Reason: fmt.Sprintf("is not a valid http(s) endpoint: %q", endpoint)}
	}

	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}
	logger := zerolog.Nop()
	if opts.Logger != nil {
		logger = *opts.Logger
	}

	return &BaseService{
		endpoint:  strings.TrimRight(endpoint, "/"),
		username:  opts.Username,
		password:  opts.Password,
		apiKey:    strings.TrimSpace(opts.APIKey),
		client:    client,
		logger:    logger,
		userAgent: "lexicore-go/" + Version,
	}, nil
}

// Endpoint returns the configured base URL without a trailing slash.
func (s *BaseService) Endpoint() string {
	if s == nil {
		return ""
	}
	return s.endpoint
}

// Exec binds a built request to the service base and the given converter,
// returning the deferred call handle. Validation of call arguments has
// already happened by the time Exec runs; everything past this point is
// transport and response mapping.
func Exec[T any](s *BaseService, req *Request, convert Converter[T]) *Call[T] {
	return NewCall(func(ctx context.Context) (T, error) {
		var zero T
		httpReq, err := req.Build(ctx, s.endpoint)
		if err != nil {
			return zero, err
		}

		transactionID := uuid.NewString()
		httpReq.Header.Set(transactionIDHeader, transactionID)
		httpReq.Header.Set("User-Agent", s.userAgent)
		switch {
		case s.apiKey != "":
			httpReq.Header.Set("Authorization", "Bearer "+s.apiKey)
		case s.username != "":
			httpReq.SetBasicAuth(s.username, s.password)
		}

		started := time.Now()
		resp, err := s.client.Do(httpReq)
		if err != nil {
			return zero, fmt.Errorf("send %s %s: %w", httpReq.Method, httpReq.URL.Path, err)
		}
		defer resp.Body.Close()

		s.logger.Debug().
			Str("method", httpReq.Method).
			Str("path", httpReq.URL.Path).
			Str("transaction_id", transactionID).
			Int("status", resp.StatusCode).
			Dur("elapsed", time.Since(started)).
			Msg("service round trip")

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return zero, decodeAPIError(resp, transactionID)
		}
		return convert(resp)
	})
}

// errorEnvelope covers the error body shapes the platform is known to emit.
type errorEnvelope struct {
	Error        string `json:"error"`
	ErrorMessage string `json:"error_message"`
	Message      string `json:"message"`
}

func (e errorEnvelope) message() string {
	for _, candidate := range []string{e.ErrorMessage, e.Error, e.Message} {
		if strings.TrimSpace(candidate) != "" {
			return strings.TrimSpace(candidate)
		}
	}
	return ""
}

func decodeAPIError(resp *http.Response, transactionID string) error {
	apiErr := &APIError{
		StatusCode:    resp.StatusCode,
		TransactionID: transactionID,
	}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return apiErr
	}
	var envelope errorEnvelope
	if json.Unmarshal(raw, &envelope) == nil {
		apiErr.Message = envelope.message()
	}
	if apiErr.Message == "" {
		apiErr.Message = strings.TrimSpace(string(raw))
	}
	return apiErr
}
