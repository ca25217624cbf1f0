package core

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestNewBaseServiceRejectsBadEndpoints(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{"", "   ", "not-a-url", "ftp://example.com"} {
		if _, err := NewBaseService(Options{URL: raw}); err == nil {
			t.Fatalf("expected error for endpoint %q", raw)
		}
	}
	if _, err := NewBaseService(Options{URL: "https://api.example.com/base/"}); err != nil {
		t.Fatalf("unexpected error for valid endpoint: %v", err)
	}
}

func TestExecAttachesBearerAuthAndTransactionID(t *testing.T) {
	t.Parallel()

	var gotAuth, gotTransaction, gotAgent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotTransaction = r.Header.Get("X-Global-Transaction-ID")
		gotAgent = r.Header.Get("User-Agent")
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	service, err := NewBaseService(Options{URL: server.URL, APIKey: "secret-key"})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}
	if _, err := Exec(service, NewRequest(http.MethodGet, "/v2/models"), ObjectConverter[map[string]any]()).Do(context.Background()); err != nil {
		t.Fatalf("execute call: %v", err)
	}
	if gotAuth != "Bearer secret-key" {
		t.Fatalf("unexpected authorization header: %q", gotAuth)
	}
	if gotTransaction == "" {
		t.Fatal("expected a transaction id header")
	}
	if gotAgent != "lexicore-go/"+Version {
		t.Fatalf("unexpected user agent: %q", gotAgent)
	}
}

func TestExecPrefersAPIKeyOverBasicAuth(t *testing.T) {
	t.Parallel()

	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	service, err := NewBaseService(Options{URL: server.URL, Username: "user", Password: "pass", APIKey: "key"})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}
	if _, err := Exec(service, NewRequest(http.MethodGet, "/"), ObjectConverter[map[string]any]()).Do(context.Background()); err != nil {
		t.Fatalf("execute call: %v", err)
	}
	if gotAuth != "Bearer key" {
		t.Fatalf("expected bearer auth to win, got %q", gotAuth)
	}
}

func TestExecMapsServerErrorsToAPIError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error_message":"model not found"}`))
	}))
	defer server.Close()

	service, err := NewBaseService(Options{URL: server.URL})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}
	_, err = Exec(service, NewRequest(http.MethodGet, "/v2/models/bad-id"), ObjectConverter[map[string]any]()).Do(context.Background())

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.StatusCode != http.StatusNotFound {
		t.Fatalf("unexpected status: %d", apiErr.StatusCode)
	}
	if apiErr.Message != "model not found" {
		t.Fatalf("unexpected message: %q", apiErr.Message)
	}
	if apiErr.TransactionID == "" {
		t.Fatal("expected the transaction id to be carried on the error")
	}
}

func TestExecSurfacesDecodeErrors(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"languages": "not-an-array"`))
	}))
	defer server.Close()

	service, err := NewBaseService(Options{URL: server.URL})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}
	_, err = Exec(service, NewRequest(http.MethodGet, "/"), EnvelopeConverter[struct{}]("languages")).Do(context.Background())

	var decodeErr *DecodeError
	if !errors.As(err, &decodeErr) {
		t.Fatalf("expected DecodeError, got %v", err)
	}
}

func TestEnvelopeConverterExtractsNamedField(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"languages":[{"language":"en","confidence":0.9}]}`))
	}))
	defer server.Close()

	type identified struct {
		Language   string  `json:"language"`
		Confidence float64 `json:"confidence"`
	}

	service, err := NewBaseService(Options{URL: server.URL})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}
	languages, err := Exec(service, NewRequest(http.MethodPost, "/v2/identify"), EnvelopeConverter[identified]("languages")).Do(context.Background())
	if err != nil {
		t.Fatalf("execute call: %v", err)
	}
	if len(languages) != 1 {
		t.Fatalf("unexpected language count: %d", len(languages))
	}
	if languages[0].Language != "en" || languages[0].Confidence != 0.9 {
		t.Fatalf("unexpected identification: %+v", languages[0])
	}
}

func TestVoidConverterDiscardsBody(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	service, err := NewBaseService(Options{URL: server.URL})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}
	if _, err := Exec(service, NewRequest(http.MethodDelete, "/v2/models/x"), VoidConverter()).Do(context.Background()); err != nil {
		t.Fatalf("execute delete: %v", err)
	}
}
