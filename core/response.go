package core

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// Void is the result type of calls whose response body carries no data.
type Void struct{}

// Converter maps a successful HTTP response body into a typed result.
type Converter[T any] func(*http.Response) (T, error)

// ObjectConverter decodes the whole response body as one JSON object.
func ObjectConverter[T any]() Converter[T] {
	return func(resp *http.Response) (T, error) {
		var result T
		raw, err := io.ReadAll(resp.Body)
		if err != nil {
			return result, fmt.Errorf("read response body: %w", err)
		}
		if err := json.Unmarshal(raw, &result); err != nil {
			return result, &DecodeError{Cause: err}
		}
		return result, nil
	}
}

// EnvelopeConverter decodes the named array field of a JSON envelope object
// into a typed slice. Used for "models", "languages" and "voices" listings.
func EnvelopeConverter[T any](field string) Converter[[]T] {
	return func(resp *http.Response) ([]T, error) {
		raw, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("read response body: %w", err)
		}
		var envelope map[string]json.RawMessage
		if err := json.Unmarshal(raw, &envelope); err != nil {
			return nil, &DecodeError{Cause: err}
		}
		member, ok := envelope[field]
		if !ok {
			return nil, &DecodeError{Cause: fmt.Errorf("response envelope has no %q field", field)}
		}
		var result []T
		if err := json.Unmarshal(member, &result); err != nil {
			return nil, &DecodeError{Cause: err}
		}
		return result, nil
	}
}

// VoidConverter discards the response body and reports success only.
func VoidConverter() Converter[Void] {
	return func(resp *http.Response) (Void, error) {
		_, _ = io.Copy(io.Discard, resp.Body)
		return Void{}, nil
	}
}

// RawConverter reads the response body as raw bytes, for binary payloads
// such as synthesized audio.
func RawConverter() Converter[[]byte] {
	return func(resp *http.Response) ([]byte, error) {
		raw, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("read response body: %w", err)
		}
		return raw, nil
	}
}
