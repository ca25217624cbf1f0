package core

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strconv"
	"strings"
)

const (
	mediaTypeJSON   = "application/json"
	mediaTypeText   = "text/plain"
	mediaTypeBinary = "application/octet-stream"
)

// FilePart is one named binary part of a multipart form body.
type FilePart struct {
	Field    string
	Filename string
	Content  io.Reader
}

// Request describes one outbound service call before it is bound to an
// endpoint and a context. Exactly one body encoding is set per request.
type Request struct {
	method      string
	path        string
	query       url.Values
	header      http.Header
	body        []byte
	contentType string
	buildErr    error
}

// NewRequest starts a request for the given method and service-relative path.
func NewRequest(method, path string) *Request {
	return &Request{
		method: method,
		path:   path,
		query:  url.Values{},
		header: http.Header{},
	}
}

// Query sets one query parameter unconditionally.
func (r *Request) Query(key, value string) *Request {
	r.query.Set(key, value)
	return r
}

// QueryOptional sets a query parameter only when the value is non-blank.
func (r *Request) QueryOptional(key, value string) *Request {
	if strings.TrimSpace(value) != "" {
		r.query.Set(key, value)
	}
	return r
}

// QueryBool sets a boolean query parameter only when the value is non-nil.
func (r *Request) QueryBool(key string, value *bool) *Request {
	if value != nil {
		r.query.Set(key, strconv.FormatBool(*value))
	}
	return r
}

// Header sets one request header.
func (r *Request) Header(key, value string) *Request {
	r.header.Set(key, value)
	return r
}

// Accept sets the Accept header.
func (r *Request) Accept(mediaType string) *Request {
	r.header.Set("Accept", mediaType)
	return r
}

// JSONBody encodes payload as the JSON request body.
func (r *Request) JSONBody(payload any) *Request {
	encoded, err := json.Marshal(payload)
	if err != nil {
		r.buildErr = fmt.Errorf("marshal request body: %w", err)
		return r
	}
	r.body = encoded
	r.contentType = mediaTypeJSON
	return r
}

// TextBody sets a raw text request body.
func (r *Request) TextBody(text string) *Request {
	r.body = []byte(text)
	r.contentType = mediaTypeText
	return r
}

// MultipartBody encodes the given file parts as a multipart form body.
// Parts with a nil content reader are skipped, so callers can pass the
// full set of optional parts and let absent ones fall away.
func (r *Request) MultipartBody(parts ...FilePart) *Request {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for _, part := range parts {
		if part.Content == nil {
			continue
		}
		filename := part.Filename
		if filename == "" {
			filename = part.Field
		}
		header := textproto.MIMEHeader{}
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, part.Field, filename))
		header.Set("Content-Type", mediaTypeBinary)
		fieldWriter, err := writer.CreatePart(header)
		if err != nil {
			r.buildErr = fmt.Errorf("create form part %q: %w", part.Field, err)
			return r
		}
		if _, err := io.Copy(fieldWriter, part.Content); err != nil {
			r.buildErr = fmt.Errorf("write form part %q: %w", part.Field, err)
			return r
		}
	}
	if err := writer.Close(); err != nil {
		r.buildErr = fmt.Errorf("finish multipart body: %w", err)
		return r
	}
	r.body = buf.Bytes()
	r.contentType = writer.FormDataContentType()
	return r
}

// Build binds the request to an endpoint and a context, producing the
// ready-to-send *http.Request.
func (r *Request) Build(ctx context.Context, endpoint string) (*http.Request, error) {
	if r.buildErr != nil {
		return nil, r.buildErr
	}

	target := strings.TrimRight(endpoint, "/") + r.path
	if encoded := r.query.Encode(); encoded != "" {
		target += "?" + encoded
	}

	var body io.Reader
	if r.body != nil {
		body = bytes.NewReader(r.body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, r.method, target, body)
	if err != nil {
		return nil, fmt.Errorf("build %s %s: %w", r.method, r.path, err)
	}
	for key, values := range r.header {
		for _, value := range values {
			httpReq.Header.Add(key, value)
		}
	}
	if r.contentType != "" {
		httpReq.Header.Set("Content-Type", r.contentType)
	}
	return httpReq, nil
}
