package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"
)

// Verb identifies an outbound call kind. Upload is a multipart POST;
// the remaining verbs map directly onto HTTP methods.
type Verb string

const (
	Get    Verb = "GET"
	Post   Verb = "POST"
	Put    Verb = "PUT"
	Patch  Verb = "PATCH"
	Delete Verb = "DELETE"
	Upload Verb = "UPLOAD"
)

// isRead reports whether the verb is eligible for response caching.
func (v Verb) isRead() bool { return v == Get }

func (v Verb) method() string {
	if v == Upload {
		return http.MethodPost
	}
	return string(v)
}

// UploadFile is the payload of an Upload call. Content is held as
// bytes rather than a reader so coalesced and repeated uploads can
// rebuild the multipart body safely.
type UploadFile struct {
	Field    string
	FileName string
	Content  []byte
	// Extra carries additional plain form fields.
	Extra map[string]string
}

// exchange performs exactly one physical network exchange bounded by
// the given timeout. The bearer credential is read fresh from the
// token source at dispatch time so a credential refreshed mid-session
// is honored on the next call.
func (c *Client) exchange(ctx context.Context, verb Verb, path string, payload []byte, up *UploadFile, bound time.Duration) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, bound)
	defer cancel()

	var (
		reqBody     io.Reader
		contentType string
	)
	switch {
	case verb == Upload && up != nil:
		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		part, err := mw.CreateFormFile(up.Field, up.FileName)
		if err != nil {
			return nil, &TransportError{Err: err}
		}
		if _, err := part.Write(up.Content); err != nil {
			return nil, &TransportError{Err: err}
		}
		for k, v := range up.Extra {
			if err := mw.WriteField(k, v); err != nil {
				return nil, &TransportError{Err: err}
			}
		}
		if err := mw.Close(); err != nil {
			return nil, &TransportError{Err: err}
		}
		reqBody = &buf
		// Let the multipart writer dictate the boundary; no manual
		// content-type override.
		contentType = mw.FormDataContentType()
	case len(payload) > 0:
		reqBody = bytes.NewReader(payload)
		contentType = "application/json"
	}

	req, err := http.NewRequestWithContext(ctx, verb.method(), c.endpoint(path), reqBody)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.token != nil {
		if tok := c.token(); tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, &TimeoutError{Elapsed: bound}
		}
		return nil, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, &TimeoutError{Elapsed: bound}
		}
		return nil, &TransportError{Err: err}
	}

	if resp.StatusCode == http.StatusNoContent {
		return nil, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &HTTPStatusError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       raw,
			Message:    extractMessage(raw),
		}
	}

	return raw, nil
}

func (c *Client) endpoint(path string) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return strings.TrimSuffix(c.baseURL, "/") + path
}

// extractMessage pulls a human-readable message out of an error body:
// the message or error field when the body is JSON, the raw text
// otherwise.
func extractMessage(raw []byte) string {
	if len(raw) == 0 {
		return ""
	}
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(raw, &body); err == nil {
		if body.Message != "" {
			return body.Message
		}
		if body.Error != "" {
			return body.Error
		}
	}
	return strings.TrimSpace(string(raw))
}

// marshalBody canonicalizes a request body to JSON once, so the call
// fingerprint and the wire payload always agree.
func marshalBody(body any) ([]byte, error) {
	raw, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request body: %w", err)
	}
	return raw, nil
}

// decode unmarshals a raw response into the caller's destination.
// A nil destination or empty body is a successful no-op.
func decode(raw []byte, out any) error {
	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &DecodeError{Err: fmt.Errorf("unmarshal response: %w", err)}
	}
	return nil
}
