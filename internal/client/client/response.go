package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
)

var emptyObject = json.RawMessage(`{}`)

// Response is a backend reply that was not turned into an error. Body always
// holds valid JSON; an empty or non-JSON payload is represented as {}.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       json.RawMessage
}

// Decode unmarshals the whole body into v.
func (r *Response) Decode(v any) error {
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("%w: %w", ErrUnexpectedBody, err)
	}
	return nil
}

// Data unmarshals the envelope's "data" payload into v.
func (r *Response) Data(v any) error {
	var env struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(r.Body, &env); err != nil {
		return fmt.Errorf("%w: %w", ErrUnexpectedBody, err)
	}
	if len(env.Data) == 0 {
		return fmt.Errorf("%w: no data payload", ErrUnexpectedBody)
	}
	if err := json.Unmarshal(env.Data, v); err != nil {
		return fmt.Errorf("%w: %w", ErrUnexpectedBody, err)
	}
	return nil
}

// OK reports a 2xx status.
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Err returns an *APIError when the status is 4xx/5xx or the body carries
// a success indicator that is present but falsy. A body without a success
// field is judged by its status alone.
func (r *Response) Err() error {
	success, present := r.field("success")
	if r.StatusCode < http.StatusBadRequest && (!present || truthy(success)) {
		return nil
	}
	return &APIError{
		Message:    r.errorMessage(),
		StatusCode: r.StatusCode,
		Body:       r.Body,
	}
}

func (r *Response) errorMessage() string {
	if v, ok := r.field("error"); ok {
		switch e := v.(type) {
		case string:
			if e != "" {
				return e
			}
		case map[string]any:
			if m, ok := e["message"].(string); ok && m != "" {
				return m
			}
		}
	}
	if v, ok := r.field("message"); ok {
		if m, ok := v.(string); ok && m != "" {
			return m
		}
	}
	return DefaultErrorMessage
}

// field looks up a top-level key when the body is a JSON object.
func (r *Response) field(name string) (any, bool) {
	var obj map[string]any
	if err := json.Unmarshal(r.Body, &obj); err != nil || obj == nil {
		return nil, false
	}
	v, ok := obj[name]
	return v, ok
}

func normalizeBody(raw []byte) json.RawMessage {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || !json.Valid(trimmed) {
		return emptyObject
	}
	return json.RawMessage(trimmed)
}

// truthy follows JavaScript truthiness for decoded JSON values.
func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case float64:
		return t != 0 && !math.IsNaN(t)
	case string:
		return t != ""
	default:
		return true
	}
}
