package artifactory

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// Kind identifies which representation a Result carries.
type Kind int

const (
	// KindJSON is a decoded JSON payload (object, array or scalar)
	KindJSON Kind = iota
	// KindText is a successful payload that is not JSON
	KindText
	// KindBinary is an unread successful response meant to be streamed
	KindBinary
	// KindRaw is the unprocessed response returned in raw response mode
	KindRaw
)

// String returns the string representation of a Kind
func (k Kind) String() string {
	switch k {
	case KindJSON:
		return "json"
	case KindText:
		return "text"
	case KindBinary:
		return "binary"
	case KindRaw:
		return "raw"
	default:
		return "unknown"
	}
}

// Result is the classified outcome of a successful call.
//
// For KindBinary and KindRaw the response body has not been read; the caller
// must read it through Bytes, WriteTo or Response.Body and call Close.
type Result struct {
	Kind       Kind
	StatusCode int
	// Data holds the decoded JSON value for KindJSON
	Data any
	// Text holds the body text for KindJSON and KindText
	Text string
	// Response is set for KindBinary and KindRaw
	Response *http.Response

	body []byte
	read bool

	// request identity, kept for Err on raw results
	operation string
	url       string
	verb      string
}

// Decode unmarshals the JSON payload into v.
func (r *Result) Decode(v any) error {
	data, err := r.Bytes()
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

// Bytes returns the response content, reading and closing the body of a
// binary or raw result on first use.
func (r *Result) Bytes() ([]byte, error) {
	if r.Response == nil || r.read {
		return r.body, nil
	}
	defer r.Response.Body.Close()

	data, err := io.ReadAll(r.Response.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	r.body = data
	r.read = true
	return data, nil
}

// WriteTo streams the content to w. For binary and raw results the body is
// copied without buffering and closed afterwards.
func (r *Result) WriteTo(w io.Writer) (int64, error) {
	if r.Response == nil || r.read {
		return io.Copy(w, bytes.NewReader(r.body))
	}
	defer r.Response.Body.Close()
	r.read = true
	return io.Copy(w, r.Response.Body)
}

// Close releases the response body of a binary or raw result.
func (r *Result) Close() error {
	if r.Response == nil || r.read {
		return nil
	}
	r.read = true
	return r.Response.Body.Close()
}

// Err returns the error a raw result would have produced outside raw mode:
// an *APIError or *MalformedError for a 4xx/5xx status, nil otherwise. The
// body is buffered, so Bytes and WriteTo still work afterwards.
func (r *Result) Err() error {
	if r == nil || r.Kind != KindRaw || r.StatusCode < 400 || r.StatusCode > 599 {
		return nil
	}
	body, err := r.Bytes()
	if err != nil {
		return err
	}
	return translateError(r.operation, r.url, r.verb, r.StatusCode, body)
}

// Map returns the JSON payload as an object, or false if it is not one.
func (r *Result) Map() (map[string]any, bool) {
	m, ok := r.Data.(map[string]any)
	return m, ok
}

// classify turns a transport response into a Result or a typed error.
// The raw flag takes precedence over error statuses.
func classify(s Settings, cl *call, url string, resp *http.Response) (*Result, error) {
	if s.RawResponse {
		return &Result{
			Kind:       KindRaw,
			StatusCode: resp.StatusCode,
			Response:   resp,
			operation:  cl.operation,
			url:        url,
			verb:       cl.verb,
		}, nil
	}

	if resp.StatusCode >= 400 && resp.StatusCode <= 599 {
		defer resp.Body.Close()
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to read response body: %w", err)
		}
		return nil, translateError(cl.operation, url, cl.verb, resp.StatusCode, body)
	}

	if cl.binary {
		return &Result{Kind: KindBinary, StatusCode: resp.StatusCode, Response: resp}, nil
	}

	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var data any
	if err := json.Unmarshal(body, &data); err != nil {
		return &Result{Kind: KindText, StatusCode: resp.StatusCode, Text: string(body), body: body}, nil
	}

	return &Result{Kind: KindJSON, StatusCode: resp.StatusCode, Data: data, Text: string(body), body: body}, nil
}
