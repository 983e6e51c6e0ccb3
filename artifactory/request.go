package artifactory

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"slices"
)

// apiKeyHeader carries the API key when API key authentication is used.
const apiKeyHeader = "X-JFrog-Art-Api"

// Header-designating parameter keys. A Params entry with one of these keys is
// sent as a request header instead of a body field.
const (
	HeaderContentType    = "Content-Type"
	HeaderChecksumDeploy = "X-Checksum-Deploy"
	HeaderChecksumSha1   = "X-Checksum-Sha1"
	HeaderChecksumSha256 = "X-Checksum-Sha256"
	HeaderResultDetail   = "X-Result-detail"
	HeaderGPGPassphrase  = "X-GPG-PASSPHRASE"
)

var headerParams = []string{
	HeaderContentType,
	HeaderChecksumDeploy,
	HeaderChecksumSha1,
	HeaderChecksumSha256,
	HeaderResultDetail,
	HeaderGPGPassphrase,
}

// Params mixes JSON body fields with header-designating keys.
type Params map[string]any

// split separates header-designating keys from body fields. The receiver is
// not modified. fields is nil when no body field remains.
func (p Params) split() (http.Header, map[string]any) {
	headers := http.Header{}
	var fields map[string]any

	for key, value := range p {
		if slices.Contains(headerParams, key) {
			headers.Set(key, fmt.Sprint(value))
			continue
		}
		if fields == nil {
			fields = make(map[string]any, len(p))
		}
		fields[key] = value
	}

	return headers, fields
}

// call is the per-invocation context handed from an endpoint method to the core.
type call struct {
	verb      string
	target    string
	operation string
	params    Params
	// body, when set, is sent unmodified and takes precedence over params fields
	body io.Reader
	// size is the Content-Length of a streamed body, 0 when unknown
	size int64
	// binary returns the response unread on success
	binary bool
	// noAPI resolves target against the base URL instead of the endpoint root
	noAPI bool
}

// requestURL resolves the call target against the settings.
func (cl *call) requestURL(s Settings) string {
	if cl.noAPI {
		return s.URL + cl.target
	}
	return s.apiEndpoint + cl.target
}

// buildRequest assembles URL, headers, auth and body for a call.
func buildRequest(ctx context.Context, s Settings, cl *call) (*http.Request, error) {
	url := cl.requestURL(s)

	headers, fields := cl.params.split()
	if s.APIKey != "" {
		headers.Set(apiKeyHeader, s.APIKey)
	}

	var body io.Reader
	switch {
	case cl.body != nil:
		body = cl.body
	case len(fields) > 0:
		data, err := json.Marshal(fields)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		body = bytes.NewReader(data)
		if headers.Get(HeaderContentType) == "" {
			headers.Set(HeaderContentType, "application/json")
		}
	}

	req, err := http.NewRequestWithContext(ctx, cl.verb, url, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if cl.size > 0 {
		req.ContentLength = cl.size
	}

	for key, values := range headers {
		req.Header[key] = values
	}
	if auth := s.auth; auth != nil {
		req.SetBasicAuth(auth.Username, auth.Password)
	}

	return req, nil
}

// openUpload opens a local file to stream as a request body. The returned
// size becomes the Content-Length so the upload is not chunked; an empty
// file is sent as http.NoBody.
func openUpload(path string) (*os.File, io.Reader, int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, 0, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, nil, 0, err
	}
	if info.Size() == 0 {
		return f, http.NoBody, 0, nil
	}
	return f, f, info.Size(), nil
}
