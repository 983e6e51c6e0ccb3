package artifactory

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
)

// Common errors
var (
	// ErrInvalidSettings indicates invalid or incomplete connection settings
	ErrInvalidSettings = errors.New("invalid artifactory settings")
	// ErrPrecondition indicates a caller argument was rejected before any request was built
	ErrPrecondition = errors.New("artifactory precondition failed")
	// ErrMalformedResponse indicates an error response that is not a standard Artifactory error JSON
	ErrMalformedResponse = errors.New("malformed artifactory error response")
	// ErrAPI indicates a standard Artifactory REST API error
	ErrAPI = errors.New("artifactory API error")
)

// ConfigurationError is returned when settings are invalid, incomplete or
// contain unrecognized keys. It is raised before any network activity.
type ConfigurationError struct {
	Message string
	// Keys lists the offending setting keys, if any
	Keys []string
}

// Error implements the error interface
func (e *ConfigurationError) Error() string {
	return e.Message
}

// Unwrap allows errors.Is(err, ErrInvalidSettings)
func (e *ConfigurationError) Unwrap() error {
	return ErrInvalidSettings
}

// PreconditionError is returned when an argument fails a local check, for
// example an empty artifact path or an unsupported archive type.
type PreconditionError struct {
	Operation string
	Message   string
}

// Error implements the error interface
func (e *PreconditionError) Error() string {
	if e.Operation == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Operation, e.Message)
}

// Unwrap allows errors.Is(err, ErrPrecondition)
func (e *PreconditionError) Unwrap() error {
	return ErrPrecondition
}

// MalformedError is returned when the service answered with an error
// status but the body did not carry a standard "errors" list.
type MalformedError struct {
	Operation  string
	URL        string
	Verb       string
	StatusCode int
	Body       string
}

// Error implements the error interface
func (e *MalformedError) Error() string {
	return fmt.Sprintf("the json output for the error was malformed "+
		"(not a standard Artifactory REST API error json), "+
		"set the %q setting to true to get the raw *http.Response for debugging, "+
		"response body: %s", KeyRawResponse, e.Body)
}

// Unwrap allows errors.Is(err, ErrMalformedResponse)
func (e *MalformedError) Unwrap() error {
	return ErrMalformedResponse
}

// APIError represents a standard Artifactory REST API error
type APIError struct {
	Operation  string
	URL        string
	Verb       string
	StatusCode int
	Message    string
}

// Error returns the multi-line diagnostic for the failed operation
func (e *APIError) Error() string {
	return "Artifactory REST API operation : " + e.Operation +
		"\nURL : " + e.URL +
		"\nVerb : " + e.Verb +
		"\nStatus Code : " + strconv.Itoa(e.StatusCode) +
		"\nMessage : " + e.Message
}

// Unwrap allows errors.Is(err, ErrAPI)
func (e *APIError) Unwrap() error {
	return ErrAPI
}

// IsNotFound checks if the error indicates a not found response
func (e *APIError) IsNotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// IsUnauthorized checks if the error indicates an authentication failure
func (e *APIError) IsUnauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
}

// IsNotFound reports whether err is an APIError with status 404.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.IsNotFound()
}

// errorEnvelope is the standard error body returned by the service:
//
//	{"errors": [{"status": 404, "message": "Not Found"}]}
type errorEnvelope struct {
	Errors []struct {
		Status  json.RawMessage `json:"status"`
		Message string          `json:"message"`
	} `json:"errors"`
}

// translateError converts a 4xx/5xx response body into an APIError or a
// MalformedError. It never returns nil.
func translateError(operation, url, verb string, statusCode int, body []byte) error {
	var env errorEnvelope
	if err := json.Unmarshal(body, &env); err != nil || len(env.Errors) == 0 {
		return &MalformedError{
			Operation:  operation,
			URL:        url,
			Verb:       verb,
			StatusCode: statusCode,
			Body:       string(body),
		}
	}

	first := env.Errors[0]
	status := statusCode
	if len(first.Status) > 0 {
		var embedded int
		if err := json.Unmarshal(first.Status, &embedded); err == nil {
			status = embedded
		}
	}

	return &APIError{
		Operation:  operation,
		URL:        url,
		Verb:       verb,
		StatusCode: status,
		Message:    first.Message,
	}
}
