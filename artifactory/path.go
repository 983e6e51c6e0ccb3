package artifactory

import (
	"fmt"
	"slices"
	"strings"
)

// appendSegment adds "/"+segment to target unless segment is empty.
func appendSegment(target, segment string) string {
	if segment != "" {
		return target + "/" + segment
	}
	return target
}

// appendOptions appends a pre-built options string verbatim when present.
func appendOptions(target, options string) string {
	if options != "" {
		return target + options
	}
	return target
}

// requirePath fails with a PreconditionError when path is empty.
func requirePath(operation, name, path string) error {
	if path == "" {
		return &PreconditionError{
			Operation: operation,
			Message:   name + " can't be empty",
		}
	}
	return nil
}

// requireOneOf fails with a PreconditionError when value is not allowed.
func requireOneOf(operation, name, value string, allowed ...string) error {
	if slices.Contains(allowed, value) {
		return nil
	}
	quoted := make([]string, len(allowed))
	for i, a := range allowed {
		quoted[i] = fmt.Sprintf("%q", a)
	}
	return &PreconditionError{
		Operation: operation,
		Message:   fmt.Sprintf("%s must be %s, got %q", name, strings.Join(quoted, " or "), value),
	}
}

// requireParam extracts a non-empty string field from params.
func requireParam(operation string, params Params, key string) (string, error) {
	value, ok := params[key].(string)
	if !ok || value == "" {
		return "", &PreconditionError{
			Operation: operation,
			Message:   fmt.Sprintf("params must contain a non-empty %q string", key),
		}
	}
	return value, nil
}

// withHeaders returns a copy of params with the given header keys set.
func withHeaders(params Params, headers map[string]any) Params {
	out := make(Params, len(params)+len(headers))
	for k, v := range params {
		out[k] = v
	}
	for k, v := range headers {
		out[k] = v
	}
	return out
}
