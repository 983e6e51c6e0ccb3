package artifactory

import (
	"context"
	"net/http"
	"strings"
)

// SearchesService groups the search operations.
type SearchesService struct {
	service
}

// AQL searches items using the Artifactory Query Language. The query is
// sent verbatim as a text/plain body.
func (s *SearchesService) AQL(ctx context.Context, query string, opts ...CallOption) (*Result, error) {
	return s.do(ctx, &call{
		verb:      http.MethodPost,
		target:    s.prefix + "aql",
		operation: s.label("Artifactory Query Language"),
		params:    Params{HeaderContentType: "text/plain"},
		body:      strings.NewReader(query),
	}, opts)
}

// resultDetailParams validates the X-Result-detail value and returns it as
// a header param. An empty detail sends no header.
func resultDetailParams(operation, detail string) (Params, error) {
	if detail == "" {
		return nil, nil
	}
	if err := requireOneOf(operation, "result_detail", detail, "info", "properties", "info, properties"); err != nil {
		return nil, err
	}
	return Params{HeaderResultDetail: detail}, nil
}

// QuickSearch searches artifacts by name. resultDetail may be empty,
// "info", "properties" or "info, properties".
func (s *SearchesService) QuickSearch(ctx context.Context, name, resultDetail string, opts ...CallOption) (*Result, error) {
	operation := s.label("Artifact Search Quick Search")
	params, err := resultDetailParams(operation, resultDetail)
	if err != nil {
		return nil, err
	}
	return s.do(ctx, &call{
		verb:      http.MethodGet,
		target:    s.prefix + "artifact?name=" + name,
		operation: operation,
		params:    params,
	}, opts)
}

// PropertySearch searches artifacts by properties ("p1=v1&p2=v2").
func (s *SearchesService) PropertySearch(ctx context.Context, properties, resultDetail string, opts ...CallOption) (*Result, error) {
	operation := s.label("Property Search")
	params, err := resultDetailParams(operation, resultDetail)
	if err != nil {
		return nil, err
	}
	return s.do(ctx, &call{
		verb:      http.MethodGet,
		target:    s.prefix + "prop?" + properties,
		operation: operation,
		params:    params,
	}, opts)
}

// ChecksumSearch finds artifacts by checksum. checksumType is md5, sha1 or
// sha256.
func (s *SearchesService) ChecksumSearch(ctx context.Context, checksumType, checksumValue, resultDetail string, opts ...CallOption) (*Result, error) {
	operation := s.label("Checksum Search")
	if err := requireOneOf(operation, "checksum_type", checksumType, "md5", "sha1", "sha256"); err != nil {
		return nil, err
	}
	params, err := resultDetailParams(operation, resultDetail)
	if err != nil {
		return nil, err
	}
	return s.do(ctx, &call{
		verb:      http.MethodGet,
		target:    s.prefix + "checksum?" + checksumType + "=" + checksumValue,
		operation: operation,
		params:    params,
	}, opts)
}

// BadChecksumSearch finds artifacts with missing or mismatched client
// checksums. checksumType is md5 or sha1.
func (s *SearchesService) BadChecksumSearch(ctx context.Context, checksumType string, opts ...CallOption) (*Result, error) {
	operation := s.label("Bad Checksum Search")
	if err := requireOneOf(operation, "checksum_type", checksumType, "md5", "sha1"); err != nil {
		return nil, err
	}
	return s.do(ctx, &call{
		verb:      http.MethodGet,
		target:    s.prefix + "badChecksum?type=" + checksumType,
		operation: operation,
	}, opts)
}

// ArtifactsNotDownloadedSince finds artifacts not downloaded since the given
// time in milliseconds.
func (s *SearchesService) ArtifactsNotDownloadedSince(ctx context.Context, notUsedSince string, opts ...CallOption) (*Result, error) {
	return s.do(ctx, &call{
		verb:      http.MethodGet,
		target:    s.prefix + "usage?notUsedSince=" + notUsedSince,
		operation: s.label("Artifacts Not Downloaded Since"),
	}, opts)
}

// ListDockerRepositories lists the images in a Docker repository.
func (s *SearchesService) ListDockerRepositories(ctx context.Context, repoKey string, opts ...CallOption) (*Result, error) {
	return s.do(ctx, &call{
		verb:      http.MethodGet,
		target:    "docker/" + repoKey + "/v2/_catalog",
		operation: s.label("List Docker Repositories"),
	}, opts)
}

// ListDockerTags lists the tags of an image in a Docker repository.
func (s *SearchesService) ListDockerTags(ctx context.Context, repoKey, imagePath string, opts ...CallOption) (*Result, error) {
	return s.do(ctx, &call{
		verb:      http.MethodGet,
		target:    "docker/" + repoKey + "/v2/" + imagePath + "/tags/list",
		operation: s.label("List Docker Tags"),
	}, opts)
}
