package artifactory

import (
	"context"
	"net/http"
	"strings"
)

// bundleURIPrefix is how bundles are referenced in ListBundles output.
const bundleURIPrefix = "/artifactory/api/support/bundles/"

// SupportService groups the support bundle operations.
type SupportService struct {
	service
}

// CreateBundle creates a new support bundle.
func (s *SupportService) CreateBundle(ctx context.Context, params Params, opts ...CallOption) (*Result, error) {
	return s.do(ctx, &call{
		verb:      http.MethodPost,
		target:    s.prefix + "bundles/",
		operation: s.label("Create Bundle"),
		params:    params,
	}, opts)
}

// ListBundles lists the bundles currently stored in the system.
func (s *SupportService) ListBundles(ctx context.Context, opts ...CallOption) (*Result, error) {
	return s.do(ctx, &call{
		verb:      http.MethodGet,
		target:    s.prefix + "bundles/",
		operation: s.label("List Bundles"),
	}, opts)
}

// GetBundle downloads a bundle. name may be a bare bundle name or the URI
// returned by ListBundles. The result is binary.
func (s *SupportService) GetBundle(ctx context.Context, name string, opts ...CallOption) (*Result, error) {
	return s.do(ctx, &call{
		verb:      http.MethodGet,
		target:    s.prefix + "bundles/" + strings.TrimPrefix(name, bundleURIPrefix),
		operation: s.label("Get Bundle"),
		params:    Params{HeaderContentType: "application/json"},
		binary:    true,
	}, opts)
}

// DeleteBundle deletes a bundle. name may be a bare bundle name or the URI
// returned by ListBundles.
func (s *SupportService) DeleteBundle(ctx context.Context, name string, opts ...CallOption) (*Result, error) {
	return s.do(ctx, &call{
		verb:      http.MethodDelete,
		target:    s.prefix + "bundles/" + strings.TrimPrefix(name, bundleURIPrefix),
		operation: s.label("Delete Bundle"),
	}, opts)
}
