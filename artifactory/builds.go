package artifactory

import (
	"context"
	"net/http"
)

// BuildsService groups the build info operations.
type BuildsService struct {
	service
}

// AllBuilds provides information on all builds.
func (s *BuildsService) AllBuilds(ctx context.Context, opts ...CallOption) (*Result, error) {
	return s.do(ctx, &call{
		verb:      http.MethodGet,
		target:    "build",
		operation: s.label("All Builds"),
	}, opts)
}
