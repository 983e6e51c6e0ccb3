package artifactory

import (
	"context"
	"net/http"
)

// RepositoriesService groups repository management and metadata
// calculation operations.
type RepositoriesService struct {
	service
}

// GetRepositories returns a list of minimal repository details. Filter with
// WithOptions("?type=local") and similar.
func (s *RepositoriesService) GetRepositories(ctx context.Context, opts ...CallOption) (*Result, error) {
	return s.do(ctx, &call{
		verb:      http.MethodGet,
		target:    "repositories",
		operation: s.label("Get Repositories"),
	}, opts)
}

// RepositoryConfiguration retrieves the current configuration of a repository.
func (s *RepositoriesService) RepositoryConfiguration(ctx context.Context, repoKey string, opts ...CallOption) (*Result, error) {
	return s.do(ctx, &call{
		verb:      http.MethodGet,
		target:    s.prefix + repoKey,
		operation: s.label("Repository Configuration"),
	}, opts)
}

// CreateRepository creates a repository from a configuration JSON object.
// params must hold the repository key under "key".
func (s *RepositoriesService) CreateRepository(ctx context.Context, params Params, opts ...CallOption) (*Result, error) {
	operation := s.label("Create Repository")
	repoKey, err := requireParam(operation, params, "key")
	if err != nil {
		return nil, err
	}
	return s.do(ctx, &call{
		verb:      http.MethodPut,
		target:    s.prefix + repoKey,
		operation: operation,
		params:    params,
	}, opts)
}

// UpdateRepositoryConfiguration updates an existing repository. params must
// hold the repository key under "key".
func (s *RepositoriesService) UpdateRepositoryConfiguration(ctx context.Context, params Params, opts ...CallOption) (*Result, error) {
	operation := s.label("Update Repository Configuration")
	repoKey, err := requireParam(operation, params, "key")
	if err != nil {
		return nil, err
	}
	return s.do(ctx, &call{
		verb:      http.MethodPost,
		target:    s.prefix + repoKey,
		operation: operation,
		params:    withHeaders(params, map[string]any{HeaderContentType: "application/json"}),
	}, opts)
}

// DeleteRepository removes a repository and all of its content.
func (s *RepositoriesService) DeleteRepository(ctx context.Context, repoKey string, opts ...CallOption) (*Result, error) {
	return s.do(ctx, &call{
		verb:      http.MethodDelete,
		target:    s.prefix + repoKey,
		operation: s.label("Delete Repository"),
	}, opts)
}

// passphraseParams sets the GPG passphrase header when one is given.
func passphraseParams(passphrase string) Params {
	if passphrase == "" {
		return nil
	}
	return Params{HeaderGPGPassphrase: passphrase}
}

// CalculateYUMRepositoryMetadata calculates or recalculates YUM metadata.
// gpgPassphrase may be empty.
func (s *RepositoriesService) CalculateYUMRepositoryMetadata(ctx context.Context, repoKey, gpgPassphrase string, opts ...CallOption) (*Result, error) {
	return s.do(ctx, &call{
		verb:      http.MethodPost,
		target:    "yum/" + repoKey,
		operation: s.label("Calculate YUM Repository Metadata"),
		params:    passphraseParams(gpgPassphrase),
	}, opts)
}

// CalculateNuGetRepositoryMetadata recalculates the NuGet package metadata.
func (s *RepositoriesService) CalculateNuGetRepositoryMetadata(ctx context.Context, repoKey string, opts ...CallOption) (*Result, error) {
	return s.do(ctx, &call{
		verb:      http.MethodPost,
		target:    "nuget/" + repoKey + "/reindex",
		operation: s.label("Calculate NuGet Repository Metadata"),
	}, opts)
}

// CalculateNpmRepositoryMetadata recalculates the npm search index.
func (s *RepositoriesService) CalculateNpmRepositoryMetadata(ctx context.Context, repoKey string, opts ...CallOption) (*Result, error) {
	return s.do(ctx, &call{
		verb:      http.MethodPost,
		target:    "npm/" + repoKey + "/reindex",
		operation: s.label("Calculate Npm Repository Metadata"),
	}, opts)
}

// CalculateMavenIndex recalculates Maven indexes. options is the mandatory
// query string, for example "repos=libs-release-local&force=1".
func (s *RepositoriesService) CalculateMavenIndex(ctx context.Context, options string, opts ...CallOption) (*Result, error) {
	return s.do(ctx, &call{
		verb:      http.MethodPost,
		target:    "maven?" + options,
		operation: s.label("Calculate Maven Index"),
	}, opts)
}

// CalculateMavenMetadata recalculates maven-metadata.xml under folderPath.
func (s *RepositoriesService) CalculateMavenMetadata(ctx context.Context, repoKey, folderPath string, opts ...CallOption) (*Result, error) {
	return s.do(ctx, &call{
		verb:      http.MethodPost,
		target:    "maven/calculateMetadata/" + repoKey + "/" + folderPath,
		operation: s.label("Calculate Maven Metadata"),
	}, opts)
}

// CalculateDebianRepositoryMetadata recalculates Debian metadata.
// gpgPassphrase may be empty.
func (s *RepositoriesService) CalculateDebianRepositoryMetadata(ctx context.Context, repoKey, gpgPassphrase string, opts ...CallOption) (*Result, error) {
	return s.do(ctx, &call{
		verb:      http.MethodPost,
		target:    "deb/reindex/" + repoKey,
		operation: s.label("Calculate Debian Repository Metadata"),
		params:    passphraseParams(gpgPassphrase),
	}, opts)
}

// CalculateOpkgRepositoryMetadata recalculates Opkg metadata.
// gpgPassphrase may be empty.
func (s *RepositoriesService) CalculateOpkgRepositoryMetadata(ctx context.Context, repoKey, gpgPassphrase string, opts ...CallOption) (*Result, error) {
	return s.do(ctx, &call{
		verb:      http.MethodPost,
		target:    "opkg/reindex/" + repoKey,
		operation: s.label("Calculate Opkg Repository Metadata"),
		params:    passphraseParams(gpgPassphrase),
	}, opts)
}

// CalculateBowerIndex recalculates the index for a Bower repository.
func (s *RepositoriesService) CalculateBowerIndex(ctx context.Context, repoKey string, opts ...CallOption) (*Result, error) {
	return s.do(ctx, &call{
		verb:      http.MethodPost,
		target:    "bower/" + repoKey + "/reindex",
		operation: s.label("Calculate Bower Index"),
	}, opts)
}

// CalculateHelmChartIndex recalculates the index for a Helm repository.
func (s *RepositoriesService) CalculateHelmChartIndex(ctx context.Context, repoKey string, opts ...CallOption) (*Result, error) {
	return s.do(ctx, &call{
		verb:      http.MethodPost,
		target:    "helm/" + repoKey + "/reindex",
		operation: s.label("Calculate Helm Chart Index"),
	}, opts)
}

// CalculateCRANRepositoryMetadata recalculates CRAN metadata.
func (s *RepositoriesService) CalculateCRANRepositoryMetadata(ctx context.Context, repoKey string, opts ...CallOption) (*Result, error) {
	return s.do(ctx, &call{
		verb:      http.MethodPost,
		target:    "cran/reindex/" + repoKey,
		operation: s.label("Calculate CRAN Repository Metadata"),
	}, opts)
}

// CalculateCondaRepositoryMetadata recalculates Conda metadata.
func (s *RepositoriesService) CalculateCondaRepositoryMetadata(ctx context.Context, repoKey string, opts ...CallOption) (*Result, error) {
	return s.do(ctx, &call{
		verb:      http.MethodPost,
		target:    "conda/reindex/" + repoKey,
		operation: s.label("Calculate Conda Repository Metadata"),
	}, opts)
}
