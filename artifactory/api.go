package artifactory

import (
	"context"
)

// Pinger verifies connectivity with the service
type Pinger interface {
	Call(ctx context.Context, opts ...CallOption) (*Result, error)
}

// Storage defines the artifact operations used by the command line tool
type Storage interface {
	FileList(ctx context.Context, repoKey, folderPath string, opts ...CallOption) (*Result, error)
	RetrieveArtifact(ctx context.Context, repoKey, artifactPath string, opts ...CallOption) (*Result, error)
	DeployArtifact(ctx context.Context, repoKey, localPath, targetPath string, opts ...CallOption) (*Result, error)
	DeployArtifactWithChecksums(ctx context.Context, repoKey, localPath, targetPath string, opts ...CallOption) (*Result, error)
	DeleteItem(ctx context.Context, repoKey, itemPath string, opts ...CallOption) (*Result, error)
}

// Batcher runs bounded-concurrency operations over many items
type Batcher interface {
	DeleteItems(ctx context.Context, repoKey string, paths []string, concurrency int) (BatchResult, error)
	DeployArtifacts(ctx context.Context, repoKey string, files map[string]string, concurrency int) (BatchResult, error)
}

var (
	_ Pinger  = (*Client)(nil)
	_ Batcher = (*Client)(nil)
	_ Storage = (*ArtifactsService)(nil)
)
