package artifactory

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"github.com/opencontainers/go-digest"
)

// Checksums holds the hex encoded checksums of a local file.
type Checksums struct {
	SHA1   string
	SHA256 string
}

// FileChecksums computes the SHA-1 and SHA-256 checksums of a local file in
// a single pass.
func FileChecksums(path string) (Checksums, error) {
	f, err := os.Open(path)
	if err != nil {
		return Checksums{}, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	sha1Hash := sha1.New()
	sha256Digester := digest.Canonical.Digester()

	if _, err := io.Copy(io.MultiWriter(sha1Hash, sha256Digester.Hash()), f); err != nil {
		return Checksums{}, fmt.Errorf("failed to hash file: %w", err)
	}

	return Checksums{
		SHA1:   hex.EncodeToString(sha1Hash.Sum(nil)),
		SHA256: sha256Digester.Digest().Encoded(),
	}, nil
}

// DeployArtifactWithChecksums deploys a local file by checksum when the
// server already holds its content, and uploads it otherwise. The upload
// carries both checksum headers so the server can verify it.
func (s *ArtifactsService) DeployArtifactWithChecksums(ctx context.Context, repoKey, localPath, targetPath string, opts ...CallOption) (*Result, error) {
	sums, err := FileChecksums(localPath)
	if err != nil {
		return nil, err
	}

	result, err := s.DeployArtifactByChecksum(ctx, repoKey, targetPath, "sha256", sums.SHA256, opts...)
	if err == nil {
		// raw mode hands back error statuses as results; only a 404
		// triggers the upload, anything else goes back to the caller as is
		if !IsNotFound(result.Err()) {
			return result, nil
		}
	} else if !IsNotFound(err) {
		return nil, err
	}

	s.client.logger.Debug().
		Str("repo", repoKey).
		Str("path", targetPath).
		Str("sha256", sums.SHA256).
		Msg("Checksum unknown to server, uploading content")

	return s.deploy(ctx, repoKey, localPath, targetPath, Params{
		HeaderChecksumSha1:   sums.SHA1,
		HeaderChecksumSha256: sums.SHA256,
	}, opts)
}
