package artifactory

import (
	"context"
	"fmt"
	"net/http"
)

// ArtifactsService groups the artifact and storage operations.
//
// Query fragments such as "&recursive=0" for SetItemProperties or
// "&dry=1" for CopyItem are passed with WithOptions.
type ArtifactsService struct {
	service
}

// FolderInfo retrieves folder information. An empty folderPath targets the
// repository root.
func (s *ArtifactsService) FolderInfo(ctx context.Context, repoKey, folderPath string, opts ...CallOption) (*Result, error) {
	return s.do(ctx, &call{
		verb:      http.MethodGet,
		target:    appendSegment(s.prefix+repoKey, folderPath),
		operation: s.label("Folder Info"),
	}, opts)
}

// FileInfo retrieves file information.
func (s *ArtifactsService) FileInfo(ctx context.Context, repoKey, filePath string, opts ...CallOption) (*Result, error) {
	return s.do(ctx, &call{
		verb:      http.MethodGet,
		target:    appendSegment(s.prefix+repoKey, filePath),
		operation: s.label("File Info"),
	}, opts)
}

// StorageSummaryInfo returns storage summary information about binaries,
// files and repositories.
func (s *ArtifactsService) StorageSummaryInfo(ctx context.Context, opts ...CallOption) (*Result, error) {
	return s.do(ctx, &call{
		verb:      http.MethodGet,
		target:    "storageinfo",
		operation: s.label("Get Storage Summary Info"),
	}, opts)
}

// ItemLastModified retrieves the last modified item at the given path.
func (s *ArtifactsService) ItemLastModified(ctx context.Context, repoKey, itemPath string, opts ...CallOption) (*Result, error) {
	return s.do(ctx, &call{
		verb:      http.MethodGet,
		target:    appendSegment(s.prefix+repoKey, itemPath) + "?lastModified",
		operation: s.label("Item Last Modified"),
	}, opts)
}

// FileStatistics retrieves download statistics for an item.
func (s *ArtifactsService) FileStatistics(ctx context.Context, repoKey, itemPath string, opts ...CallOption) (*Result, error) {
	return s.do(ctx, &call{
		verb:      http.MethodGet,
		target:    appendSegment(s.prefix+repoKey, itemPath) + "?stats",
		operation: s.label("File Statistics"),
	}, opts)
}

// ItemProperties retrieves item properties. properties is an optional comma
// separated list of property names.
func (s *ArtifactsService) ItemProperties(ctx context.Context, repoKey, itemPath, properties string, opts ...CallOption) (*Result, error) {
	target := appendSegment(s.prefix+repoKey, itemPath) + "?properties"
	if properties != "" {
		target += "=" + properties
	}
	return s.do(ctx, &call{
		verb:      http.MethodGet,
		target:    target,
		operation: s.label("Item Properties"),
	}, opts)
}

// SetItemProperties attaches properties ("key=value;key2=value2") to an item.
func (s *ArtifactsService) SetItemProperties(ctx context.Context, repoKey, itemPath, properties string, opts ...CallOption) (*Result, error) {
	return s.do(ctx, &call{
		verb:      http.MethodPut,
		target:    appendSegment(s.prefix+repoKey, itemPath) + "?properties=" + properties,
		operation: s.label("Set Item Properties"),
	}, opts)
}

// DeleteItemProperties deletes the named properties from an item.
func (s *ArtifactsService) DeleteItemProperties(ctx context.Context, repoKey, itemPath, properties string, opts ...CallOption) (*Result, error) {
	return s.do(ctx, &call{
		verb:      http.MethodDelete,
		target:    appendSegment(s.prefix+repoKey, itemPath) + "?properties=" + properties,
		operation: s.label("Delete Item Properties"),
	}, opts)
}

// SetItemSHA256Checksum calculates an artifact's SHA256 checksum on the
// server side. params usually holds repoKey and path.
func (s *ArtifactsService) SetItemSHA256Checksum(ctx context.Context, params Params, opts ...CallOption) (*Result, error) {
	return s.do(ctx, &call{
		verb:      http.MethodPost,
		target:    "checksum/sha256",
		operation: s.label("Set Item SHA256 Checksum"),
		params:    withHeaders(params, map[string]any{HeaderContentType: "application/json"}),
	}, opts)
}

// RetrieveArtifact downloads an artifact. The result is binary.
func (s *ArtifactsService) RetrieveArtifact(ctx context.Context, repoKey, artifactPath string, opts ...CallOption) (*Result, error) {
	operation := s.label("Retrieve Artifact")
	if err := requirePath(operation, "artifact_path", artifactPath); err != nil {
		return nil, err
	}
	return s.do(ctx, &call{
		verb:      http.MethodGet,
		target:    "/" + repoKey + "/" + artifactPath,
		operation: operation,
		binary:    true,
		noAPI:     true,
	}, opts)
}

// RetrieveArchive downloads a folder or a whole repository as an archive.
// archiveType is one of zip, tar, tar.gz or tgz. The result is binary.
func (s *ArtifactsService) RetrieveArchive(ctx context.Context, repoKey, path, archiveType string, includeChecksumFiles bool, opts ...CallOption) (*Result, error) {
	operation := s.label("Retrieve Folder or Repository Archive")
	if err := requireOneOf(operation, "archive_type", archiveType, "zip", "tar", "tar.gz", "tgz"); err != nil {
		return nil, err
	}

	target := appendSegment("archive/download/"+repoKey, path) + "?archiveType=" + archiveType
	target += fmt.Sprintf("&includeChecksumFiles=%t", includeChecksumFiles)

	return s.do(ctx, &call{
		verb:      http.MethodGet,
		target:    target,
		operation: operation,
		binary:    true,
	}, opts)
}

// TraceArtifactRetrieval simulates an artifact retrieval request and
// returns the resolution trace as text.
func (s *ArtifactsService) TraceArtifactRetrieval(ctx context.Context, repoKey, itemPath string, opts ...CallOption) (*Result, error) {
	return s.do(ctx, &call{
		verb:      http.MethodGet,
		target:    "/" + repoKey + "/" + itemPath + "?trace",
		operation: s.label("Trace Artifact Retrieval"),
		noAPI:     true,
	}, opts)
}

// CreateDirectory creates a new directory at the given path.
func (s *ArtifactsService) CreateDirectory(ctx context.Context, repoKey, directoryPath string, opts ...CallOption) (*Result, error) {
	return s.do(ctx, &call{
		verb:      http.MethodPut,
		target:    "/" + repoKey + "/" + directoryPath + "/",
		operation: s.label("Create Directory"),
		noAPI:     true,
	}, opts)
}

// DeployArtifact uploads the local file at localPath to targetPath.
func (s *ArtifactsService) DeployArtifact(ctx context.Context, repoKey, localPath, targetPath string, opts ...CallOption) (*Result, error) {
	return s.deploy(ctx, repoKey, localPath, targetPath, nil, opts)
}

// deploy streams a local file with optional header params.
func (s *ArtifactsService) deploy(ctx context.Context, repoKey, localPath, targetPath string, params Params, opts []CallOption) (*Result, error) {
	f, body, size, err := openUpload(localPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open artifact: %w", err)
	}
	defer f.Close()

	return s.do(ctx, &call{
		verb:      http.MethodPut,
		target:    "/" + repoKey + "/" + targetPath,
		operation: s.label("Deploy Artifact"),
		params:    params,
		body:      body,
		size:      size,
		noAPI:     true,
	}, opts)
}

// DeployArtifactByChecksum deploys an artifact the server already holds,
// identified by checksum. shaType is sha1 or sha256.
func (s *ArtifactsService) DeployArtifactByChecksum(ctx context.Context, repoKey, targetPath, shaType, shaValue string, opts ...CallOption) (*Result, error) {
	operation := s.label("Deploy Artifact By Checksum")
	if err := requireOneOf(operation, "sha_type", shaType, "sha1", "sha256"); err != nil {
		return nil, err
	}

	params := Params{HeaderChecksumDeploy: true}
	if shaType == "sha1" {
		params[HeaderChecksumSha1] = shaValue
	} else {
		params[HeaderChecksumSha256] = shaValue
	}

	return s.do(ctx, &call{
		verb:      http.MethodPut,
		target:    "/" + repoKey + "/" + targetPath,
		operation: operation,
		params:    params,
		noAPI:     true,
	}, opts)
}

// DeleteItem deletes a file or a folder.
func (s *ArtifactsService) DeleteItem(ctx context.Context, repoKey, itemPath string, opts ...CallOption) (*Result, error) {
	return s.do(ctx, &call{
		verb:      http.MethodDelete,
		target:    "/" + repoKey + "/" + itemPath,
		operation: s.label("Delete Item"),
		noAPI:     true,
	}, opts)
}

// CopyItem copies an item to another repository or path.
func (s *ArtifactsService) CopyItem(ctx context.Context, srcRepoKey, srcPath, dstRepoKey, dstPath string, opts ...CallOption) (*Result, error) {
	return s.do(ctx, &call{
		verb:      http.MethodPost,
		target:    relocateTarget("copy/", srcRepoKey, srcPath, dstRepoKey, dstPath),
		operation: s.label("Copy Item"),
	}, opts)
}

// MoveItem moves an item to another repository or path.
func (s *ArtifactsService) MoveItem(ctx context.Context, srcRepoKey, srcPath, dstRepoKey, dstPath string, opts ...CallOption) (*Result, error) {
	return s.do(ctx, &call{
		verb:      http.MethodPost,
		target:    relocateTarget("move/", srcRepoKey, srcPath, dstRepoKey, dstPath),
		operation: s.label("Move Item"),
	}, opts)
}

func relocateTarget(action, srcRepoKey, srcPath, dstRepoKey, dstPath string) string {
	target := appendSegment(action+srcRepoKey, srcPath) + "?to=/" + dstRepoKey
	if dstRepoKey != "" {
		target += "/" + dstPath
	}
	return target
}

// ArtifactSyncDownload downloads an artifact into a remote repository cache
// and waits for the transfer to finish.
func (s *ArtifactsService) ArtifactSyncDownload(ctx context.Context, repoKey, artifactPath string, opts ...CallOption) (*Result, error) {
	operation := s.label("Artifact Sync Download")
	if err := requirePath(operation, "artifact_path", artifactPath); err != nil {
		return nil, err
	}
	return s.do(ctx, &call{
		verb:      http.MethodGet,
		target:    "download/" + repoKey + "/" + artifactPath,
		operation: operation,
	}, opts)
}

// FileList gets a flat listing of the files and folders within a folder.
// Use WithOptions("&deep=1&depth=2") and similar to tune the listing.
func (s *ArtifactsService) FileList(ctx context.Context, repoKey, folderPath string, opts ...CallOption) (*Result, error) {
	return s.do(ctx, &call{
		verb:      http.MethodGet,
		target:    appendSegment("storage/"+repoKey, folderPath) + "?list",
		operation: s.label("File List"),
	}, opts)
}

// GetBackgroundTasks retrieves the list of background tasks.
func (s *ArtifactsService) GetBackgroundTasks(ctx context.Context, opts ...CallOption) (*Result, error) {
	return s.do(ctx, &call{
		verb:      http.MethodGet,
		target:    "tasks",
		operation: s.label("Get Background Tasks"),
	}, opts)
}

// EmptyTrashCan empties the trash can.
func (s *ArtifactsService) EmptyTrashCan(ctx context.Context, opts ...CallOption) (*Result, error) {
	return s.do(ctx, &call{
		verb:      http.MethodPost,
		target:    "trash/empty",
		operation: s.label("Empty Trash Can"),
	}, opts)
}

// DeleteItemFromTrashCan permanently deletes an item from the trash can.
func (s *ArtifactsService) DeleteItemFromTrashCan(ctx context.Context, pathInTrashCan string, opts ...CallOption) (*Result, error) {
	return s.do(ctx, &call{
		verb:      http.MethodDelete,
		target:    "trash/clean/" + pathInTrashCan,
		operation: s.label("Delete Item From Trash Can"),
	}, opts)
}

// RestoreItemFromTrashCan restores an item from the trash can to targetPath.
func (s *ArtifactsService) RestoreItemFromTrashCan(ctx context.Context, pathInTrashCan, targetPath string, opts ...CallOption) (*Result, error) {
	return s.do(ctx, &call{
		verb:      http.MethodPost,
		target:    "trash/restore/" + pathInTrashCan + "?to=" + targetPath,
		operation: s.label("Restore Item From Trash Can"),
	}, opts)
}

// OptimizeSystemStorage raises a flag to invoke the storage optimization.
func (s *ArtifactsService) OptimizeSystemStorage(ctx context.Context, opts ...CallOption) (*Result, error) {
	return s.do(ctx, &call{
		verb:      http.MethodPost,
		target:    "system/storage/optimize",
		operation: s.label("Optimize System Storage"),
	}, opts)
}
