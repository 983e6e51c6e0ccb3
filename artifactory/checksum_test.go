package artifactory

import (
	"context"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	helloSHA1   = "aaf4c61ddcc5e8a2dabede0f3b482cd9aea9434d"
	helloSHA256 = "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824"
)

func writeHello(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "hello.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0o644))
	return path
}

func TestFileChecksums(t *testing.T) {
	sums, err := FileChecksums(writeHello(t))
	require.NoError(t, err)
	assert.Equal(t, helloSHA1, sums.SHA1)
	assert.Equal(t, helloSHA256, sums.SHA256)

	_, err = FileChecksums(filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
}

func TestDeployArtifactWithChecksums(t *testing.T) {
	t.Run("server has the content", func(t *testing.T) {
		var uploads int
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "true", r.Header.Get(HeaderChecksumDeploy))
			assert.Equal(t, helloSHA256, r.Header.Get(HeaderChecksumSha256))
			uploads++
			w.WriteHeader(http.StatusCreated)
			io.WriteString(w, `{"repo": "libs", "path": "/hello.txt"}`)
		})

		result, err := client.Artifacts.DeployArtifactWithChecksums(context.Background(), "libs", writeHello(t), "hello.txt")
		require.NoError(t, err)
		assert.Equal(t, KindJSON, result.Kind)
		assert.Equal(t, 1, uploads)
	})

	t.Run("falls back to upload on 404", func(t *testing.T) {
		var bodies []string
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/artifactory/libs/hello.txt", r.URL.Path)
			if r.Header.Get(HeaderChecksumDeploy) == "true" {
				w.WriteHeader(http.StatusNotFound)
				io.WriteString(w, `{"errors": [{"status": 404, "message": "Checksum deploy failed"}]}`)
				return
			}
			assert.Equal(t, helloSHA1, r.Header.Get(HeaderChecksumSha1))
			assert.Equal(t, helloSHA256, r.Header.Get(HeaderChecksumSha256))
			data, _ := io.ReadAll(r.Body)
			bodies = append(bodies, string(data))
			w.WriteHeader(http.StatusCreated)
			io.WriteString(w, `{"repo": "libs"}`)
		})

		_, err := client.Artifacts.DeployArtifactWithChecksums(context.Background(), "libs", writeHello(t), "hello.txt")
		require.NoError(t, err)
		assert.Equal(t, []string{"hello"}, bodies)
	})

	t.Run("other errors are returned", func(t *testing.T) {
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
			io.WriteString(w, `{"errors": [{"status": 403, "message": "Forbidden"}]}`)
		})

		_, err := client.Artifacts.DeployArtifactWithChecksums(context.Background(), "libs", writeHello(t), "hello.txt")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Forbidden")
	})
	t.Run("raw mode falls back on 404", func(t *testing.T) {
		var uploaded bool
		client := newRawClient(t, func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get(HeaderChecksumDeploy) == "true" {
				w.WriteHeader(http.StatusNotFound)
				io.WriteString(w, `{"errors": [{"status": 404, "message": "Checksum deploy failed"}]}`)
				return
			}
			uploaded = true
			assert.Equal(t, helloSHA256, r.Header.Get(HeaderChecksumSha256))
			w.WriteHeader(http.StatusCreated)
			io.WriteString(w, `{"repo": "libs"}`)
		})

		result, err := client.Artifacts.DeployArtifactWithChecksums(context.Background(), "libs", writeHello(t), "hello.txt")
		require.NoError(t, err)
		defer result.Close()
		assert.True(t, uploaded)
		assert.Equal(t, KindRaw, result.Kind)
		assert.Equal(t, http.StatusCreated, result.StatusCode)
	})

	t.Run("raw mode returns other failures as results", func(t *testing.T) {
		var requests int
		client := newRawClient(t, func(w http.ResponseWriter, r *http.Request) {
			requests++
			w.WriteHeader(http.StatusForbidden)
			io.WriteString(w, `{"errors": [{"status": 403, "message": "Forbidden"}]}`)
		})

		result, err := client.Artifacts.DeployArtifactWithChecksums(context.Background(), "libs", writeHello(t), "hello.txt")
		require.NoError(t, err)
		assert.Equal(t, 1, requests)
		assert.Equal(t, http.StatusForbidden, result.StatusCode)

		var apiErr *APIError
		require.ErrorAs(t, result.Err(), &apiErr)
		assert.Equal(t, "Forbidden", apiErr.Message)

		data, err := result.Bytes()
		require.NoError(t, err)
		assert.Contains(t, string(data), "Forbidden")
	})
}
