package cmd

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitRepoPath(t *testing.T) {
	tests := []struct {
		arg      string
		wantRepo string
		wantPath string
		wantErr  bool
	}{
		{"libs", "libs", "", false},
		{"libs/", "libs", "", false},
		{"/libs/org/acme/app.jar", "libs", "org/acme/app.jar", false},
		{"", "", "", true},
		{"/", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.arg, func(t *testing.T) {
			repo, p, err := splitRepoPath(tt.arg)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantRepo, repo)
			assert.Equal(t, tt.wantPath, p)
		})
	}
}

func TestFormatSize(t *testing.T) {
	assert.Equal(t, "-", formatSize(-1))
	assert.Equal(t, "512 B", formatSize(512))
	assert.Equal(t, "1.5 KiB", formatSize(1536))
	assert.Equal(t, "2.0 MiB", formatSize(2<<20))
}

func TestAQLQuery(t *testing.T) {
	defer func() { aqlFile = "" }()

	q, err := aqlQuery([]string{`items.find()`})
	require.NoError(t, err)
	assert.Equal(t, "items.find()", q)

	_, err = aqlQuery(nil)
	require.Error(t, err)

	aqlFile = filepath.Join(t.TempDir(), "q.aql")
	require.NoError(t, os.WriteFile(aqlFile, []byte("items.find()\n"), 0o600))
	q, err = aqlQuery(nil)
	require.NoError(t, err)
	assert.Equal(t, "items.find()", q)

	_, err = aqlQuery([]string{"x"})
	require.Error(t, err)
}

func runCLI(t *testing.T, handler http.HandlerFunc, args ...string) (string, error) {
	t.Helper()
	server := httptest.NewServer(handler)
	defer server.Close()

	configPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte(`
artifactory:
  af_url: `+server.URL+`/artifactory
  api_key: test-key
logging:
  level: error
`), 0o600))

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(append([]string{"--config", configPath}, args...))
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	return out.String(), err
}

func TestPingCommand(t *testing.T) {
	out, err := runCLI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/artifactory/api/system/ping", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("X-JFrog-Art-Api"))
		io.WriteString(w, "OK")
	}, "ping")

	require.NoError(t, err)
	assert.Equal(t, "OK\n", out)
}

func TestListCommandWithFilter(t *testing.T) {
	defer func() { filterExpr = ""; deep = false }()

	out, err := runCLI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/artifactory/api/storage/libs/org", r.URL.Path)
		assert.Equal(t, "list&deep=1", r.URL.RawQuery)
		io.WriteString(w, `{"files": [
			{"uri": "/small.jar", "size": 10, "lastModified": "2024-01-10T09:00:00.000Z", "folder": false},
			{"uri": "/big.jar", "size": 104857600, "lastModified": "2024-01-10T09:00:00.000Z", "folder": false}
		]}`)
	}, "ls", "libs/org", "--deep", "--filter", "Size > 1 * MB")

	require.NoError(t, err)
	assert.Contains(t, out, "big.jar")
	assert.NotContains(t, out, "small.jar")
}

func TestRemoveCommandRawModeCountsFailures(t *testing.T) {
	defer func() { raw = false; noConfirm = false }()

	out, err := runCLI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		if r.URL.Path == "/artifactory/libs/keep/ok.jar" {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		w.WriteHeader(http.StatusNotFound)
		io.WriteString(w, `{"errors": [{"status": 404, "message": "Could not locate artifact"}]}`)
	}, "--raw", "rm", "libs/keep/ok.jar", "libs/gone.jar", "--no-confirm")

	require.Error(t, err)
	assert.Contains(t, out, "Deleted 1 of 2 items")
}
