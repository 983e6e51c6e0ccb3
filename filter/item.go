package filter

import (
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/s0up4200/rtclient/artifactory"
)

// Item is one entry of a file list
type Item struct {
	// URI is relative to the listed folder and starts with "/"
	URI          string
	Size         int64
	LastModified time.Time
	Folder       bool
	SHA1         string
	SHA256       string
}

// Name returns the last path element of the item
func (i Item) Name() string {
	return path.Base(i.URI)
}

// fileList mirrors the JSON returned by the file list endpoint
type fileList struct {
	URI     string `json:"uri"`
	Created string `json:"created"`
	Files   []struct {
		URI          string `json:"uri"`
		Size         int64  `json:"size"`
		LastModified string `json:"lastModified"`
		Folder       bool   `json:"folder"`
		SHA1         string `json:"sha1"`
		SHA2         string `json:"sha2"`
	} `json:"files"`
}

// timestamp layouts seen in file list output
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.000-0700",
}

func parseTime(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	var lastErr error
	for _, layout := range timeLayouts {
		t, err := time.Parse(layout, value)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

// ParseFileList converts a file list result into items
func ParseFileList(result *artifactory.Result) ([]Item, error) {
	var list fileList
	if err := result.Decode(&list); err != nil {
		return nil, fmt.Errorf("failed to decode file list: %w", err)
	}

	items := make([]Item, 0, len(list.Files))
	for _, f := range list.Files {
		modified, err := parseTime(f.LastModified)
		if err != nil {
			return nil, fmt.Errorf("invalid lastModified %q for %s: %w", f.LastModified, f.URI, err)
		}
		items = append(items, Item{
			URI:          f.URI,
			Size:         f.Size,
			LastModified: modified,
			Folder:       f.Folder,
			SHA1:         f.SHA1,
			SHA256:       f.SHA2,
		})
	}
	return items, nil
}

// Paths joins item URIs onto a folder path, dropping the leading slash
func Paths(folder string, items []Item) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = strings.TrimPrefix(path.Join(folder, item.URI), "/")
	}
	return out
}
