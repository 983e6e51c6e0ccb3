package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/s0up4200/rtclient/artifactory"
	"github.com/s0up4200/rtclient/retry"
)

// retryConfig builds the backoff policy from the loaded config
func retryConfig() retry.Config {
	rc := retry.DefaultConfig()
	rc.MaxRetries = cfg.Retry.MaxRetries
	if cfg.Retry.MaxElapsed > 0 {
		rc.MaxElapsedTime = cfg.Retry.MaxElapsed
	}
	if cfg.Retry.MaxInterval > 0 {
		rc.MaxInterval = cfg.Retry.MaxInterval
	}
	rc.Logger = logger
	return rc
}

// withRetry runs fn under the configured retry policy
func withRetry(ctx context.Context, fn func(context.Context) (*artifactory.Result, error)) (*artifactory.Result, error) {
	return retry.Do(ctx, retryConfig(), fn)
}

// splitRepoPath splits "repo/some/path" into its repository key and path
func splitRepoPath(arg string) (string, string, error) {
	arg = strings.Trim(arg, "/")
	repo, path, _ := strings.Cut(arg, "/")
	if repo == "" {
		return "", "", fmt.Errorf("invalid repository path %q (expected REPO[/PATH])", arg)
	}
	return repo, path, nil
}

// printResult writes a result in a human friendly form
func printResult(w io.Writer, result *artifactory.Result) error {
	switch result.Kind {
	case artifactory.KindJSON:
		data, err := json.MarshalIndent(result.Data, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to format response: %w", err)
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	case artifactory.KindText:
		if result.Text == "" {
			return nil
		}
		_, err := fmt.Fprintln(w, strings.TrimRight(result.Text, "\n"))
		return err
	default:
		_, err := result.WriteTo(w)
		return err
	}
}

// formatSize renders a byte count for listings
func formatSize(size int64) string {
	const unit = 1024
	if size < 0 {
		return "-"
	}
	if size < unit {
		return fmt.Sprintf("%d B", size)
	}
	div, exp := int64(unit), 0
	for n := size / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(size)/float64(div), "KMGTPE"[exp])
}
