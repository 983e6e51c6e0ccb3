package artifactory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/hashicorp/go-multierror"
	"golang.org/x/sync/errgroup"
)

const (
	// DefaultConcurrency is used when a batch helper gets a non-positive limit.
	DefaultConcurrency = 4
	// MaxConcurrency caps the number of in-flight requests of a batch.
	MaxConcurrency = 20
)

// BatchResult summarizes a batch operation.
type BatchResult struct {
	Requested int
	Succeeded []string
	Failed    []string
}

// ItemError records which batch item failed.
type ItemError struct {
	Path string
	Err  error
}

func (e *ItemError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *ItemError) Unwrap() error {
	return e.Err
}

func clampConcurrency(n int) int {
	if n <= 0 {
		return DefaultConcurrency
	}
	return min(n, MaxConcurrency)
}

// DeleteItems deletes paths from repoKey concurrently. Every path is
// attempted; failures are aggregated into the returned error.
func (c *Client) DeleteItems(ctx context.Context, repoKey string, paths []string, concurrency int) (BatchResult, error) {
	return c.runBatch(ctx, "delete", paths, concurrency, func(ctx context.Context, path string) error {
		result, err := c.Artifacts.DeleteItem(ctx, repoKey, path)
		if err != nil {
			return err
		}
		return settle(result)
	})
}

// DeployArtifacts uploads local files to repoKey concurrently. files maps a
// local path to its target path in the repository.
func (c *Client) DeployArtifacts(ctx context.Context, repoKey string, files map[string]string, concurrency int) (BatchResult, error) {
	locals := make([]string, 0, len(files))
	for local := range files {
		locals = append(locals, local)
	}
	sort.Strings(locals)

	return c.runBatch(ctx, "deploy", locals, concurrency, func(ctx context.Context, local string) error {
		result, err := c.Artifacts.DeployArtifact(ctx, repoKey, local, files[local])
		if err != nil {
			return err
		}
		return settle(result)
	})
}

// settle releases a batch item's result. A raw result with an error status
// counts as a failure.
func settle(result *Result) error {
	if err := result.Err(); err != nil {
		return err
	}
	return result.Close()
}

func (c *Client) runBatch(ctx context.Context, action string, items []string, concurrency int, fn func(context.Context, string) error) (BatchResult, error) {
	result := BatchResult{Requested: len(items)}
	if len(items) == 0 {
		return result, nil
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(clampConcurrency(concurrency))

	var (
		mu   sync.Mutex
		merr *multierror.Error
	)

	for _, item := range items {
		item := item
		g.Go(func() error {
			err := fn(ctx, item)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				c.logger.Warn().
					Err(err).
					Str("action", action).
					Str("item", item).
					Msg("Batch item failed")
				result.Failed = append(result.Failed, item)
				merr = multierror.Append(merr, &ItemError{Path: item, Err: err})
				return nil
			}
			result.Succeeded = append(result.Succeeded, item)
			return nil
		})
	}

	// workers never return an error
	_ = g.Wait()

	sort.Strings(result.Succeeded)
	sort.Strings(result.Failed)

	c.logger.Debug().
		Str("action", action).
		Int("requested", result.Requested).
		Int("succeeded", len(result.Succeeded)).
		Int("failed", len(result.Failed)).
		Msg("Batch complete")

	return result, merr.ErrorOrNil()
}
