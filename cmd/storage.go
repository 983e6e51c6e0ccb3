package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/s0up4200/rtclient/artifactory"
	"github.com/s0up4200/rtclient/filter"
)

var (
	filterExpr   string
	deep         bool
	outputFile   string
	withChecksum bool
	dryRun       bool
	noConfirm    bool
)

// processed keeps a call out of raw mode when its output is parsed
func processed() artifactory.CallOption {
	return artifactory.WithSettings(map[string]any{artifactory.KeyRawResponse: false})
}

// lsCmd represents the ls command
var lsCmd = &cobra.Command{
	Use:   "ls REPO[/PATH]",
	Short: "List files in a repository folder",
	Long: `List the files under a repository folder, optionally filtered.

Filter expressions use the expr language with these variables:
  Name, URI, Ext, Size, LastModified, Folder, SHA1, SHA256

helpers such as daysSince, daysAgo, glob, containsFold, hasPrefix and
hasSuffix (case-insensitive), and the operators contains, startsWith,
endsWith and matches (case-sensitive). Size units KB, MB and GB are
predefined.

Example:
  rtclient ls libs-release-local/org/acme --deep --filter 'Size > 50 * MB'
  rtclient ls docker-local --filter 'LastModified < daysAgo(90)'`,
	Args: cobra.ExactArgs(1),
	RunE: runList,
}

func init() {
	lsCmd.Flags().StringVarP(&filterExpr, "filter", "f", "", "filter expression")
	lsCmd.Flags().BoolVar(&deep, "deep", false, "list recursively")
}

func runList(cmd *cobra.Command, args []string) error {
	repo, folder, err := splitRepoPath(args[0])
	if err != nil {
		return err
	}

	items, err := listItems(cmd.Context(), repo, folder, deep, filterExpr)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(items) == 0 {
		fmt.Fprintln(out, "No items found.")
		return nil
	}

	w := bufio.NewWriter(out)
	for _, item := range items {
		kind := "-"
		if item.Folder {
			kind = "d"
		}
		modified := ""
		if !item.LastModified.IsZero() {
			modified = item.LastModified.Format("2006-01-02 15:04")
		}
		fmt.Fprintf(w, "%s %10s  %-16s  %s\n", kind, formatSize(item.Size), modified, strings.TrimPrefix(item.URI, "/"))
	}
	return w.Flush()
}

// listItems lists a folder and applies an optional filter expression
func listItems(ctx context.Context, repo, folder string, recursive bool, expression string) ([]filter.Item, error) {
	opts := []artifactory.CallOption{processed()}
	if recursive {
		opts = append(opts, artifactory.WithOptions("&deep=1"))
	}

	result, err := withRetry(ctx, func(ctx context.Context) (*artifactory.Result, error) {
		return client.Artifacts.FileList(ctx, repo, folder, opts...)
	})
	if err != nil {
		return nil, err
	}

	items, err := filter.ParseFileList(result)
	if err != nil {
		return nil, err
	}

	if expression == "" {
		return items, nil
	}

	compiled, err := filter.NewExprCompiler().Compile(expression)
	if err != nil {
		return nil, fmt.Errorf("invalid filter expression: %w", err)
	}

	logger.Debug().Str("filter", expression).Int("items", len(items)).Msg("Filtering items")

	return filter.Select(ctx, compiled, items)
}

// getCmd represents the get command
var getCmd = &cobra.Command{
	Use:   "get REPO/PATH",
	Short: "Download an artifact",
	Args:  cobra.ExactArgs(1),
	RunE:  runGet,
}

func init() {
	getCmd.Flags().StringVarP(&outputFile, "output", "o", "", `output file ("-" for stdout, default is the artifact name)`)
}

func runGet(cmd *cobra.Command, args []string) error {
	repo, artifactPath, err := splitRepoPath(args[0])
	if err != nil {
		return err
	}

	result, err := withRetry(cmd.Context(), func(ctx context.Context) (*artifactory.Result, error) {
		return client.Artifacts.RetrieveArtifact(ctx, repo, artifactPath)
	})
	if err != nil {
		return err
	}
	defer result.Close()

	var w io.Writer = cmd.OutOrStdout()
	target := outputFile
	if target == "" {
		target = path.Base(artifactPath)
	}
	if target != "-" {
		f, err := os.Create(target)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		w = f
	}

	n, err := result.WriteTo(w)
	if err != nil {
		return fmt.Errorf("failed to write artifact: %w", err)
	}

	logger.Info().Str("artifact", args[0]).Str("output", target).Int64("bytes", n).Msg("Downloaded")
	return nil
}

// putCmd represents the put command
var putCmd = &cobra.Command{
	Use:   "put FILE... REPO/PATH",
	Short: "Upload one or more files",
	Long: `Upload files to a repository.

With a single file, REPO/PATH is the target path unless it ends with "/".
With several files, REPO/PATH is a folder and the uploads run concurrently.
--checksum first tries a checksum deploy and only sends content when the
server does not already hold it.`,
	Args: cobra.MinimumNArgs(2),
	RunE: runPut,
}

func init() {
	putCmd.Flags().BoolVar(&withChecksum, "checksum", false, "try a checksum deploy before uploading content")
}

func runPut(cmd *cobra.Command, args []string) error {
	locals := args[:len(args)-1]
	repo, target, err := splitRepoPath(args[len(args)-1])
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	if len(locals) == 1 && !strings.HasSuffix(args[len(args)-1], "/") && target != "" {
		return putOne(ctx, client.Artifacts, cmd.OutOrStdout(), repo, locals[0], target)
	}

	files := make(map[string]string, len(locals))
	for _, local := range locals {
		files[local] = path.Join(target, filepath.Base(local))
	}

	if withChecksum {
		for _, local := range locals {
			if err := putOne(ctx, client.Artifacts, cmd.OutOrStdout(), repo, local, files[local]); err != nil {
				return err
			}
		}
		return nil
	}

	result, err := client.DeployArtifacts(ctx, repo, files, cfg.Batch.Concurrency)
	fmt.Fprintf(cmd.OutOrStdout(), "Uploaded %d of %d files\n", len(result.Succeeded), result.Requested)
	return err
}

func putOne(ctx context.Context, store artifactory.Storage, out io.Writer, repo, local, target string) error {
	result, err := withRetry(ctx, func(ctx context.Context) (*artifactory.Result, error) {
		if withChecksum {
			return store.DeployArtifactWithChecksums(ctx, repo, local, target)
		}
		return store.DeployArtifact(ctx, repo, local, target)
	})
	if err != nil {
		return err
	}
	defer result.Close()

	logger.Info().Str("file", local).Str("target", repo+"/"+target).Msg("Uploaded")
	return printResult(out, result)
}

// rmCmd represents the rm command
var rmCmd = &cobra.Command{
	Use:   "rm REPO/PATH...",
	Short: "Delete items",
	Long: `Delete files or folders.

With --filter a single REPO[/PATH] folder is listed recursively and every
file matching the expression is deleted.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRemove,
}

func init() {
	rmCmd.Flags().StringVarP(&filterExpr, "filter", "f", "", "delete the files under a folder matching this expression")
	rmCmd.Flags().BoolVarP(&dryRun, "dry-run", "d", false, "show what would be deleted")
	rmCmd.Flags().BoolVar(&noConfirm, "no-confirm", false, "skip confirmation prompt")
}

func runRemove(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	targets, err := removalTargets(ctx, args)
	if err != nil {
		return err
	}

	var total int
	for _, paths := range targets {
		total += len(paths)
	}
	if total == 0 {
		fmt.Fprintln(out, "Nothing to delete.")
		return nil
	}

	repos := make([]string, 0, len(targets))
	for repo := range targets {
		repos = append(repos, repo)
	}
	sort.Strings(repos)

	for _, repo := range repos {
		for _, p := range targets[repo] {
			fmt.Fprintf(out, "• %s/%s\n", repo, p)
		}
	}

	if dryRun {
		fmt.Fprintf(out, "\n[DRY RUN] Would delete %d items\n", total)
		return nil
	}

	if !noConfirm && !confirm(cmd, fmt.Sprintf("\nDelete %d items? [y/N]: ", total)) {
		logger.Info().Msg("Deletion cancelled")
		return nil
	}

	var failed int
	for _, repo := range repos {
		result, err := client.DeleteItems(ctx, repo, targets[repo], cfg.Batch.Concurrency)
		if err != nil {
			logger.Error().Err(err).Str("repo", repo).Msg("Some deletions failed")
		}
		failed += len(result.Failed)
	}

	fmt.Fprintf(out, "Deleted %d of %d items\n", total-failed, total)
	if failed > 0 {
		return fmt.Errorf("%d deletions failed", failed)
	}
	return nil
}

// removalTargets groups the items to delete by repository
func removalTargets(ctx context.Context, args []string) (map[string][]string, error) {
	targets := make(map[string][]string)

	if filterExpr != "" {
		if len(args) != 1 {
			return nil, fmt.Errorf("--filter takes exactly one REPO[/PATH] folder")
		}
		repo, folder, err := splitRepoPath(args[0])
		if err != nil {
			return nil, err
		}
		items, err := listItems(ctx, repo, folder, true, filterExpr)
		if err != nil {
			return nil, err
		}
		files := items[:0]
		for _, item := range items {
			if !item.Folder {
				files = append(files, item)
			}
		}
		targets[repo] = filter.Paths(folder, files)
		return targets, nil
	}

	for _, arg := range args {
		repo, p, err := splitRepoPath(arg)
		if err != nil {
			return nil, err
		}
		if p == "" {
			return nil, fmt.Errorf("refusing to delete the whole repository %q", repo)
		}
		targets[repo] = append(targets[repo], p)
	}
	return targets, nil
}

func confirm(cmd *cobra.Command, prompt string) bool {
	fmt.Fprint(cmd.OutOrStdout(), prompt)
	response, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	return strings.ToLower(strings.TrimSpace(response)) == "y"
}
