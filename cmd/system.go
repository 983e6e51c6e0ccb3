package cmd

import (
	"context"
	"fmt"

	"github.com/blang/semver"
	"github.com/spf13/cobra"

	"github.com/s0up4200/rtclient/artifactory"
)

var requireVersion string

// pingCmd represents the ping command
var pingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Check that Artifactory is up and the credentials work",
	Args:  cobra.NoArgs,
	RunE:  runPing,
}

func runPing(cmd *cobra.Command, args []string) error {
	result, err := withRetry(cmd.Context(), func(ctx context.Context) (*artifactory.Result, error) {
		return client.Call(ctx)
	})
	if err != nil {
		return err
	}
	return printResult(cmd.OutOrStdout(), result)
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show client and server versions",
	Long: `Show the rtclient build and the Artifactory version and add-ons.

With --require the command fails when the server is older than the given
version, which is useful in scripts.`,
	Args: cobra.NoArgs,
	RunE: runVersion,
}

func init() {
	versionCmd.Flags().StringVar(&requireVersion, "require", "", "fail unless the server version is at least this")
}

// serverVersion is the part of the version response we use
type serverVersion struct {
	Version  string   `json:"version"`
	Revision string   `json:"revision"`
	Addons   []string `json:"addons"`
}

func runVersion(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "rtclient %s (built %s)\n", appVersion, appBuilt)

	result, err := withRetry(cmd.Context(), func(ctx context.Context) (*artifactory.Result, error) {
		return client.System.VersionAndAddons(ctx, artifactory.WithSettings(map[string]any{
			artifactory.KeyRawResponse: false,
		}))
	})
	if err != nil {
		return err
	}

	var info serverVersion
	if err := result.Decode(&info); err != nil {
		return err
	}

	fmt.Fprintf(out, "Artifactory %s (revision %s)\n", info.Version, info.Revision)
	if len(info.Addons) > 0 {
		fmt.Fprintf(out, "Add-ons: %v\n", info.Addons)
	}

	if requireVersion == "" {
		return nil
	}

	required, err := semver.ParseTolerant(requireVersion)
	if err != nil {
		return fmt.Errorf("invalid --require version %q: %w", requireVersion, err)
	}
	actual, err := semver.ParseTolerant(info.Version)
	if err != nil {
		return fmt.Errorf("server reported unparseable version %q: %w", info.Version, err)
	}
	if actual.LT(required) {
		return fmt.Errorf("server version %s is older than required %s", actual, required)
	}

	logger.Debug().Str("server", actual.String()).Str("required", required.String()).Msg("Version requirement met")
	return nil
}
