package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/s0up4200/rtclient/artifactory"
)

var aqlFile string

// aqlCmd represents the aql command
var aqlCmd = &cobra.Command{
	Use:   "aql [QUERY]",
	Short: "Run an Artifactory Query Language query",
	Long: `Run an AQL query and print the JSON result.

Example:
  rtclient aql 'items.find({"repo":"libs-release-local"}).include("name","size")'
  rtclient aql -f query.aql`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAQL,
}

func init() {
	aqlCmd.Flags().StringVarP(&aqlFile, "file", "f", "", "read the query from a file")
}

func runAQL(cmd *cobra.Command, args []string) error {
	query, err := aqlQuery(args)
	if err != nil {
		return err
	}

	logger.Debug().Str("query", query).Msg("Running AQL query")

	result, err := withRetry(cmd.Context(), func(ctx context.Context) (*artifactory.Result, error) {
		return client.Searches.AQL(ctx, query)
	})
	if err != nil {
		return err
	}
	return printResult(cmd.OutOrStdout(), result)
}

func aqlQuery(args []string) (string, error) {
	switch {
	case aqlFile != "" && len(args) > 0:
		return "", fmt.Errorf("give either a query or --file, not both")
	case aqlFile != "":
		data, err := os.ReadFile(aqlFile)
		if err != nil {
			return "", fmt.Errorf("failed to read query file: %w", err)
		}
		return strings.TrimSpace(string(data)), nil
	case len(args) == 1:
		return args[0], nil
	default:
		return "", fmt.Errorf("no query specified")
	}
}
