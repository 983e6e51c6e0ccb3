package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/s0up4200/rtclient/artifactory"
	"github.com/s0up4200/rtclient/config"
)

var (
	cfgFile string
	cfg     *config.Config
	logger  zerolog.Logger
	client  *artifactory.Client

	// Persistent flags
	verbose bool
	raw     bool
	retries uint64

	appVersion = "dev"
	appBuilt   = "unknown"
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "rtclient",
	Short: "A command line client for the Artifactory REST API",
	Long: `rtclient talks to an Artifactory instance through its REST API.
It can check health and version, run AQL queries, and list, download,
upload and delete artifacts.`,
	PersistentPreRunE: initializeApp,
	SilenceUsage:      true,
}

// SetVersion records build information shown by the version command
func SetVersion(version, built string) {
	appVersion = version
	appBuilt = built
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print every REST operation performed")
	rootCmd.PersistentFlags().BoolVar(&raw, "raw", false, "print raw responses without processing")
	rootCmd.PersistentFlags().Uint64Var(&retries, "retries", 0, "retry failed calls up to N times (overrides config)")

	rootCmd.AddCommand(pingCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(aqlCmd)
	rootCmd.AddCommand(lsCmd)
	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(putCmd)
	rootCmd.AddCommand(rmCmd)
}

// initializeApp loads the configuration and creates the client
func initializeApp(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger = setupLogger(cfg.Logging)

	if cmd.Flags().Changed("retries") {
		cfg.Retry.MaxRetries = retries
	}

	settings := make(map[string]any, len(cfg.Artifactory)+2)
	for key, value := range cfg.Artifactory {
		settings[key] = value
	}
	if verbose {
		settings[artifactory.KeyVerboseLevel] = 1
	}
	if raw {
		settings[artifactory.KeyRawResponse] = true
	}

	client, err = artifactory.NewFromMap(settings,
		artifactory.WithLogger(logger),
		artifactory.WithVerboseOutput(cmd.ErrOrStderr()),
	)
	if err != nil {
		return fmt.Errorf("failed to create Artifactory client: %w", err)
	}

	logger.Debug().
		Str("url", client.Settings().URL).
		Uint64("retries", cfg.Retry.MaxRetries).
		Msg("Client initialized")

	return nil
}

// setupLogger configures the zerolog logger
func setupLogger(cfg config.LoggingConfig) zerolog.Logger {
	level := zerolog.InfoLevel
	switch strings.ToLower(cfg.Level) {
	case "trace":
		level = zerolog.TraceLevel
	case "debug":
		level = zerolog.DebugLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}

	zerolog.SetGlobalLevel(level)

	if cfg.Format == "json" {
		return zerolog.New(os.Stderr).With().Timestamp().Logger()
	}

	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
		NoColor:    !cfg.Color || !isTerminal(os.Stderr),
	}

	return zerolog.New(output).With().Timestamp().Logger()
}

func isTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
