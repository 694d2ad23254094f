package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"romdex/config"
)

var (
	cfgFile  string
	cfg      *config.Config
	rootDir  string
	platform string
	verbose  bool
	logger   *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "romdex",
	Short: "Catalog, search and download ROM archives from a directory listing",
	Long: `romdex indexes the archive files linked from a directory-listing page,
extracts titles and descriptive tags from their No-Intro style filenames, and
lets you search the index by fuzzy title and tag filters before downloading
the matches concurrently.

Queries are one optional title term plus +tag / -tag filters, where a tag is
a canonical name or a short code (see 'romdex tags'):
  "champion golf" +jp -proto

Example usage:
  romdex index                      # Build the index for the default platform
  romdex search -q 'golf +jp'       # Search it
  romdex download -q golf --select all
  romdex                            # Interactive shell`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error

		if rootDir == "" {
			rootDir, err = os.Getwd()
			if err != nil {
				return fmt.Errorf("failed to get working directory: %w", err)
			}
		}

		if cfgFile != "" {
			cfg, err = config.Load(cfgFile)
		} else {
			cfg, err = config.LoadFromDir(rootDir)
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}

		if platform == "" {
			platform = cfg.DefaultPlatform
		}

		logger = newLogger(cmd.ErrOrStderr(), cfg.Logging.Level, verbose)
		return nil
	},
	RunE: runShell,
}

// Execute runs the root command. SIGINT cancels in-flight requests.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./romdex.yaml)")
	rootCmd.PersistentFlags().StringVarP(&rootDir, "dir", "d", "", "root directory (default is current directory)")
	rootCmd.PersistentFlags().StringVarP(&platform, "platform", "p", "", "platform to work on (default from config)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log debug output")
}

func GetConfig() *config.Config {
	return cfg
}

func GetRootDir() string {
	return rootDir
}

func GetPlatform() string {
	return platform
}
