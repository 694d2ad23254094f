package cli

import (
	"github.com/spf13/cobra"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Rebuild the index for a platform",
	Long: `Fetch the platform's directory listing, check every archive it links to
and rebuild the index from the filenames that answer. The index is stored in
.romdex/<platform>-games.json within the root directory.

Examples:
  romdex index                # Index the default platform
  romdex index -p sg1000      # Index a specific platform`,
	Args: cobra.NoArgs,
	RunE: runIndex,
}

func init() {
	rootCmd.AddCommand(indexCmd)
}

func runIndex(cmd *cobra.Command, args []string) error {
	tax, err := loadTaxonomy()
	if err != nil {
		return err
	}

	history := openHistory()
	defer history.Close()

	_, err = buildIndex(cmd.Context(), cmd.OutOrStdout(), tax, history)
	return err
}
