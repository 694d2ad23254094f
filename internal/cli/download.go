package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"romdex/internal/adapter/retriever"
	"romdex/internal/usecase"
)

var (
	downloadQuery  string
	downloadSelect string
)

var downloadCmd = &cobra.Command{
	Use:   "download [filename...]",
	Short: "Download indexed files",
	Long: `Download files concurrently into the configured download directory.

Files are named literally, or picked from a search with --select, which takes
"all" or space-separated result numbers. A selection with any number out of
range downloads nothing.

Examples:
  romdex download "Champion Golf (Japan).zip"
  romdex download -q '+jp -proto' --select all
  romdex download -q golf --select "1 3"`,
	RunE: runDownload,
}

func init() {
	rootCmd.AddCommand(downloadCmd)
	downloadCmd.Flags().StringVarP(&downloadQuery, "query", "q", "", "search query to select from")
	downloadCmd.Flags().StringVar(&downloadSelect, "select", "", `result numbers or "all" (with --query)`)
}

func runDownload(cmd *cobra.Command, args []string) error {
	if len(args) == 0 && !cmd.Flags().Changed("query") {
		return errors.New("name files to download or pass --query")
	}
	if len(args) > 0 && cmd.Flags().Changed("query") {
		return errors.New("filenames and --query are mutually exclusive")
	}

	idx, err := loadIndex()
	if err != nil {
		return err
	}

	var names []string
	if len(args) > 0 {
		names, err = usecase.ResolveFilenames(args, idx)
		if err != nil {
			return err
		}
	} else {
		tax, err := loadTaxonomy()
		if err != nil {
			return err
		}
		matches, err := newSearchUseCase(tax).Search(idx, downloadQuery)
		if err != nil {
			return fmt.Errorf("search failed: %w", err)
		}
		results := retriever.Filenames(matches)
		if downloadSelect == "" {
			printResults(cmd.OutOrStdout(), results)
			return errors.New(`use --select with result numbers or "all" to download`)
		}
		names, err = usecase.ParseSelection(downloadSelect, results, idx)
		if err != nil {
			return err
		}
	}

	history := openHistory()
	defer history.Close()

	return downloadFiles(cmd.Context(), cmd.OutOrStdout(), idx, names, history)
}
