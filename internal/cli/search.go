package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"romdex/internal/adapter/retriever"
	"romdex/internal/usecase"
)

var (
	searchText string
	searchJSON bool
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search the index",
	Long: `Search the index by fuzzy title and tag filters.

A query holds at most one title term (quote it when it has spaces) and any
number of +tag / -tag filters. Results must carry at least one +tag and none
of the -tags. An empty title lists every entry.

Examples:
  romdex search -q '"champion golf" +jp'
  romdex search -q '+eu -proto' --json`,
	Args: cobra.NoArgs,
	RunE: runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)
	searchCmd.Flags().StringVarP(&searchText, "query", "q", "", "search query (required)")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output as JSON")
	searchCmd.MarkFlagRequired("query")
}

func runSearch(cmd *cobra.Command, args []string) error {
	tax, err := loadTaxonomy()
	if err != nil {
		return err
	}
	idx, err := loadIndex()
	if err != nil {
		return err
	}

	matches, err := newSearchUseCase(tax).Search(idx, searchText)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	out := cmd.OutOrStdout()
	if searchJSON {
		output, _ := json.MarshalIndent(usecase.Describe(idx, matches), "", "  ")
		fmt.Fprintln(out, string(output))
		return nil
	}

	printResults(out, retriever.Filenames(matches))
	return nil
}
