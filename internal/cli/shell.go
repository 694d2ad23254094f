package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"romdex/internal/adapter/retriever"
	"romdex/internal/domain"
	"romdex/internal/usecase"
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Interactive search and download loop (default)",
	Long: `Read commands one per line:
  search, s          prompt for a query and list the results
  download, dl, d    prompt for a result number, a list of numbers, "all"
                     or a filename, then download it
  quit, q            leave

The index is built first when none exists.`,
	Args: cobra.NoArgs,
	RunE: runShell,
}

func init() {
	rootCmd.AddCommand(shellCmd)
}

func runShell(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	tax, err := loadTaxonomy()
	if err != nil {
		return err
	}
	history := openHistory()
	defer history.Close()

	idx, err := loadIndex()
	if errors.Is(err, domain.ErrNoIndex) {
		fmt.Fprintf(out, "No index for %s yet, building it first.\n", GetPlatform())
		idx, err = buildIndex(ctx, out, tax, history)
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "%d files indexed for %s.\n\n", idx.Len(), GetPlatform())

	sh := &shell{
		in:     bufio.NewScanner(cmd.InOrStdin()),
		out:    out,
		idx:    idx,
		search: newSearchUseCase(tax),
		download: func(ctx context.Context, names []string) error {
			return downloadFiles(ctx, out, idx, names, history)
		},
	}
	return sh.run(ctx)
}

// shell is the line-oriented command loop. Only quit and end of input
// leave it; every other failure is reported and the loop goes on.
type shell struct {
	in       *bufio.Scanner
	out      io.Writer
	idx      *domain.Index
	search   *usecase.SearchUseCase
	download func(ctx context.Context, names []string) error

	results []string
}

func (s *shell) run(ctx context.Context) error {
	for ctx.Err() == nil {
		line, ok := s.prompt("Please type a command: ")
		if !ok {
			fmt.Fprintln(s.out)
			return nil
		}

		switch strings.ToLower(line) {
		case "":
		case "search", "s":
			if !s.searchPrompt() {
				return nil
			}
		case "download", "dl", "d":
			if !s.downloadPrompt(ctx) {
				return nil
			}
			s.results = nil
		case "quit", "q":
			return nil
		default:
			fmt.Fprintf(s.out, "Unknown command %q. Commands: search (s), download (dl, d), quit (q)\n", line)
		}
	}
	return nil
}

// prompt reports false at end of input.
func (s *shell) prompt(msg string) (string, bool) {
	fmt.Fprint(s.out, msg)
	if !s.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(s.in.Text()), true
}

func (s *shell) searchPrompt() bool {
	for {
		line, ok := s.prompt("Please type your query: ")
		if !ok {
			return false
		}
		if line == "" {
			continue
		}

		matches, err := s.search.Search(s.idx, line)
		if err != nil {
			fmt.Fprintf(s.out, "Invalid query: %v\n", err)
			continue
		}
		s.results = retriever.Filenames(matches)
		printResults(s.out, s.results)
		fmt.Fprintln(s.out)
		return true
	}
}

func (s *shell) downloadPrompt(ctx context.Context) bool {
	msg := "Please type the name of the file you wish to download: "
	if len(s.results) > 0 {
		msg = `Please type the number(s) of the result you wish to download, or "all": `
	}

	for {
		line, ok := s.prompt(msg)
		if !ok {
			return false
		}
		if line == "" {
			return true
		}

		names, err := usecase.ParseSelection(line, s.results, s.idx)
		if err != nil {
			fmt.Fprintf(s.out, "%v\n", err)
			continue
		}
		if err := s.download(ctx, names); err != nil {
			fmt.Fprintf(s.out, "%v\n", err)
		}
		fmt.Fprintln(s.out)
		return true
	}
}
