package cli

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var historyJSON bool

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show index builds and downloads",
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().BoolVar(&historyJSON, "json", false, "output as JSON")
}

func runHistory(cmd *cobra.Command, args []string) error {
	history := openHistory()
	defer history.Close()

	builds, err := history.Builds(GetPlatform())
	if err != nil {
		return fmt.Errorf("failed to read builds: %w", err)
	}
	downloads, err := history.Downloads(GetPlatform())
	if err != nil {
		return fmt.Errorf("failed to read downloads: %w", err)
	}

	out := cmd.OutOrStdout()
	if historyJSON {
		output, _ := json.MarshalIndent(map[string]any{
			"builds":    builds,
			"downloads": downloads,
		}, "", "  ")
		fmt.Fprintln(out, string(output))
		return nil
	}

	fmt.Fprintf(out, "Index builds (%s):\n", GetPlatform())
	if len(builds) == 0 {
		fmt.Fprintln(out, "  none")
	}
	for _, b := range builds {
		fmt.Fprintf(out, "  %s  %d indexed, %d skipped of %d\n",
			b.BuiltAt.Local().Format(time.DateTime), b.Indexed, b.Skipped, b.Candidates)
	}

	fmt.Fprintf(out, "\nDownloads (%s):\n", GetPlatform())
	if len(downloads) == 0 {
		fmt.Fprintln(out, "  none")
	}
	for _, d := range downloads {
		status := fmt.Sprintf("%d bytes", d.Bytes)
		if d.Error != "" {
			status = "failed: " + d.Error
		}
		fmt.Fprintf(out, "  %s  %s  %s\n", d.FinishedAt.Local().Format(time.DateTime), d.Filename, status)
	}
	return nil
}
