package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var tagsCmd = &cobra.Command{
	Use:   "tags",
	Short: "List recognized tags and their short codes",
	Args:  cobra.NoArgs,
	RunE:  runTags,
}

func init() {
	rootCmd.AddCommand(tagsCmd)
}

func runTags(cmd *cobra.Command, args []string) error {
	tax, err := loadTaxonomy()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, c := range tax.Categories() {
		fmt.Fprintf(out, "%s:\n", c.Name)
		for _, tag := range c.Tags {
			if code, ok := tax.CodeFor(tag); ok {
				fmt.Fprintf(out, "  %-22s %s\n", tag, code)
			} else {
				fmt.Fprintf(out, "  %s\n", tag)
			}
		}
	}
	return nil
}
