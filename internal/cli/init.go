package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"romdex/config"
	"romdex/internal/adapter/taxonomy"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default config and the built-in tag files",
	Long: `Write romdex.yaml to the root directory and the built-in tags.json and
short-codes.json to .romdex/, ready to be edited. Existing files are kept
unless --force is given.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().BoolVar(&initForce, "force", false, "overwrite existing files")
}

func runInit(cmd *cobra.Command, args []string) error {
	dir := GetRootDir()
	out := cmd.OutOrStdout()

	if err := config.EnsureDataDir(dir); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	cfgPath := filepath.Join(dir, config.ConfigFile)
	if initForce || !exists(cfgPath) {
		if err := config.DefaultConfig().Save(cfgPath); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
		fmt.Fprintf(out, "Wrote %s\n", cfgPath)
	} else {
		fmt.Fprintf(out, "Kept %s\n", cfgPath)
	}

	tagsPath := filepath.Join(config.DataDir(dir), taxonomy.TagsFile)
	codesPath := filepath.Join(config.DataDir(dir), taxonomy.ShortCodesFile)
	if initForce || (!exists(tagsPath) && !exists(codesPath)) {
		if err := taxonomy.Default().Save(tagsPath, codesPath); err != nil {
			return fmt.Errorf("failed to write tag files: %w", err)
		}
		fmt.Fprintf(out, "Wrote %s\nWrote %s\n", tagsPath, codesPath)
	} else {
		fmt.Fprintf(out, "Kept %s and %s\n", tagsPath, codesPath)
	}
	return nil
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
