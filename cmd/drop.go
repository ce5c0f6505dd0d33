package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"
)

var dropForce bool

var dropCmd = &cobra.Command{
	Use:   "drop",
	Short: "Delete the imported snapshot",
	Long: `Delete the SQLite snapshot written by 'import'. The CSV sources are left
untouched; run 'import' again to rebuild the snapshot from them.`,
	Args: cobra.NoArgs,
	RunE: runDrop,
}

func init() {
	dropCmd.Flags().BoolVarP(&dropForce, "force", "f", false, "delete without asking for --force first")
}

func runDrop(cmd *cobra.Command, args []string) error {
	if !dropForce {
		fmt.Fprintf(cmd.ErrOrStderr(), "snapshot %s would be deleted; pass --force to confirm\n", cfg.DBPath)
		return nil
	}
	removed, err := removeSnapshot(cfg.DBPath)
	if err != nil {
		return err
	}
	if !removed {
		fmt.Fprintf(cmd.OutOrStdout(), "no snapshot at %s\n", cfg.DBPath)
		return nil
	}
	logger.Info("snapshot dropped", "path", cfg.DBPath)
	return nil
}

// removeSnapshot deletes the snapshot file at path. A missing file is not an
// error and reports false.
func removeSnapshot(path string) (bool, error) {
	err := os.Remove(path)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	default:
		return false, fmt.Errorf("remove snapshot: %w", err)
	}
}
