/*
Copyright © 2026 Benny Powers <web@bennypowers.com>

This program is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

This program is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with this program. If not, see <http://www.gnu.org/licenses/>.
*/

// Package after provides the after command for deplog.
package after

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"bennypowers.dev/deplog/fs"
	"bennypowers.dev/deplog/internal/report"
	"bennypowers.dev/deplog/snapshot"
	"bennypowers.dev/deplog/workspace"
)

// Cmd is the after command.
var Cmd = &cobra.Command{
	Use:   "after",
	Short: "Record dependency changes since the baseline in each changelog",
	Long: `Compare every workspace package against the baseline captured by
"deplog before" and prepend a dated entry to each changed package's
CHANGELOG.md listing the added and updated dependencies.

The baseline is discarded once every package has been processed
successfully; if any changelog write fails it is kept so the run can be
retried.`,
	Example: `  # Record changes since the last "deplog before"
  deplog after

  # See what would be written without touching any file
  deplog after --dry-run

  # Backdate the changelog entries
  deplog after --date 2026-08-01`,
	RunE: run,
}

func init() {
	Cmd.Flags().Bool("dry-run", false, "Show what would change without modifying files")
	Cmd.Flags().String("date", "", "Entry date as YYYY-MM-DD (default: today)")
}

func run(cmd *cobra.Command, args []string) error {
	osfs := fs.NewOSFileSystem()

	root, err := workspaceRoot(osfs)
	if err != nil {
		return err
	}

	dryRun, _ := cmd.Flags().GetBool("dry-run")
	at := time.Now()
	if date, _ := cmd.Flags().GetString("date"); date != "" {
		at, err = time.Parse("2006-01-02", date)
		if err != nil {
			return fmt.Errorf("invalid --date %q: %w", date, err)
		}
	}

	store := snapshot.NewStore(osfs, baselinePath(osfs, root))
	baseline, err := store.Load()
	if err != nil {
		if errors.Is(err, snapshot.ErrMissingBaseline) {
			return fmt.Errorf("%w; run \"deplog before\" first", err)
		}
		return err
	}

	dirs, err := workspace.Discover(osfs, root, viper.GetStringSlice("pattern"))
	if err != nil {
		return err
	}

	current, warnings := snapshot.TakeAll(osfs, dirs)
	outcome := snapshot.Apply(osfs, baseline, current, snapshot.ApplyOptions{At: at, DryRun: dryRun})

	for _, warning := range append(warnings, outcome.Warnings...) {
		report.Warning(os.Stderr, warning)
	}
	for _, failure := range outcome.Errors() {
		report.Error(os.Stderr, failure)
	}

	if dryRun {
		for _, result := range outcome.Results {
			if result.Written {
				fmt.Printf("would update %s\n", result.ChangelogPath)
			}
		}
	}

	fmt.Println(report.Summary(outcome.TotalChanges(), outcome.Touched(), dryRun))

	if outcome.Failed() {
		return fmt.Errorf("failed to update %s; baseline kept at %s",
			report.Count(len(outcome.Errors()), "changelog"), store.Path())
	}

	if dryRun {
		return nil
	}

	if err := store.Discard(); err != nil {
		return fmt.Errorf("discard baseline: %w", err)
	}
	return nil
}

// workspaceRoot resolves the workspace root from the --root flag, walking
// up from the working directory when the flag is unset.
func workspaceRoot(osfs fs.FileSystem) (string, error) {
	root := viper.GetString("root")
	if root == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("resolve working directory: %w", err)
		}
		root = workspace.FindRoot(osfs, cwd)
	}
	return filepath.Abs(root)
}

// baselinePath resolves the side-channel location from the --baseline flag,
// defaulting to a temp file keyed by the workspace root.
func baselinePath(osfs fs.FileSystem, root string) string {
	if path := viper.GetString("baseline"); path != "" {
		return path
	}
	return snapshot.DefaultPath(osfs, root)
}
