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

// Package before provides the before command for deplog.
package before

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"bennypowers.dev/deplog/fs"
	"bennypowers.dev/deplog/internal/report"
	"bennypowers.dev/deplog/snapshot"
	"bennypowers.dev/deplog/workspace"
)

// Cmd is the before command.
var Cmd = &cobra.Command{
	Use:   "before",
	Short: "Capture a baseline snapshot of workspace dependencies",
	Long: `Capture a baseline snapshot of every workspace package's manifest
dependencies and changelog.

Run this before bumping dependency versions, then run "deplog after" to
record what changed in each package's CHANGELOG.md.`,
	Example: `  # Snapshot the workspace containing the current directory
  deplog before

  # Snapshot an explicit workspace root
  deplog before --root ~/src/my-monorepo

  # Keep the baseline somewhere specific
  deplog before --baseline /tmp/release-baseline.json`,
	RunE: run,
}

func run(cmd *cobra.Command, args []string) error {
	osfs := fs.NewOSFileSystem()

	root, err := workspaceRoot(osfs)
	if err != nil {
		return err
	}

	dirs, err := workspace.Discover(osfs, root, viper.GetStringSlice("pattern"))
	if err != nil {
		return err
	}

	snapshots, warnings := snapshot.TakeAll(osfs, dirs)
	for _, warning := range warnings {
		report.Warning(os.Stderr, warning)
	}

	store := snapshot.NewStore(osfs, baselinePath(osfs, root))
	if err := store.Save(snapshots); err != nil {
		return err
	}

	fmt.Printf("captured %s to %s\n", report.Count(len(snapshots), "package"), store.Path())
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
