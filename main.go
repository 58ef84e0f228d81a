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

// Command deplog records dependency changes in workspace changelogs.
package main

import (
	"errors"
	"fmt"
	"os"
	"runtime/pprof"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"bennypowers.dev/deplog/cmd/after"
	"bennypowers.dev/deplog/cmd/before"
	"bennypowers.dev/deplog/cmd/version"
)

var (
	cpuprofile     string
	cpuprofileFile *os.File
	rootCmd        = &cobra.Command{
		Use:   "deplog",
		Short: "Record dependency changes in workspace changelogs",
		Long: `deplog keeps per-package changelogs in sync with package.json dependency
changes across an npm workspace monorepo.

Capture a baseline with "deplog before", bump your dependencies, then run
"deplog after" to prepend a dated entry to each changed package's
CHANGELOG.md.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cpuprofile != "" {
				f, err := os.Create(cpuprofile)
				if err != nil {
					return fmt.Errorf("could not create CPU profile: %w", err)
				}
				cpuprofileFile = f
				if err := pprof.StartCPUProfile(f); err != nil {
					closeErr := f.Close()
					return errors.Join(
						fmt.Errorf("could not start CPU profile: %w", err),
						closeErr,
					)
				}
			}
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if cpuprofileFile != nil {
				pprof.StopCPUProfile()
				if err := cpuprofileFile.Close(); err != nil {
					return fmt.Errorf("closing CPU profile: %w", err)
				}
			}
			return nil
		},
	}
)

func init() {
	// Root flags (persistent across all commands)
	rootCmd.PersistentFlags().StringP("root", "r", "", "Workspace root (default: auto-detect from the working directory)")
	rootCmd.PersistentFlags().String("baseline", "", "Baseline snapshot file (default: per-workspace file in the temp directory)")
	rootCmd.PersistentFlags().StringSlice("pattern", nil, "Workspace glob pattern override (repeatable)")
	rootCmd.PersistentFlags().StringVar(&cpuprofile, "cpuprofile", "", "Write CPU profile to file")

	_ = viper.BindPFlag("root", rootCmd.PersistentFlags().Lookup("root"))
	_ = viper.BindPFlag("baseline", rootCmd.PersistentFlags().Lookup("baseline"))
	_ = viper.BindPFlag("pattern", rootCmd.PersistentFlags().Lookup("pattern"))

	// Add commands
	rootCmd.AddCommand(before.Cmd)
	rootCmd.AddCommand(after.Cmd)
	rootCmd.AddCommand(version.Cmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
