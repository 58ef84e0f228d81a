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
// Package workspace discovers the package directories of an npm workspace
// by expanding the workspaces globs from the root manifest.
package workspace

import (
	"fmt"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"bennypowers.dev/deplog/fs"
	"bennypowers.dev/deplog/packagejson"
)

// Discover returns the package directories of the workspace rooted at
// rootDir, sorted and deduplicated. When patterns is empty they come from
// the root package.json workspaces field; a root without workspaces is a
// single-package repository and yields just rootDir. Only directories that
// contain a package.json are returned. Glob syntax follows doublestar:
// `packages/*`, `apps/**`, brace sets.
func Discover(fsys fs.FileSystem, rootDir string, patterns []string) ([]string, error) {
	if len(patterns) == 0 {
		rootPkg, err := packagejson.ParseFile(fsys, filepath.Join(rootDir, "package.json"))
		if err != nil {
			return nil, fmt.Errorf("workspace root manifest: %w", err)
		}
		patterns = rootPkg.WorkspacePatterns()
	}

	if len(patterns) == 0 {
		return []string{rootDir}, nil
	}

	normalized := make([]string, len(patterns))
	for i, pattern := range patterns {
		normalized[i] = normalizePattern(pattern)
		if !doublestar.ValidatePattern(normalized[i]) {
			return nil, fmt.Errorf("workspace pattern %q: %w", pattern, doublestar.ErrBadPattern)
		}
	}

	maxDepth, bounded := patternDepth(normalized)

	var dirs []string
	walkDirs(fsys, rootDir, "", 0, maxDepth, bounded, func(rel, full string) {
		for _, pattern := range normalized {
			if !doublestar.MatchUnvalidated(pattern, rel) {
				continue
			}
			if fsys.Exists(filepath.Join(full, "package.json")) {
				dirs = append(dirs, full)
			}
			return
		}
	})

	slices.Sort(dirs)
	return slices.Compact(dirs), nil
}

// FindRoot walks up the directory tree to find the workspace root.
// Returns the directory containing node_modules, workspace configuration,
// or .git, falling back to startDir when nothing above qualifies.
func FindRoot(fs fs.FileSystem, startDir string) string {
	dir := startDir
	for {
		// Check if node_modules exists in this directory
		nodeModulesPath := filepath.Join(dir, "node_modules")
		if stat, err := fs.Stat(nodeModulesPath); err == nil && stat.IsDir() {
			return dir
		}

		// Check if there's a package.json with workspaces field
		pkgPath := filepath.Join(dir, "package.json")
		if pkg, err := packagejson.ParseFile(fs, pkgPath); err == nil && pkg.HasWorkspaces() {
			return dir
		}

		// Check for .git directory (repository root is a reasonable workspace root)
		gitDir := filepath.Join(dir, ".git")
		if stat, err := fs.Stat(gitDir); err == nil && stat.IsDir() {
			return dir
		}

		// Move up one directory
		parent := filepath.Dir(dir)
		if parent == dir {
			return startDir
		}
		dir = parent
	}
}

// normalizePattern strips the "./" prefix and trailing slash npm tolerates
// in workspaces entries.
func normalizePattern(pattern string) string {
	pattern = strings.TrimPrefix(pattern, "./")
	return strings.TrimSuffix(pattern, "/")
}

// patternDepth returns how many path segments deep the walk must go to
// satisfy every pattern. Patterns with `**` or brace sets make the walk
// unbounded (bounded == false); it is then limited only by pruning.
func patternDepth(patterns []string) (int, bool) {
	maxDepth := 0
	for _, pattern := range patterns {
		if strings.Contains(pattern, "**") || strings.Contains(pattern, "{") {
			return 0, false
		}
		if depth := len(strings.Split(pattern, "/")); depth > maxDepth {
			maxDepth = depth
		}
	}
	return maxDepth, true
}

// walkDirs visits every directory under rootDir except node_modules and
// dot-directories, calling visit with the slash-separated path relative to
// rootDir and the joined full path. Unreadable directories are skipped.
func walkDirs(fsys fs.FileSystem, rootDir, rel string, depth, maxDepth int, bounded bool, visit func(rel, full string)) {
	entries, err := fsys.ReadDir(filepath.Join(rootDir, filepath.FromSlash(rel)))
	if err != nil {
		return
	}

	for _, entry := range entries {
		if !entry.IsDir() || entry.Name() == "node_modules" || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		childRel := path.Join(rel, entry.Name())
		visit(childRel, filepath.Join(rootDir, filepath.FromSlash(childRel)))
		if !bounded || depth+1 < maxDepth {
			walkDirs(fsys, rootDir, childRel, depth+1, maxDepth, bounded, visit)
		}
	}
}
