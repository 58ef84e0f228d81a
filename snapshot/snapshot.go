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
// Package snapshot captures the point-in-time state of workspace packages,
// persists it across invocations, and applies the before/after comparison
// that records dependency changes in each package's changelog.
package snapshot

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"golang.org/x/sync/errgroup"

	"bennypowers.dev/deplog/changelog"
	"bennypowers.dev/deplog/fs"
	"bennypowers.dev/deplog/packagejson"
)

const (
	manifestName  = "package.json"
	changelogName = "CHANGELOG.md"
)

// ErrMissingBaseline is returned when the comparison phase runs without a
// prior, still-present baseline snapshot.
var ErrMissingBaseline = errors.New("no baseline snapshot found")

// ErrManifestRead marks a package whose manifest could not be read or
// parsed. The package is snapshotted with an empty dependency mapping.
var ErrManifestRead = errors.New("cannot read manifest")

// ErrChangelogParse marks a package whose changelog exists but could not be
// parsed. The package is snapshotted with an empty placeholder document.
var ErrChangelogParse = errors.New("cannot parse changelog")

// ErrUnmatchedPackage marks a package present on only one side of the
// before/after join, or a package key that is not unique. Such packages are
// skipped; the rest of the batch proceeds.
var ErrUnmatchedPackage = errors.New("unmatched package")

// Snapshot is the point-in-time state of one workspace package: where its
// manifest and changelog live, the parsed changelog document, and the raw
// manifest payload carried verbatim so fields this tool never inspects
// survive the side-channel round trip.
type Snapshot struct {
	ManifestPath  string              `json:"manifestPath"`
	ChangelogPath string              `json:"changelogPath"`
	Changelog     *changelog.Document `json:"changelog"`
	ManifestJSON  json.RawMessage     `json:"manifestJson,omitempty"`

	// manifest is the parsed view of ManifestJSON, rebuilt on load and
	// never serialized. Nil when the manifest was unreadable.
	manifest *packagejson.PackageJSON
}

// Key identifies the package for the before/after join: the manifest name
// field, or the manifest's directory when no name is available.
func (s *Snapshot) Key() string {
	if s.manifest != nil && s.manifest.Name != "" {
		return s.manifest.Name
	}
	return filepath.Dir(s.ManifestPath)
}

// Dependencies returns the manifest's dependency mapping. Packages whose
// manifest was unreadable have an empty mapping.
func (s *Snapshot) Dependencies() map[string]string {
	if s.manifest == nil || s.manifest.Dependencies == nil {
		return map[string]string{}
	}
	return s.manifest.Dependencies
}

// Version returns the manifest's version field, empty when the manifest was
// unreadable.
func (s *Snapshot) Version() string {
	if s.manifest == nil {
		return ""
	}
	return s.manifest.Version
}

// rehydrate rebuilds the derived fields after a side-channel load.
func (s *Snapshot) rehydrate() {
	if len(s.ManifestJSON) > 0 {
		if pkg, err := packagejson.Parse(s.ManifestJSON); err == nil {
			s.manifest = pkg
		}
	}
	if s.Changelog == nil {
		s.Changelog = &changelog.Document{}
	}
}

// Take captures the current state of the package rooted at dir. A manifest
// that cannot be read or parsed yields a snapshot with no dependencies; a
// changelog that exists but cannot be parsed yields an empty placeholder
// document. Both conditions are reported as warnings rather than aborting
// the batch. A missing changelog is normal for a package's first release
// and produces a placeholder silently.
func Take(fs fs.FileSystem, dir string) (*Snapshot, []error) {
	var warnings []error

	snap := &Snapshot{
		ManifestPath:  filepath.Join(dir, manifestName),
		ChangelogPath: filepath.Join(dir, changelogName),
	}

	data, err := fs.ReadFile(snap.ManifestPath)
	if err != nil {
		warnings = append(warnings, fmt.Errorf("%w: %s: %v", ErrManifestRead, snap.ManifestPath, err))
	} else if pkg, err := packagejson.Parse(data); err != nil {
		warnings = append(warnings, fmt.Errorf("%w: %s: %v", ErrManifestRead, snap.ManifestPath, err))
	} else {
		snap.ManifestJSON = json.RawMessage(data)
		snap.manifest = pkg
	}

	doc, err := changelog.ParseFile(fs, snap.ChangelogPath)
	switch {
	case err == nil:
		snap.Changelog = doc
	case os.IsNotExist(err):
		snap.Changelog = &changelog.Document{}
	default:
		warnings = append(warnings, fmt.Errorf("%w: %s: %v", ErrChangelogParse, snap.ChangelogPath, err))
		snap.Changelog = &changelog.Document{}
	}

	return snap, warnings
}

// TakeAll snapshots every package directory, issuing the per-package reads
// concurrently while preserving the order of dirs in the returned
// collection.
func TakeAll(fs fs.FileSystem, dirs []string) ([]*Snapshot, []error) {
	snapshots := make([]*Snapshot, len(dirs))
	perDir := make([][]error, len(dirs))

	var g errgroup.Group
	g.SetLimit(runtime.NumCPU())
	for i, dir := range dirs {
		g.Go(func() error {
			snapshots[i], perDir[i] = Take(fs, dir)
			return nil
		})
	}
	// Workers report problems as warnings rather than errors, so Wait
	// cannot fail.
	if err := g.Wait(); err != nil {
		return nil, []error{err}
	}

	var warnings []error
	for _, w := range perDir {
		warnings = append(warnings, w...)
	}
	return snapshots, warnings
}
