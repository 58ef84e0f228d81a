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
package snapshot_test

import (
	"errors"
	"testing"

	"bennypowers.dev/deplog/internal/mapfs"
	"bennypowers.dev/deplog/snapshot"
)

func newPackageFS() *mapfs.MapFileSystem {
	mfs := mapfs.New()
	mfs.AddFile("/repo/packages/foo/package.json", `{
		"name": "@repo/foo",
		"version": "1.0.0",
		"license": "MIT",
		"dependencies": {"bar": "^1.0.0"}
	}`, 0644)
	mfs.AddFile("/repo/packages/foo/CHANGELOG.md", "# @repo/foo\r\n\r\nChanges.\r\n", 0644)
	return mfs
}

func TestTake(t *testing.T) {
	mfs := newPackageFS()

	snap, warnings := snapshot.Take(mfs, "/repo/packages/foo")
	if len(warnings) != 0 {
		t.Fatalf("Expected no warnings, got %v", warnings)
	}

	if snap.ManifestPath != "/repo/packages/foo/package.json" {
		t.Errorf("Unexpected manifest path: %q", snap.ManifestPath)
	}
	if snap.ChangelogPath != "/repo/packages/foo/CHANGELOG.md" {
		t.Errorf("Unexpected changelog path: %q", snap.ChangelogPath)
	}
	if snap.Key() != "@repo/foo" {
		t.Errorf("Expected key from manifest name, got %q", snap.Key())
	}
	if snap.Version() != "1.0.0" {
		t.Errorf("Unexpected version: %q", snap.Version())
	}
	if deps := snap.Dependencies(); deps["bar"] != "^1.0.0" {
		t.Errorf("Unexpected dependencies: %v", deps)
	}
	if snap.Changelog == nil || snap.Changelog.Title != "@repo/foo" {
		t.Errorf("Unexpected changelog document: %+v", snap.Changelog)
	}
}

func TestTakeKeyFallsBackToDirectory(t *testing.T) {
	mfs := mapfs.New()
	mfs.AddFile("/repo/packages/anon/package.json", `{"version": "0.1.0"}`, 0644)

	snap, _ := snapshot.Take(mfs, "/repo/packages/anon")
	if snap.Key() != "/repo/packages/anon" {
		t.Errorf("Expected directory fallback key, got %q", snap.Key())
	}
}

func TestTakeMissingManifest(t *testing.T) {
	mfs := mapfs.New()
	mfs.AddDir("/repo/packages/empty", 0755)

	snap, warnings := snapshot.Take(mfs, "/repo/packages/empty")

	if len(warnings) != 1 || !errors.Is(warnings[0], snapshot.ErrManifestRead) {
		t.Fatalf("Expected an ErrManifestRead warning, got %v", warnings)
	}
	if len(snap.Dependencies()) != 0 {
		t.Errorf("Expected empty dependency mapping, got %v", snap.Dependencies())
	}
	if snap.Version() != "" {
		t.Errorf("Expected empty version, got %q", snap.Version())
	}
	if snap.ManifestJSON != nil {
		t.Errorf("Expected no raw manifest payload, got %s", snap.ManifestJSON)
	}
}

func TestTakeMalformedManifest(t *testing.T) {
	mfs := mapfs.New()
	mfs.AddFile("/repo/packages/bad/package.json", "{truncated", 0644)

	snap, warnings := snapshot.Take(mfs, "/repo/packages/bad")

	if len(warnings) != 1 || !errors.Is(warnings[0], snapshot.ErrManifestRead) {
		t.Fatalf("Expected an ErrManifestRead warning, got %v", warnings)
	}
	if len(snap.Dependencies()) != 0 {
		t.Errorf("Expected empty dependency mapping, got %v", snap.Dependencies())
	}
}

func TestTakeMissingChangelog(t *testing.T) {
	mfs := mapfs.New()
	mfs.AddFile("/repo/packages/new/package.json", `{"name": "new", "version": "0.1.0"}`, 0644)

	snap, warnings := snapshot.Take(mfs, "/repo/packages/new")

	// A package that has not released yet simply has no changelog; that is
	// not worth a diagnostic.
	if len(warnings) != 0 {
		t.Fatalf("Expected no warnings for a missing changelog, got %v", warnings)
	}
	if snap.Changelog == nil {
		t.Fatal("Expected a placeholder document")
	}
	if snap.Changelog.Title != "" || len(snap.Changelog.Versions) != 0 {
		t.Errorf("Expected an empty placeholder, got %+v", snap.Changelog)
	}
}

func TestTakeMalformedChangelog(t *testing.T) {
	mfs := mapfs.New()
	mfs.AddFile("/repo/packages/odd/package.json", `{"name": "odd"}`, 0644)
	mfs.AddFile("/repo/packages/odd/CHANGELOG.md", "no heading here\n", 0644)

	snap, warnings := snapshot.Take(mfs, "/repo/packages/odd")

	if len(warnings) != 1 || !errors.Is(warnings[0], snapshot.ErrChangelogParse) {
		t.Fatalf("Expected an ErrChangelogParse warning, got %v", warnings)
	}
	if snap.Changelog == nil || snap.Changelog.Title != "" {
		t.Errorf("Expected an empty placeholder, got %+v", snap.Changelog)
	}
}

func TestTakeAllPreservesOrder(t *testing.T) {
	mfs := mapfs.New()
	mfs.AddFile("/repo/packages/a/package.json", `{"name": "a"}`, 0644)
	mfs.AddFile("/repo/packages/b/package.json", `{"name": "b"}`, 0644)
	mfs.AddFile("/repo/packages/c/package.json", `{"name": "c"}`, 0644)

	dirs := []string{"/repo/packages/c", "/repo/packages/a", "/repo/packages/b"}
	snapshots, warnings := snapshot.TakeAll(mfs, dirs)

	if len(warnings) != 0 {
		t.Fatalf("Expected no warnings, got %v", warnings)
	}
	if len(snapshots) != 3 {
		t.Fatalf("Expected 3 snapshots, got %d", len(snapshots))
	}
	for i, expected := range []string{"c", "a", "b"} {
		if snapshots[i].Key() != expected {
			t.Errorf("Snapshot %d: expected key %q, got %q", i, expected, snapshots[i].Key())
		}
	}
}

func TestTakeAllAggregatesWarnings(t *testing.T) {
	mfs := mapfs.New()
	mfs.AddFile("/repo/packages/ok/package.json", `{"name": "ok"}`, 0644)
	mfs.AddDir("/repo/packages/broken", 0755)

	snapshots, warnings := snapshot.TakeAll(mfs, []string{"/repo/packages/ok", "/repo/packages/broken"})

	if len(snapshots) != 2 {
		t.Fatalf("Expected a snapshot per directory, got %d", len(snapshots))
	}
	if len(warnings) != 1 || !errors.Is(warnings[0], snapshot.ErrManifestRead) {
		t.Fatalf("Expected one ErrManifestRead warning, got %v", warnings)
	}
}
