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
package snapshot

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"path/filepath"

	"bennypowers.dev/deplog/fs"
)

// Store persists an ordered snapshot collection to a JSON side-channel
// between the before and after invocations.
type Store struct {
	fs   fs.FileSystem
	path string
}

// NewStore creates a Store backed by the side-channel file at path.
func NewStore(fs fs.FileSystem, path string) *Store {
	return &Store{fs: fs, path: path}
}

// DefaultPath returns the side-channel location for a workspace root: a
// file in the system temp directory keyed by a digest of the root's
// absolute path, so baselines for different checkouts cannot clobber each
// other.
func DefaultPath(fs fs.FileSystem, root string) string {
	abs, err := filepath.Abs(root)
	if err != nil {
		abs = root
	}
	sum := sha256.Sum256([]byte(abs))
	return filepath.Join(fs.TempDir(), fmt.Sprintf("deplog-%x.json", sum[:5]))
}

// Path returns the side-channel file location.
func (s *Store) Path() string {
	return s.path
}

// Save serializes the snapshots to the side-channel, overwriting any prior
// baseline.
func (s *Store) Save(snapshots []*Snapshot) error {
	data, err := json.MarshalIndent(snapshots, "", "  ")
	if err != nil {
		return fmt.Errorf("encode baseline: %w", err)
	}
	if err := s.fs.WriteFile(s.path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("save baseline: %w", err)
	}
	return nil
}

// Load deserializes the side-channel back into the collection Save wrote.
// A missing or unparseable side-channel wraps ErrMissingBaseline; the whole
// after phase must abort and the user be told to run the before phase
// first.
func (s *Store) Load() ([]*Snapshot, error) {
	data, err := s.fs.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("%w at %s: %v", ErrMissingBaseline, s.path, err)
	}

	var snapshots []*Snapshot
	if err := json.Unmarshal(data, &snapshots); err != nil {
		return nil, fmt.Errorf("%w: %s is not a baseline: %v", ErrMissingBaseline, s.path, err)
	}

	for _, snap := range snapshots {
		snap.rehydrate()
	}
	return snapshots, nil
}

// Discard removes the side-channel. Called once the after phase has
// processed every matched package without error; a kept side-channel lets
// a failed run be retried against the same baseline.
func (s *Store) Discard() error {
	return s.fs.Remove(s.path)
}
