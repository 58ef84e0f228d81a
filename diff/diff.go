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
// Package diff compares dependency mappings between two manifest snapshots
// and synthesizes changelog entries from the result.
package diff

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"

	"bennypowers.dev/deplog/changelog"
)

// Change records one dependency whose version range differs between the
// before and after manifests. Before is empty when the dependency was added.
type Change struct {
	Name   string
	Before string
	Now    string
}

// Added reports whether the dependency is new in the after manifest.
func (c Change) Added() bool {
	return c.Before == ""
}

// Diff compares two dependency mappings and returns the changes, ordered by
// the after mapping's keys. Version ranges compare as strings; no semver
// interpretation happens here, so `^1.0.0` and `1.0.0` count as different.
// Dependencies present only in before are not reported.
func Diff(before, after map[string]string) []Change {
	var changes []Change
	for _, name := range slices.Sorted(maps.Keys(after)) {
		now := after[name]
		prior, existed := before[name]
		if existed && prior == now {
			continue
		}
		if !existed {
			prior = ""
		}
		changes = append(changes, Change{Name: name, Before: prior, Now: now})
	}
	return changes
}

// NewEntry synthesizes a changelog entry for a set of dependency changes.
// The entry title is `[<version>] - <year>-<month>-<day>` with unpadded
// month and day; the body carries one bullet per change in diff order. It
// returns false when there are no changes, signalling that nothing should
// be written.
func NewEntry(version string, changes []Change, at time.Time) (changelog.VersionEntry, bool) {
	if len(changes) == 0 {
		return changelog.VersionEntry{}, false
	}

	var body strings.Builder
	for _, change := range changes {
		if change.Added() {
			fmt.Fprintf(&body, "- Added `%s@%s` in the list of dependencies.\r\n", change.Name, change.Now)
		} else {
			fmt.Fprintf(&body, "- Updated `%s` dependency to `%s`.\r\n", change.Name, change.Now)
		}
	}

	return changelog.VersionEntry{
		Title: fmt.Sprintf("[%s] - %d-%d-%d", version, at.Year(), int(at.Month()), at.Day()),
		Body:  strings.TrimSuffix(body.String(), "\r\n"),
	}, true
}
