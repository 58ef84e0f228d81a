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
	"fmt"
	"time"

	"bennypowers.dev/deplog/changelog"
	"bennypowers.dev/deplog/diff"
	"bennypowers.dev/deplog/fs"
)

// ApplyOptions configures the comparison phase.
type ApplyOptions struct {
	// At is the timestamp stamped into synthesized entry titles. The zero
	// value means now.
	At time.Time
	// DryRun computes and reports changes without writing any file.
	DryRun bool
}

// Result records the comparison outcome for one matched package.
type Result struct {
	Key           string
	ChangelogPath string
	Changes       []diff.Change
	// Written is true when a changelog entry was written, or would have
	// been on a dry run.
	Written bool
	Err     error
}

// Outcome aggregates the comparison phase across the whole batch.
type Outcome struct {
	Results  []Result
	Warnings []error
}

// TotalChanges returns the number of individual dependency changes applied
// (or, on a dry run, that would be applied).
func (o *Outcome) TotalChanges() int {
	total := 0
	for _, r := range o.Results {
		if r.Written {
			total += len(r.Changes)
		}
	}
	return total
}

// Touched returns the number of changelogs written (or, on a dry run, that
// would be written).
func (o *Outcome) Touched() int {
	touched := 0
	for _, r := range o.Results {
		if r.Written {
			touched++
		}
	}
	return touched
}

// Errors returns the per-package write failures.
func (o *Outcome) Errors() []error {
	var errs []error
	for _, r := range o.Results {
		if r.Err != nil {
			errs = append(errs, r.Err)
		}
	}
	return errs
}

// Failed reports whether any package's changelog write failed.
func (o *Outcome) Failed() bool {
	return len(o.Errors()) > 0
}

// Apply joins the baseline snapshots against the current ones by package
// key, diffs each pair's dependencies, and prepends a dated entry to each
// changed package's changelog. Packages present on only one side, and keys
// that are not unique, are reported as warnings and skipped rather than
// paired up by position. A write failure is recorded on its own package's
// Result and does not stop the rest of the batch.
func Apply(fs fs.FileSystem, before, after []*Snapshot, opts ApplyOptions) *Outcome {
	at := opts.At
	if at.IsZero() {
		at = time.Now()
	}

	outcome := &Outcome{}

	baseline := make(map[string]*Snapshot, len(before))
	for _, snap := range before {
		key := snap.Key()
		if _, dup := baseline[key]; dup {
			outcome.Warnings = append(outcome.Warnings,
				fmt.Errorf("%w: duplicate baseline key %q at %s", ErrUnmatchedPackage, key, snap.ManifestPath))
			continue
		}
		baseline[key] = snap
	}

	seen := make(map[string]bool, len(after))
	matched := make(map[string]bool, len(after))

	for _, snap := range after {
		key := snap.Key()
		if seen[key] {
			outcome.Warnings = append(outcome.Warnings,
				fmt.Errorf("%w: duplicate package key %q at %s", ErrUnmatchedPackage, key, snap.ManifestPath))
			continue
		}
		seen[key] = true

		prior, ok := baseline[key]
		if !ok {
			outcome.Warnings = append(outcome.Warnings,
				fmt.Errorf("%w: %q (%s) has no baseline entry", ErrUnmatchedPackage, key, snap.ManifestPath))
			continue
		}
		matched[key] = true

		result := Result{
			Key:           key,
			ChangelogPath: snap.ChangelogPath,
			Changes:       diff.Diff(prior.Dependencies(), snap.Dependencies()),
		}

		if entry, ok := diff.NewEntry(snap.Version(), result.Changes, at); ok {
			switch {
			case opts.DryRun:
				result.Written = true
			default:
				if err := changelog.WriteFile(fs, snap.ChangelogPath, snap.Changelog.Prepend(entry)); err != nil {
					result.Err = fmt.Errorf("write %s: %w", snap.ChangelogPath, err)
				} else {
					result.Written = true
				}
			}
		}

		outcome.Results = append(outcome.Results, result)
	}

	warned := make(map[string]bool, len(before))
	for _, snap := range before {
		key := snap.Key()
		if matched[key] || warned[key] {
			continue
		}
		warned[key] = true
		outcome.Warnings = append(outcome.Warnings,
			fmt.Errorf("%w: baseline %q (%s) not present in current workspace", ErrUnmatchedPackage, key, snap.ManifestPath))
	}

	return outcome
}
