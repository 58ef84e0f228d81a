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
package diff_test

import (
	"testing"
	"time"

	"bennypowers.dev/deplog/diff"
)

func TestDiffIdentity(t *testing.T) {
	deps := map[string]string{"a": "^1.0.0", "b": "~2.0.0"}
	if changes := diff.Diff(deps, deps); len(changes) != 0 {
		t.Errorf("Expected no changes for identical mappings, got %v", changes)
	}
}

func TestDiffAdded(t *testing.T) {
	changes := diff.Diff(map[string]string{}, map[string]string{"x": "1.0.0"})

	if len(changes) != 1 {
		t.Fatalf("Expected 1 change, got %d", len(changes))
	}
	change := changes[0]
	if change.Name != "x" || change.Before != "" || change.Now != "1.0.0" {
		t.Errorf("Unexpected change: %+v", change)
	}
	if !change.Added() {
		t.Error("Expected Added() for a dependency absent from before")
	}
}

func TestDiffChanged(t *testing.T) {
	changes := diff.Diff(
		map[string]string{"x": "1.0.0"},
		map[string]string{"x": "2.0.0"},
	)

	if len(changes) != 1 {
		t.Fatalf("Expected 1 change, got %d", len(changes))
	}
	change := changes[0]
	if change.Name != "x" || change.Before != "1.0.0" || change.Now != "2.0.0" {
		t.Errorf("Unexpected change: %+v", change)
	}
	if change.Added() {
		t.Error("Expected Added() false for a version change")
	}
}

func TestDiffRemovedInvisible(t *testing.T) {
	if changes := diff.Diff(map[string]string{"x": "1.0.0"}, map[string]string{}); len(changes) != 0 {
		t.Errorf("Expected removed dependencies to be invisible, got %v", changes)
	}
}

func TestDiffTextualComparison(t *testing.T) {
	// Ranges compare as strings: semantically equal but textually
	// different ranges count as changes.
	changes := diff.Diff(
		map[string]string{"x": "^1.0.0"},
		map[string]string{"x": "1.0.0"},
	)
	if len(changes) != 1 {
		t.Fatalf("Expected textual inequality to count as a change, got %v", changes)
	}
	if changes[0].Before != "^1.0.0" || changes[0].Now != "1.0.0" {
		t.Errorf("Unexpected change: %+v", changes[0])
	}
}

func TestDiffOrdering(t *testing.T) {
	changes := diff.Diff(
		map[string]string{"delta": "^1.0.0", "alpha": "^1.0.0"},
		map[string]string{
			"delta":   "^2.0.0",
			"charlie": "^1.0.0",
			"alpha":   "^1.5.0",
			"bravo":   "^1.0.0",
		},
	)

	expected := []string{"alpha", "bravo", "charlie", "delta"}
	if len(changes) != len(expected) {
		t.Fatalf("Expected %d changes, got %d: %v", len(expected), len(changes), changes)
	}
	for i, name := range expected {
		if changes[i].Name != name {
			t.Errorf("Change %d: expected %q, got %q", i, name, changes[i].Name)
		}
	}
}

func TestNewEntry(t *testing.T) {
	changes := []diff.Change{
		{Name: "bar", Before: "^1.0.0", Now: "^2.0.0"},
		{Name: "baz", Before: "", Now: "^1.0.0"},
	}
	at := time.Date(2024, time.March, 9, 15, 4, 5, 0, time.UTC)

	entry, ok := diff.NewEntry("1.1.0", changes, at)
	if !ok {
		t.Fatal("Expected an entry for a non-empty change list")
	}

	if entry.Title != "[1.1.0] - 2024-3-9" {
		t.Errorf("Expected unpadded date in title, got %q", entry.Title)
	}

	expectedBody := "- Updated `bar` dependency to `^2.0.0`.\r\n" +
		"- Added `baz@^1.0.0` in the list of dependencies."
	if entry.Body != expectedBody {
		t.Errorf("Body mismatch\ngot:  %q\nwant: %q", entry.Body, expectedBody)
	}
}

func TestNewEntryEmptyChanges(t *testing.T) {
	if _, ok := diff.NewEntry("1.0.0", nil, time.Now()); ok {
		t.Error("Expected no entry for an empty change list")
	}
}

func TestNewEntryDoubleDigitDate(t *testing.T) {
	entry, ok := diff.NewEntry("0.2.0", []diff.Change{{Name: "x", Now: "^1.0.0"}},
		time.Date(2025, time.December, 31, 0, 0, 0, 0, time.UTC))
	if !ok {
		t.Fatal("Expected an entry")
	}
	if entry.Title != "[0.2.0] - 2025-12-31" {
		t.Errorf("Unexpected title: %q", entry.Title)
	}
}

func TestNewEntryEmptyVersion(t *testing.T) {
	// A manifest without a version field still gets an entry; the brackets
	// are just empty.
	entry, ok := diff.NewEntry("", []diff.Change{{Name: "x", Now: "^1.0.0"}},
		time.Date(2024, time.January, 2, 0, 0, 0, 0, time.UTC))
	if !ok {
		t.Fatal("Expected an entry")
	}
	if entry.Title != "[] - 2024-1-2" {
		t.Errorf("Unexpected title: %q", entry.Title)
	}
}
