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
// Package report formats deplog's user-facing diagnostics and summary line.
package report

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// Label colors fall back to plain text when the terminal does not support
// them.
var (
	warnLabel  = color.New(color.FgYellow, color.Bold).SprintFunc()
	errorLabel = color.New(color.FgRed, color.Bold).SprintFunc()
)

// Warning prints a non-fatal per-package diagnostic.
func Warning(w io.Writer, err error) {
	fmt.Fprintf(w, "%s %s\n", warnLabel("Warning:"), err)
}

// Error prints a fatal diagnostic.
func Error(w io.Writer, err error) {
	fmt.Fprintf(w, "%s %s\n", errorLabel("Error:"), err)
}

// Summary renders the end-of-run line: how many dependency changes landed
// in how many changelogs.
func Summary(changes, changelogs int, dryRun bool) string {
	verb := "applied"
	if dryRun {
		verb = "would be applied"
	}
	return fmt.Sprintf("%s %s to %s", Count(changes, "change"), verb, Count(changelogs, "changelog"))
}

// Count pluralizes a noun with its cardinality.
func Count(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
