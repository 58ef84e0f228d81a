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
package report_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"bennypowers.dev/deplog/internal/report"
)

func TestSummary(t *testing.T) {
	tests := []struct {
		name       string
		changes    int
		changelogs int
		dryRun     bool
		expected   string
	}{
		{"plural", 2, 1, false, "2 changes applied to 1 changelog"},
		{"singular", 1, 1, false, "1 change applied to 1 changelog"},
		{"zero", 0, 0, false, "0 changes applied to 0 changelogs"},
		{"dry run", 3, 2, true, "3 changes would be applied to 2 changelogs"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := report.Summary(tt.changes, tt.changelogs, tt.dryRun); got != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestCount(t *testing.T) {
	if got := report.Count(1, "package"); got != "1 package" {
		t.Errorf("Expected %q, got %q", "1 package", got)
	}
	if got := report.Count(5, "package"); got != "5 packages" {
		t.Errorf("Expected %q, got %q", "5 packages", got)
	}
	if got := report.Count(0, "package"); got != "0 packages" {
		t.Errorf("Expected %q, got %q", "0 packages", got)
	}
}

func TestWarning(t *testing.T) {
	var buf bytes.Buffer
	report.Warning(&buf, errors.New("manifest went missing"))

	out := buf.String()
	if !strings.Contains(out, "Warning:") {
		t.Errorf("Expected a Warning label, got %q", out)
	}
	if !strings.Contains(out, "manifest went missing") {
		t.Errorf("Expected the error message, got %q", out)
	}
	if !strings.HasSuffix(out, "\n") {
		t.Errorf("Expected a trailing newline, got %q", out)
	}
}

func TestError(t *testing.T) {
	var buf bytes.Buffer
	report.Error(&buf, errors.New("write failed"))

	out := buf.String()
	if !strings.Contains(out, "Error:") {
		t.Errorf("Expected an Error label, got %q", out)
	}
	if !strings.Contains(out, "write failed") {
		t.Errorf("Expected the error message, got %q", out)
	}
}
