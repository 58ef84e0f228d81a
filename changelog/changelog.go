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
// Package changelog provides the structured changelog document model:
// parsing changelog markdown into title, description, and version entries,
// prepending new entries, and rendering the document back to its canonical
// CRLF form.
package changelog

import (
	"errors"
	"strings"

	"bennypowers.dev/deplog/fs"
)

// ErrNotChangelog is returned when a file does not open with a top-level
// markdown heading and therefore cannot be treated as a changelog.
var ErrNotChangelog = errors.New("not a changelog: document must open with a top-level heading")

// VersionEntry is one "## " section of a changelog document.
type VersionEntry struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// Document is a parsed changelog file. Title and Description are never
// modified by this tool; Versions grow by prepending.
type Document struct {
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Versions    []VersionEntry `json:"versions"`
}

// Parse parses changelog markdown. It accepts CRLF or LF line breaks; the
// first non-blank line must be a "# " heading. The description is the text
// between the title and the first "## " heading; each "## " heading opens a
// version entry whose body runs to the next "## " heading or end of input.
// Blank lines at block boundaries are separators, not content.
func Parse(data []byte) (*Document, error) {
	lines := strings.Split(string(data), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}

	i := 0
	for i < len(lines) && strings.TrimSpace(lines[i]) == "" {
		i++
	}
	if i >= len(lines) || !strings.HasPrefix(lines[i], "# ") {
		return nil, ErrNotChangelog
	}

	doc := &Document{Title: strings.TrimPrefix(lines[i], "# ")}
	i++

	var block []string
	current := -1 // collecting the description until the first version heading

	closeBlock := func() {
		text := joinBlock(block)
		if current < 0 {
			doc.Description = text
		} else {
			doc.Versions[current].Body = text
		}
		block = nil
	}

	for ; i < len(lines); i++ {
		line := lines[i]
		if strings.HasPrefix(line, "## ") {
			closeBlock()
			doc.Versions = append(doc.Versions, VersionEntry{Title: strings.TrimPrefix(line, "## ")})
			current++
			continue
		}
		block = append(block, line)
	}
	closeBlock()

	return doc, nil
}

// ParseFile parses a changelog file.
func ParseFile(fs fs.FileSystem, path string) (*Document, error) {
	data, err := fs.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Prepend returns a copy of the document with entry inserted ahead of all
// existing versions. The receiver is not modified.
func (d *Document) Prepend(entry VersionEntry) *Document {
	versions := make([]VersionEntry, 0, len(d.Versions)+1)
	versions = append(versions, entry)
	versions = append(versions, d.Versions...)
	return &Document{
		Title:       d.Title,
		Description: d.Description,
		Versions:    versions,
	}
}

// Render serializes the document with CRLF line breaks. The title block,
// the description, and each version block are separated by exactly one
// blank line, and the output ends with a single line break. Text is written
// verbatim; rendering a parsed document and reparsing it is byte-stable.
func (d *Document) Render() string {
	blocks := []string{"# " + d.Title, d.Description}
	for _, v := range d.Versions {
		blocks = append(blocks, "## "+v.Title, v.Body)
	}
	return strings.Join(blocks, "\r\n\r\n") + "\r\n"
}

// WriteFile renders doc and overwrites the file at path.
func WriteFile(fs fs.FileSystem, path string, doc *Document) error {
	return fs.WriteFile(path, []byte(doc.Render()), 0644)
}

// joinBlock trims leading and trailing blank lines and joins the rest with
// CRLF, preserving interior blank lines.
func joinBlock(lines []string) string {
	start, end := 0, len(lines)
	for start < end && strings.TrimSpace(lines[start]) == "" {
		start++
	}
	for end > start && strings.TrimSpace(lines[end-1]) == "" {
		end--
	}
	return strings.Join(lines[start:end], "\r\n")
}
