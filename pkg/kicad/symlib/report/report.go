// Package report renders symbol library validation results for the console
// and for machines. It performs no validation of its own.
package report

import (
	"fmt"
	"io"
	"sort"

	"github.com/OpenTraceLab/symcheck/pkg/kicad/symlib"
)

// Output formats
const (
	FormatTable = "table"
	FormatJSON  = "json"
)

// Renderer writes the results of a run
type Renderer interface {
	Render(schema *symlib.Schema, results *symlib.Results) error
}

// Options tunes the text renderer
type Options struct {
	ASCII bool // plain ok/FAIL marks instead of emoji
}

// New returns the renderer for format
func New(format string, w io.Writer, opts Options) (Renderer, error) {
	switch format {
	case FormatTable, "":
		return NewTextRenderer(w, opts), nil
	case FormatJSON:
		return NewJSONRenderer(w), nil
	default:
		return nil, fmt.Errorf("unknown output format %q (want %q or %q)", format, FormatTable, FormatJSON)
	}
}

type marks struct {
	pass, fail string
}

var (
	emojiMarks = marks{pass: "✅", fail: "❌"}
	asciiMarks = marks{pass: "ok", fail: "FAIL"}
)

func (m marks) of(ok bool) string {
	if ok {
		return m.pass
	}
	return m.fail
}

// TextRenderer prints per-library detail tables and an overview table
type TextRenderer struct {
	w     io.Writer
	marks marks
}

// NewTextRenderer creates a console renderer writing to w
func NewTextRenderer(w io.Writer, opts Options) *TextRenderer {
	m := emojiMarks
	if opts.ASCII {
		m = asciiMarks
	}
	return &TextRenderer{w: w, marks: m}
}

// Render prints every library in scan order (by path), then the overview
func (r *TextRenderer) Render(schema *symlib.Schema, results *symlib.Results) error {
	type entry struct {
		path    string
		report  *symlib.LibraryReport
		failure *symlib.FileError
	}

	var entries []entry
	for _, lib := range results.Libraries() {
		path := lib.Path
		if path == "" {
			path = lib.FileName
		}
		entries = append(entries, entry{path: path, report: lib})
	}
	for i := range results.Failures {
		f := &results.Failures[i]
		entries = append(entries, entry{path: f.Path, failure: f})
	}
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].path < entries[j].path })

	for _, e := range entries {
		var err error
		if e.failure != nil {
			err = r.failure(results.DisplayName(e.failure.FileName(), e.failure.Path), *e.failure)
		} else {
			err = r.library(schema, results.DisplayName(e.report.FileName, e.report.Path), e.report)
		}
		if err != nil {
			return err
		}
	}

	return r.Overview(results)
}

// Library prints the detail table of lib, or a one-line notice when every
// component is complete
func (r *TextRenderer) Library(schema *symlib.Schema, lib *symlib.LibraryReport) error {
	return r.library(schema, lib.FileName, lib)
}

func (r *TextRenderer) library(schema *symlib.Schema, name string, lib *symlib.LibraryReport) error {
	if len(lib.Issues) == 0 {
		_, err := fmt.Fprintf(r.w, "All components in %s have required fields filled, correct visibility, and no extra fields.\n\n", name)
		return err
	}

	header := append([]string{"Component Name"}, schema.RequiredFields...)
	header = append(header, "No Extra Fields", "Correct Visibility")
	table := NewTable(header...)

	for _, v := range lib.Issues {
		component := v.Name
		if v.Extends != "" {
			component = fmt.Sprintf("%s (extends %s)", v.Name, v.Extends)
		}
		row := []string{component}
		for _, field := range schema.RequiredFields {
			row = append(row, r.marks.of(!v.IsMissing(field)))
		}
		row = append(row, r.marks.of(!v.HasExtraFields), r.marks.of(v.VisibilityCorrect))
		table.AddRow(row...)
	}

	if _, err := fmt.Fprintf(r.w, "\nResults for library: %s\n", name); err != nil {
		return err
	}
	_, err := table.WriteTo(r.w)
	return err
}

// Failure prints a library that could not be read or parsed
func (r *TextRenderer) Failure(f symlib.FileError) error {
	return r.failure(f.FileName(), f)
}

func (r *TextRenderer) failure(name string, f symlib.FileError) error {
	verb := "read"
	if f.IsParseError() {
		verb = "parse"
	}
	_, err := fmt.Fprintf(r.w, "\nFailed to %s library: %s: %v\n\n", verb, name, f.Err)
	return err
}

// Overview prints one row per library, sorted by file name. Libraries
// sharing a file name are shown by path.
func (r *TextRenderer) Overview(results *symlib.Results) error {
	type row struct {
		name, label, status, ratio string
	}

	var rows []row
	for _, lib := range results.Libraries() {
		status := r.marks.pass + " Complete"
		if !lib.Complete() {
			status = r.marks.fail + " Needs Work"
		}
		rows = append(rows, row{
			name:   lib.FileName,
			label:  results.DisplayName(lib.FileName, lib.Path),
			status: status,
			ratio:  fmt.Sprintf("%d/%d components", lib.Completed, lib.Total),
		})
	}
	for _, f := range results.Failures {
		status := r.marks.fail + " Read Error"
		if f.IsParseError() {
			status = r.marks.fail + " Parse Error"
		}
		rows = append(rows, row{
			name:   f.FileName(),
			label:  results.DisplayName(f.FileName(), f.Path),
			status: status,
			ratio:  "-",
		})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].name != rows[j].name {
			return rows[i].name < rows[j].name
		}
		return rows[i].label < rows[j].label
	})

	table := NewTable("Library", "Status", "Completed Components")
	for _, rw := range rows {
		table.AddRow(rw.label, rw.status, rw.ratio)
	}

	if _, err := fmt.Fprintln(r.w, "\nOverview of all libraries scanned:"); err != nil {
		return err
	}
	_, err := table.WriteTo(r.w)
	return err
}
