package report

import (
	"io"

	json "github.com/goccy/go-json"

	"github.com/OpenTraceLab/symcheck/pkg/kicad/symlib"
)

// Document is the JSON form of a run
type Document struct {
	Complete       bool           `json:"complete"`
	Completed      int            `json:"completed"`
	Total          int            `json:"total"`
	RequiredFields []string       `json:"required_fields"`
	Libraries      []LibraryEntry `json:"libraries"`
	Failures       []FailureEntry `json:"failures"`
}

// LibraryEntry is one library of a Document
type LibraryEntry struct {
	*symlib.LibraryReport
	Complete bool `json:"complete"`
}

// FailureEntry is a library that could not be read or parsed
type FailureEntry struct {
	FileName string `json:"file_name"`
	Path     string `json:"path"`
	Error    string `json:"error"`
}

// JSONRenderer writes a single indented Document
type JSONRenderer struct {
	w io.Writer
}

// NewJSONRenderer creates a JSON renderer writing to w
func NewJSONRenderer(w io.Writer) *JSONRenderer {
	return &JSONRenderer{w: w}
}

// Render encodes results as a Document
func (r *JSONRenderer) Render(schema *symlib.Schema, results *symlib.Results) error {
	completed, total := results.Totals()
	doc := Document{
		Complete:       results.Complete(),
		Completed:      completed,
		Total:          total,
		RequiredFields: schema.RequiredFields,
		Libraries:      []LibraryEntry{},
		Failures:       []FailureEntry{},
	}

	for _, lib := range results.Libraries() {
		doc.Libraries = append(doc.Libraries, LibraryEntry{LibraryReport: lib, Complete: lib.Complete()})
	}
	for _, f := range results.Failures {
		doc.Failures = append(doc.Failures, FailureEntry{
			FileName: f.FileName(),
			Path:     f.Path,
			Error:    f.Err.Error(),
		})
	}

	enc := json.NewEncoder(r.w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}
