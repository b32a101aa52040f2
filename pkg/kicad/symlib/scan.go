package symlib

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/OpenTraceLab/symcheck/pkg/kicad/sexp"
	"github.com/OpenTraceLab/symcheck/pkg/kicad/sexp/kicadsexp"
)

// LibraryReport aggregates the verdicts of one library file
type LibraryReport struct {
	FileName  string    `json:"file_name"`
	Path      string    `json:"path"`
	Completed int       `json:"completed"`
	Total     int       `json:"total"`
	Issues    []Verdict `json:"issues"` // incomplete components, sorted by name
}

// Complete reports whether every component of the library passed
func (r *LibraryReport) Complete() bool {
	return r.Completed == r.Total
}

// Components returns the component nodes of a parsed library: top-level
// (symbol ...) lists and the (symbol ...) children of each top-level list,
// which is where a (kicad_symbol_lib ...) file keeps them. Unit sub-symbols
// nested inside a component are not components themselves.
func Components(exprs []kicadsexp.Sexp) []kicadsexp.Sexp {
	var components []kicadsexp.Sexp
	for _, expr := range exprs {
		if name, err := sexp.GetNodeName(expr); err == nil && name == sexp.TagSymbol {
			if _, isList := expr.(*kicadsexp.List); isList {
				components = append(components, expr)
				continue
			}
		}
		components = append(components, sexp.FindAllNodes(expr, sexp.TagSymbol)...)
	}
	return components
}

// Evaluate validates every component and builds the library report.
// Components are validated in document order; issues are sorted by name.
func Evaluate(schema *Schema, fileName string, components []kicadsexp.Sexp) *LibraryReport {
	report := &LibraryReport{
		FileName: fileName,
		Total:    len(components),
		Issues:   []Verdict{},
	}

	for _, component := range components {
		v := Validate(schema, component)
		if v.Complete() {
			report.Completed++
			continue
		}
		report.Issues = append(report.Issues, v)
	}

	sort.SliceStable(report.Issues, func(i, j int) bool {
		return report.Issues[i].Name < report.Issues[j].Name
	})

	return report
}

// Scan parses a library from r and validates its components. name is used
// as the report's file name and in parse errors.
func Scan(schema *Schema, name string, r io.Reader) (*LibraryReport, error) {
	exprs, err := kicadsexp.ParseNamed(name, r)
	if err != nil {
		return nil, err
	}

	return Evaluate(schema, name, Components(exprs)), nil
}

// ScanFile reads, parses and validates the library at path
func ScanFile(schema *Schema, path string) (*LibraryReport, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	exprs, err := kicadsexp.ParseNamed(path, file)
	if err != nil {
		return nil, err
	}

	report := Evaluate(schema, filepath.Base(path), Components(exprs))
	report.Path = path
	return report, nil
}
