package symlib

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/OpenTraceLab/symcheck/pkg/kicad/sexp/kicadsexp"
)

// LibraryExt is the file extension of KiCad symbol libraries
const LibraryExt = ".kicad_sym"

// ErrInvalidPath is returned when the scan root is not a directory
var ErrInvalidPath = errors.New("provided path is not a directory or does not exist")

// FileError records a library that could not be read or parsed
type FileError struct {
	Path string
	Err  error
}

// FileName returns the base name of the failed library
func (e FileError) FileName() string {
	return filepath.Base(e.Path)
}

// IsParseError reports whether the library was read but is not valid
// s-expression text, as opposed to a file that could not be opened or read
func (e FileError) IsParseError() bool {
	var perr *kicadsexp.ParseError
	return errors.As(e.Err, &perr)
}

func (e FileError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e FileError) Unwrap() error {
	return e.Err
}

// Results is the aggregate of one run. Every scanned library is kept, even
// when several share a file name.
type Results struct {
	Reports  []*LibraryReport
	Failures []FileError
}

// NewResults creates an empty result set
func NewResults() *Results {
	return &Results{}
}

// Add records the report of one library
func (r *Results) Add(report *LibraryReport) {
	r.Reports = append(r.Reports, report)
}

// Libraries returns every report sorted by file name, then by path
func (r *Results) Libraries() []*LibraryReport {
	libs := append([]*LibraryReport(nil), r.Reports...)
	sort.SliceStable(libs, func(i, j int) bool {
		if libs[i].FileName != libs[j].FileName {
			return libs[i].FileName < libs[j].FileName
		}
		return libs[i].Path < libs[j].Path
	})
	return libs
}

// DisplayName returns fileName, or path when another library of the run
// (scanned or failed) has the same file name
func (r *Results) DisplayName(fileName, path string) string {
	if path == "" {
		return fileName
	}
	n := 0
	for _, lib := range r.Reports {
		if lib.FileName == fileName {
			n++
		}
	}
	for _, f := range r.Failures {
		if f.FileName() == fileName {
			n++
		}
	}
	if n > 1 {
		return path
	}
	return fileName
}

// Complete reports whether every library parsed and every component passed
func (r *Results) Complete() bool {
	if len(r.Failures) > 0 {
		return false
	}
	for _, lib := range r.Reports {
		if !lib.Complete() {
			return false
		}
	}
	return true
}

// Totals sums completed and total components over all libraries
func (r *Results) Totals() (completed, total int) {
	for _, lib := range r.Reports {
		completed += lib.Completed
		total += lib.Total
	}
	return completed, total
}

// Scanner discovers and validates symbol libraries below a directory
type Scanner struct {
	schema *Schema
	logger *logrus.Logger
}

// NewScanner creates a scanner. A nil schema selects DefaultSchema and a nil
// logger discards log output.
func NewScanner(schema *Schema, logger *logrus.Logger) *Scanner {
	if schema == nil {
		schema = DefaultSchema()
	}
	if logger == nil {
		logger = logrus.New()
		logger.SetOutput(io.Discard)
	}
	return &Scanner{schema: schema, logger: logger}
}

// Schema returns the schema the scanner validates against
func (s *Scanner) Schema() *Schema {
	return s.schema
}

// FindLibraries returns every *.kicad_sym file below root, sorted by path.
// Unreadable subdirectories are skipped silently; use Scanner.FindLibraries
// to have them logged.
func FindLibraries(root string) ([]string, error) {
	return NewScanner(nil, nil).FindLibraries(root)
}

// FindLibraries returns every *.kicad_sym file below root, sorted by path.
// Only a root that is not a readable directory is an error; entries below it
// that cannot be read are logged and skipped.
func (s *Scanner) FindLibraries(root string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidPath, root)
	}

	var files []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			s.logger.WithField("path", path).WithError(err).Warn("Skipping unreadable path")
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if !d.IsDir() && strings.HasSuffix(d.Name(), LibraryExt) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", root, err)
	}

	sort.Strings(files)
	return files, nil
}

// ScanDirectory validates every library below root, one file at a time.
// A library that cannot be read or parsed is recorded in Results.Failures
// and the scan continues; only an invalid root aborts the run.
func (s *Scanner) ScanDirectory(root string) (*Results, error) {
	files, err := s.FindLibraries(root)
	if err != nil {
		return nil, err
	}

	s.logger.WithField("count", len(files)).Debug("Discovered symbol libraries")

	results := NewResults()
	for _, path := range files {
		s.ScanInto(results, path)
	}

	return results, nil
}

// ScanInto scans a single library and adds its outcome to results
func (s *Scanner) ScanInto(results *Results, path string) {
	log := s.logger.WithField("path", path)
	log.Info("Scanning library")

	report, err := ScanFile(s.schema, path)
	if err != nil {
		failure := FileError{Path: path, Err: err}
		if failure.IsParseError() {
			log.WithError(err).Error("Failed to parse library")
		} else {
			log.WithError(err).Error("Failed to read library")
		}
		results.Failures = append(results.Failures, failure)
		return
	}

	for _, v := range report.Issues {
		log.WithFields(logrus.Fields{
			"component":  v.Name,
			"missing":    v.MissingFields,
			"extra":      v.ExtraFields,
			"visibility": v.VisibilityCorrect,
		}).Debug("Incomplete component")
	}

	for _, prev := range results.Reports {
		if prev.FileName == report.FileName {
			log.WithField("previous", prev.Path).Warn("Duplicate library file name")
			break
		}
	}
	results.Add(report)
}
