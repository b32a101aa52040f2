package symlib

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/OpenTraceLab/symcheck/pkg/kicad/sexp/kicadsexp"
)

// field describes one (property ...) of a test component
type field struct {
	name   string
	value  string
	hidden bool
}

// compliantFields returns a field set that passes the default schema
func compliantFields() []field {
	return []field{
		{name: "Reference", value: "R"},
		{name: "Value", value: "10k"},
		{name: "Footprint", value: "Resistor_SMD:R_0603_1608Metric", hidden: true},
		{name: "Datasheet", value: "https://example.com/r0603.pdf", hidden: true},
		{name: "Description", value: "Thick film resistor", hidden: true},
		{name: "Package", value: "0603", hidden: true},
		{name: "Manufacturer", value: "Yageo", hidden: true},
		{name: "Manufacturer Part Number", value: "RC0603FR-0710KL", hidden: true},
		{name: "ki_keywords", value: "R res resistor", hidden: true},
	}
}

// without drops the named fields
func without(fields []field, names ...string) []field {
	var out []field
	for _, f := range fields {
		drop := false
		for _, n := range names {
			if f.name == n {
				drop = true
			}
		}
		if !drop {
			out = append(out, f)
		}
	}
	return out
}

// with replaces a field of the same name or appends f
func with(fields []field, f field) []field {
	out := append([]field(nil), fields...)
	for i := range out {
		if out[i].name == f.name {
			out[i] = f
			return out
		}
	}
	return append(out, f)
}

// symbolText renders a KiCad symbol definition with a unit sub-symbol
func symbolText(name string, fields []field) string {
	var b strings.Builder
	fmt.Fprintf(&b, "\t(symbol %q\n\t\t(exclude_from_sim no)\n\t\t(in_bom yes)\n", name)
	for _, f := range fields {
		fmt.Fprintf(&b, "\t\t(property %q %q\n\t\t\t(at 0 0 0)\n\t\t\t(effects\n\t\t\t\t(font (size 1.27 1.27))", f.name, f.value)
		if f.hidden {
			b.WriteString("\n\t\t\t\t(hide yes)")
		}
		b.WriteString("\n\t\t\t)\n\t\t)\n")
	}
	fmt.Fprintf(&b, "\t\t(symbol %q\n\t\t\t(rectangle (start -1.016 -2.54) (end 1.016 2.54))\n\t\t)\n\t)\n", name+"_0_1")
	return b.String()
}

// libraryText wraps symbols in a kicad_symbol_lib root
func libraryText(symbols ...string) string {
	return "(kicad_symbol_lib\n\t(version 20231120)\n\t(generator \"kicad_symbol_editor\")\n\t(generator_version \"8.0\")\n" +
		strings.Join(symbols, "") + ")\n"
}

// parseComponent parses a single symbol definition
func parseComponent(t *testing.T, name string, fields []field) kicadsexp.Sexp {
	t.Helper()
	exprs, err := kicadsexp.ParseString(symbolText(name, fields))
	require.NoError(t, err)
	require.Len(t, exprs, 1)
	return exprs[0]
}

// writeFile creates path below dir with content, creating parent directories
func writeFile(t *testing.T, dir, path, content string) string {
	t.Helper()
	full := filepath.Join(dir, path)
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
	return full
}
