package cmd

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OpenTraceLab/symcheck/pkg/kicad/symlib"
)

const testdata = "../../../testdata"

func runCmd(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	var out, errOut bytes.Buffer

	root := NewRootCmd()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(append([]string{}, args...))

	err = root.Execute()
	return out.String(), errOut.String(), err
}

// TestCheckE2E runs the check command end-to-end against testdata
func TestCheckE2E(t *testing.T) {
	tests := []struct {
		name        string
		args        []string
		wantErr     error
		wantContain []string
		wantAbsent  []string
	}{
		{
			name: "mixed libraries",
			args: []string{"-p", filepath.Join(testdata, "libraries")},
			wantContain: []string{
				"Results for library: Resistors.kicad_sym",
				"R_0402",
				"Overview of all libraries scanned:",
				"❌ Needs Work",
				"1/2 components",
			},
			wantAbsent: []string{"R_0603 "},
		},
		{
			name: "complete library",
			args: []string{"--path", filepath.Join(testdata, "complete")},
			wantContain: []string{
				"All components in Capacitors.kicad_sym have required fields filled, correct visibility, and no extra fields.",
				"✅ Complete",
				"1/1 components",
			},
			wantAbsent: []string{"Results for library"},
		},
		{
			name: "broken library does not stop the scan",
			args: []string{"-p", filepath.Join(testdata, "broken")},
			wantContain: []string{
				"Failed to parse library: Broken.kicad_sym",
				"All components in Capacitors.kicad_sym",
				"❌ Parse Error",
			},
		},
		{
			name:        "ascii marks",
			args:        []string{"-p", filepath.Join(testdata, "libraries"), "--ascii"},
			wantContain: []string{"FAIL Needs Work", "Results for library: Resistors.kicad_sym"},
			wantAbsent:  []string{"❌"},
		},
		{
			name:    "strict with incomplete library",
			args:    []string{"-p", filepath.Join(testdata, "libraries"), "--strict"},
			wantErr: ErrIncomplete,
		},
		{
			name:        "strict with complete library",
			args:        []string{"-p", filepath.Join(testdata, "complete"), "--strict"},
			wantContain: []string{"✅ Complete"},
		},
		{
			name:    "path is not a directory",
			args:    []string{"-p", filepath.Join(testdata, "complete", "Capacitors.kicad_sym")},
			wantErr: symlib.ErrInvalidPath,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _, err := runCmd(t, tt.args...)

			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
			} else {
				require.NoError(t, err)
			}

			for _, want := range tt.wantContain {
				assert.Contains(t, out, want)
			}
			for _, absent := range tt.wantAbsent {
				assert.NotContains(t, out, absent)
			}
		})
	}
}

func TestCheckEmptyDirectory(t *testing.T) {
	out, _, err := runCmd(t, "-p", t.TempDir())
	require.NoError(t, err)

	assert.NotContains(t, out, "Results for library")
	assert.NotContains(t, out, "All components in")
	assert.Contains(t, out, "Overview of all libraries scanned:")
}

func TestCheckJSON(t *testing.T) {
	out, _, err := runCmd(t, "-p", filepath.Join(testdata, "libraries"), "--format", "json")
	require.NoError(t, err)

	var doc struct {
		Complete  bool `json:"complete"`
		Completed int  `json:"completed"`
		Total     int  `json:"total"`
		Libraries []struct {
			FileName string `json:"file_name"`
		} `json:"libraries"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.False(t, doc.Complete)
	assert.Equal(t, 1, doc.Completed)
	assert.Equal(t, 2, doc.Total)
	require.Len(t, doc.Libraries, 1)
	assert.Equal(t, "Resistors.kicad_sym", doc.Libraries[0].FileName)
}

func TestCheckLogsToStderr(t *testing.T) {
	_, stderr, err := runCmd(t, "-p", filepath.Join(testdata, "libraries"), "-v")
	require.NoError(t, err)

	assert.Contains(t, stderr, "Scanning library")
	assert.Contains(t, stderr, "Incomplete component")
}

func TestCheckMissingPath(t *testing.T) {
	t.Setenv("SYMCHECK_PATH", "")
	_, _, err := runCmd(t)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"path" not set`)
}

func TestCheckConfigFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "symcheck.yaml")
	content := "path: " + filepath.Join(testdata, "complete") + "\nformat: json\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(content), 0o644))

	out, _, err := runCmd(t, "--config", cfgPath)
	require.NoError(t, err)
	assert.Contains(t, out, `"complete": true`)

	// flags win over the file
	out, _, err = runCmd(t, "--config", cfgPath, "--format", "table")
	require.NoError(t, err)
	assert.Contains(t, out, "Overview of all libraries scanned:")
}

// copyLibrary copies a testdata library to dst below dir
func copyLibrary(t *testing.T, src, dir, dst string) {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(testdata, src))
	require.NoError(t, err)
	full := filepath.Join(dir, dst)
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(t, os.WriteFile(full, data, 0o644))
}

func TestCheckDuplicateFileNames(t *testing.T) {
	dir := t.TempDir()
	copyLibrary(t, "libraries/Passives/Resistors.kicad_sym", dir, "a/Lib.kicad_sym")
	copyLibrary(t, "complete/Capacitors.kicad_sym", dir, "b/Lib.kicad_sym")

	out, _, err := runCmd(t, "-p", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Results for library: "+filepath.Join(dir, "a/Lib.kicad_sym"))
	assert.Contains(t, out, "R_0402")
	assert.Contains(t, out, "All components in "+filepath.Join(dir, "b/Lib.kicad_sym"))
	assert.Contains(t, out, "❌ Needs Work")
	assert.Contains(t, out, "1/2 components")

	_, _, err = runCmd(t, "-p", dir, "--strict")
	assert.True(t, errors.Is(err, ErrIncomplete), "got %v", err)
}

func TestCheckInvalidFormat(t *testing.T) {
	_, _, err := runCmd(t, "-p", t.TempDir(), "--format", "xml")
	assert.Error(t, err)
}
