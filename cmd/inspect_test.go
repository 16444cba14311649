package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const inspectCSV = "Property_ID;Price;Longitude;Latitude\n" +
	"1;150.000,00;-46,631;-23,551\n" +
	"2;250.000,00;-46,632;-23,552\n" +
	"3;400.000,00;-46,633;-23,553\n" +
	"4;900.000,00;-46,634;\n"

func runRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		inspectLo, inspectHi, inspectExport, inspectOut = 0, 0, false, ""
	})
	err := rootCmd.Execute()
	return out.String(), err
}

func TestInspectPrintsReportAndExports(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "properties.csv")
	require.NoError(t, os.WriteFile(in, []byte(inspectCSV), 0o644))
	exportPath := filepath.Join(dir, "out", "visible.csv")

	out, err := runRoot(t, "inspect", in, "--lo", "200", "--hi", "500", "--export", "--out", exportPath)
	require.NoError(t, err)

	assert.Contains(t, out, "Number of properties")
	assert.Contains(t, out, "Visible window")

	data, err := os.ReadFile(exportPath)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[1], "2,250000.00,"), lines[1])
	assert.True(t, strings.HasPrefix(lines[2], "3,400000.00,"), lines[2])
}

func TestInspectReportsPipelineErrors(t *testing.T) {
	in := filepath.Join(t.TempDir(), "bad.csv")
	require.NoError(t, os.WriteFile(in, []byte("Property_ID;Price\n1;100,00\n"), 0o644))

	_, err := runRoot(t, "inspect", in)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Longitude")
}

func TestInspectMissingFile(t *testing.T) {
	_, err := runRoot(t, "inspect", filepath.Join(t.TempDir(), "nope.csv"))
	assert.Error(t, err)
}

func TestSnapshotRequiresURL(t *testing.T) {
	_, err := runRoot(t, "snapshot")
	assert.Error(t, err)
}
