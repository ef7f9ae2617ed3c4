package main

import (
	"bytes"
	"encoding/base64"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/provide-io/mmconvert/internal/convert"
	"github.com/provide-io/mmconvert/pkg/mmsave/format"
)

func setupEnv(t *testing.T) string {
	t.Helper()
	out := filepath.Join(t.TempDir(), "out")
	t.Setenv("MMCONV_CONFIG", "")
	t.Setenv("MMCONV_OUT_DIR", out)
	t.Setenv("MMCONV_LOG_LEVEL", "info")
	t.Setenv("MMCONV_JSON_LOG", "")
	return out
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestRunUsage(t *testing.T) {
	setupEnv(t)

	stdout, _, err := execute(t)
	assert.ErrorIs(t, err, errUsage)
	assert.Contains(t, stdout, "mmconvert (<ini-file> | <png-file>...)")

	_, _, err = execute(t, "notes.txt")
	assert.ErrorIs(t, err, errUsage)
}

func TestRunRegistryMode(t *testing.T) {
	out := setupEnv(t)

	ini := filepath.Join(t.TempDir(), "MultipleMaids.ini")
	content := "[scene]\ns1=2023-01-15 10:30:00,data;\nss1=" +
		base64.StdEncoding.EncodeToString(format.DefaultImage()) + "\ns9999=anything\n"
	require.NoError(t, os.WriteFile(ini, []byte(content), 0o644))

	stdout, stderr, err := execute(t, ini)
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(out, "scene", "s1_202301151030.png"))
	assert.Contains(t, stdout, "s1_202301151030.png")
	assert.Contains(t, stdout, "quick save")
	assert.Contains(t, stderr, "Conversion successful")
}

func TestRunContainersMode(t *testing.T) {
	out := setupEnv(t)
	in := t.TempDir()

	var buf bytes.Buffer
	require.NoError(t, format.NewCodec(nil).Encode(&buf, &format.Container{Scene: "2023-01-15 10:30:00,data;"}))
	save := filepath.Join(in, "s1_202301151030.png")
	require.NoError(t, os.WriteFile(save, buf.Bytes(), 0o644))

	stdout, _, err := execute(t, save, filepath.Join(in, "missing.png"))
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(out, "MultipleMaids.ini"))
	assert.Contains(t, stdout, "scene_max=100")
	assert.Contains(t, stdout, "skipped")
}

func TestRunContainersModeFailure(t *testing.T) {
	setupEnv(t)

	_, _, err := execute(t, filepath.Join(t.TempDir(), "missing.png"))
	assert.Error(t, err)
}

func TestRenderReport(t *testing.T) {
	report := &convert.Report{
		Results: []convert.Result{
			{Name: "a.png", Index: 1, Category: format.SlotOrdinary, Size: 2048, Status: convert.StatusConverted, Output: "out/a"},
			{Name: "b.txt", Index: -1, Status: convert.StatusSkipped, Reason: "not a container"},
		},
		Summary:  convert.Summary{SceneCount: 1, SceneMax: 100, AmbientMax: 20},
		Registry: "out/MultipleMaids.ini",
	}

	got := renderReport(report)
	for _, want := range []string{"a.png", "ordinary", "2.0 kB", "out/a", "b.txt", "not a container", "scene_max=100", "kankyo_max=20"} {
		assert.True(t, strings.Contains(got, want), "report missing %q:\n%s", want, got)
	}
}

func TestReportRowPlaceholders(t *testing.T) {
	row := reportRow(convert.Result{Name: "gone.png", Index: -1, Status: convert.StatusSkipped, Reason: "missing"})
	assert.Equal(t, "gone.png", row[0])
	assert.Equal(t, "-", row[1])
	assert.Equal(t, "-", row[2])
	assert.Equal(t, "-", row[3])
	assert.Equal(t, "skipped", row[4])
	assert.Equal(t, "missing", row[5])
}

func TestRenderReportWithoutRegistry(t *testing.T) {
	got := renderReport(&convert.Report{
		Results: []convert.Result{{Name: "s1", Index: 1, Status: convert.StatusConverted, Output: "out/s1.png"}},
	})
	assert.Contains(t, got, "out/s1.png")
	assert.NotContains(t, got, "scene_max")
}
