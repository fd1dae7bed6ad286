package commands

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseExtra(t *testing.T) {
	extra, err := parseExtra([]string{"name=demo", "author=Ada Lovelace", "empty="})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"name":   "demo",
		"author": "Ada Lovelace",
		"empty":  "",
	}, extra)
}

func TestParseExtra_Empty(t *testing.T) {
	extra, err := parseExtra(nil)
	require.NoError(t, err)
	assert.Nil(t, extra)
}

func TestParseExtra_Malformed(t *testing.T) {
	_, err := parseExtra([]string{"no-equals-sign"})
	assert.Error(t, err)

	_, err = parseExtra([]string{"=value"})
	assert.Error(t, err)
}

func TestSourceName(t *testing.T) {
	cases := []struct {
		source string
		want   string
	}{
		{"https://github.com/user/starter.git", "starter"},
		{"git@github.com:user/starter.git", "starter"},
		{"https://example.com/templates/starter.zip", "starter"},
		{"/home/user/templates/starter", "starter"},
		{"/home/user/templates/starter/", "starter"},
		{"starter", "starter"},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, sourceName(tc.source), "source %q", tc.source)
	}
}

// writeUserConfig keeps clone and replay state inside the test's temp dir.
func writeUserConfig(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "ember.yaml")
	content := "templates_dir: " + filepath.Join(dir, "templates") + "\n" +
		"replay_dir: " + filepath.Join(dir, "replay") + "\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRunCreate_LocalTemplate(t *testing.T) {
	tmpDir := t.TempDir()

	templateDir := filepath.Join(tmpDir, "starter")
	require.NoError(t, os.MkdirAll(templateDir, 0o755))
	manifest := `{"project_slug": "demo", "_template": "{{ .ember.project_slug }}"}`
	require.NoError(t, os.WriteFile(filepath.Join(templateDir, "ember.json"), []byte(manifest), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(templateDir, "README.md"), []byte("# {{ .ember.project_slug }}\n"), 0o644))

	outputDir := filepath.Join(tmpDir, "out")
	require.NoError(t, os.MkdirAll(outputDir, 0o755))

	projectDir, err := runCreate(context.Background(), createOptions{
		source:     templateDir,
		configFile: writeUserConfig(t, tmpDir),
		outputDir:  outputDir,
		noInput:    true,
	})
	require.NoError(t, err)
	assert.Equal(t, "demo", filepath.Base(projectDir))

	readme, err := os.ReadFile(filepath.Join(projectDir, "README.md"))
	require.NoError(t, err)
	assert.Equal(t, "# demo\n", string(readme))

	// Answers are saved for --replay.
	assert.FileExists(t, filepath.Join(tmpDir, "replay", "starter.json"))
}

func TestRunCreate_ExtraOverrides(t *testing.T) {
	tmpDir := t.TempDir()

	templateDir := filepath.Join(tmpDir, "starter")
	require.NoError(t, os.MkdirAll(templateDir, 0o755))
	manifest := `{"project_slug": "default", "_template": "{{ .ember.project_slug }}"}`
	require.NoError(t, os.WriteFile(filepath.Join(templateDir, "ember.json"), []byte(manifest), 0o644))

	outputDir := filepath.Join(tmpDir, "out")
	require.NoError(t, os.MkdirAll(outputDir, 0o755))

	projectDir, err := runCreate(context.Background(), createOptions{
		source:     templateDir,
		configFile: writeUserConfig(t, tmpDir),
		outputDir:  outputDir,
		noInput:    true,
		extra:      map[string]any{"project_slug": "renamed"},
	})
	require.NoError(t, err)
	assert.Equal(t, "renamed", filepath.Base(projectDir))
}

func TestRunCreate_Replay(t *testing.T) {
	tmpDir := t.TempDir()

	templateDir := filepath.Join(tmpDir, "starter")
	require.NoError(t, os.MkdirAll(templateDir, 0o755))
	manifest := `{"project_slug": "first", "_template": "{{ .ember.project_slug }}"}`
	require.NoError(t, os.WriteFile(filepath.Join(templateDir, "ember.json"), []byte(manifest), 0o644))

	configFile := writeUserConfig(t, tmpDir)

	firstOut := filepath.Join(tmpDir, "out1")
	require.NoError(t, os.MkdirAll(firstOut, 0o755))
	_, err := runCreate(context.Background(), createOptions{
		source:     templateDir,
		configFile: configFile,
		outputDir:  firstOut,
		noInput:    true,
		extra:      map[string]any{"project_slug": "answered"},
	})
	require.NoError(t, err)

	// A replay run ignores the manifest default and reuses the answers.
	secondOut := filepath.Join(tmpDir, "out2")
	require.NoError(t, os.MkdirAll(secondOut, 0o755))
	projectDir, err := runCreate(context.Background(), createOptions{
		source:     templateDir,
		configFile: configFile,
		outputDir:  secondOut,
		useReplay:  true,
	})
	require.NoError(t, err)
	assert.Equal(t, "answered", filepath.Base(projectDir))
}
