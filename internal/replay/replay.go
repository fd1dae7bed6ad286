// Package replay persists answered contexts so a generation run can be
// repeated without prompting.
package replay

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/simonhull/ember/internal/vars"
)

// fileName returns the replay file for a template.
func fileName(replayDir, templateName string) string {
	return filepath.Join(replayDir, templateName+".json")
}

// Dump writes the context to <replayDir>/<templateName>.json, creating the
// directory if needed.
func Dump(replayDir, templateName string, ctx *vars.Context) error {
	if err := os.MkdirAll(replayDir, 0o755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(ctx, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(fileName(replayDir, templateName), data, 0o644)
}

// Load reads a previously dumped context for the template.
func Load(replayDir, templateName string) (*vars.Context, error) {
	data, err := os.ReadFile(fileName(replayDir, templateName))
	if err != nil {
		return nil, fmt.Errorf("no replay found for %s: %w", templateName, err)
	}

	ctx := vars.New()
	if err := json.Unmarshal(data, ctx); err != nil {
		return nil, fmt.Errorf("replay file for %s is corrupt: %w", templateName, err)
	}
	return ctx, nil
}
