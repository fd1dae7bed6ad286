// Package template locates the template root inside a repository.
package template

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// ManifestNames are the accepted manifest file names, in lookup order.
var ManifestNames = []string{"ember.json", "ember.yaml", "ember.yml"}

// NotATemplateError reports a repository with no manifest-bearing root.
type NotATemplateError struct {
	RepoDir string
}

func (e *NotATemplateError) Error() string {
	return fmt.Sprintf("%s is not a template: no directory contains an ember.json manifest", e.RepoDir)
}

// ManifestPath returns the manifest file inside dir, or "" when none exists.
func ManifestPath(dir string) string {
	for _, name := range ManifestNames {
		candidate := filepath.Join(dir, name)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate
		}
	}
	return ""
}

// FindRoot determines which directory of repoDir is the template root: the
// repo itself if it carries a manifest, otherwise the first child directory
// (in name order) that does.
func FindRoot(repoDir string) (string, error) {
	if ManifestPath(repoDir) != "" {
		return repoDir, nil
	}

	entries, err := os.ReadDir(repoDir)
	if err != nil {
		return "", fmt.Errorf("reading template repository %s: %w", repoDir, err)
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		child := filepath.Join(repoDir, entry.Name())
		if ManifestPath(child) != "" {
			return child, nil
		}
	}

	return "", &NotATemplateError{RepoDir: repoDir}
}
