// Package testutil locates real font files for integration tests that
// want to exercise table parsing against something more than synthetic
// byte buffers. Tests using it must skip gracefully when nothing is
// found — CI environments are not expected to carry system fonts.
package testutil

import (
	"os"
	"path/filepath"
)

// searchDirs are common system font locations checked in order; the
// first matching file wins. TESTFONT_DIR, if set, is checked first.
func searchDirs() []string {
	dirs := []string{
		"/usr/share/fonts",
		"/usr/local/share/fonts",
		"/Library/Fonts",
		"/System/Library/Fonts",
	}
	if d := os.Getenv("TESTFONT_DIR"); d != "" {
		dirs = append([]string{d}, dirs...)
	}
	if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, filepath.Join(home, ".fonts"), filepath.Join(home, ".local/share/fonts"))
	}
	return dirs
}

// FindTestFont walks the known font directories looking for a file
// named name. It returns "" if nothing is found, never an error —
// callers are expected to t.Skip on an empty result.
func FindTestFont(name string) string {
	for _, dir := range searchDirs() {
		var found string
		_ = filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
			if err != nil || found != "" {
				return nil
			}
			if !info.IsDir() && info.Name() == name {
				found = path
			}
			return nil
		})
		if found != "" {
			return found
		}
	}
	return ""
}
