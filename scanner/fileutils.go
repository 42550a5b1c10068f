package scanner

import (
	"os"
	"path/filepath"
	"strings"
)

// DefaultExtensions are used when no extensions are configured
var DefaultExtensions = []string{".jpg"}

// NormalizeExtensions lower-cases the list and adds missing leading dots.
// Blank entries are dropped.
func NormalizeExtensions(exts []string) []string {
	out := make([]string, 0, len(exts))
	seen := make(map[string]bool, len(exts))
	for _, e := range exts {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" {
			continue
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		if !seen[e] {
			seen[e] = true
			out = append(out, e)
		}
	}
	return out
}

// IsImageFile checks if path carries one of the given extensions
func IsImageFile(path string, exts []string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range exts {
		if ext == e {
			return true
		}
	}
	return false
}

// FileExists reports whether path names a regular file (symlinks are followed)
func FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
