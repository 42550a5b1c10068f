package scanner

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"imagerank/logging"
)

// DiscoverImages lists the image files under options.FolderPath. Only the
// folder itself is read unless Recursive is set. Returned ids are
// filepath.Join(FolderPath, name) and come back sorted.
func DiscoverImages(options ScanOptions) ([]string, ScanStats, error) {
	exts := NormalizeExtensions(options.Extensions)
	if len(exts) == 0 {
		exts = DefaultExtensions
	}

	var (
		stats ScanStats
		found []string
	)

	consider := func(path string) {
		if !FileExists(path) {
			return
		}
		stats.Files++
		if IsImageFile(path, exts) {
			stats.Images++
			found = append(found, path)
		} else if options.DebugMode {
			logging.DebugLog("Skipping non-image file: %s", path)
		}
	}

	if options.Recursive {
		err := filepath.WalkDir(options.FolderPath, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				if path == options.FolderPath {
					return err
				}
				stats.Skipped++
				logging.LogWarning("Error accessing path %s: %v", path, err)
				return nil
			}
			if d.IsDir() {
				return nil
			}
			consider(path)
			return nil
		})
		if err != nil {
			return nil, stats, err
		}
	} else {
		entries, err := os.ReadDir(options.FolderPath)
		if err != nil {
			return nil, stats, err
		}
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			consider(filepath.Join(options.FolderPath, e.Name()))
		}
	}

	sort.Strings(found)

	if options.DebugMode {
		logging.DebugLog("Discovered %d images in %s (%d files looked at, %d skipped)",
			stats.Images, options.FolderPath, stats.Files, stats.Skipped)
	}
	return found, stats, nil
}
