package driver

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"markcheck/internal/config"
)

// ErrNoFiles is returned when none of the given paths yields a page source.
var ErrNoFiles = errors.New("no page sources found")

func hasExtension(path string, exts []string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range exts {
		if strings.EqualFold(e, ext) {
			return true
		}
	}
	return false
}

// collectFiles expands directories into page sources with one of exts.
// Files named explicitly are kept whatever their extension. The result is
// sorted and free of duplicates. Empty exts means config.DefaultExtensions.
func collectFiles(ctx context.Context, paths, exts []string) ([]string, error) {
	if len(exts) == 0 {
		exts = config.DefaultExtensions
	}
	var files []string
	seen := make(map[string]struct{})
	addFile := func(path string) {
		path = filepath.Clean(path)
		if _, ok := seen[path]; ok {
			return
		}
		seen[path] = struct{}{}
		files = append(files, path)
	}

	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		info, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			addFile(p)
			continue
		}
		err = filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if err := ctx.Err(); err != nil {
				return err
			}
			if d.IsDir() {
				// скрытые каталоги (.git, .cache) не обходим
				if path != p && strings.HasPrefix(d.Name(), ".") {
					return filepath.SkipDir
				}
				return nil
			}
			if hasExtension(path, exts) {
				addFile(path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	sort.Strings(files)
	return files, nil
}

// CollectFiles lists the page sources CheckPaths and FormatPaths would visit.
func CollectFiles(ctx context.Context, paths, exts []string) ([]string, error) {
	return collectFiles(ctx, paths, exts)
}
