package ingest

import (
	"errors"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/Paranjay33/ai-notes-backend/constants"
)

// DirStats aggregates one directory scan.
type DirStats struct {
	Scanned uint32
	Matched uint32
}

// ScanDirectory walks root and returns the files whose extensions are in
// exts (nil means constants.AllowedExtensions), skipping hidden entries
// when requested.
func ScanDirectory(root string, exts map[string]struct{}, skipHidden bool) ([]string, DirStats, error) {
	if strings.TrimSpace(root) == "" {
		return nil, DirStats{}, errors.New("root path is required")
	}
	if exts == nil {
		exts = constants.AllowedExtensions
	}

	var files []string
	var stats DirStats
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if skipHidden && isHidden(path) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		stats.Scanned++
		if _, ok := exts[constants.ExtOf(path)]; !ok {
			return nil
		}
		stats.Matched++
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, stats, err
	}
	return files, stats, nil
}

func isHidden(path string) bool {
	base := filepath.Base(path)
	return strings.HasPrefix(base, ".") && base != "." && base != ".."
}
