package extract

import (
	"errors"
	"io/fs"
	"os"
)

// stage writes the document bytes to a scratch file so path-based
// decoders can run against them. The returned cleanup removes the file;
// callers defer it immediately so the artifact never outlives the
// request. On error the scratch file is already gone.
func (e *Extractor) stage(doc Document, ext string) (string, func(), error) {
	pattern := "notes-*"
	if ext != "" {
		pattern += "." + ext
	}
	f, err := os.CreateTemp(e.cfg.StagingDir, pattern)
	if err != nil {
		return "", nil, err
	}
	path := f.Name()
	cleanup := func() {
		if rmErr := os.Remove(path); rmErr != nil && !errors.Is(rmErr, fs.ErrNotExist) {
			e.logger.Warn("staging cleanup failed", "path", path, "error", rmErr)
		}
	}

	if _, err := f.Write(doc.Content); err != nil {
		_ = f.Close()
		cleanup()
		return "", nil, err
	}
	if err := f.Close(); err != nil {
		cleanup()
		return "", nil, err
	}
	return path, cleanup, nil
}
