package pipeline

import (
	"os"
	"path/filepath"
	"sort"

	derrors "git.home.luguber.info/inful/llmdocs/internal/foundation/errors"
)

// writeFileAtomic writes data through a temporary file in the target directory and renames it into place.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fsErr(err, "failed to create output directory", dir)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fsErr(err, "failed to create temporary file", dir)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fsErr(err, "failed to write output", path)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fsErr(err, "failed to close output", path)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		_ = os.Remove(tmpName)
		return fsErr(err, "failed to set output permissions", path)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fsErr(err, "failed to move output into place", path)
	}
	return nil
}

func fsErr(err error, message, path string) error {
	return derrors.WrapError(err, derrors.CategoryFileSystem, message).WithContext("path", path).Build()
}

func sortEntries(entries []IndexEntry) {
	sort.Slice(entries, func(i, j int) bool { return entries[i].Path < entries[j].Path })
}
