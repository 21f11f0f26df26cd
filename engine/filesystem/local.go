package filesystem

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/vesper-engine/vesper/engine/core"
)

// LocalFileSystem reads from the host disk. Reads complete synchronously
// within ReadFile. Paths that resolve outside the base directory after
// canonicalization are rejected as unreadable.
type LocalFileSystem struct {
	basePath string
}

func NewLocalFileSystem(basePath string) (*LocalFileSystem, error) {
	abs, err := filepath.Abs(basePath)
	if err != nil {
		return nil, err
	}
	return &LocalFileSystem{
		basePath: filepath.Clean(abs),
	}, nil
}

func (fs *LocalFileSystem) BasePath() string {
	return fs.basePath
}

func (fs *LocalFileSystem) ReadFile(path string, onComplete ReadCallback) {
	full := path
	if !filepath.IsAbs(full) {
		full = filepath.Join(fs.basePath, full)
	}
	full = filepath.Clean(full)

	if !fs.contains(full) {
		core.LogWarn("local filesystem rejected path '%s', outside of base path '%s'", path, fs.basePath)
		onComplete(nil, false)
		return
	}

	data, err := os.ReadFile(full)
	if err != nil {
		onComplete(nil, false)
		return
	}
	onComplete(data, true)
}

// contains reports whether full, already cleaned, lives under the base path.
func (fs *LocalFileSystem) contains(full string) bool {
	rel, err := filepath.Rel(fs.basePath, full)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
