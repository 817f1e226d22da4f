package paths

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	defaultBaseDir = "out"
	audioExt       = ".wav"
	transcriptExt  = ".txt"
	metaExt        = ".json"
)

// Builder constructs output paths for conversion artifacts rooted at Base
// (default "out"). Artifacts are named after the source image's stem.
type Builder struct {
	Base string
}

func New(base string) *Builder {
	if base == "" {
		base = defaultBaseDir
	}
	return &Builder{Base: base}
}

// Stem returns the artifact name for an image path, its base name
// without the extension.
func Stem(imagePath string) string {
	name := filepath.Base(imagePath)
	return strings.TrimSuffix(name, filepath.Ext(name))
}

func (b *Builder) Audio(stem string) string {
	return filepath.Join(b.Base, stem+audioExt)
}

func (b *Builder) Transcript(stem string) string {
	return filepath.Join(b.Base, stem+transcriptExt)
}

func (b *Builder) Meta(stem string) string {
	return filepath.Join(b.Base, stem+metaExt)
}

// EnsureOutDir creates the base directory if it does not exist.
func (b *Builder) EnsureOutDir() error {
	return os.MkdirAll(b.Base, 0o755)
}

// EnsureParentDir creates the parent directory of path if it does not exist.
func EnsureParentDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "" || dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

// CheckOverwrite enforces overwrite behavior. If any path exists and overwrite is false, returns error.
func CheckOverwrite(paths []string, overwrite bool) error {
	if overwrite {
		return nil
	}
	for _, p := range paths {
		if p == "" {
			continue
		}
		if _, err := os.Stat(p); err == nil {
			return fmt.Errorf("refusing to overwrite existing file: %s (use --overwrite)", p)
		} else if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("checking file: %s: %w", p, err)
		}
	}
	return nil
}
