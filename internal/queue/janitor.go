package queue

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var kindDirs = map[string]string{
	KindStalker: "stalkers",
	KindWanted:  "wanted",
}

// ErrBadRef is returned for references that would escape the upload root.
var ErrBadRef = errors.New("queue: invalid photo reference")

// Janitor removes released photo files from the upload root.
type Janitor struct {
	root string
}

// NewJanitor returns a janitor working under root.
func NewJanitor(root string) *Janitor {
	return &Janitor{root: root}
}

// Path resolves a photo reference to a file under the upload root.
// Refs may be a bare file name or an "/uploads/<dir>/<file>" style URL path;
// only the base name is used.
func (j *Janitor) Path(kind, ref string) (string, error) {
	dir, ok := kindDirs[kind]
	if !ok {
		return "", fmt.Errorf("queue: unknown photo kind %q", kind)
	}
	ref = strings.TrimSpace(ref)
	name := filepath.Base(filepath.FromSlash(ref))
	if ref == "" || name == "." || name == ".." || name == string(filepath.Separator) {
		return "", ErrBadRef
	}
	return filepath.Join(j.root, dir, name), nil
}

// Remove deletes the file. A file that is already gone is not an error.
func (j *Janitor) Remove(kind, ref string) error {
	path, err := j.Path(kind, ref)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove %s: %w", path, err)
	}
	return nil
}
