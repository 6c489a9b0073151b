package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Local stores files in a directory on disk.
type Local struct {
	Dir       string
	PublicURL string // Base URL the directory is served under
}

func NewLocal(dir, publicURL string) Local {
	return Local{
		Dir:       dir,
		PublicURL: strings.TrimRight(publicURL, "/"),
	}
}

func (l Local) Put(_ context.Context, key string, r io.Reader, _ int64, _ string) error {
	path := filepath.Join(l.Dir, filepath.FromSlash(key))

	// Keys are generated, but never write outside of the directory
	if !strings.HasPrefix(path, filepath.Clean(l.Dir)+string(os.PathSeparator)) {
		return fmt.Errorf("invalid key %q", key)
	}

	err := os.MkdirAll(filepath.Dir(path), 0o755)
	if err != nil {
		return err
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = io.Copy(f, r)
	return err
}

func (l Local) URL(key string) string {
	return fmt.Sprintf("%s/%s", l.PublicURL, key)
}
