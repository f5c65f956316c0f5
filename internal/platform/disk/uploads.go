package disk

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// UploadDir holds raw uploads under their original filename. Files are never
// cleaned up; a re-upload with the same name replaces the previous file.
type UploadDir struct {
	Root string
}

func NewUploadDir(root string) (*UploadDir, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir failed: %w", err)
	}
	return &UploadDir{Root: root}, nil
}

// CleanName strips any directory components so a name cannot escape Root.
func CleanName(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	base := filepath.Base(filepath.Clean("/" + name))
	if base == "/" || base == "." || base == ".." {
		return ""
	}
	return base
}

func (d *UploadDir) Save(name string, r io.Reader) (string, error) {
	clean := CleanName(name)
	if clean == "" {
		return "", fmt.Errorf("invalid upload filename %q", name)
	}
	path := filepath.Join(d.Root, clean)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create upload file failed: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		return "", fmt.Errorf("write upload file failed: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close upload file failed: %w", err)
	}
	return path, nil
}
