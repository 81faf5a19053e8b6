package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// localDisk stores files under a root directory on the local filesystem
type localDisk struct {
	root    string
	baseURL string
}

// NewLocalDisk creates a local driver rooted at root whose files are served at baseURL
func NewLocalDisk(root, baseURL string) (Disk, error) {
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("storage/local: create root: %w", err)
	}
	return &localDisk{root: root, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

func (d *localDisk) full(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("storage/local: empty path")
	}
	// rooting before Clean keeps ".." from escaping d.root
	return filepath.Join(d.root, filepath.Clean("/"+path)), nil
}

func (d *localDisk) Put(_ context.Context, path string, content []byte, _ string) error {
	full, err := d.full(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
		return fmt.Errorf("storage/local: mkdir: %w", err)
	}
	if err := os.WriteFile(full, content, 0644); err != nil {
		return fmt.Errorf("storage/local: write %s: %w", path, err)
	}
	return nil
}

func (d *localDisk) Delete(_ context.Context, path string) error {
	full, err := d.full(path)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("storage/local: delete %s: %w", path, err)
	}
	return nil
}

func (d *localDisk) URL(path string) string {
	return d.baseURL + "/uploads/" + strings.TrimLeft(path, "/")
}
