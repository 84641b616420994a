// Package localfs keeps collection documents on local disk with the same
// version-token discipline as the remote repository backend. The token is
// the SHA-256 of the file contents, so a stale token is detected the same
// way a stale blob SHA would be.
package localfs

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/bakhasuleiman/wesavefood-backend/pkg/jsonstore"
)

// Backend implements jsonstore.Backend over a local directory.
type Backend struct {
	dir string
	mu  sync.Mutex
}

// New builds a filesystem backend rooted at dir, creating it if needed.
func New(dir string) (*Backend, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &Backend{dir: dir}, nil
}

// Read returns the document bytes and the content hash as version token.
func (b *Backend) Read(ctx context.Context, name string) ([]byte, string, error) {
	if err := ctx.Err(); err != nil {
		return nil, "", err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	data, err := os.ReadFile(b.path(name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, "", jsonstore.ErrNotFound
		}
		return nil, "", fmt.Errorf("read %s: %w", name, err)
	}
	return data, contentVersion(data), nil
}

// Write stores the document when the presented token matches the current
// file contents. Writes go through a temp file and rename.
func (b *Backend) Write(ctx context.Context, name string, data []byte, version string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	current, err := os.ReadFile(b.path(name))
	switch {
	case err == nil:
		if contentVersion(current) != version {
			return "", jsonstore.ErrConflict
		}
	case os.IsNotExist(err):
		if version != "" {
			return "", jsonstore.ErrConflict
		}
	default:
		return "", fmt.Errorf("read %s: %w", name, err)
	}

	tmp, err := os.CreateTemp(b.dir, name+".tmp-*")
	if err != nil {
		return "", fmt.Errorf("create temp for %s: %w", name, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return "", fmt.Errorf("write temp for %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("close temp for %s: %w", name, err)
	}
	if err := os.Rename(tmpName, b.path(name)); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("rename %s: %w", name, err)
	}
	return contentVersion(data), nil
}

// Ping verifies the data directory is still writable.
func (b *Backend) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	info, err := os.Stat(b.dir)
	if err != nil {
		return fmt.Errorf("stat data dir: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", b.dir)
	}
	return nil
}

func (b *Backend) path(name string) string {
	return filepath.Join(b.dir, name)
}

func contentVersion(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
