package media

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// LocalStore deletes objects from the uploads directory served by the API.
type LocalStore struct {
	baseDir string
}

func NewLocalStore(baseDir string) *LocalStore {
	return &LocalStore{baseDir: baseDir}
}

func (s *LocalStore) Delete(ctx context.Context, storageKey string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	clean := filepath.Clean(storageKey)
	if strings.Contains(clean, "..") || filepath.IsAbs(clean) {
		return fmt.Errorf("refusing to delete outside uploads dir: %s", storageKey)
	}
	path := filepath.Join(s.baseDir, clean)
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return nil
}
