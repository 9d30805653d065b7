package assets

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/dmitrijs2005/movievault/internal/filex"
	"github.com/dmitrijs2005/movievault/internal/logging"
)

// LocalStore keeps assets as plain files under <root>/<category>/ and
// derives URLs from the configured public base.
type LocalStore struct {
	root    string
	baseURL string
	logger  logging.Logger
}

func NewLocalStore(root, baseURL string, logger logging.Logger) *LocalStore {
	return &LocalStore{root: root, baseURL: baseURL, logger: logger.With("component", "assets.local")}
}

func (s *LocalStore) Save(ctx context.Context, content []byte, extension, category string) (string, error) {
	if err := validateSaveArgs(extension, category); err != nil {
		return "", err
	}

	dir, err := filex.EnsureDir(filepath.Join(s.root, category))
	if err != nil {
		return "", err
	}

	name := randomFileName(extension)
	dst := filepath.Join(dir, name)

	if err := os.WriteFile(dst, content, 0o660); err != nil {
		return "", fmt.Errorf("write %s: %w", dst, err)
	}

	return joinURL(s.baseURL, category, name), nil
}

func (s *LocalStore) Delete(ctx context.Context, fileURL, category string) error {
	if fileURL == "" {
		return nil
	}

	name := fileNameFromURL(fileURL)
	if name == "" || name == "." || name == "/" {
		return nil
	}

	dst := filepath.Join(s.root, category, name)

	if err := os.Remove(dst); err != nil {
		// Two concurrent deletes of the same file must both succeed.
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("remove %s: %w", dst, err)
	}

	return nil
}

func (s *LocalStore) Replace(ctx context.Context, content []byte, extension, category, oldURL string) (string, error) {
	// A missing or undeletable old file never blocks producing the new one.
	if err := s.Delete(ctx, oldURL, category); err != nil {
		s.logger.Warn(ctx, "could not delete old asset, continuing", "url", oldURL, "error", err.Error())
	}
	return s.Save(ctx, content, extension, category)
}
