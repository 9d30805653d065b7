// Package assets stores the binary files referenced by catalog records
// (poster images). Files are named with a random identifier per save, so
// concurrent saves never collide, and every returned URL is derived from
// the configured public base using forward slashes.
package assets

import (
	"context"
	"fmt"
	"net/url"
	"path"
	"strings"

	"github.com/dmitrijs2005/movievault/internal/common"
	"github.com/google/uuid"
)

// Store is the asset storage contract consumed by services.
//
// Replace is deliberately a single named operation rather than a pair of
// independently callable steps: the delete of the old asset is best-effort
// and must never block saving the new one, and callers are not allowed to
// reorder or tighten that policy.
type Store interface {
	// Save writes content under a fresh random name inside category and
	// returns the public URL of the stored file.
	Save(ctx context.Context, content []byte, extension, category string) (string, error)

	// Delete removes the file a URL points at. A nil error is returned when
	// the URL is empty or the file is already gone (idempotent delete).
	Delete(ctx context.Context, fileURL, category string) error

	// Replace deletes the old asset (best-effort, failures logged) and then
	// saves the new content, returning the new URL.
	Replace(ctx context.Context, content []byte, extension, category, oldURL string) (string, error)
}

// randomFileName builds "<uuid><extension>", normalizing the extension to
// carry a leading dot.
func randomFileName(extension string) string {
	if !strings.HasPrefix(extension, ".") {
		extension = "." + extension
	}
	return uuid.New().String() + extension
}

// joinURL joins base, category and name with forward slashes regardless of
// the host path convention.
func joinURL(base, category, name string) string {
	return fmt.Sprintf("%s/%s/%s", strings.TrimRight(base, "/"), category, name)
}

// fileNameFromURL extracts the final path segment of a stored URL.
func fileNameFromURL(fileURL string) string {
	if u, err := url.Parse(fileURL); err == nil && u.Path != "" {
		return path.Base(u.Path)
	}
	return path.Base(fileURL)
}

// validateSaveArgs enforces the shared Save preconditions.
func validateSaveArgs(extension, category string) error {
	if strings.TrimSpace(category) == "" {
		return fmt.Errorf("%w: empty category", common.ErrorValidation)
	}
	if strings.TrimSpace(extension) == "" || extension == "." {
		return fmt.Errorf("%w: empty extension", common.ErrorValidation)
	}
	return nil
}
