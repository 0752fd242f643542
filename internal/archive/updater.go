package archive

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/jbalsam/patchvault/internal/record"
)

// Updater owns the aggregate document file and applies merges to it.
// A merge that adds nothing leaves the file untouched on disk.
type Updater struct {
	path   string
	logger *zap.Logger
}

// NewUpdater returns an updater for the document at path.
func NewUpdater(path string, logger *zap.Logger) *Updater {
	return &Updater{path: path, logger: logger}
}

// Path returns the document location.
func (u *Updater) Path() string {
	return u.path
}

// Apply merges records into the document and reports how many blocks
// were added. Zero added is a normal outcome, not an error.
func (u *Updater) Apply(ctx context.Context, records []record.PatchRecord) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, fmt.Errorf("context canceled: %w", err)
	}

	existing, err := u.load()
	if err != nil {
		return 0, err
	}
	merged, added := Merge(records, existing)
	if added == 0 {
		u.logger.Info("Archive already current", zap.String("path", u.path))
		return 0, nil
	}
	if err := u.save(merged); err != nil {
		return 0, err
	}
	u.logger.Info("Archive updated",
		zap.String("path", u.path),
		zap.Int("added", added),
	)
	return added, nil
}

func (u *Updater) load() (string, error) {
	data, err := os.ReadFile(u.path)
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read archive %s: %w", u.path, err)
	}
	return string(data), nil
}

// save lands the document through a sibling temp file and a rename.
func (u *Updater) save(content string) error {
	dir := filepath.Dir(u.path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("create archive dir %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(u.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp for %s: %w", u.path, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.WriteString(content); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write temp for %s: %w", u.path, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close temp for %s: %w", u.path, err)
	}
	if err := os.Rename(tmpName, u.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("rename into %s: %w", u.path, err)
	}
	return nil
}
