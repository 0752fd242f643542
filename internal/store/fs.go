package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/jbalsam/patchvault/internal/record"
)

// FSStore keeps one <version>.json per record in a directory. Writes
// land through a sibling temp file and a rename, so a concurrent reader
// sees either the old unit or the new one, never a torn write.
type FSStore struct {
	dir    string
	logger *zap.Logger
}

// NewFSStore creates the directory if needed and returns the store.
func NewFSStore(dir string, logger *zap.Logger) (*FSStore, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create store dir %s: %w", dir, err)
	}
	return &FSStore{dir: dir, logger: logger}, nil
}

// Dir returns the directory the store writes into.
func (s *FSStore) Dir() string {
	return s.dir
}

// Put writes the record unless a unit for the version already exists
// and overwrite is off.
func (s *FSStore) Put(ctx context.Context, rec record.PatchRecord, overwrite bool) (PutOutcome, error) {
	if err := ctx.Err(); err != nil {
		return OutcomeSkipped, fmt.Errorf("context canceled: %w", err)
	}
	target := filepath.Join(s.dir, unitName(rec.Version))

	exists := false
	if _, err := os.Stat(target); err == nil {
		exists = true
	} else if !os.IsNotExist(err) {
		return OutcomeSkipped, fmt.Errorf("stat %s: %w", target, err)
	}
	if exists && !overwrite {
		return OutcomeSkipped, nil
	}

	payload, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return OutcomeSkipped, fmt.Errorf("marshal unit %s: %w", rec.Version, err)
	}
	if err := writeAtomic(target, payload); err != nil {
		return OutcomeSkipped, err
	}
	if exists {
		return OutcomeReplaced, nil
	}
	return OutcomeStored, nil
}

// List loads every unit in the directory. The version comes from the
// file name, matching what Put writes. Units that fail to parse are
// logged and skipped so one corrupt file never hides the rest.
func (s *FSStore) List(ctx context.Context) ([]record.PatchRecord, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("read store dir %s: %w", s.dir, err)
	}
	var records []record.PatchRecord
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("context canceled: %w", err)
		}
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		path := filepath.Join(s.dir, name)
		payload, err := os.ReadFile(path)
		if err != nil {
			s.logger.Warn("Skipping unreadable unit", zap.String("path", path), zap.Error(err))
			continue
		}
		var rec record.PatchRecord
		if err := json.Unmarshal(payload, &rec); err != nil {
			s.logger.Warn("Skipping malformed unit", zap.String("path", path), zap.Error(err))
			continue
		}
		rec.Version = record.VersionID(strings.TrimSuffix(name, ".json"))
		records = append(records, rec)
	}
	return records, nil
}

func writeAtomic(target string, payload []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(target), filepath.Base(target)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp for %s: %w", target, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(payload); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write temp for %s: %w", target, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close temp for %s: %w", target, err)
	}
	if err := os.Rename(tmpName, target); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("rename into %s: %w", target, err)
	}
	return nil
}
