package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	gstorage "cloud.google.com/go/storage"
	"go.uber.org/zap"
	"google.golang.org/api/iterator"

	"github.com/jbalsam/patchvault/internal/record"
)

// GCSConfig captures the parameters for the bucket-backed store.
type GCSConfig struct {
	Bucket string
	Prefix string
}

// GCSStore keeps one object per version under a bucket prefix. Objects
// become visible only when the writer closes, which gives the same
// all-or-nothing property as the filesystem rename.
type GCSStore struct {
	client *gstorage.Client
	bucket string
	prefix string
	logger *zap.Logger
}

// NewGCSClient dials Google Cloud Storage using application default
// credentials.
func NewGCSClient(ctx context.Context) (*gstorage.Client, error) {
	client, err := gstorage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}
	return client, nil
}

// NewGCSStore wires an injected client to a bucket. The client comes
// from the caller so tests never need credentials to construct one.
func NewGCSStore(client *gstorage.Client, cfg GCSConfig, logger *zap.Logger) (*GCSStore, error) {
	if client == nil {
		return nil, errors.New("storage client is required")
	}
	if cfg.Bucket == "" {
		return nil, errors.New("bucket name is required")
	}
	return &GCSStore{
		client: client,
		bucket: cfg.Bucket,
		prefix: strings.Trim(cfg.Prefix, "/"),
		logger: logger,
	}, nil
}

func (s *GCSStore) objectName(v record.VersionID) string {
	if s.prefix == "" {
		return unitName(v)
	}
	return s.prefix + "/" + unitName(v)
}

// Put uploads the unit unless an object for the version already exists
// and overwrite is off.
func (s *GCSStore) Put(ctx context.Context, rec record.PatchRecord, overwrite bool) (PutOutcome, error) {
	name := s.objectName(rec.Version)
	obj := s.client.Bucket(s.bucket).Object(name)

	exists := true
	if _, err := obj.Attrs(ctx); err != nil {
		if !errors.Is(err, gstorage.ErrObjectNotExist) {
			return OutcomeSkipped, fmt.Errorf("head object %s: %w", name, err)
		}
		exists = false
	}
	if exists && !overwrite {
		return OutcomeSkipped, nil
	}

	payload, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return OutcomeSkipped, fmt.Errorf("marshal unit %s: %w", rec.Version, err)
	}
	w := obj.NewWriter(ctx)
	w.ContentType = "application/json"
	if _, err := w.Write(payload); err != nil {
		if cerr := w.Close(); cerr != nil {
			s.logger.Warn("Failed to close GCS writer after write failure", zap.Error(cerr))
		}
		return OutcomeSkipped, fmt.Errorf("write object %s: %w", name, err)
	}
	if err := w.Close(); err != nil {
		return OutcomeSkipped, fmt.Errorf("close object %s: %w", name, err)
	}
	if exists {
		return OutcomeReplaced, nil
	}
	return OutcomeStored, nil
}

// List downloads every unit under the prefix. Unreadable or malformed
// objects are logged and skipped, matching the filesystem backend.
func (s *GCSStore) List(ctx context.Context) ([]record.PatchRecord, error) {
	bkt := s.client.Bucket(s.bucket)
	query := &gstorage.Query{}
	if s.prefix != "" {
		query.Prefix = s.prefix + "/"
	}

	var records []record.PatchRecord
	it := bkt.Objects(ctx, query)
	for {
		attrs, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("list objects: %w", err)
		}
		if !strings.HasSuffix(attrs.Name, ".json") {
			continue
		}
		rec, ok := s.readUnit(ctx, bkt, attrs.Name)
		if !ok {
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

func (s *GCSStore) readUnit(ctx context.Context, bkt *gstorage.BucketHandle, name string) (record.PatchRecord, bool) {
	rc, err := bkt.Object(name).NewReader(ctx)
	if err != nil {
		s.logger.Warn("Skipping unreadable unit", zap.String("object", name), zap.Error(err))
		return record.PatchRecord{}, false
	}
	payload, err := io.ReadAll(rc)
	if cerr := rc.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		s.logger.Warn("Skipping unreadable unit", zap.String("object", name), zap.Error(err))
		return record.PatchRecord{}, false
	}
	var rec record.PatchRecord
	if err := json.Unmarshal(payload, &rec); err != nil {
		s.logger.Warn("Skipping malformed unit", zap.String("object", name), zap.Error(err))
		return record.PatchRecord{}, false
	}
	rec.Version = record.VersionID(strings.TrimSuffix(path.Base(name), ".json"))
	return rec, true
}
