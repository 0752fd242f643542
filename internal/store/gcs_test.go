// Package store includes construction tests for the GCS backend. The
// read and write paths need a live bucket and stay uncovered here.
package store

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/jbalsam/patchvault/internal/record"
)

// TestNewGCSStoreValidation rejects missing clients and bucket names.
func TestNewGCSStoreValidation(t *testing.T) {
	t.Parallel()

	_, err := NewGCSStore(nil, GCSConfig{Bucket: "archive"}, zap.NewNop())
	assert.Error(t, err)

	_, err = NewGCSStore(nil, GCSConfig{}, zap.NewNop())
	assert.Error(t, err)
}

// TestGCSObjectName pins the prefix handling.
func TestGCSObjectName(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		prefix string
		want   string
	}{
		{name: "no prefix", prefix: "", want: "v205.json"},
		{name: "plain prefix", prefix: "patches", want: "patches/v205.json"},
		{name: "slashed prefix", prefix: "/patches/", want: "patches/v205.json"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			s := &GCSStore{bucket: "archive", prefix: strings.Trim(tc.prefix, "/"), logger: zap.NewNop()}
			assert.Equal(t, tc.want, s.objectName(record.VersionID("v205")))
		})
	}
}
