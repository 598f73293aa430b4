package gcs

import (
	"testing"
	"time"

	"cloud.google.com/go/storage"
	"github.com/stretchr/testify/assert"

	"github.com/jsamuelsen11/gcp-samples/internal/domain/bucket"
	"github.com/jsamuelsen11/gcp-samples/internal/ports"
)

func TestRetryOptions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		policy ports.RetryPolicy
		want   int
	}{
		{name: "empty", policy: ports.RetryPolicy{}, want: 0},
		{name: "attempts only", policy: ports.RetryPolicy{MaxAttempts: 3}, want: 1},
		{
			name: "full",
			policy: ports.RetryPolicy{
				MaxAttempts: 10, Initial: 100 * time.Millisecond, Max: 5 * time.Second,
				Multiplier: 2, Always: true,
			},
			want: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Len(t, retryOptions(tt.policy), tt.want)
		})
	}
}

func TestToAttrsUpdate(t *testing.T) {
	t.Parallel()

	u := toAttrsUpdate(ports.BucketUpdate{DefaultKMSKeyName: "projects/p/locations/l/keyRings/r/cryptoKeys/k"})
	if assert.NotNil(t, u.Encryption) {
		assert.Equal(t, "projects/p/locations/l/keyRings/r/cryptoKeys/k", u.Encryption.DefaultKMSKeyName)
	}

	empty := toAttrsUpdate(ports.BucketUpdate{})
	assert.Nil(t, empty.Encryption)
}

func TestToBucket(t *testing.T) {
	t.Parallel()
	created := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)

	got := toBucket(&storage.BucketAttrs{
		Name:                     "b",
		Location:                 "US",
		StorageClass:             "STANDARD",
		Labels:                   map[string]string{"k": "v"},
		Encryption:               &storage.BucketEncryption{DefaultKMSKeyName: "key"},
		VersioningEnabled:        true,
		UniformBucketLevelAccess: storage.UniformBucketLevelAccess{Enabled: true},
		Created:                  created,
	})

	assert.Equal(t, bucket.Bucket{
		Name:                     "b",
		Location:                 "US",
		StorageClass:             "STANDARD",
		Labels:                   map[string]string{"k": "v"},
		DefaultKMSKeyName:        "key",
		VersioningEnabled:        true,
		UniformBucketLevelAccess: true,
		Created:                  created,
	}, got)
}

func TestToObject(t *testing.T) {
	t.Parallel()

	got := toObject(&storage.ObjectAttrs{
		Bucket: "b", Name: "dir/file.txt", Size: 12, ContentType: "text/plain",
		Generation: 7, KMSKeyName: "key", MD5: []byte{1, 2},
	})

	assert.Equal(t, "gs://b/dir/file.txt", got.URI())
	assert.Equal(t, int64(12), got.Size)
	assert.Equal(t, int64(7), got.Generation)
	assert.Equal(t, "key", got.KMSKeyName)
}
