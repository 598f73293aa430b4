// Package gcs adapts the Cloud Storage SDK to ports.ObjectStorage.
package gcs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"cloud.google.com/go/storage"
	"github.com/googleapis/gax-go/v2"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"github.com/jsamuelsen11/gcp-samples/internal/domain/bucket"
	"github.com/jsamuelsen11/gcp-samples/internal/platform/gcp"
	"github.com/jsamuelsen11/gcp-samples/internal/ports"
)

// ServiceName names the breaker and health check.
const ServiceName = "storage"

var (
	_ ports.ObjectStorage = (*Client)(nil)
	_ ports.HealthChecker = (*Client)(nil)
)

// Client implements ports.ObjectStorage.
type Client struct {
	sdk     *storage.Client
	breaker *gcp.Breaker
	logger  *slog.Logger
}

// New creates a storage client with opts.
func New(ctx context.Context, breaker *gcp.Breaker, logger *slog.Logger, opts ...option.ClientOption) (*Client, error) {
	sdk, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating storage client: %w", err)
	}
	return &Client{sdk: sdk, breaker: breaker, logger: logger}, nil
}

// Close releases the underlying client.
func (c *Client) Close() error {
	return c.sdk.Close()
}

// Name implements ports.HealthChecker.
func (c *Client) Name() string { return c.breaker.Name() }

// HealthCheck reports the breaker state.
func (c *Client) HealthCheck(ctx context.Context) error { return c.breaker.HealthCheck(ctx) }

// ListBuckets returns the project's buckets.
func (c *Client) ListBuckets(ctx context.Context, projectID string) ([]bucket.Bucket, error) {
	out, err := gcp.Call(c.breaker, func() ([]bucket.Bucket, error) {
		return drain(c.sdk.Buckets(ctx, projectID), toBucket)
	})
	if err != nil {
		return nil, fmt.Errorf("listing buckets of %s: %w", projectID, err)
	}
	return out, nil
}

// CreateBucket creates b in projectID.
func (c *Client) CreateBucket(ctx context.Context, projectID string, b bucket.Bucket) (*bucket.Bucket, error) {
	attrs := &storage.BucketAttrs{
		Location:     b.Location,
		StorageClass: b.StorageClass,
		Labels:       b.Labels,
	}
	h := c.sdk.Bucket(b.Name)
	err := c.breaker.Do(func() error {
		return h.Create(ctx, projectID, attrs)
	})
	if err != nil {
		return nil, fmt.Errorf("creating bucket %s: %w", b.Name, err)
	}
	c.logger.DebugContext(ctx, "bucket created", slog.String("bucket", b.Name))
	return c.GetBucket(ctx, b.Name)
}

// GetBucket returns bucket metadata.
func (c *Client) GetBucket(ctx context.Context, name string) (*bucket.Bucket, error) {
	attrs, err := gcp.Call(c.breaker, func() (*storage.BucketAttrs, error) {
		return c.sdk.Bucket(name).Attrs(ctx)
	})
	if err != nil {
		return nil, fmt.Errorf("getting bucket %s: %w", name, err)
	}
	b := toBucket(attrs)
	return &b, nil
}

// UpdateBucket applies label and default KMS key changes.
func (c *Client) UpdateBucket(ctx context.Context, name string, update ports.BucketUpdate) (*bucket.Bucket, error) {
	attrs, err := gcp.Call(c.breaker, func() (*storage.BucketAttrs, error) {
		return c.sdk.Bucket(name).Update(ctx, toAttrsUpdate(update))
	})
	if err != nil {
		return nil, fmt.Errorf("updating bucket %s: %w", name, err)
	}
	b := toBucket(attrs)
	return &b, nil
}

// DeleteBucket deletes an empty bucket.
func (c *Client) DeleteBucket(ctx context.Context, name string) error {
	if err := c.breaker.Do(func() error { return c.sdk.Bucket(name).Delete(ctx) }); err != nil {
		return fmt.Errorf("deleting bucket %s: %w", name, err)
	}
	return nil
}

// ListObjects lists objects matching query.
func (c *Client) ListObjects(ctx context.Context, query ports.ObjectQuery) ([]bucket.Object, error) {
	h := c.sdk.Bucket(query.Bucket)
	if query.Retry != nil {
		h = h.Retryer(retryOptions(*query.Retry)...)
	}
	out, err := gcp.Call(c.breaker, func() ([]bucket.Object, error) {
		return drain(h.Objects(ctx, &storage.Query{Prefix: query.Prefix}), toObject)
	})
	if err != nil {
		return nil, fmt.Errorf("listing objects in %s: %w", query.Bucket, err)
	}
	return out, nil
}

// GetObject returns object metadata.
func (c *Client) GetObject(ctx context.Context, ref bucket.Ref) (*bucket.Object, error) {
	attrs, err := gcp.Call(c.breaker, func() (*storage.ObjectAttrs, error) {
		return c.object(ref, nil).Attrs(ctx)
	})
	if err != nil {
		return nil, fmt.Errorf("getting %s: %w", ref.URI(), err)
	}
	o := toObject(attrs)
	return &o, nil
}

// Upload writes r to ref.
func (c *Client) Upload(ctx context.Context, ref bucket.Ref, r io.Reader, opts ports.WriteOptions) (*bucket.Object, error) {
	attrs, err := gcp.Call(c.breaker, func() (*storage.ObjectAttrs, error) {
		w := c.object(ref, opts.EncryptionKey).NewWriter(ctx)
		w.ContentType = opts.ContentType
		w.KMSKeyName = opts.KMSKeyName
		if _, err := io.Copy(w, r); err != nil {
			_ = w.Close()
			return nil, err
		}
		if err := w.Close(); err != nil {
			return nil, err
		}
		return w.Attrs(), nil
	})
	if err != nil {
		return nil, fmt.Errorf("uploading %s: %w", ref.URI(), err)
	}
	o := toObject(attrs)
	return &o, nil
}

// Download copies the object's content to w.
func (c *Client) Download(ctx context.Context, ref bucket.Ref, w io.Writer, key []byte) (int64, error) {
	n, err := gcp.Call(c.breaker, func() (int64, error) {
		rd, err := c.object(ref, key).NewReader(ctx)
		if err != nil {
			return 0, err
		}
		defer rd.Close()
		return io.Copy(w, rd)
	})
	if err != nil {
		return n, fmt.Errorf("downloading %s: %w", ref.URI(), err)
	}
	return n, nil
}

// Copy copies src to dst, re-encrypting when keys differ.
func (c *Client) Copy(ctx context.Context, src, dst bucket.Ref, opts ports.CopyOptions) (*bucket.Object, error) {
	attrs, err := gcp.Call(c.breaker, func() (*storage.ObjectAttrs, error) {
		copier := c.object(dst, opts.DestinationKey).CopierFrom(c.object(src, opts.SourceKey))
		copier.DestinationKMSKeyName = opts.DestinationKMS
		return copier.Run(ctx)
	})
	if err != nil {
		return nil, fmt.Errorf("copying %s to %s: %w", src.URI(), dst.URI(), err)
	}
	o := toObject(attrs)
	return &o, nil
}

// DeleteObject deletes one object.
func (c *Client) DeleteObject(ctx context.Context, ref bucket.Ref) error {
	if err := c.breaker.Do(func() error { return c.object(ref, nil).Delete(ctx) }); err != nil {
		return fmt.Errorf("deleting %s: %w", ref.URI(), err)
	}
	return nil
}

// MakePublic grants allUsers read access.
func (c *Client) MakePublic(ctx context.Context, ref bucket.Ref) error {
	err := c.breaker.Do(func() error {
		return c.object(ref, nil).ACL().Set(ctx, storage.AllUsers, storage.RoleReader)
	})
	if err != nil {
		return fmt.Errorf("making %s public: %w", ref.URI(), err)
	}
	return nil
}

func (c *Client) object(ref bucket.Ref, key []byte) *storage.ObjectHandle {
	h := c.sdk.Bucket(ref.Bucket).Object(ref.Object)
	if len(key) > 0 {
		h = h.Key(key)
	}
	return h
}

// retryOptions maps a retry policy onto storage retry options.
func retryOptions(p ports.RetryPolicy) []storage.RetryOption {
	var opts []storage.RetryOption
	if p.Initial > 0 || p.Max > 0 || p.Multiplier > 0 {
		opts = append(opts, storage.WithBackoff(gax.Backoff{
			Initial:    p.Initial,
			Max:        p.Max,
			Multiplier: p.Multiplier,
		}))
	}
	if p.Always {
		opts = append(opts, storage.WithPolicy(storage.RetryAlways))
	}
	if p.MaxAttempts > 0 {
		opts = append(opts, storage.WithMaxAttempts(p.MaxAttempts))
	}
	return opts
}

func toAttrsUpdate(u ports.BucketUpdate) storage.BucketAttrsToUpdate {
	var attrs storage.BucketAttrsToUpdate
	for k, v := range u.SetLabels {
		attrs.SetLabel(k, v)
	}
	for _, k := range u.DeleteLabels {
		attrs.DeleteLabel(k)
	}
	if u.DefaultKMSKeyName != "" {
		attrs.Encryption = &storage.BucketEncryption{DefaultKMSKeyName: u.DefaultKMSKeyName}
	}
	return attrs
}

func toBucket(a *storage.BucketAttrs) bucket.Bucket {
	b := bucket.Bucket{
		Name:                     a.Name,
		Location:                 a.Location,
		StorageClass:             a.StorageClass,
		Labels:                   a.Labels,
		VersioningEnabled:        a.VersioningEnabled,
		RequesterPays:            a.RequesterPays,
		UniformBucketLevelAccess: a.UniformBucketLevelAccess.Enabled,
		Created:                  a.Created,
	}
	if a.Encryption != nil {
		b.DefaultKMSKeyName = a.Encryption.DefaultKMSKeyName
	}
	return b
}

func toObject(a *storage.ObjectAttrs) bucket.Object {
	return bucket.Object{
		Bucket:      a.Bucket,
		Name:        a.Name,
		Size:        a.Size,
		ContentType: a.ContentType,
		Generation:  a.Generation,
		KMSKeyName:  a.KMSKeyName,
		MD5:         a.MD5,
		Updated:     a.Updated,
		Metadata:    a.Metadata,
	}
}

type iter[T any] interface {
	Next() (T, error)
}

func drain[P, T any](it iter[P], convert func(P) T) ([]T, error) {
	var out []T
	for {
		v, err := it.Next()
		if errors.Is(err, iterator.Done) {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		out = append(out, convert(v))
	}
}
