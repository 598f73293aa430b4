package samples

import (
	"context"
	crand "crypto/rand"
	"encoding/base64"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/jsamuelsen11/gcp-samples/internal/domain"
	"github.com/jsamuelsen11/gcp-samples/internal/domain/bucket"
	"github.com/jsamuelsen11/gcp-samples/internal/domain/sample"
	"github.com/jsamuelsen11/gcp-samples/internal/ports"
)

// encryptionKeySize is the AES-256 key length Cloud Storage expects for
// customer-supplied encryption keys.
const encryptionKeySize = 32

// retryOverrides mirrors the storage retry sample: ten attempts, retrying
// even non-idempotent calls.
var retryOverrides = ports.RetryPolicy{
	MaxAttempts: 10,
	Initial:     100 * time.Millisecond,
	Max:         5 * time.Second,
	Multiplier:  2,
	Always:      true,
}

func registerStorage(r *Registry, d Deps) {
	storage := func(fn func(context.Context, ports.ObjectStorage, sample.Args, io.Writer) error) RunFunc {
		return func(ctx context.Context, args sample.Args, out io.Writer) error {
			return with(ctx, d.Clients.Storage, func(c ports.ObjectStorage) error {
				return fn(ctx, c, args, out)
			})
		}
	}
	reg := func(name, summary string, run RunFunc, params ...sample.Param) {
		r.Register(sample.Sample{Name: name, Product: ProductStorage, Summary: summary, Params: params}, run)
	}

	bucketParam := param("BUCKET", "name of the Cloud Storage bucket")
	objectParam := param("OBJECT", "name of the object")

	reg("list_buckets", "List the buckets of the configured project.",
		func(ctx context.Context, _ sample.Args, out io.Writer) error {
			project, err := d.Clients.ProjectID(ctx)
			if err != nil {
				return err
			}
			return with(ctx, d.Clients.Storage, func(c ports.ObjectStorage) error {
				buckets, err := c.ListBuckets(ctx, project)
				if err != nil {
					return err
				}
				for _, b := range buckets {
					printf(out, "Bucket: %s", b.Name)
				}
				return nil
			})
		})

	reg("create_bucket", "Create a bucket in the configured project.",
		func(ctx context.Context, args sample.Args, out io.Writer) error {
			project, err := d.Clients.ProjectID(ctx)
			if err != nil {
				return err
			}
			location := args.String("LOCATION")
			if location == "" {
				location = d.Location
			}
			return with(ctx, d.Clients.Storage, func(c ports.ObjectStorage) error {
				b, err := c.CreateBucket(ctx, project, bucket.Bucket{Name: args.String("BUCKET"), Location: location})
				if err != nil {
					return err
				}
				printf(out, "Bucket %s created in %s.", b.Name, b.Location)
				return nil
			})
		},
		bucketParam, optional("LOCATION", "bucket location, e.g. US or europe-west1", ""))

	reg("delete_bucket", "Delete an empty bucket.",
		storage(func(ctx context.Context, c ports.ObjectStorage, args sample.Args, out io.Writer) error {
			if err := c.DeleteBucket(ctx, args.String("BUCKET")); err != nil {
				return err
			}
			printf(out, "Bucket %s deleted.", args.String("BUCKET"))
			return nil
		}), bucketParam)

	reg("get_bucket_metadata", "Print a bucket's metadata.",
		storage(func(ctx context.Context, c ports.ObjectStorage, args sample.Args, out io.Writer) error {
			b, err := c.GetBucket(ctx, args.String("BUCKET"))
			if err != nil {
				return err
			}
			printBucket(out, b)
			return nil
		}), bucketParam)

	reg("add_bucket_label", "Add a label to a bucket.",
		storage(func(ctx context.Context, c ports.ObjectStorage, args sample.Args, out io.Writer) error {
			key, value := args.String("KEY"), args.String("VALUE")
			if err := bucket.ValidateLabelKey(key); err != nil {
				return err
			}
			_, err := c.UpdateBucket(ctx, args.String("BUCKET"), ports.BucketUpdate{
				SetLabels: map[string]string{key: value},
			})
			if err != nil {
				return err
			}
			printf(out, "Added label %s (%s) to %s", key, value, args.String("BUCKET"))
			return nil
		}), bucketParam, param("KEY", "label key"), param("VALUE", "label value"))

	reg("get_bucket_labels", "Print a bucket's labels.",
		storage(func(ctx context.Context, c ports.ObjectStorage, args sample.Args, out io.Writer) error {
			b, err := c.GetBucket(ctx, args.String("BUCKET"))
			if err != nil {
				return err
			}
			for _, k := range sortedKeys(b.Labels) {
				printf(out, "%s: %s", k, b.Labels[k])
			}
			return nil
		}), bucketParam)

	reg("remove_bucket_label", "Remove a label from a bucket.",
		storage(func(ctx context.Context, c ports.ObjectStorage, args sample.Args, out io.Writer) error {
			key := args.String("KEY")
			_, err := c.UpdateBucket(ctx, args.String("BUCKET"), ports.BucketUpdate{DeleteLabels: []string{key}})
			if err != nil {
				return err
			}
			printf(out, "Removed label %s from %s", key, args.String("BUCKET"))
			return nil
		}), bucketParam, param("KEY", "label key"))

	reg("enable_default_kms_key", "Set the default Cloud KMS key of a bucket.",
		storage(func(ctx context.Context, c ports.ObjectStorage, args sample.Args, out io.Writer) error {
			b, err := c.UpdateBucket(ctx, args.String("BUCKET"), ports.BucketUpdate{
				DefaultKMSKeyName: args.String("KMS_KEY"),
			})
			if err != nil {
				return err
			}
			printf(out, "Default KMS key for bucket %s set to %s", b.Name, b.DefaultKMSKeyName)
			return nil
		}), bucketParam, param("KMS_KEY", "projects/P/locations/L/keyRings/R/cryptoKeys/K"))

	listObjects := func(query func(sample.Args) ports.ObjectQuery) RunFunc {
		return storage(func(ctx context.Context, c ports.ObjectStorage, args sample.Args, out io.Writer) error {
			objects, err := c.ListObjects(ctx, query(args))
			if err != nil {
				return err
			}
			for _, o := range objects {
				printf(out, "Object: %s", o.Name)
			}
			return nil
		})
	}

	reg("list_objects", "List the objects in a bucket.",
		listObjects(func(a sample.Args) ports.ObjectQuery {
			return ports.ObjectQuery{Bucket: a.String("BUCKET")}
		}), bucketParam)

	reg("list_objects_with_prefix", "List the objects in a bucket under a prefix.",
		listObjects(func(a sample.Args) ports.ObjectQuery {
			return ports.ObjectQuery{Bucket: a.String("BUCKET"), Prefix: a.String("PREFIX")}
		}), bucketParam, param("PREFIX", "object name prefix"))

	reg("configure_retries", "List objects with customised retry behaviour.",
		listObjects(func(a sample.Args) ports.ObjectQuery {
			policy := retryOverrides
			return ports.ObjectQuery{Bucket: a.String("BUCKET"), Retry: &policy}
		}), bucketParam)

	reg("upload_object", "Upload a local file to a bucket.",
		storage(func(ctx context.Context, c ports.ObjectStorage, args sample.Args, out io.Writer) error {
			ref := objectRef(args)
			if err := uploadFile(ctx, c, ref, args.String("SOURCE"), ports.WriteOptions{}); err != nil {
				return err
			}
			printf(out, "Uploaded %s to %s", args.String("SOURCE"), ref.URI())
			return nil
		}), bucketParam, objectParam, param("SOURCE", "local file to upload"))

	reg("download_object", "Download an object to a local file.",
		storage(func(ctx context.Context, c ports.ObjectStorage, args sample.Args, out io.Writer) error {
			ref := objectRef(args)
			if err := downloadFile(ctx, c, ref, args.String("DEST"), nil); err != nil {
				return err
			}
			printf(out, "Downloaded %s to %s", ref.URI(), args.String("DEST"))
			return nil
		}), bucketParam, objectParam, param("DEST", "local destination path"))

	reg("copy_object", "Copy an object to another bucket or name.",
		storage(func(ctx context.Context, c ports.ObjectStorage, args sample.Args, out io.Writer) error {
			src := objectRef(args)
			dst := bucket.Ref{Bucket: args.String("DEST_BUCKET"), Object: args.String("DEST_OBJECT")}
			if _, err := c.Copy(ctx, src, dst, ports.CopyOptions{}); err != nil {
				return err
			}
			printf(out, "Copied %s to %s", src.URI(), dst.URI())
			return nil
		}), bucketParam, objectParam,
		param("DEST_BUCKET", "destination bucket"), param("DEST_OBJECT", "destination object name"))

	reg("move_object", "Rename an object within its bucket.",
		storage(func(ctx context.Context, c ports.ObjectStorage, args sample.Args, out io.Writer) error {
			src := objectRef(args)
			dst := bucket.Ref{Bucket: src.Bucket, Object: args.String("NEW_OBJECT")}
			if _, err := c.Copy(ctx, src, dst, ports.CopyOptions{}); err != nil {
				return err
			}
			if err := c.DeleteObject(ctx, src); err != nil {
				return fmt.Errorf("deleting source after copy: %w", err)
			}
			printf(out, "Moved %s to %s", src.URI(), dst.URI())
			return nil
		}), bucketParam, objectParam, param("NEW_OBJECT", "new object name"))

	reg("delete_object", "Delete an object.",
		storage(func(ctx context.Context, c ports.ObjectStorage, args sample.Args, out io.Writer) error {
			ref := objectRef(args)
			if err := c.DeleteObject(ctx, ref); err != nil {
				return err
			}
			printf(out, "Deleted %s", ref.URI())
			return nil
		}), bucketParam, objectParam)

	reg("make_public", "Grant public read access to an object.",
		storage(func(ctx context.Context, c ports.ObjectStorage, args sample.Args, out io.Writer) error {
			ref := objectRef(args)
			if err := c.MakePublic(ctx, ref); err != nil {
				return err
			}
			printf(out, "%s is now public", ref.URI())
			return nil
		}), bucketParam, objectParam)

	reg("object_metadata", "Print an object's metadata.",
		storage(func(ctx context.Context, c ports.ObjectStorage, args sample.Args, out io.Writer) error {
			o, err := c.GetObject(ctx, objectRef(args))
			if err != nil {
				return err
			}
			printObject(out, o)
			return nil
		}), bucketParam, objectParam)

	reg("generate_encryption_key", "Generate a base64 AES-256 customer-supplied encryption key.",
		func(_ context.Context, _ sample.Args, out io.Writer) error {
			key := make([]byte, encryptionKeySize)
			if _, err := crand.Read(key); err != nil {
				return fmt.Errorf("generating key: %w", err)
			}
			printf(out, "Your encryption key: %s", base64.StdEncoding.EncodeToString(key))
			return nil
		})

	keyParam := param("KEY", "base64 AES-256 encryption key")

	reg("upload_encrypted_object", "Upload a file encrypted with a customer-supplied key.",
		storage(func(ctx context.Context, c ports.ObjectStorage, args sample.Args, out io.Writer) error {
			key, err := decodeKey("KEY", args.String("KEY"))
			if err != nil {
				return err
			}
			ref := objectRef(args)
			if err := uploadFile(ctx, c, ref, args.String("SOURCE"), ports.WriteOptions{EncryptionKey: key}); err != nil {
				return err
			}
			printf(out, "Uploaded encrypted object %s to %s", args.String("SOURCE"), ref.URI())
			return nil
		}), bucketParam, objectParam, param("SOURCE", "local file to upload"), keyParam)

	reg("download_encrypted_object", "Download an object encrypted with a customer-supplied key.",
		storage(func(ctx context.Context, c ports.ObjectStorage, args sample.Args, out io.Writer) error {
			key, err := decodeKey("KEY", args.String("KEY"))
			if err != nil {
				return err
			}
			ref := objectRef(args)
			if err := downloadFile(ctx, c, ref, args.String("DEST"), key); err != nil {
				return err
			}
			printf(out, "Encrypted object %s downloaded to %s", ref.URI(), args.String("DEST"))
			return nil
		}), bucketParam, objectParam, param("DEST", "local destination path"), keyParam)

	reg("rotate_encryption_key", "Re-encrypt an object with a new customer-supplied key.",
		storage(func(ctx context.Context, c ports.ObjectStorage, args sample.Args, out io.Writer) error {
			oldKey, err := decodeKey("OLD_KEY", args.String("OLD_KEY"))
			if err != nil {
				return err
			}
			newKey, err := decodeKey("NEW_KEY", args.String("NEW_KEY"))
			if err != nil {
				return err
			}
			ref := objectRef(args)
			_, err = c.Copy(ctx, ref, ref, ports.CopyOptions{SourceKey: oldKey, DestinationKey: newKey})
			if err != nil {
				return err
			}
			printf(out, "Rotated encryption key for object %s", ref.URI())
			return nil
		}), bucketParam, objectParam,
		param("OLD_KEY", "current base64 key"), param("NEW_KEY", "new base64 key"))

	reg("upload_with_kms_key", "Upload a file encrypted with a Cloud KMS key.",
		storage(func(ctx context.Context, c ports.ObjectStorage, args sample.Args, out io.Writer) error {
			ref := objectRef(args)
			kmsKey := args.String("KMS_KEY")
			if err := uploadFile(ctx, c, ref, args.String("SOURCE"), ports.WriteOptions{KMSKeyName: kmsKey}); err != nil {
				return err
			}
			printf(out, "Uploaded %s to %s using encryption key %s", args.String("SOURCE"), ref.URI(), kmsKey)
			return nil
		}), bucketParam, objectParam, param("SOURCE", "local file to upload"),
		param("KMS_KEY", "projects/P/locations/L/keyRings/R/cryptoKeys/K"))
}

func objectRef(args sample.Args) bucket.Ref {
	return bucket.Ref{Bucket: args.String("BUCKET"), Object: args.String("OBJECT")}
}

func uploadFile(ctx context.Context, c ports.ObjectStorage, ref bucket.Ref, path string, opts ports.WriteOptions) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	_, err = c.Upload(ctx, ref, f, opts)
	return err
}

// downloadFile writes the object to a temporary file next to path and
// renames it into place, so a failed download leaves path untouched.
func downloadFile(ctx context.Context, c ports.ObjectStorage, ref bucket.Ref, path string, key []byte) (err error) {
	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	tmp := f.Name()
	defer func() {
		if err != nil {
			_ = os.Remove(tmp)
		}
	}()

	_, err = c.Download(ctx, ref, f, key)
	if cerr := f.Close(); cerr != nil && err == nil {
		err = fmt.Errorf("closing %s: %w", tmp, cerr)
	}
	if err != nil {
		return err
	}
	if err = os.Rename(tmp, path); err != nil {
		return fmt.Errorf("moving download to %s: %w", path, err)
	}
	return nil
}

func decodeKey(field, encoded string) ([]byte, error) {
	key, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil || len(key) != encryptionKeySize {
		return nil, domain.NewValidationError(field, "must be a base64-encoded 32-byte key")
	}
	return key, nil
}

func printBucket(out io.Writer, b *bucket.Bucket) {
	printf(out, "Bucket Name: %s", b.Name)
	printf(out, "Location: %s", b.Location)
	printf(out, "Storage Class: %s", b.StorageClass)
	printf(out, "Time Created: %s", b.Created.Format(time.RFC3339))
	printf(out, "Default KMS Key Name: %s", b.DefaultKMSKeyName)
	printf(out, "Versioning Enabled: %t", b.VersioningEnabled)
	printf(out, "Requester Pays: %t", b.RequesterPays)
	printf(out, "Uniform Bucket-Level Access: %t", b.UniformBucketLevelAccess)
	if len(b.Labels) > 0 {
		printf(out, "Labels:")
		for _, k := range sortedKeys(b.Labels) {
			printf(out, "  %s: %s", k, b.Labels[k])
		}
	}
}

func printObject(out io.Writer, o *bucket.Object) {
	printf(out, "Object: %s", o.Name)
	printf(out, "Bucket: %s", o.Bucket)
	printf(out, "Size: %d", o.Size)
	printf(out, "Content Type: %s", o.ContentType)
	printf(out, "Generation: %d", o.Generation)
	printf(out, "Updated: %s", o.Updated.Format(time.RFC3339))
	if o.KMSKeyName != "" {
		printf(out, "KMS Key Name: %s", o.KMSKeyName)
	}
	if len(o.MD5) > 0 {
		printf(out, "MD5 Hash: %s", base64.StdEncoding.EncodeToString(o.MD5))
	}
	for _, k := range sortedKeys(o.Metadata) {
		printf(out, "Metadata: %s = %s", k, o.Metadata[k])
	}
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
