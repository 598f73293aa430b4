// Package bucket holds the Cloud Storage view used by the storage samples:
// buckets, objects and gs:// references. Adapters translate SDK attributes
// into these types so samples never see SDK structs.
package bucket

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/jsamuelsen11/gcp-samples/internal/domain"
)

// uriScheme is the prefix of Cloud Storage URIs.
const uriScheme = "gs://"

// labelKeyPattern follows the Cloud Storage label key rules: lowercase start,
// then lowercase letters, digits, underscores and dashes, at most 63 chars.
var labelKeyPattern = regexp.MustCompile(`^[a-z][a-z0-9_-]{0,62}$`)

// Bucket is the subset of bucket metadata printed by the samples.
type Bucket struct {
	Name                     string
	Location                 string
	StorageClass             string
	Labels                   map[string]string
	DefaultKMSKeyName        string
	VersioningEnabled        bool
	RequesterPays            bool
	UniformBucketLevelAccess bool
	Created                  time.Time
}

// Object is the subset of object metadata printed by the samples.
type Object struct {
	Bucket      string
	Name        string
	Size        int64
	ContentType string
	Generation  int64
	KMSKeyName  string
	MD5         []byte
	Updated     time.Time
	Metadata    map[string]string
}

// URI returns the gs://bucket/object form of the object.
func (o Object) URI() string {
	return Ref{Bucket: o.Bucket, Object: o.Name}.URI()
}

// Ref points at an object (or, with an empty Object, a bucket).
type Ref struct {
	Bucket string
	Object string
}

// URI returns the gs:// form of the reference.
func (r Ref) URI() string {
	if r.Object == "" {
		return uriScheme + r.Bucket
	}
	return uriScheme + r.Bucket + "/" + r.Object
}

// ParseURI splits "gs://bucket/path/to/object" into its parts. The object
// part is required.
func ParseURI(uri string) (Ref, error) {
	if !strings.HasPrefix(uri, uriScheme) {
		return Ref{}, domain.NewValidationError("uri", fmt.Sprintf("must start with %q, got %q", uriScheme, uri))
	}

	rest := strings.TrimPrefix(uri, uriScheme)
	bucketName, object, ok := strings.Cut(rest, "/")
	if !ok || object == "" {
		return Ref{}, domain.NewValidationError("uri", fmt.Sprintf("does not contain an object name: %q", uri))
	}
	if bucketName == "" {
		return Ref{}, domain.NewValidationError("uri", fmt.Sprintf("does not contain a bucket name: %q", uri))
	}

	return Ref{Bucket: bucketName, Object: object}, nil
}

// ValidateLabelKey checks a bucket label key against the naming rules.
func ValidateLabelKey(key string) error {
	if !labelKeyPattern.MatchString(key) {
		return domain.NewValidationError("label", fmt.Sprintf("invalid label key %q", key))
	}
	return nil
}
