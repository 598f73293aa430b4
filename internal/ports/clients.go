package ports

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/jsamuelsen11/gcp-samples/internal/domain/bucket"
	"github.com/jsamuelsen11/gcp-samples/internal/domain/message"
	"github.com/jsamuelsen11/gcp-samples/internal/domain/operation"
	"github.com/jsamuelsen11/gcp-samples/internal/domain/secret"
	"github.com/jsamuelsen11/gcp-samples/internal/domain/table"
	"github.com/jsamuelsen11/gcp-samples/internal/domain/transcript"
	"github.com/jsamuelsen11/gcp-samples/internal/domain/vote"
)

// ObjectStorage defines the client port for Cloud Storage.
// Implemented by the gcs adapter; called by the storage samples.
// Missing buckets and objects surface as domain.ErrNotFound.
type ObjectStorage interface {
	// ListBuckets returns the buckets of a project.
	ListBuckets(ctx context.Context, projectID string) ([]bucket.Bucket, error)

	// CreateBucket creates b in the project. Location and StorageClass are
	// honoured when set. Returns domain.ErrConflict if the name is taken.
	CreateBucket(ctx context.Context, projectID string, b bucket.Bucket) (*bucket.Bucket, error)

	// GetBucket returns bucket metadata.
	GetBucket(ctx context.Context, name string) (*bucket.Bucket, error)

	// UpdateBucket applies label and default KMS key changes.
	UpdateBucket(ctx context.Context, name string, update BucketUpdate) (*bucket.Bucket, error)

	// DeleteBucket deletes an empty bucket.
	DeleteBucket(ctx context.Context, name string) error

	// ListObjects lists objects matching the query.
	ListObjects(ctx context.Context, query ObjectQuery) ([]bucket.Object, error)

	// GetObject returns object metadata.
	GetObject(ctx context.Context, ref bucket.Ref) (*bucket.Object, error)

	// Upload writes r to ref.
	Upload(ctx context.Context, ref bucket.Ref, r io.Reader, opts WriteOptions) (*bucket.Object, error)

	// Download writes the object's content to w and returns the byte count.
	// A non-nil key decrypts a customer-supplied-key object.
	Download(ctx context.Context, ref bucket.Ref, w io.Writer, key []byte) (int64, error)

	// Copy copies src to dst. Copying an object onto itself with different
	// keys rotates its encryption key.
	Copy(ctx context.Context, src, dst bucket.Ref, opts CopyOptions) (*bucket.Object, error)

	// DeleteObject deletes a single object.
	DeleteObject(ctx context.Context, ref bucket.Ref) error

	// MakePublic grants allUsers read access to the object.
	MakePublic(ctx context.Context, ref bucket.Ref) error
}

// BucketUpdate lists bucket attribute changes. Zero fields are left alone.
type BucketUpdate struct {
	SetLabels         map[string]string
	DeleteLabels      []string
	DefaultKMSKeyName string
}

// ObjectQuery selects objects to list. A non-nil Retry overrides the
// client's retry behaviour for this call.
type ObjectQuery struct {
	Bucket string
	Prefix string
	Retry  *RetryPolicy
}

// RetryPolicy customises storage retries.
type RetryPolicy struct {
	MaxAttempts int
	Initial     time.Duration
	Max         time.Duration
	Multiplier  float64
	// Always retries non-idempotent operations too.
	Always bool
}

// WriteOptions controls encryption and content type of uploads.
// EncryptionKey is a 32-byte AES-256 customer-supplied key.
type WriteOptions struct {
	ContentType   string
	EncryptionKey []byte
	KMSKeyName    string
}

// CopyOptions controls encryption of the source and destination of a copy.
type CopyOptions struct {
	SourceKey      []byte
	DestinationKey []byte
	DestinationKMS string
}

// SecretManager defines the client port for Secret Manager.
// Implemented by the secretmanager adapter; called by the secret samples.
// Names are full resource names built with the secret package.
type SecretManager interface {
	// CreateSecret creates a secret with automatic replication.
	// Returns domain.ErrConflict if it already exists.
	CreateSecret(ctx context.Context, projectID, secretID string, labels map[string]string) (*secret.Secret, error)

	// GetSecret returns secret metadata.
	GetSecret(ctx context.Context, name string) (*secret.Secret, error)

	// ListSecrets returns all secrets of a project.
	ListSecrets(ctx context.Context, projectID string) ([]secret.Secret, error)

	// UpdateSecretLabels replaces the secret's labels.
	UpdateSecretLabels(ctx context.Context, name string, labels map[string]string) (*secret.Secret, error)

	// DeleteSecret deletes a secret and all its versions.
	DeleteSecret(ctx context.Context, name string) error

	// AddVersion stores payload as a new enabled version.
	AddVersion(ctx context.Context, secretName string, payload []byte) (*secret.Version, error)

	// AccessVersion returns a version's payload. The version segment may be
	// "latest". The checksum is verified before returning.
	AccessVersion(ctx context.Context, versionName string) ([]byte, error)

	// GetVersion returns version metadata.
	GetVersion(ctx context.Context, versionName string) (*secret.Version, error)

	// ListVersions returns all versions of a secret.
	ListVersions(ctx context.Context, secretName string) ([]secret.Version, error)

	// EnableVersion, DisableVersion and DestroyVersion move a version
	// through its lifecycle. Destroy is irreversible.
	EnableVersion(ctx context.Context, versionName string) (*secret.Version, error)
	DisableVersion(ctx context.Context, versionName string) (*secret.Version, error)
	DestroyVersion(ctx context.Context, versionName string) (*secret.Version, error)
}

// BigQuery defines the client port for BigQuery jobs.
// Submit methods return immediately with a job handle; callers poll
// JobStatus until the job is terminal.
type BigQuery interface {
	// Query submits a standard SQL query job.
	Query(ctx context.Context, sql string) (table.Job, error)

	// Extract submits an export of src to a gs:// destination.
	Extract(ctx context.Context, src table.Ref, dst bucket.Ref, format table.Format) (table.Job, error)

	// Load submits an import of a gs:// source into dst.
	Load(ctx context.Context, src bucket.Ref, dst table.Ref, format table.Format) (table.Job, error)

	// Copy submits a table copy job.
	Copy(ctx context.Context, src, dst table.Ref) (table.Job, error)

	// JobStatus fetches the job's current status.
	JobStatus(ctx context.Context, job table.Job) (operation.Status, error)

	// Results reads the rows of a finished query job.
	Results(ctx context.Context, job table.Job) (*table.Result, error)
}

// PubSub defines the client port for Pub/Sub topics and subscriptions.
// IDs are short names; the adapter qualifies them with its project.
type PubSub interface {
	// CreateTopic creates a topic and returns its full resource name.
	CreateTopic(ctx context.Context, topicID string) (string, error)

	// ListTopics returns the full names of the project's topics.
	ListTopics(ctx context.Context) ([]string, error)

	// DeleteTopic deletes a topic.
	DeleteTopic(ctx context.Context, topicID string) error

	// Publish publishes msg and returns the server-assigned message ID.
	Publish(ctx context.Context, topicID string, msg message.Message) (string, error)

	// CreateSubscription creates a pull subscription on the topic.
	CreateSubscription(ctx context.Context, topicID, subscriptionID string) (string, error)

	// Pull receives and acknowledges up to max messages.
	Pull(ctx context.Context, subscriptionID string, maxMessages int) ([]message.Message, error)
}

// Speech defines the client port for asynchronous Speech-to-Text.
type Speech interface {
	// Transcribe starts long-running recognition of a gs:// audio file and
	// returns without waiting.
	Transcribe(ctx context.Context, req TranscribeRequest) (Transcription, error)
}

// TranscribeRequest describes the audio to recognise. The audio is LINEAR16.
type TranscribeRequest struct {
	Audio           bucket.Ref
	LanguageCode    string
	SampleRateHertz int
	WordTimeOffsets bool
}

// Transcription is a started recognition operation. Poll matches
// poll.DoneFunc, so callers hand it to poll.WaitFunc.
type Transcription interface {
	// Name is the operation's resource name.
	Name() string

	// Poll refreshes the operation once. With done set, a non-nil error is
	// the operation's own failure; otherwise it is an error fetching status.
	Poll(ctx context.Context) (done bool, err error)

	// Segments returns the transcript once Poll reported success.
	Segments() []transcript.Segment
}

// EndpointInvoker sends HTTP requests to Google-fronted endpoints
// (Cloud Endpoints, Cloud Run, Cloud Functions, IAP).
type EndpointInvoker interface {
	// Invoke sends req. With a non-empty Audience the request carries a
	// Google-signed ID token for that audience.
	Invoke(ctx context.Context, req EndpointRequest) (*EndpointResponse, error)
}

// EndpointRequest describes one outbound call.
type EndpointRequest struct {
	Method   string
	URL      string
	Audience string
	Header   http.Header
	Body     []byte
}

// EndpointResponse is the status and body of an endpoint call.
type EndpointResponse struct {
	StatusCode int
	Body       []byte
}

// MessageStore persists messages received by the Pub/Sub push endpoint.
type MessageStore interface {
	// Save stores a received message.
	Save(ctx context.Context, msg message.Message) error

	// Recent returns up to limit messages, newest first.
	Recent(ctx context.Context, limit int) ([]message.Message, error)
}

// VoteStore persists votes for the Cloud SQL web app.
type VoteStore interface {
	// EnsureSchema creates the backing tables if missing.
	EnsureSchema(ctx context.Context) error

	// Insert records a vote.
	Insert(ctx context.Context, v vote.Vote) error

	// Recent returns up to limit votes, newest first.
	Recent(ctx context.Context, limit int) ([]vote.Vote, error)

	// Tally counts votes per candidate.
	Tally(ctx context.Context) (vote.Tally, error)
}
