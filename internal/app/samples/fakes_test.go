package samples_test

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/jsamuelsen11/gcp-samples/internal/domain"
	"github.com/jsamuelsen11/gcp-samples/internal/domain/bucket"
	"github.com/jsamuelsen11/gcp-samples/internal/domain/message"
	"github.com/jsamuelsen11/gcp-samples/internal/domain/operation"
	"github.com/jsamuelsen11/gcp-samples/internal/domain/secret"
	"github.com/jsamuelsen11/gcp-samples/internal/domain/table"
	"github.com/jsamuelsen11/gcp-samples/internal/domain/transcript"
	"github.com/jsamuelsen11/gcp-samples/internal/ports"
)

const testProject = "test-project"

// fakeClients hands out in-memory ports.
type fakeClients struct {
	storage   *fakeStorage
	secrets   *fakeSecrets
	bigquery  *fakeBigQuery
	pubsub    *fakePubSub
	endpoints *fakeEndpoints
	speech    *fakeSpeech
	err       error
}

func newFakeClients() *fakeClients {
	return &fakeClients{
		storage:   newFakeStorage(),
		secrets:   newFakeSecrets(),
		bigquery:  &fakeBigQuery{},
		pubsub:    newFakePubSub(),
		endpoints: &fakeEndpoints{},
		speech:    &fakeSpeech{},
	}
}

func (f *fakeClients) ProjectID(context.Context) (string, error) { return testProject, f.err }

func (f *fakeClients) Storage(context.Context) (ports.ObjectStorage, error) {
	return f.storage, f.err
}

func (f *fakeClients) SecretManager(context.Context) (ports.SecretManager, error) {
	return f.secrets, f.err
}

func (f *fakeClients) BigQuery(context.Context) (ports.BigQuery, error) { return f.bigquery, f.err }

func (f *fakeClients) PubSub(context.Context) (ports.PubSub, error) { return f.pubsub, f.err }

func (f *fakeClients) Endpoints(context.Context) (ports.EndpointInvoker, error) {
	return f.endpoints, f.err
}

func (f *fakeClients) Speech(context.Context) (ports.Speech, error) { return f.speech, f.err }

// fakeObject is a stored object with the key it was encrypted with.
type fakeObject struct {
	meta bucket.Object
	data []byte
	key  []byte
}

type fakeStorage struct {
	mu         sync.Mutex
	buckets    map[string]*bucket.Bucket
	objects    map[bucket.Ref]*fakeObject
	public     map[bucket.Ref]bool
	lastQuery  ports.ObjectQuery
	generation int64
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{
		buckets: make(map[string]*bucket.Bucket),
		objects: make(map[bucket.Ref]*fakeObject),
		public:  make(map[bucket.Ref]bool),
	}
}

func (s *fakeStorage) ListBuckets(_ context.Context, _ string) ([]bucket.Bucket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := slices.Sorted(maps.Keys(s.buckets))
	out := make([]bucket.Bucket, 0, len(names))
	for _, n := range names {
		out = append(out, *s.buckets[n])
	}
	return out, nil
}

func (s *fakeStorage) CreateBucket(_ context.Context, _ string, b bucket.Bucket) (*bucket.Bucket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.buckets[b.Name]; ok {
		return nil, fmt.Errorf("bucket %s: %w", b.Name, domain.ErrConflict)
	}
	b.Created = time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	b.StorageClass = "STANDARD"
	s.buckets[b.Name] = &b
	cp := b
	return &cp, nil
}

func (s *fakeStorage) bucketLocked(name string) (*bucket.Bucket, error) {
	b, ok := s.buckets[name]
	if !ok {
		return nil, fmt.Errorf("bucket %s: %w", name, domain.ErrNotFound)
	}
	return b, nil
}

func (s *fakeStorage) GetBucket(_ context.Context, name string) (*bucket.Bucket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, err := s.bucketLocked(name)
	if err != nil {
		return nil, err
	}
	cp := *b
	return &cp, nil
}

func (s *fakeStorage) UpdateBucket(_ context.Context, name string, u ports.BucketUpdate) (*bucket.Bucket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, err := s.bucketLocked(name)
	if err != nil {
		return nil, err
	}
	if b.Labels == nil {
		b.Labels = make(map[string]string)
	}
	maps.Copy(b.Labels, u.SetLabels)
	for _, k := range u.DeleteLabels {
		delete(b.Labels, k)
	}
	if u.DefaultKMSKeyName != "" {
		b.DefaultKMSKeyName = u.DefaultKMSKeyName
	}
	cp := *b
	return &cp, nil
}

func (s *fakeStorage) DeleteBucket(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.bucketLocked(name); err != nil {
		return err
	}
	delete(s.buckets, name)
	return nil
}

func (s *fakeStorage) ListObjects(_ context.Context, q ports.ObjectQuery) ([]bucket.Object, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastQuery = q
	if _, err := s.bucketLocked(q.Bucket); err != nil {
		return nil, err
	}
	var out []bucket.Object
	for ref, o := range s.objects {
		if ref.Bucket == q.Bucket && strings.HasPrefix(ref.Object, q.Prefix) {
			out = append(out, o.meta)
		}
	}
	slices.SortFunc(out, func(a, b bucket.Object) int { return strings.Compare(a.Name, b.Name) })
	return out, nil
}

func (s *fakeStorage) objectLocked(ref bucket.Ref) (*fakeObject, error) {
	o, ok := s.objects[ref]
	if !ok {
		return nil, fmt.Errorf("object %s: %w", ref.URI(), domain.ErrNotFound)
	}
	return o, nil
}

func (s *fakeStorage) GetObject(_ context.Context, ref bucket.Ref) (*bucket.Object, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, err := s.objectLocked(ref)
	if err != nil {
		return nil, err
	}
	cp := o.meta
	return &cp, nil
}

func (s *fakeStorage) Upload(_ context.Context, ref bucket.Ref, r io.Reader, opts ports.WriteOptions) (*bucket.Object, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.bucketLocked(ref.Bucket); err != nil {
		return nil, err
	}
	return s.putLocked(ref, data, opts.EncryptionKey, opts.KMSKeyName), nil
}

func (s *fakeStorage) putLocked(ref bucket.Ref, data, key []byte, kms string) *bucket.Object {
	s.generation++
	o := &fakeObject{
		meta: bucket.Object{
			Bucket:     ref.Bucket,
			Name:       ref.Object,
			Size:       int64(len(data)),
			Generation: s.generation,
			KMSKeyName: kms,
		},
		data: data,
		key:  key,
	}
	s.objects[ref] = o
	cp := o.meta
	return &cp
}

func (s *fakeStorage) Download(_ context.Context, ref bucket.Ref, w io.Writer, key []byte) (int64, error) {
	s.mu.Lock()
	o, err := s.objectLocked(ref)
	s.mu.Unlock()
	if err != nil {
		return 0, err
	}
	if !bytes.Equal(o.key, key) {
		return 0, fmt.Errorf("object %s: %w", ref.URI(), domain.ErrForbidden)
	}
	n, err := w.Write(o.data)
	return int64(n), err
}

func (s *fakeStorage) Copy(_ context.Context, src, dst bucket.Ref, opts ports.CopyOptions) (*bucket.Object, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, err := s.objectLocked(src)
	if err != nil {
		return nil, err
	}
	if !bytes.Equal(o.key, opts.SourceKey) {
		return nil, fmt.Errorf("object %s: %w", src.URI(), domain.ErrForbidden)
	}
	if _, err := s.bucketLocked(dst.Bucket); err != nil {
		return nil, err
	}
	return s.putLocked(dst, o.data, opts.DestinationKey, opts.DestinationKMS), nil
}

func (s *fakeStorage) DeleteObject(_ context.Context, ref bucket.Ref) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.objectLocked(ref); err != nil {
		return err
	}
	delete(s.objects, ref)
	return nil
}

func (s *fakeStorage) MakePublic(_ context.Context, ref bucket.Ref) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.objectLocked(ref); err != nil {
		return err
	}
	s.public[ref] = true
	return nil
}

type fakeSecret struct {
	meta     secret.Secret
	versions []*fakeVersion
}

type fakeVersion struct {
	meta    secret.Version
	payload []byte
}

type fakeSecrets struct {
	mu      sync.Mutex
	secrets map[string]*fakeSecret
}

func newFakeSecrets() *fakeSecrets {
	return &fakeSecrets{secrets: make(map[string]*fakeSecret)}
}

func (f *fakeSecrets) CreateSecret(_ context.Context, project, id string, labels map[string]string) (*secret.Secret, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	name := secret.Name(project, id)
	if _, ok := f.secrets[name]; ok {
		return nil, fmt.Errorf("secret %s: %w", name, domain.ErrConflict)
	}
	s := &fakeSecret{meta: secret.Secret{Name: name, Replication: secret.ReplicationAutomatic, Labels: labels}}
	f.secrets[name] = s
	cp := s.meta
	return &cp, nil
}

func (f *fakeSecrets) secretLocked(name string) (*fakeSecret, error) {
	s, ok := f.secrets[name]
	if !ok {
		return nil, fmt.Errorf("secret %s: %w", name, domain.ErrNotFound)
	}
	return s, nil
}

func (f *fakeSecrets) GetSecret(_ context.Context, name string) (*secret.Secret, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, err := f.secretLocked(name)
	if err != nil {
		return nil, err
	}
	cp := s.meta
	return &cp, nil
}

func (f *fakeSecrets) ListSecrets(_ context.Context, project string) ([]secret.Secret, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []secret.Secret
	for _, name := range slices.Sorted(maps.Keys(f.secrets)) {
		if strings.HasPrefix(name, secret.ParentName(project)+"/") {
			out = append(out, f.secrets[name].meta)
		}
	}
	return out, nil
}

func (f *fakeSecrets) UpdateSecretLabels(_ context.Context, name string, labels map[string]string) (*secret.Secret, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, err := f.secretLocked(name)
	if err != nil {
		return nil, err
	}
	s.meta.Labels = maps.Clone(labels)
	cp := s.meta
	return &cp, nil
}

func (f *fakeSecrets) DeleteSecret(_ context.Context, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, err := f.secretLocked(name); err != nil {
		return err
	}
	delete(f.secrets, name)
	return nil
}

func (f *fakeSecrets) AddVersion(_ context.Context, name string, payload []byte) (*secret.Version, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, err := f.secretLocked(name)
	if err != nil {
		return nil, err
	}
	v := &fakeVersion{
		meta:    secret.Version{Name: fmt.Sprintf("%s/versions/%d", name, len(s.versions)+1), State: secret.StateEnabled},
		payload: payload,
	}
	s.versions = append(s.versions, v)
	cp := v.meta
	return &cp, nil
}

// versionLocked resolves a version name, including the latest alias.
func (f *fakeSecrets) versionLocked(name string) (*fakeVersion, error) {
	secretName, version, _ := strings.Cut(name, "/versions/")
	s, err := f.secretLocked(secretName)
	if err != nil {
		return nil, err
	}
	if version == secret.LatestVersion {
		for i := len(s.versions) - 1; i >= 0; i-- {
			if s.versions[i].meta.State == secret.StateEnabled {
				return s.versions[i], nil
			}
		}
	}
	for _, v := range s.versions {
		if v.meta.Name == name {
			return v, nil
		}
	}
	return nil, fmt.Errorf("version %s: %w", name, domain.ErrNotFound)
}

func (f *fakeSecrets) AccessVersion(_ context.Context, name string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, err := f.versionLocked(name)
	if err != nil {
		return nil, err
	}
	if v.meta.State != secret.StateEnabled {
		return nil, fmt.Errorf("version %s is %s: %w", name, v.meta.State, domain.ErrForbidden)
	}
	return v.payload, nil
}

func (f *fakeSecrets) GetVersion(_ context.Context, name string) (*secret.Version, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, err := f.versionLocked(name)
	if err != nil {
		return nil, err
	}
	cp := v.meta
	return &cp, nil
}

func (f *fakeSecrets) ListVersions(_ context.Context, name string) ([]secret.Version, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, err := f.secretLocked(name)
	if err != nil {
		return nil, err
	}
	out := make([]secret.Version, 0, len(s.versions))
	for _, v := range s.versions {
		out = append(out, v.meta)
	}
	return out, nil
}

func (f *fakeSecrets) setState(name string, state secret.VersionState) (*secret.Version, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, err := f.versionLocked(name)
	if err != nil {
		return nil, err
	}
	v.meta.State = state
	if state == secret.StateDestroyed {
		v.payload = nil
	}
	cp := v.meta
	return &cp, nil
}

func (f *fakeSecrets) EnableVersion(_ context.Context, name string) (*secret.Version, error) {
	return f.setState(name, secret.StateEnabled)
}

func (f *fakeSecrets) DisableVersion(_ context.Context, name string) (*secret.Version, error) {
	return f.setState(name, secret.StateDisabled)
}

func (f *fakeSecrets) DestroyVersion(_ context.Context, name string) (*secret.Version, error) {
	return f.setState(name, secret.StateDestroyed)
}

// fakeBigQuery reports each job RUNNING for pending checks, then the final status.
type fakeBigQuery struct {
	mu       sync.Mutex
	pending  int
	final    operation.Status
	result   *table.Result
	checks   int
	submits  []string
	lastJobs []table.Job
}

func (f *fakeBigQuery) submit(kind table.JobKind, desc string) (table.Job, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.submits = append(f.submits, desc)
	job := table.Job{ID: fmt.Sprintf("job-%d", len(f.submits)), Kind: kind, Location: "US"}
	f.lastJobs = append(f.lastJobs, job)
	return job, nil
}

func (f *fakeBigQuery) Query(_ context.Context, sql string) (table.Job, error) {
	return f.submit(table.JobQuery, sql)
}

func (f *fakeBigQuery) Extract(_ context.Context, src table.Ref, dst bucket.Ref, format table.Format) (table.Job, error) {
	return f.submit(table.JobExtract, fmt.Sprintf("%s -> %s (%s)", src, dst.URI(), format))
}

func (f *fakeBigQuery) Load(_ context.Context, src bucket.Ref, dst table.Ref, format table.Format) (table.Job, error) {
	return f.submit(table.JobLoad, fmt.Sprintf("%s -> %s (%s)", src.URI(), dst, format))
}

func (f *fakeBigQuery) Copy(_ context.Context, src, dst table.Ref) (table.Job, error) {
	return f.submit(table.JobCopy, fmt.Sprintf("%s -> %s", src, dst))
}

func (f *fakeBigQuery) JobStatus(_ context.Context, job table.Job) (operation.Status, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.checks++
	if f.checks <= f.pending {
		return operation.Status{Name: job.ID, State: operation.StateRunning}, nil
	}
	st := f.final
	if st.State == "" {
		st.State = operation.StateDone
	}
	st.Name = job.ID
	return st, nil
}

func (f *fakeBigQuery) Results(_ context.Context, _ table.Job) (*table.Result, error) {
	if f.result == nil {
		return &table.Result{}, nil
	}
	return f.result, nil
}

type fakePubSub struct {
	mu     sync.Mutex
	topics map[string][]message.Message
	subs   map[string]string
	nextID int
}

func newFakePubSub() *fakePubSub {
	return &fakePubSub{topics: make(map[string][]message.Message), subs: make(map[string]string)}
}

func topicName(id string) string { return "projects/" + testProject + "/topics/" + id }

func (f *fakePubSub) CreateTopic(_ context.Context, id string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.topics[id]; ok {
		return "", fmt.Errorf("topic %s: %w", id, domain.ErrConflict)
	}
	f.topics[id] = nil
	return topicName(id), nil
}

func (f *fakePubSub) ListTopics(context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.topics))
	for _, id := range slices.Sorted(maps.Keys(f.topics)) {
		out = append(out, topicName(id))
	}
	return out, nil
}

func (f *fakePubSub) DeleteTopic(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.topics[id]; !ok {
		return fmt.Errorf("topic %s: %w", id, domain.ErrNotFound)
	}
	delete(f.topics, id)
	return nil
}

func (f *fakePubSub) Publish(_ context.Context, id string, msg message.Message) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.topics[id]; !ok {
		return "", fmt.Errorf("topic %s: %w", id, domain.ErrNotFound)
	}
	f.nextID++
	msg.ID = fmt.Sprintf("%d", f.nextID)
	f.topics[id] = append(f.topics[id], msg)
	return msg.ID, nil
}

func (f *fakePubSub) CreateSubscription(_ context.Context, topicID, subID string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.topics[topicID]; !ok {
		return "", fmt.Errorf("topic %s: %w", topicID, domain.ErrNotFound)
	}
	f.subs[subID] = topicID
	return "projects/" + testProject + "/subscriptions/" + subID, nil
}

func (f *fakePubSub) Pull(_ context.Context, subID string, maxMessages int) ([]message.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	topicID, ok := f.subs[subID]
	if !ok {
		return nil, fmt.Errorf("subscription %s: %w", subID, domain.ErrNotFound)
	}
	msgs := f.topics[topicID]
	n := min(maxMessages, len(msgs))
	f.topics[topicID] = msgs[n:]
	return msgs[:n], nil
}

type fakeEndpoints struct {
	mu       sync.Mutex
	requests []ports.EndpointRequest
	resp     *ports.EndpointResponse
}

func (f *fakeEndpoints) Invoke(_ context.Context, req ports.EndpointRequest) (*ports.EndpointResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, req)
	if f.resp != nil {
		return f.resp, nil
	}
	return &ports.EndpointResponse{StatusCode: 200, Body: req.Body}, nil
}

// fakeSpeech starts operations that report running for pending polls, then
// finish with segments or with failure.
type fakeSpeech struct {
	mu       sync.Mutex
	pending  int
	segments []transcript.Segment
	failure  error
	last     ports.TranscribeRequest
	op       *fakeTranscription
}

func (f *fakeSpeech) Transcribe(_ context.Context, req ports.TranscribeRequest) (ports.Transcription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.last = req
	f.op = &fakeTranscription{pending: f.pending, segments: f.segments, failure: f.failure}
	return f.op, nil
}

type fakeTranscription struct {
	mu       sync.Mutex
	pending  int
	segments []transcript.Segment
	failure  error
	polls    int
	done     bool
}

func (t *fakeTranscription) Name() string { return "operations/transcribe-1" }

func (t *fakeTranscription) Poll(context.Context) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.polls++
	if t.polls <= t.pending {
		return false, nil
	}
	t.done = true
	return true, t.failure
}

func (t *fakeTranscription) Segments() []transcript.Segment {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.done || t.failure != nil {
		return nil
	}
	return t.segments
}
