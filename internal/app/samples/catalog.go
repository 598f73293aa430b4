package samples

import (
	"context"
	"fmt"
	"io"

	"github.com/jsamuelsen11/gcp-samples/internal/domain/sample"
	"github.com/jsamuelsen11/gcp-samples/internal/platform/poll"
	"github.com/jsamuelsen11/gcp-samples/internal/ports"
)

// Product names.
const (
	ProductStorage       = "storage"
	ProductSecretManager = "secretmanager"
	ProductBigQuery      = "bigquery"
	ProductPubSub        = "pubsub"
	ProductEndpoints     = "endpoints"
	ProductSpeech        = "speech"
)

// Clients lazily provides the ports samples call. SDK clients are created
// on first use so listing samples never needs credentials.
type Clients interface {
	ProjectID(ctx context.Context) (string, error)
	Storage(ctx context.Context) (ports.ObjectStorage, error)
	SecretManager(ctx context.Context) (ports.SecretManager, error)
	BigQuery(ctx context.Context) (ports.BigQuery, error)
	PubSub(ctx context.Context) (ports.PubSub, error)
	Endpoints(ctx context.Context) (ports.EndpointInvoker, error)
	Speech(ctx context.Context) (ports.Speech, error)
}

// Deps are the shared collaborators of every sample.
type Deps struct {
	Clients Clients
	Poller  *poll.Poller
	// Location is the default bucket location for create_bucket.
	Location string
}

// Catalog builds a registry holding every sample.
func Catalog(d Deps) *Registry {
	r := NewRegistry()
	registerStorage(r, d)
	registerSecretManager(r, d)
	registerBigQuery(r, d)
	registerPubSub(r, d)
	registerEndpoints(r, d)
	registerSpeech(r, d)
	for name := range localOnly {
		r.markLocalOnly(name)
	}
	return r
}

// localOnly lists samples an HTTP caller may not run: they touch host files,
// call caller-chosen URLs with server credentials, or print secret payloads.
var localOnly = map[string]bool{
	"upload_object":             true,
	"download_object":           true,
	"upload_encrypted_object":   true,
	"download_encrypted_object": true,
	"upload_with_kms_key":       true,
	"access_secret_version":     true,
	"make_request":              true,
	"invoke_authenticated":      true,
}

// param builds a required parameter.
func param(name, usage string) sample.Param {
	return sample.Param{Name: name, Usage: usage}
}

// optional builds an optional parameter with a default.
func optional(name, usage, def string) sample.Param {
	return sample.Param{Name: name, Usage: usage, Optional: true, Default: def}
}

// with resolves a client and runs fn with it.
func with[C any](ctx context.Context, get func(context.Context) (C, error), fn func(C) error) error {
	client, err := get(ctx)
	if err != nil {
		return fmt.Errorf("creating client: %w", err)
	}
	return fn(client)
}

func printf(out io.Writer, format string, a ...any) {
	_, _ = fmt.Fprintf(out, format+"\n", a...)
}
