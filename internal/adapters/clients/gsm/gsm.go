// Package gsm adapts the Secret Manager SDK to ports.SecretManager.
package gsm

import (
	"context"
	"errors"
	"fmt"
	"hash/crc32"
	"log/slog"
	"time"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	smpb "cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
	"github.com/googleapis/gax-go/v2"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/protobuf/types/known/fieldmaskpb"

	"github.com/jsamuelsen11/gcp-samples/internal/domain"
	"github.com/jsamuelsen11/gcp-samples/internal/domain/secret"
	"github.com/jsamuelsen11/gcp-samples/internal/platform/gcp"
	"github.com/jsamuelsen11/gcp-samples/internal/ports"
)

// ServiceName names the breaker and health check.
const ServiceName = "secretmanager"

var (
	_ ports.SecretManager = (*Client)(nil)
	_ ports.HealthChecker = (*Client)(nil)
)

// crc32c is the Castagnoli table Secret Manager checksums use.
var crc32c = crc32.MakeTable(crc32.Castagnoli)

// accessRetry retries reads on transient codes.
var accessRetry = gax.WithRetry(func() gax.Retryer {
	return gax.OnCodes([]codes.Code{codes.Unavailable, codes.DeadlineExceeded}, gax.Backoff{
		Initial:    200 * time.Millisecond,
		Max:        5 * time.Second,
		Multiplier: 2,
	})
})

// API is the subset of the Secret Manager client the adapter calls.
type API interface {
	CreateSecret(ctx context.Context, req *smpb.CreateSecretRequest, opts ...gax.CallOption) (*smpb.Secret, error)
	GetSecret(ctx context.Context, req *smpb.GetSecretRequest, opts ...gax.CallOption) (*smpb.Secret, error)
	UpdateSecret(ctx context.Context, req *smpb.UpdateSecretRequest, opts ...gax.CallOption) (*smpb.Secret, error)
	DeleteSecret(ctx context.Context, req *smpb.DeleteSecretRequest, opts ...gax.CallOption) error
	AddSecretVersion(ctx context.Context, req *smpb.AddSecretVersionRequest, opts ...gax.CallOption) (*smpb.SecretVersion, error)
	AccessSecretVersion(ctx context.Context, req *smpb.AccessSecretVersionRequest, opts ...gax.CallOption) (*smpb.AccessSecretVersionResponse, error)
	GetSecretVersion(ctx context.Context, req *smpb.GetSecretVersionRequest, opts ...gax.CallOption) (*smpb.SecretVersion, error)
	EnableSecretVersion(ctx context.Context, req *smpb.EnableSecretVersionRequest, opts ...gax.CallOption) (*smpb.SecretVersion, error)
	DisableSecretVersion(ctx context.Context, req *smpb.DisableSecretVersionRequest, opts ...gax.CallOption) (*smpb.SecretVersion, error)
	DestroySecretVersion(ctx context.Context, req *smpb.DestroySecretVersionRequest, opts ...gax.CallOption) (*smpb.SecretVersion, error)
	ListSecrets(ctx context.Context, req *smpb.ListSecretsRequest, opts ...gax.CallOption) Iterator[*smpb.Secret]
	ListSecretVersions(ctx context.Context, req *smpb.ListSecretVersionsRequest, opts ...gax.CallOption) Iterator[*smpb.SecretVersion]
	Close() error
}

// Iterator is the Next method shared by the SDK's list iterators.
type Iterator[T any] interface {
	Next() (T, error)
}

// sdkClient narrows the SDK's concrete iterator return types.
type sdkClient struct {
	*secretmanager.Client
}

func (c sdkClient) ListSecrets(ctx context.Context, req *smpb.ListSecretsRequest, opts ...gax.CallOption) Iterator[*smpb.Secret] {
	return c.Client.ListSecrets(ctx, req, opts...)
}

func (c sdkClient) ListSecretVersions(
	ctx context.Context, req *smpb.ListSecretVersionsRequest, opts ...gax.CallOption,
) Iterator[*smpb.SecretVersion] {
	return c.Client.ListSecretVersions(ctx, req, opts...)
}

// Client implements ports.SecretManager.
type Client struct {
	api     API
	breaker *gcp.Breaker
	logger  *slog.Logger
}

// New dials Secret Manager with opts.
func New(ctx context.Context, breaker *gcp.Breaker, logger *slog.Logger, opts ...option.ClientOption) (*Client, error) {
	c, err := secretmanager.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating secret manager client: %w", err)
	}
	return NewWithAPI(sdkClient{c}, breaker, logger), nil
}

// NewWithAPI wraps an existing API implementation.
func NewWithAPI(api API, breaker *gcp.Breaker, logger *slog.Logger) *Client {
	return &Client{api: api, breaker: breaker, logger: logger}
}

// Close releases the underlying connection.
func (c *Client) Close() error {
	return c.api.Close()
}

// Name implements ports.HealthChecker.
func (c *Client) Name() string { return c.breaker.Name() }

// HealthCheck reports the breaker state.
func (c *Client) HealthCheck(ctx context.Context) error { return c.breaker.HealthCheck(ctx) }

// CreateSecret creates a secret with automatic replication.
func (c *Client) CreateSecret(ctx context.Context, projectID, secretID string, labels map[string]string) (*secret.Secret, error) {
	req := &smpb.CreateSecretRequest{
		Parent:   secret.ParentName(projectID),
		SecretId: secretID,
		Secret: &smpb.Secret{
			Labels: labels,
			Replication: &smpb.Replication{
				Replication: &smpb.Replication_Automatic_{
					Automatic: &smpb.Replication_Automatic{},
				},
			},
		},
	}
	pb, err := gcp.Call(c.breaker, func() (*smpb.Secret, error) {
		return c.api.CreateSecret(ctx, req)
	})
	if err != nil {
		return nil, fmt.Errorf("creating secret %s: %w", secretID, err)
	}
	c.logger.DebugContext(ctx, "secret created", slog.String("secret", pb.GetName()))
	return toSecret(pb), nil
}

// GetSecret returns secret metadata.
func (c *Client) GetSecret(ctx context.Context, name string) (*secret.Secret, error) {
	pb, err := gcp.Call(c.breaker, func() (*smpb.Secret, error) {
		return c.api.GetSecret(ctx, &smpb.GetSecretRequest{Name: name}, accessRetry)
	})
	if err != nil {
		return nil, fmt.Errorf("getting secret %s: %w", name, err)
	}
	return toSecret(pb), nil
}

// ListSecrets returns all secrets of the project.
func (c *Client) ListSecrets(ctx context.Context, projectID string) ([]secret.Secret, error) {
	req := &smpb.ListSecretsRequest{Parent: secret.ParentName(projectID)}
	out, err := gcp.Call(c.breaker, func() ([]secret.Secret, error) {
		return drain(c.api.ListSecrets(ctx, req), func(pb *smpb.Secret) secret.Secret {
			return *toSecret(pb)
		})
	})
	if err != nil {
		return nil, fmt.Errorf("listing secrets of %s: %w", projectID, err)
	}
	return out, nil
}

// UpdateSecretLabels replaces the secret's labels.
func (c *Client) UpdateSecretLabels(ctx context.Context, name string, labels map[string]string) (*secret.Secret, error) {
	req := &smpb.UpdateSecretRequest{
		Secret:     &smpb.Secret{Name: name, Labels: labels},
		UpdateMask: &fieldmaskpb.FieldMask{Paths: []string{"labels"}},
	}
	pb, err := gcp.Call(c.breaker, func() (*smpb.Secret, error) {
		return c.api.UpdateSecret(ctx, req)
	})
	if err != nil {
		return nil, fmt.Errorf("updating secret %s: %w", name, err)
	}
	return toSecret(pb), nil
}

// DeleteSecret deletes a secret and its versions.
func (c *Client) DeleteSecret(ctx context.Context, name string) error {
	err := c.breaker.Do(func() error {
		return c.api.DeleteSecret(ctx, &smpb.DeleteSecretRequest{Name: name})
	})
	if err != nil {
		return fmt.Errorf("deleting secret %s: %w", name, err)
	}
	return nil
}

// AddVersion stores payload as a new version, sending its CRC32C so the
// service rejects corrupted uploads.
func (c *Client) AddVersion(ctx context.Context, secretName string, payload []byte) (*secret.Version, error) {
	sum := int64(crc32.Checksum(payload, crc32c))
	req := &smpb.AddSecretVersionRequest{
		Parent:  secretName,
		Payload: &smpb.SecretPayload{Data: payload, DataCrc32C: &sum},
	}
	pb, err := gcp.Call(c.breaker, func() (*smpb.SecretVersion, error) {
		return c.api.AddSecretVersion(ctx, req)
	})
	if err != nil {
		return nil, fmt.Errorf("adding version to %s: %w", secretName, err)
	}
	return toVersion(pb), nil
}

// AccessVersion returns a version's payload after verifying its checksum.
func (c *Client) AccessVersion(ctx context.Context, versionName string) ([]byte, error) {
	resp, err := gcp.Call(c.breaker, func() (*smpb.AccessSecretVersionResponse, error) {
		return c.api.AccessSecretVersion(ctx, &smpb.AccessSecretVersionRequest{Name: versionName}, accessRetry)
	})
	if err != nil {
		return nil, fmt.Errorf("accessing %s: %w", versionName, err)
	}

	payload := resp.GetPayload()
	if want := payload.DataCrc32C; want != nil {
		if got := int64(crc32.Checksum(payload.GetData(), crc32c)); got != *want {
			return nil, fmt.Errorf("accessing %s: %w: payload checksum mismatch", versionName, domain.ErrOperationFailed)
		}
	}
	return payload.GetData(), nil
}

// GetVersion returns version metadata.
func (c *Client) GetVersion(ctx context.Context, versionName string) (*secret.Version, error) {
	pb, err := gcp.Call(c.breaker, func() (*smpb.SecretVersion, error) {
		return c.api.GetSecretVersion(ctx, &smpb.GetSecretVersionRequest{Name: versionName}, accessRetry)
	})
	if err != nil {
		return nil, fmt.Errorf("getting %s: %w", versionName, err)
	}
	return toVersion(pb), nil
}

// ListVersions returns all versions of a secret.
func (c *Client) ListVersions(ctx context.Context, secretName string) ([]secret.Version, error) {
	req := &smpb.ListSecretVersionsRequest{Parent: secretName}
	out, err := gcp.Call(c.breaker, func() ([]secret.Version, error) {
		return drain(c.api.ListSecretVersions(ctx, req), func(pb *smpb.SecretVersion) secret.Version {
			return *toVersion(pb)
		})
	})
	if err != nil {
		return nil, fmt.Errorf("listing versions of %s: %w", secretName, err)
	}
	return out, nil
}

// EnableVersion enables a disabled version.
func (c *Client) EnableVersion(ctx context.Context, versionName string) (*secret.Version, error) {
	return c.transition(ctx, "enabling", versionName, func() (*smpb.SecretVersion, error) {
		return c.api.EnableSecretVersion(ctx, &smpb.EnableSecretVersionRequest{Name: versionName})
	})
}

// DisableVersion disables a version.
func (c *Client) DisableVersion(ctx context.Context, versionName string) (*secret.Version, error) {
	return c.transition(ctx, "disabling", versionName, func() (*smpb.SecretVersion, error) {
		return c.api.DisableSecretVersion(ctx, &smpb.DisableSecretVersionRequest{Name: versionName})
	})
}

// DestroyVersion irreversibly destroys a version's payload.
func (c *Client) DestroyVersion(ctx context.Context, versionName string) (*secret.Version, error) {
	return c.transition(ctx, "destroying", versionName, func() (*smpb.SecretVersion, error) {
		return c.api.DestroySecretVersion(ctx, &smpb.DestroySecretVersionRequest{Name: versionName})
	})
}

func (c *Client) transition(
	ctx context.Context, verb, versionName string, fn func() (*smpb.SecretVersion, error),
) (*secret.Version, error) {
	pb, err := gcp.Call(c.breaker, fn)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", verb, versionName, err)
	}
	c.logger.InfoContext(ctx, "secret version state changed",
		slog.String("version", pb.GetName()),
		slog.String("state", pb.GetState().String()),
	)
	return toVersion(pb), nil
}

func drain[P, T any](it Iterator[P], convert func(P) T) ([]T, error) {
	var out []T
	for {
		pb, err := it.Next()
		if errors.Is(err, iterator.Done) {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		out = append(out, convert(pb))
	}
}

func toSecret(pb *smpb.Secret) *secret.Secret {
	s := &secret.Secret{
		Name:   pb.GetName(),
		Labels: pb.GetLabels(),
	}
	switch {
	case pb.GetReplication().GetAutomatic() != nil:
		s.Replication = secret.ReplicationAutomatic
	case pb.GetReplication().GetUserManaged() != nil:
		s.Replication = secret.ReplicationUserManaged
	}
	if ts := pb.GetCreateTime(); ts != nil {
		s.CreateTime = ts.AsTime()
	}
	return s
}

func toVersion(pb *smpb.SecretVersion) *secret.Version {
	v := &secret.Version{
		Name:  pb.GetName(),
		State: toState(pb.GetState()),
	}
	if ts := pb.GetCreateTime(); ts != nil {
		v.CreateTime = ts.AsTime()
	}
	return v
}

func toState(s smpb.SecretVersion_State) secret.VersionState {
	switch s {
	case smpb.SecretVersion_ENABLED:
		return secret.StateEnabled
	case smpb.SecretVersion_DISABLED:
		return secret.StateDisabled
	case smpb.SecretVersion_DESTROYED:
		return secret.StateDestroyed
	default:
		return secret.VersionState(s.String())
	}
}
