package samples

import (
	"context"
	"io"

	"github.com/jsamuelsen11/gcp-samples/internal/domain/sample"
	"github.com/jsamuelsen11/gcp-samples/internal/domain/secret"
	"github.com/jsamuelsen11/gcp-samples/internal/ports"
)

// DefaultSecretPayload is stored by add_secret_version when no payload is given.
const DefaultSecretPayload = "my super secret data"

// updatedSecretLabels are applied by update_secret.
var updatedSecretLabels = map[string]string{"secretmanager": "rocks"}

func registerSecretManager(r *Registry, d Deps) {
	secrets := func(fn func(context.Context, ports.SecretManager, sample.Args, io.Writer) error) RunFunc {
		return func(ctx context.Context, args sample.Args, out io.Writer) error {
			if args.Has("SECRET") {
				if err := secret.ValidateID(args.String("SECRET")); err != nil {
					return err
				}
			}
			return with(ctx, d.Clients.SecretManager, func(c ports.SecretManager) error {
				return fn(ctx, c, args, out)
			})
		}
	}
	reg := func(name, summary string, run RunFunc, params ...sample.Param) {
		r.Register(sample.Sample{Name: name, Product: ProductSecretManager, Summary: summary, Params: params}, run)
	}

	projectParam := param("PROJECT", "Google Cloud project ID")
	secretParam := param("SECRET", "secret ID")
	versionParam := param("VERSION", "version number or latest")

	secretName := func(a sample.Args) string {
		return secret.Name(a.String("PROJECT"), a.String("SECRET"))
	}
	versionName := func(a sample.Args) string {
		return secret.VersionName(a.String("PROJECT"), a.String("SECRET"), a.String("VERSION"))
	}

	reg("create_secret", "Create a secret with automatic replication.",
		secrets(func(ctx context.Context, c ports.SecretManager, args sample.Args, out io.Writer) error {
			s, err := c.CreateSecret(ctx, args.String("PROJECT"), args.String("SECRET"), nil)
			if err != nil {
				return err
			}
			printf(out, "Created secret: %s", s.Name)
			return nil
		}), projectParam, secretParam)

	reg("add_secret_version", "Add a version holding the payload to a secret.",
		secrets(func(ctx context.Context, c ports.SecretManager, args sample.Args, out io.Writer) error {
			v, err := c.AddVersion(ctx, secretName(args), []byte(args.String("PAYLOAD")))
			if err != nil {
				return err
			}
			printf(out, "Added secret version: %s", v.Name)
			return nil
		}), projectParam, secretParam, optional("PAYLOAD", "secret data", DefaultSecretPayload))

	reg("access_secret_version", "Print the payload of a secret version.",
		secrets(func(ctx context.Context, c ports.SecretManager, args sample.Args, out io.Writer) error {
			payload, err := c.AccessVersion(ctx, versionName(args))
			if err != nil {
				return err
			}
			printf(out, "Plaintext: %s", payload)
			return nil
		}), projectParam, secretParam, optional("VERSION", "version number or latest", secret.LatestVersion))

	reg("get_secret", "Print a secret's metadata.",
		secrets(func(ctx context.Context, c ports.SecretManager, args sample.Args, out io.Writer) error {
			s, err := c.GetSecret(ctx, secretName(args))
			if err != nil {
				return err
			}
			printf(out, "Got secret %s with replication policy %s", s.Name, s.Replication)
			return nil
		}), projectParam, secretParam)

	reg("get_secret_version", "Print a secret version's metadata.",
		secrets(func(ctx context.Context, c ports.SecretManager, args sample.Args, out io.Writer) error {
			v, err := c.GetVersion(ctx, versionName(args))
			if err != nil {
				return err
			}
			printf(out, "Got secret version %s with state %s", v.Name, v.State)
			return nil
		}), projectParam, secretParam, versionParam)

	reg("list_secrets", "List the secrets of a project.",
		secrets(func(ctx context.Context, c ports.SecretManager, args sample.Args, out io.Writer) error {
			list, err := c.ListSecrets(ctx, args.String("PROJECT"))
			if err != nil {
				return err
			}
			for _, s := range list {
				printf(out, "Found secret %s", s.Name)
			}
			return nil
		}), projectParam)

	reg("list_secret_versions", "List the versions of a secret.",
		secrets(func(ctx context.Context, c ports.SecretManager, args sample.Args, out io.Writer) error {
			list, err := c.ListVersions(ctx, secretName(args))
			if err != nil {
				return err
			}
			for _, v := range list {
				printf(out, "Found secret version %s", v.Name)
			}
			return nil
		}), projectParam, secretParam)

	reg("update_secret", "Replace a secret's labels.",
		secrets(func(ctx context.Context, c ports.SecretManager, args sample.Args, out io.Writer) error {
			s, err := c.UpdateSecretLabels(ctx, secretName(args), updatedSecretLabels)
			if err != nil {
				return err
			}
			printf(out, "Updated secret %s", s.Name)
			return nil
		}), projectParam, secretParam)

	lifecycle := func(verb string, apply func(ports.SecretManager) func(context.Context, string) (*secret.Version, error)) RunFunc {
		return secrets(func(ctx context.Context, c ports.SecretManager, args sample.Args, out io.Writer) error {
			v, err := apply(c)(ctx, versionName(args))
			if err != nil {
				return err
			}
			printf(out, "%s secret version: %s", verb, v.Name)
			return nil
		})
	}

	reg("disable_secret_version", "Disable a secret version.",
		lifecycle("Disabled", func(c ports.SecretManager) func(context.Context, string) (*secret.Version, error) {
			return c.DisableVersion
		}), projectParam, secretParam, versionParam)

	reg("enable_secret_version", "Enable a disabled secret version.",
		lifecycle("Enabled", func(c ports.SecretManager) func(context.Context, string) (*secret.Version, error) {
			return c.EnableVersion
		}), projectParam, secretParam, versionParam)

	reg("destroy_secret_version", "Irreversibly destroy a secret version.",
		lifecycle("Destroyed", func(c ports.SecretManager) func(context.Context, string) (*secret.Version, error) {
			return c.DestroyVersion
		}), projectParam, secretParam, versionParam)

	reg("delete_secret", "Delete a secret and all of its versions.",
		secrets(func(ctx context.Context, c ports.SecretManager, args sample.Args, out io.Writer) error {
			name := secretName(args)
			if err := c.DeleteSecret(ctx, name); err != nil {
				return err
			}
			printf(out, "Deleted secret %s", name)
			return nil
		}), projectParam, secretParam)
}
