package gcp

import (
	"context"
	"fmt"
	"os"

	"cloud.google.com/go/compute/metadata"
	"golang.org/x/oauth2/google"

	"github.com/jsamuelsen11/gcp-samples/internal/domain"
)

// cloudPlatformScope is the broad scope used to discover ADC.
const cloudPlatformScope = "https://www.googleapis.com/auth/cloud-platform"

// ProjectEnvVars are consulted in order when no project is configured.
var ProjectEnvVars = []string{"GOOGLE_PROJECT_ID", "GOOGLE_CLOUD_PROJECT", "GCLOUD_PROJECT"}

// ProjectResolver discovers the project ID, starting with the fastest
// source and ending with the metadata server. Zero-value fields fall back
// to the real environment, ADC and metadata lookups.
type ProjectResolver struct {
	Getenv   func(string) string
	ADC      func(ctx context.Context) (string, error)
	OnGCE    func() bool
	Metadata func(ctx context.Context) (string, error)
}

// ResolveProjectID resolves the project with the default ProjectResolver.
func ResolveProjectID(ctx context.Context, configured string) (string, error) {
	return ProjectResolver{}.Resolve(ctx, configured)
}

// Resolve returns configured when set, then the first non-empty project
// env var, then the project of the ADC credentials, then the metadata
// server when running on GCE. No result is a validation error.
func (r ProjectResolver) Resolve(ctx context.Context, configured string) (string, error) {
	if configured != "" {
		return configured, nil
	}

	getenv := r.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}
	for _, name := range ProjectEnvVars {
		if v := getenv(name); v != "" {
			return v, nil
		}
	}

	adc := r.ADC
	if adc == nil {
		adc = adcProjectID
	}
	if id, err := adc(ctx); err == nil && id != "" {
		return id, nil
	}

	onGCE, lookup := r.OnGCE, r.Metadata
	if onGCE == nil {
		onGCE = metadata.OnGCE
	}
	if lookup == nil {
		lookup = metadata.ProjectIDWithContext
	}
	if onGCE() {
		id, err := lookup(ctx)
		if err != nil {
			return "", fmt.Errorf("querying metadata server for project id: %w", err)
		}
		if id != "" {
			return id, nil
		}
	}

	return "", domain.NewValidationError("gcp.project_id",
		"no project configured; set gcp.project_id or GOOGLE_CLOUD_PROJECT")
}

func adcProjectID(ctx context.Context) (string, error) {
	creds, err := google.FindDefaultCredentials(ctx, cloudPlatformScope)
	if err != nil {
		return "", err
	}
	return creds.ProjectID, nil
}
