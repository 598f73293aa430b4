// Package gcp holds the Google Cloud plumbing shared by every SDK adapter:
// client options and credentials, project discovery, error translation into
// domain sentinels, and a circuit breaker that reports readiness.
package gcp

import (
	"strings"

	"google.golang.org/api/option"
)

// AuthOptions contains configuration for Google Cloud authentication.
type AuthOptions struct {
	// Credentials can be either:
	// - JSON content (if starts with "{")
	// - File path to service account JSON file
	// - Empty string to use Application Default Credentials (ADC)
	Credentials string

	// Endpoint overrides the service endpoint, e.g. an emulator address.
	Endpoint string

	// UserAgent is appended to the SDK's user agent.
	UserAgent string
}

// ClientOptions returns Google Cloud client options for the given
// authentication configuration.
//
// Authentication precedence:
//  1. Explicit credentials (JSON content or file path)
//  2. Application Default Credentials, which the client libraries resolve
//     from GOOGLE_APPLICATION_CREDENTIALS, gcloud user credentials, or the
//     metadata server.
func ClientOptions(opts AuthOptions) []option.ClientOption {
	var clientOpts []option.ClientOption

	if creds := strings.TrimSpace(opts.Credentials); creds != "" {
		if strings.HasPrefix(creds, "{") {
			clientOpts = append(clientOpts, option.WithCredentialsJSON([]byte(creds)))
		} else {
			clientOpts = append(clientOpts, option.WithCredentialsFile(creds))
		}
	}
	if opts.Endpoint != "" {
		clientOpts = append(clientOpts, option.WithEndpoint(opts.Endpoint))
		// Emulators speak plaintext and take no credentials.
		if opts.Credentials == "" && isLocalEndpoint(opts.Endpoint) {
			clientOpts = append(clientOpts, option.WithoutAuthentication())
		}
	}
	if opts.UserAgent != "" {
		clientOpts = append(clientOpts, option.WithUserAgent(opts.UserAgent))
	}

	return clientOpts
}

func isLocalEndpoint(endpoint string) bool {
	e := strings.TrimPrefix(strings.TrimPrefix(endpoint, "http://"), "https://")
	return strings.HasPrefix(e, "localhost") || strings.HasPrefix(e, "127.0.0.1")
}
