// Package ports defines interfaces between layers in the hexagonal architecture.
// Service ports are implemented by the application layer and called by the
// HTTP handlers and the CLI. Client ports are implemented by the Google Cloud
// SDK adapters and the stores, and called by the samples and services.
package ports
