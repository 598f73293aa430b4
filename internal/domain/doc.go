// Package domain contains shared domain types used across entity sub-packages.
// Entity-specific types live in sub-packages (domain/sample, domain/operation,
// domain/bucket, domain/secret, domain/table, domain/message, domain/vote).
// This root package holds sentinel errors and validation types shared by all
// of them.
package domain
