// Package security provides validation, sanitization, and limits for the serialq package.
//
// This package includes:
//   - Validation for store names, which become table names in SQL backends
//   - Payload size limits enforced before anything reaches the store
//   - Payload preview sanitization for logs and CLI output
//   - Clamping for the dispatcher's mailbox size
//
// Most users should import the root package github.com/jdziat/simple-serial-queue
// which re-exports these functions.
package security
