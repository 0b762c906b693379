// Package context provides internal context helpers for item processing.
//
// This package is internal and should not be imported directly.
// It provides context value types for:
//   - Item context: the work item, store and worker run being processed
package context
