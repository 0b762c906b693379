// Package handler provides internal reflection-based process functions.
//
// This package is internal and should not be imported directly.
// It provides:
//   - Handler: signature metadata for a registered process function
//   - JSON decoding of stored payloads into the function's argument type
//   - Invocation that maps the function's result onto a directive
package handler
