// Package security provides validation, sanitization, and limits for the serialq package.
package security

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/jdziat/simple-serial-queue/pkg/core"
)

// Security limits and configuration
const (
	// MaxStoreNameLength is the maximum length for store names
	MaxStoreNameLength = 64

	// MaxPayloadSize is the maximum size in bytes for a serialized payload (1MB)
	MaxPayloadSize = 1 << 20

	// MaxPreviewLength is the maximum length of a sanitized payload preview
	MaxPreviewLength = 4096

	// MaxMailboxSize is the hard limit for the dispatcher's request buffer
	MaxMailboxSize = 10000
)

// validStoreName matches identifiers that are safe to use as SQL table names
var validStoreName = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_]*$`)

// ValidateStoreName validates a store name
func ValidateStoreName(name string) error {
	if name == "" {
		return core.ErrInvalidStoreName
	}
	if len(name) > MaxStoreNameLength {
		return core.ErrStoreNameTooLong
	}
	if !validStoreName.MatchString(name) {
		return core.ErrInvalidStoreName
	}
	// sqlite reserves the sqlite_ prefix for internal tables
	if strings.HasPrefix(strings.ToLower(name), "sqlite_") {
		return core.ErrInvalidStoreName
	}
	return nil
}

// ValidatePayload enforces the serialized payload size limit
func ValidatePayload(data string) error {
	if len(data) > MaxPayloadSize {
		return core.ErrPayloadTooLarge
	}
	return nil
}

// SanitizePreview strips control characters from a payload and truncates it
// to at most n runes (MaxPreviewLength when n <= 0 or larger).
func SanitizePreview(data string, n int) string {
	if data == "" {
		return ""
	}
	if n <= 0 || n > MaxPreviewLength {
		n = MaxPreviewLength
	}

	var sanitized strings.Builder
	sanitized.Grow(len(data))

	for _, r := range data {
		switch {
		case r == '\n' || r == '\r' || r == '\t':
			sanitized.WriteRune(' ')
		case r >= 32 && r != 127:
			sanitized.WriteRune(r)
		}
	}

	result := sanitized.String()

	if utf8.RuneCountInString(result) > n {
		runes := []rune(result)
		if n <= 3 {
			return string(runes[:n])
		}
		result = string(runes[:n-3]) + "..."
	}

	return result
}

// ClampMailboxSize ensures the mailbox size is within limits
func ClampMailboxSize(n int) int {
	if n < 1 {
		return 1
	}
	if n > MaxMailboxSize {
		return MaxMailboxSize
	}
	return n
}
