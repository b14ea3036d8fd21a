package errors

import (
	"strings"
	"unicode"
)

const (
	maxNodeIDLength    = 256
	maxURLLength       = 2048
	maxSessionIDLength = 128
)

// ValidateNodeID validates a breadcrumb, switch or hierarchy node ID.
//
// IDs must be non-empty (the empty string is the root sentinel), at most
// 256 characters and free of control characters.
func ValidateNodeID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidNodeID, "node id cannot be empty")
	}
	if len(id) > maxNodeIDLength {
		return New(ErrCodeInvalidNodeID, "node id too long (max %d characters)", maxNodeIDLength)
	}
	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidNodeID, "node id contains invalid control characters")
		}
	}
	return nil
}

// ValidateURL validates a navigation target.
// Both absolute http(s) URLs and router paths starting with "/" are accepted.
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidURL, "URL cannot be empty")
	}
	if len(rawURL) > maxURLLength {
		return New(ErrCodeInvalidURL, "URL too long (max %d characters)", maxURLLength)
	}
	for _, r := range rawURL {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidURL, "URL contains invalid characters")
		}
	}
	if strings.HasPrefix(rawURL, "/") {
		if strings.HasPrefix(rawURL, "//") {
			return New(ErrCodeInvalidURL, "URL cannot be protocol-relative")
		}
		return nil
	}
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidURL, "URL must be a path or use http or https scheme")
	}
	return nil
}

// ValidateSessionID validates a session identifier used in file names and
// HTTP routes. Only letters, digits, '-' and '_' are allowed.
func ValidateSessionID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidSession, "session id cannot be empty")
	}
	if len(id) > maxSessionIDLength {
		return New(ErrCodeInvalidSession, "session id too long (max %d characters)", maxSessionIDLength)
	}
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
		default:
			return New(ErrCodeInvalidSession, "session id contains invalid character %q", r)
		}
	}
	return nil
}
