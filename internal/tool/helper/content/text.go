package content

import (
	"bytes"
	"unicode/utf8"
)

// IsText reports whether b can be handed to the model as text: valid UTF-8
// with no NUL bytes anywhere in the content.
func IsText(b []byte) bool {
	return bytes.IndexByte(b, 0) < 0 && utf8.Valid(b)
}

// Describe returns a short reason why b is not text, or "" when it is.
func Describe(b []byte) string {
	if IsText(b) {
		return ""
	}
	if bytes.IndexByte(b, 0) >= 0 {
		return "contains NUL byte (binary content)"
	}
	return "not valid UTF-8"
}
