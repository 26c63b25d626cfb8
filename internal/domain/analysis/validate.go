package analysis

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// MaxFragmentLength is the largest fragment accepted by Append, in characters.
const MaxFragmentLength = 5000

// FieldNewContent names the request field fragments arrive in.
const FieldNewContent = "new_content"

// ValidateFragment checks a fragment before it is appended and returns it trimmed.
// The length limit applies to the fragment as sent.
func ValidateFragment(fragment string) (string, error) {
	if n := utf8.RuneCountInString(fragment); n > MaxFragmentLength {
		return "", ValidationError(FieldNewContent,
			fmt.Sprintf("content must be at most %d characters (got %d)", MaxFragmentLength, n))
	}
	trimmed := strings.TrimSpace(fragment)
	if trimmed == "" {
		return "", ValidationError(FieldNewContent, "content cannot be empty or whitespace only")
	}
	return trimmed, nil
}
