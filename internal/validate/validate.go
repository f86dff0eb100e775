package validate

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

var (
	reEmail = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	reQ     = regexp.MustCompile(`^[^\p{Cc}\p{Cf}]{1,100}$`)
	reSlug  = regexp.MustCompile(`^[A-Za-z0-9_-]{1,100}$`)
	rePhone = regexp.MustCompile(`^\+?[0-9 ()./-]{6,25}$`)
)

// Email checks the shape local@domain.tld. It is not an RFC 5322 parser.
func Email(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" || len(s) > 254 {
		return "", false
	}
	return s, reEmail.MatchString(s)
}

// Q validates a search query: trims, truncates to 100 characters and
// rejects control characters. Punctuation and markup are allowed; output is
// escaped by the templates.
func Q(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	if utf8.RuneCountInString(s) > 100 {
		s = string([]rune(s)[:100])
	}
	return s, reQ.MatchString(s)
}

// Qty parses an add-to-cart quantity, clamped to 1..50.
func Qty(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return 1
	}
	if n > 50 {
		return 50
	} // clamp to avoid abuse
	return n
}

// SetQty parses a cart update quantity. 0 is valid and means remove.
func SetQty(s string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return 0, false
	}
	if n > 50 {
		n = 50
	}
	return n, true
}

// Slug validates a CMS slug or object id taken from a path or form.
func Slug(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != "" && reSlug.MatchString(s)
}

func Phone(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, rePhone.MatchString(s)
}

// Text trims s and reports whether it is non-empty and at most max characters.
func Text(s string, max int) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" || utf8.RuneCountInString(s) > max {
		return s, false
	}
	return s, true
}

// Required reports whether every value is non-blank.
func Required(values ...string) bool {
	for _, v := range values {
		if strings.TrimSpace(v) == "" {
			return false
		}
	}
	return true
}
