// Package validate holds the pure input checks for the registration flow:
// code words, phone numbers, and admin query dates. No storage, clock, or
// logging dependencies.
package validate

import (
	"errors"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

const (
	// MaxCodeWordLen is the maximum code word length after normalization.
	MaxCodeWordLen = 16
	// DefaultPhoneMinDigits is the minimum digit count accepted for a
	// manually typed phone number.
	DefaultPhoneMinDigits = 10

	maxCodeWordInput = 100
	maxPhoneInput    = 30
)

// Rejection reasons. Callers surface these verbatim to the user, so each
// condition gets its own sentinel.
var (
	ErrCodeWordInputTooLong = errors.New("code word input exceeds length bound")
	ErrCodeWordForbidden    = errors.New("code word contains forbidden sequence")
	ErrCodeWordEmpty        = errors.New("code word is empty after normalization")
	ErrCodeWordTooLong      = errors.New("code word exceeds 16 characters")
	ErrPhoneInputTooLong    = errors.New("phone input exceeds length bound")
	ErrPhoneEmpty           = errors.New("phone is empty after normalization")
	ErrPhoneTooShort        = errors.New("phone has too few digits")
	ErrDateFormat           = errors.New("date must be in DD.MM.YYYY format")
)

// Screened even though storage uses parameterized queries.
var sqlMarkers = []string{"--", ";", "/*", "*/", "'", `"`, "`"}

// CodeWord checks and normalizes a submitted code word. Characters outside
// the allow-list (Latin and Cyrillic letters, digits, a little punctuation)
// are silently stripped along with all whitespace; emptiness and the
// 16-character cap are checked on the result.
func CodeWord(raw string) (string, error) {
	if utf8.RuneCountInString(raw) > maxCodeWordInput {
		return "", ErrCodeWordInputTooLong
	}
	for _, m := range sqlMarkers {
		if strings.Contains(raw, m) {
			return "", ErrCodeWordForbidden
		}
	}

	var b strings.Builder
	for _, r := range raw {
		if allowedCodeWordRune(r) {
			b.WriteRune(r)
		}
	}
	word := b.String()

	if word == "" {
		return "", ErrCodeWordEmpty
	}
	if utf8.RuneCountInString(word) > MaxCodeWordLen {
		return "", ErrCodeWordTooLong
	}
	return word, nil
}

func allowedCodeWordRune(r rune) bool {
	switch {
	case r >= '0' && r <= '9':
		return true
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		return true
	case unicode.Is(unicode.Cyrillic, r):
		return true
	case strings.ContainsRune("-_.!?", r):
		return true
	}
	return false
}

// Phone checks and normalizes a phone number. A structured contact share
// comes from the platform, not from typed text, and is trusted verbatim.
// Typed input keeps digits and at most one leading "+"; a domestic
// 8XXXXXXXXXX number is rewritten to +7XXXXXXXXXX. minDigits of 0 falls
// back to DefaultPhoneMinDigits.
func Phone(raw string, structured bool, minDigits int) (string, error) {
	if structured {
		return raw, nil
	}
	if minDigits <= 0 {
		minDigits = DefaultPhoneMinDigits
	}
	if utf8.RuneCountInString(raw) > maxPhoneInput {
		return "", ErrPhoneInputTooLong
	}

	hasPlus := false
	var digits strings.Builder
	for _, r := range raw {
		switch {
		case r >= '0' && r <= '9':
			digits.WriteRune(r)
		case r == '+':
			hasPlus = true
		}
	}
	num := digits.String()
	if num == "" {
		return "", ErrPhoneEmpty
	}

	// Domestic-to-international rewrite for Russian numbers. A deliberate,
	// narrow business rule rather than general phone parsing.
	if !hasPlus && len(num) == 11 && num[0] == '8' {
		return "+7" + num[1:], nil
	}

	if len(num) < minDigits {
		return "", ErrPhoneTooShort
	}
	if hasPlus {
		return "+" + num, nil
	}
	return num, nil
}

// DrawDate parses an admin-supplied calendar day in DD.MM.YYYY format.
// The error is a validation rejection, distinct from "no results".
func DrawDate(raw string) (time.Time, error) {
	t, err := time.ParseInLocation("02.01.2006", strings.TrimSpace(raw), time.Local)
	if err != nil {
		return time.Time{}, ErrDateFormat
	}
	return t, nil
}
