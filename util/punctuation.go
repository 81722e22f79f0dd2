package util

import (
	"unicode"
)

// IsPunctuation checks if a string consists entirely of punctuation or special CJK symbols.
func IsPunctuation(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !isPunct(r) {
			return false
		}
	}
	return true
}

func isPunct(r rune) bool {
	if unicode.IsPunct(r) || unicode.IsSymbol(r) {
		return true
	}
	// CJK Symbols and Punctuation
	if r >= 0x3000 && r <= 0x303F {
		return true
	}
	// Full-width forms, except the full-width letters and digits
	if r >= 0xFF00 && r <= 0xFFEF {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}
	return false
}

// IsBlank reports whether s only holds whitespace or control characters.
func IsBlank(s string) bool {
	for _, r := range s {
		if !IsSpace(r) {
			return false
		}
	}
	return true
}
