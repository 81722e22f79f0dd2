package util

import "unicode"

// IsHan reports whether r lies in the CJK unified ideograph range used for dictionary words.
func IsHan(r rune) bool {
	return r >= 0x4E00 && r <= 0x9FD5
}

// IsAlphaNum reports whether r is an ASCII letter or digit.
func IsAlphaNum(r rune) bool {
	if r < 128 {
		return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
	}
	return false
}

// IsDigit reports whether r is an ASCII digit or a decimal point.
func IsDigit(r rune) bool {
	return (r >= '0' && r <= '9') || r == '.'
}

// IsWordChar reports whether r belongs to a block that goes through the dictionary.
// Besides Han and ASCII alphanumerics this includes the joiners seen inside
// product names, versions and percentages.
func IsWordChar(r rune) bool {
	if IsHan(r) || IsAlphaNum(r) {
		return true
	}
	switch r {
	case '+', '#', '&', '.', '_', '%', '·', '-':
		return true
	}
	return false
}

// IsSpace reports whether r separates words without being part of one.
func IsSpace(r rune) bool {
	return unicode.IsSpace(r) || unicode.IsControl(r)
}
