package grammar

const upperhex = "0123456789ABCDEF"

func ishex(c byte) bool {
	switch {
	case '0' <= c && c <= '9':
		return true
	case 'a' <= c && c <= 'f':
		return true
	case 'A' <= c && c <= 'F':
		return true
	}
	return false
}

func unhex(c byte) byte {
	switch {
	case '0' <= c && c <= '9':
		return c - '0'
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10
	case 'A' <= c && c <= 'F':
		return c - 'A' + 10
	}
	return 0
}

// IsAlphanumChar checks the ALPHA / DIGIT rule.
func IsAlphanumChar(c byte) bool {
	return 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' || '0' <= c && c <= '9'
}

// IsCharUnreserved checks the RFC 3986 unreserved rule.
func IsCharUnreserved(c byte) bool {
	switch c {
	case '-', '.', '_', '~':
		return true
	}
	return IsAlphanumChar(c)
}

// IsSubDelimChar checks the RFC 3986 sub-delims rule.
func IsSubDelimChar(c byte) bool {
	switch c {
	case '!', '$', '&', '\'', '(', ')', '*', '+', ',', ';', '=':
		return true
	}
	return false
}

// IsHostChar checks a reg-name character outside of pct-encoded triplets,
// that is unreserved / sub-delims.
func IsHostChar(c byte) bool {
	return IsCharUnreserved(c) || IsSubDelimChar(c)
}

// IsSchemeChar checks the scheme rule character set for positions after the first.
func IsSchemeChar(c byte) bool {
	switch c {
	case '+', '-', '.':
		return true
	}
	return IsAlphanumChar(c)
}
