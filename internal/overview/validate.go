package overview

// IsContractAddress reports whether s looks like an EVM contract
// address: the literal "0x" prefix, 42 characters total, hex digits for
// the rest. No checksum validation, case is not forced.
func IsContractAddress(s string) bool {
	if len(s) != 42 {
		return false
	}
	if s[0] != '0' || s[1] != 'x' {
		return false
	}
	for i := 2; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'f':
		case c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}
