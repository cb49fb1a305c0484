package match

import "strings"

// Normalize lowercases s, turns every run of characters outside [a-z0-9]
// into a single space and trims the result.
//
// Terms and recognized lines both go through Normalize so that comparison
// happens in the same space. Non-ASCII letters are treated as separators.
func Normalize(s string) string {
	lower := strings.ToLower(s)

	var b strings.Builder
	b.Grow(len(lower))
	gap := false
	for i := 0; i < len(lower); i++ {
		c := lower[i]
		if (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') {
			if gap && b.Len() > 0 {
				b.WriteByte(' ')
			}
			gap = false
			b.WriteByte(c)
			continue
		}
		// Bytes of multi-byte UTF-8 sequences land here too.
		gap = true
	}
	return b.String()
}

// NormalizeAll normalizes every string of ss into a new slice.
func NormalizeAll(ss []string) []string {
	out := make([]string, len(ss))
	for i, s := range ss {
		out[i] = Normalize(s)
	}
	return out
}
