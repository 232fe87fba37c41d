package validators

import "strings"

// SanitizeString trims input and truncates it to maxLen bytes without
// splitting a UTF-8 sequence.
func SanitizeString(input string, maxLen int) string {
	trimmed := strings.TrimSpace(input)
	if maxLen <= 0 || len(trimmed) <= maxLen {
		return trimmed
	}
	cut := trimmed[:maxLen]
	for len(cut) > 0 && !utf8Start(trimmed[len(cut)]) {
		cut = cut[:len(cut)-1]
	}
	return cut
}

func utf8Start(b byte) bool {
	return b&0xC0 != 0x80
}
