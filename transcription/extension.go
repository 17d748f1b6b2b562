package transcription

import "strings"

// GetExtension returns the lower-cased extension of filename without its
// dot. Leading dots of the base name do not start an extension, so
// ".wav" and "noext" both yield "".
func GetExtension(filename string) string {
	base := filename
	if i := strings.LastIndexByte(base, '/'); i >= 0 {
		base = base[i+1:]
	}
	trimmed := strings.TrimLeft(base, ".")
	i := strings.LastIndexByte(trimmed, '.')
	if i < 0 {
		return ""
	}
	return strings.ToLower(trimmed[i+1:])
}
