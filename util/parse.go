package util

import (
	"fmt"
	"strconv"
	"strings"
)

// Binary size units, largest first.
var sizeUnits = []struct {
	suffix string
	bytes  int64
}{
	{"GB", 1 << 30},
	{"MB", 1 << 20},
	{"KB", 1 << 10},
	{"G", 1 << 30},
	{"M", 1 << 20},
	{"K", 1 << 10},
	{"B", 1},
}

// ParseSize converts "100MB", "512k" or "1024" into bytes. Units are
// binary and case-insensitive. def is returned for empty, malformed or
// negative input.
func ParseSize(s string, def int64) int64 {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return def
	}

	mult := int64(1)
	for _, u := range sizeUnits {
		if num, ok := strings.CutSuffix(s, u.suffix); ok {
			s, mult = strings.TrimSpace(num), u.bytes
			break
		}
	}

	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n < 0 {
		return def
	}
	return n * mult
}

// FormatSize renders n with the largest unit that divides it, e.g. 25MB.
func FormatSize(n int64) string {
	for _, u := range sizeUnits[:3] {
		if n >= u.bytes && n%u.bytes == 0 {
			return strconv.FormatInt(n/u.bytes, 10) + u.suffix
		}
	}
	return fmt.Sprintf("%dB", n)
}

// MaskSecret keeps the first visible characters of s for logs and hides the
// rest. Values no longer than visible are hidden entirely.
func MaskSecret(s string, visible int) string {
	if visible < 0 || len(s) <= visible {
		return "***"
	}
	return s[:visible] + "***"
}
