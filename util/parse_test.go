package util

import "testing"

func TestParseSize(t *testing.T) {
	const def = int64(-1)
	tests := []struct {
		in   string
		want int64
	}{
		{"100MB", 100 << 20},
		{"64KB", 64 << 10},
		{"2GB", 2 << 30},
		{"512k", 512 << 10},
		{"3m", 3 << 20},
		{"10 MB", 10 << 20},
		{"  25mb ", 25 << 20},
		{"1024", 1024},
		{"1024B", 1024},
		{"0", 0},
		{"", def},
		{"MB", def},
		{"ten", def},
		{"1.5MB", def},
		{"10MBx", def},
		{"-3MB", def},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ParseSize(tt.in, def); got != tt.want {
				t.Errorf("ParseSize(%q) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestFormatSize(t *testing.T) {
	tests := map[int64]string{
		100 << 20: "100MB",
		3 << 30:   "3GB",
		64 << 10:  "64KB",
		1536:      "1536B",
		0:         "0B",
	}
	for in, want := range tests {
		if got := FormatSize(in); got != want {
			t.Errorf("FormatSize(%d) = %q, want %q", in, got, want)
		}
		if in > 0 && ParseSize(FormatSize(in), -1) != in {
			t.Errorf("ParseSize does not invert FormatSize for %d", in)
		}
	}
}

func TestMaskSecret(t *testing.T) {
	tests := []struct {
		in      string
		visible int
		want    string
	}{
		{"sk-live-abcdef", 4, "sk-l***"},
		{"abcd", 4, "***"},
		{"", 4, "***"},
		{"secret", 0, "***"},
		{"secret", -1, "***"},
	}
	for _, tt := range tests {
		if got := MaskSecret(tt.in, tt.visible); got != tt.want {
			t.Errorf("MaskSecret(%q, %d) = %q, want %q", tt.in, tt.visible, got, tt.want)
		}
	}
}
