package transcription

import "testing"

func TestGetExtension(t *testing.T) {
	tests := []struct {
		filename string
		want     string
	}{
		{"audio.wav", "wav"},
		{"A.WAV", "wav"},
		{"clip.Mp3", "mp3"},
		{"archive.tar.flac", "flac"},
		{"dir/sub/voice.ogg", "ogg"},
		{"noext", ""},
		{".wav", ""},
		{"..wav", ""},
		{"trailing.", ""},
		{"", ""},
		{"clip.xyz", "xyz"},
	}
	for _, tc := range tests {
		t.Run(tc.filename, func(t *testing.T) {
			if got := GetExtension(tc.filename); got != tc.want {
				t.Errorf("GetExtension(%q) = %q, want %q", tc.filename, got, tc.want)
			}
		})
	}
}

func TestEnumSet(t *testing.T) {
	if SupportedExtensions.String() != "mp3, mp4, mpeg, mpga, m4a, wav, webm, opus, flac, ogg" {
		t.Errorf("unexpected extension list %q", SupportedExtensions.String())
	}
	if !SupportedLanguages.Contains("yue") || SupportedLanguages.Contains("EN") {
		t.Error("language membership must be exact")
	}
	vals := SupportedFormats.Values()
	vals[0] = "mutated"
	if SupportedFormats.Values()[0] != FormatText {
		t.Error("Values must return a copy")
	}
}
