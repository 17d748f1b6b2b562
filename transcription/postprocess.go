package transcription

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// SenseVoice emits inline special tokens of the form <|TAG|> for language,
// emotion, audio event and normalisation mode.

type tokenEmoji struct {
	token string
	emoji string
}

// Emotion tokens in priority order. Ties keep the earlier entry.
var emotionTokens = []tokenEmoji{
	{"<|HAPPY|>", "😊"},
	{"<|SAD|>", "😔"},
	{"<|ANGRY|>", "😡"},
	{"<|NEUTRAL|>", ""},
	{"<|FEARFUL|>", "😰"},
	{"<|DISGUSTED|>", "🤢"},
	{"<|SURPRISED|>", "😮"},
}

// Event tokens in the order they are prepended; the last present event
// ends up first.
var eventTokens = []tokenEmoji{
	{"<|BGM|>", "🎼"},
	{"<|Speech|>", ""},
	{"<|Applause|>", "👏"},
	{"<|Laughter|>", "😀"},
	{"<|Cry|>", "😭"},
	{"<|Sneeze|>", "🤧"},
	{"<|Breath|>", ""},
	{"<|Cough|>", "🤧"},
}

// Every token stripped from a section, in removal order.
var sectionTokens = []string{
	"<|HAPPY|>", "<|SAD|>", "<|ANGRY|>", "<|NEUTRAL|>", "<|FEARFUL|>", "<|DISGUSTED|>", "<|SURPRISED|>",
	"<|BGM|>", "<|Speech|>", "<|Applause|>", "<|Laughter|>", "<|Cry|>", "<|Sneeze|>", "<|Breath|>", "<|Cough|>",
	"<|Sing|>", "<|Speech_Noise|>", "<|withitn|>", "<|woitn|>", "<|GBG|>", "<|Event_UNK|>", "<|EMO_UNKNOWN|>",
}

// strayToken matches any well-formed tag the lists above do not name.
var strayToken = regexp.MustCompile(`<\|[A-Za-z0-9_-]+\|>`)

var languageTokens = []string{"<|zh|>", "<|en|>", "<|yue|>", "<|ja|>", "<|ko|>", "<|nospeech|>"}

const (
	unknownEventMarker = "<|nospeech|><|Event_UNK|>"
	unknownEventEmoji  = "❓"
	sectionSeparator   = "<|lang|>"
)

var (
	emotionEmoji = runeSet("😊😔😡😰🤢😮")
	eventEmoji   = runeSet("🎼👏😀😭🤧😷")
	// Fixed iteration order for whitespace collapsing around emoji.
	allEmoji = []string{"😊", "😔", "😡", "😰", "🤢", "😮", "🎼", "👏", "😀", "😭", "🤧", "😷"}
)

func runeSet(s string) map[rune]bool {
	m := make(map[rune]bool)
	for _, r := range s {
		m[r] = true
	}
	return m
}

// CleanTranscript converts raw SenseVoice output into readable text.
// Language tags split the text into sections. Within a section special
// tokens are removed, present audio events become leading emoji and the
// dominant emotion a trailing emoji. Across sections a repeated leading
// event and a repeated trailing emotion are collapsed. Well-formed tags
// that are not recognised are dropped; malformed fragments such as
// "<|HAP" are left as text. The function never fails.
func CleanTranscript(raw string) string {
	s := strings.ReplaceAll(raw, unknownEventMarker, unknownEventEmoji)
	for _, tag := range languageTokens {
		s = strings.ReplaceAll(s, tag, sectionSeparator)
	}

	parts := strings.Split(s, sectionSeparator)
	sections := make([]string, len(parts))
	for i, p := range parts {
		sections[i] = strings.Trim(formatSection(p), " ")
	}

	out := " " + sections[0]
	prevEvent, _ := leadingEvent(out)
	for _, sec := range sections[1:] {
		if sec == "" {
			continue
		}
		if ev, ok := leadingEvent(sec); ok && ev == prevEvent {
			_, size := utf8.DecodeRuneInString(sec)
			sec = sec[size:]
		}
		prevEvent, _ = leadingEvent(sec)

		if emo, ok := trailingEmotion(sec); ok {
			if last, ok := trailingEmotion(out); ok && last == emo {
				_, size := utf8.DecodeLastRuneInString(out)
				out = out[:len(out)-size]
			}
		}
		out += strings.TrimSpace(sec)
	}

	out = strings.ReplaceAll(out, "The.", " ")
	return strings.TrimSpace(out)
}

// formatSection strips special tokens from one language section and adds
// event and emotion emoji.
func formatSection(s string) string {
	counts := make(map[string]int, len(sectionTokens))
	for _, tok := range sectionTokens {
		counts[tok] = strings.Count(s, tok)
		s = strings.ReplaceAll(s, tok, "")
	}
	s = strayToken.ReplaceAllString(s, "")

	dominant := tokenEmoji{token: "<|NEUTRAL|>"}
	for _, e := range emotionTokens {
		if counts[e.token] > counts[dominant.token] {
			dominant = e
		}
	}

	for _, e := range eventTokens {
		if counts[e.token] > 0 {
			s = e.emoji + s
		}
	}
	s += dominant.emoji

	for _, emoji := range allEmoji {
		s = strings.ReplaceAll(s, " "+emoji, emoji)
		s = strings.ReplaceAll(s, emoji+" ", emoji)
	}
	return strings.TrimSpace(s)
}

func leadingEvent(s string) (rune, bool) {
	r, _ := utf8.DecodeRuneInString(s)
	return r, eventEmoji[r]
}

func trailingEmotion(s string) (rune, bool) {
	r, _ := utf8.DecodeLastRuneInString(s)
	return r, emotionEmoji[r]
}

// DetectLanguage returns the first language code tagged in raw model
// output, or "" when there is none.
func DetectLanguage(raw string) string {
	for {
		i := strings.Index(raw, "<|")
		if i < 0 {
			return ""
		}
		raw = raw[i+2:]
		j := strings.Index(raw, "|>")
		if j < 0 {
			return ""
		}
		if tag := raw[:j]; tag != LanguageAuto && SupportedLanguages.Contains(tag) {
			return tag
		}
	}
}
