package transcription

import "strings"

// EnumSet is a closed, ordered set of supported string values.
type EnumSet struct {
	values  []string
	members map[string]struct{}
}

// NewEnumSet builds a set preserving the given order for display.
func NewEnumSet(values ...string) EnumSet {
	members := make(map[string]struct{}, len(values))
	for _, v := range values {
		members[v] = struct{}{}
	}
	return EnumSet{values: values, members: members}
}

// Contains reports exact, case-sensitive membership.
func (s EnumSet) Contains(v string) bool {
	_, ok := s.members[v]
	return ok
}

// Values returns a copy of the members in declaration order.
func (s EnumSet) Values() []string {
	return append([]string(nil), s.values...)
}

// String joins the members with ", ".
func (s EnumSet) String() string {
	return strings.Join(s.values, ", ")
}

const (
	FormatText        = "text"
	FormatVerboseJSON = "verbose_json"

	GranularitySegment = "segment"
	GranularityWord    = "word"

	LanguageAuto = "auto"

	DefaultModel = "iic/SenseVoiceSmall"
)

var (
	SupportedExtensions    = NewEnumSet("mp3", "mp4", "mpeg", "mpga", "m4a", "wav", "webm", "opus", "flac", "ogg")
	SupportedLanguages     = NewEnumSet(LanguageAuto, "zh", "en", "yue", "ja", "ko", "nospeech")
	SupportedModels        = NewEnumSet(DefaultModel)
	SupportedFormats       = NewEnumSet(FormatText, FormatVerboseJSON)
	SupportedGranularities = NewEnumSet(GranularitySegment, GranularityWord)
)
