package transcription

import "strings"

// FormatSegments converts model segments into response records in the
// same order. Text is trimmed; times are copied unchanged. Words are
// included only when includeWords is set.
func FormatSegments(segments []Segment, includeWords bool) []SegmentRecord {
	records := make([]SegmentRecord, 0, len(segments))
	for _, seg := range segments {
		rec := SegmentRecord{
			Text:  strings.TrimSpace(seg.Text),
			Start: seg.Start,
			End:   seg.End,
		}
		if includeWords {
			rec.Words = make([]WordRecord, 0, len(seg.Words))
			for _, w := range seg.Words {
				rec.Words = append(rec.Words, WordRecord{
					Word:  strings.TrimSpace(w.Text),
					Start: w.Start,
					End:   w.End,
				})
			}
		}
		records = append(records, rec)
	}
	return records
}
