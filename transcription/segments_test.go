package transcription

import (
	"encoding/json"
	"testing"
)

func twoSegments() []Segment {
	return []Segment{
		{
			Text: "  Hello there. ", Start: 0.0, End: 1.25,
			Words: []Word{{Text: " Hello", Start: 0.0, End: 0.5}, {Text: " there. ", Start: 0.55, End: 1.25}},
		},
		{
			Text: " General Kenobi.", Start: 1.5, End: 3.125,
			Words: []Word{{Text: "General ", Start: 1.5, End: 2.0}, {Text: "\tKenobi.", Start: 2.1, End: 3.125}},
		},
	}
}

func TestFormatSegments_WithWords(t *testing.T) {
	got := FormatSegments(twoSegments(), true)

	want := []SegmentRecord{
		{
			Text: "Hello there.", Start: 0.0, End: 1.25,
			Words: []WordRecord{{Word: "Hello", Start: 0.0, End: 0.5}, {Word: "there.", Start: 0.55, End: 1.25}},
		},
		{
			Text: "General Kenobi.", Start: 1.5, End: 3.125,
			Words: []WordRecord{{Word: "General", Start: 1.5, End: 2.0}, {Word: "Kenobi.", Start: 2.1, End: 3.125}},
		},
	}

	if len(got) != len(want) {
		t.Fatalf("expected %d segments, got %d", len(want), len(got))
	}
	for i := range want {
		g, w := got[i], want[i]
		if g.Text != w.Text || g.Start != w.Start || g.End != w.End {
			t.Errorf("segment %d = %+v, want %+v", i, g, w)
		}
		if len(g.Words) != len(w.Words) {
			t.Fatalf("segment %d: expected %d words, got %d", i, len(w.Words), len(g.Words))
		}
		for j := range w.Words {
			if g.Words[j] != w.Words[j] {
				t.Errorf("segment %d word %d = %+v, want %+v", i, j, g.Words[j], w.Words[j])
			}
		}
	}
}

func TestFormatSegments_WithoutWords(t *testing.T) {
	got := FormatSegments(twoSegments(), false)
	for i, rec := range got {
		if rec.Words != nil {
			t.Errorf("segment %d: words must be omitted, got %+v", i, rec.Words)
		}
	}

	body, err := json.Marshal(got[0])
	if err != nil {
		t.Fatal(err)
	}
	if string(body) != `{"text":"Hello there.","start":0,"end":1.25}` {
		t.Errorf("unexpected JSON %s", body)
	}
}

func TestFormatSegments_Empty(t *testing.T) {
	if got := FormatSegments(nil, true); len(got) != 0 {
		t.Errorf("expected no records, got %+v", got)
	}
}
