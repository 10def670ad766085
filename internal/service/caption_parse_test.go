package service

import (
	"strings"
	"testing"

	"github.com/timmy/snapcap/internal/domain"
)

func TestParseCaptionReply_FullStructure(t *testing.T) {
	reply := "<think>reasoning</think>\nSHORT: a\nSTORY: b\nPHILOSOPHY: c\nLIFESTYLE: d\nQUOTE: e"

	set, think := ParseCaptionReply(reply)

	if think != "reasoning" {
		t.Errorf("expected think %q, got %q", "reasoning", think)
	}

	want := domain.CaptionSet{Short: "a", Story: "b", Philosophy: "c", Lifestyle: "d", Quote: "e"}
	if set != want {
		t.Errorf("expected captions %+v, got %+v", want, set)
	}
}

func TestParseCaptionReply_ThinkMarkers(t *testing.T) {
	tests := []struct {
		name      string
		reply     string
		wantThink string
	}{
		{
			name:      "mixed case markers",
			reply:     "<THINK>private notes</THINK>\nSHORT: hello",
			wantThink: "private notes",
		},
		{
			name:      "multiline think trimmed",
			reply:     "<think>\n  step one\nstep two\n</think>\nSHORT: hi",
			wantThink: "step one\nstep two",
		},
		{
			name:      "no think block",
			reply:     "SHORT: hi",
			wantThink: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, think := ParseCaptionReply(tt.reply)
			if think != tt.wantThink {
				t.Errorf("expected think %q, got %q", tt.wantThink, think)
			}
		})
	}
}

func TestParseCaptionReply_LegacyStoryAlias(t *testing.T) {
	set, _ := ParseCaptionReply("STORYTelling: once upon a time")

	if set.Story != "once upon a time" {
		t.Errorf("expected legacy label to map to story, got %q", set.Story)
	}
}

func TestParseCaptionReply_ContinuationLines(t *testing.T) {
	reply := strings.Join([]string{
		"SHORT: first",
		"continues here",
		"",
		"* emphasis line is ignored",
		"STORY: second",
		"and more",
	}, "\n")

	set, _ := ParseCaptionReply(reply)

	if set.Short != "first continues here" {
		t.Errorf("expected continuation accumulation, got %q", set.Short)
	}
	if set.Story != "second and more" {
		t.Errorf("expected story continuation, got %q", set.Story)
	}
}

func TestParseCaptionReply_LabelCaseSensitive(t *testing.T) {
	set, _ := ParseCaptionReply("short: lowercase label is not recognized")

	if set.Story != "" || set.Philosophy != "" || set.Lifestyle != "" || set.Quote != "" {
		t.Errorf("expected no labeled slots, got %+v", set)
	}
	// With no recognized labels the whole reply falls into the short slot.
	if set.Short != "short: lowercase label is not recognized" {
		t.Errorf("expected fallback short slot, got %q", set.Short)
	}
}

func TestParseCaptionReply_BoldLabels(t *testing.T) {
	set, _ := ParseCaptionReply("**SHORT**: bold label\n*STORY*: italic label")

	if set.Short != "bold label" {
		t.Errorf("expected bold markup stripped from label, got %q", set.Short)
	}
	if set.Story != "italic label" {
		t.Errorf("expected italic markup stripped from label, got %q", set.Story)
	}
}

func TestParseCaptionReply_UndefinedTokenRemoved(t *testing.T) {
	set, _ := ParseCaptionReply("SHORT: sunset viewsundefined")

	if set.Short != "sunset views" {
		t.Errorf("expected undefined token removed, got %q", set.Short)
	}
}

func TestParseCaptionReply_UnstructuredFallback(t *testing.T) {
	t.Run("short reply kept whole", func(t *testing.T) {
		set, think := ParseCaptionReply("just some freeform text about a beach")

		if think != "" {
			t.Errorf("expected empty think, got %q", think)
		}
		if set.Short != "just some freeform text about a beach" {
			t.Errorf("unexpected short slot: %q", set.Short)
		}
		if set.Story != "" || set.Philosophy != "" || set.Lifestyle != "" || set.Quote != "" {
			t.Errorf("expected other slots empty, got %+v", set)
		}
	})

	t.Run("long reply truncated to 200 chars", func(t *testing.T) {
		long := strings.Repeat("x", 250)
		set, _ := ParseCaptionReply(long)

		want := strings.Repeat("x", 200) + "..."
		if set.Short != want {
			t.Errorf("expected 200-char truncation with ellipsis, got %d chars", len(set.Short))
		}
	})

	t.Run("markup stripped before truncation", func(t *testing.T) {
		set, _ := ParseCaptionReply("<div>**bold** and *italic* text</div>")

		if set.Short != "bold and italic text" {
			t.Errorf("expected markup stripped, got %q", set.Short)
		}
	})
}
