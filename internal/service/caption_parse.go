package service

import (
	"regexp"
	"strings"

	"github.com/timmy/snapcap/internal/domain"
)

// fallbackShortLimit caps the single-slot fallback derived from an
// unstructured reply.
const fallbackShortLimit = 200

// captionSlot is the typed cursor of the line parser: which caption style
// continuation lines currently accumulate into.
type captionSlot int

const (
	slotNone captionSlot = iota
	slotShort
	slotStory
	slotPhilosophy
	slotLifestyle
	slotQuote
)

// captionLabels maps label prefixes to slots, checked in order and
// case-sensitively. STORYTelling is a legacy spelling some models emit
// for the story slot.
var captionLabels = []struct {
	prefix string
	slot   captionSlot
}{
	{"SHORT:", slotShort},
	{"STORY:", slotStory},
	{"STORYTelling:", slotStory},
	{"PHILOSOPHY:", slotPhilosophy},
	{"LIFESTYLE:", slotLifestyle},
	{"QUOTE:", slotQuote},
}

var (
	thinkPattern     = regexp.MustCompile(`(?is)<think>(.*?)</think>`)
	boldLabelPattern = regexp.MustCompile(`\*\*([^*]+)\*\*:`)
	boldPattern      = regexp.MustCompile(`\*\*([^*]+)\*\*`)
	italicPattern    = regexp.MustCompile(`\*([^*]+)\*`)
	markupTagPattern = regexp.MustCompile(`<[^>]+>`)
)

// ParseCaptionReply turns a raw text-model reply into a caption set and the
// private think segment. The reply is expected to carry reasoning between
// <think> markers followed by five labeled caption lines; anything that
// deviates degrades gracefully, down to a single truncated short caption
// when no label is recognized at all.
func ParseCaptionReply(reply string) (domain.CaptionSet, string) {
	think := ""
	if m := thinkPattern.FindStringSubmatchIndex(reply); m != nil {
		think = strings.TrimSpace(reply[m[2]:m[3]])
		reply = strings.TrimSpace(reply[:m[0]] + reply[m[1]:])
	}

	cleaned := boldLabelPattern.ReplaceAllString(reply, "$1:")
	cleaned = italicPattern.ReplaceAllString(cleaned, "$1")
	cleaned = strings.ReplaceAll(cleaned, "undefined", "")

	var set domain.CaptionSet
	current := slotNone

	for _, line := range strings.Split(cleaned, "\n") {
		line = strings.TrimSpace(line)

		if slot, rest, ok := matchLabel(line); ok {
			current = slot
			*slotValue(&set, current) = strings.TrimSpace(rest)
			continue
		}

		// Continuation lines accumulate into the current slot; emphasis
		// lines and stray text before the first label are ignored.
		if current != slotNone && line != "" && !strings.HasPrefix(line, "*") {
			*slotValue(&set, current) += " " + line
		}
	}

	if set.IsEmpty() {
		set.Short = fallbackShort(cleaned)
	}

	return set, think
}

// matchLabel reports whether the line starts with one of the caption labels
// and returns the slot plus the text after the label.
func matchLabel(line string) (captionSlot, string, bool) {
	for _, label := range captionLabels {
		if strings.HasPrefix(line, label.prefix) {
			return label.slot, strings.TrimPrefix(line, label.prefix), true
		}
	}
	return slotNone, "", false
}

func slotValue(set *domain.CaptionSet, slot captionSlot) *string {
	switch slot {
	case slotShort:
		return &set.Short
	case slotStory:
		return &set.Story
	case slotPhilosophy:
		return &set.Philosophy
	case slotLifestyle:
		return &set.Lifestyle
	case slotQuote:
		return &set.Quote
	}
	panic("no slot selected")
}

// fallbackShort derives the single-slot caption used when the reply carried
// no recognizable labels: remaining markup is stripped and the first 200
// characters become the short caption.
func fallbackShort(cleaned string) string {
	text := markupTagPattern.ReplaceAllString(cleaned, "")
	text = boldPattern.ReplaceAllString(text, "$1")
	text = italicPattern.ReplaceAllString(text, "$1")
	text = strings.TrimSpace(strings.ReplaceAll(text, "undefined", ""))

	if r := []rune(text); len(r) > fallbackShortLimit {
		return string(r[:fallbackShortLimit]) + "..."
	}
	return text
}
