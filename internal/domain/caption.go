package domain

import "strings"

// CaptionSet holds the five caption variants produced for one image
// description. Slots left empty by the model stay empty strings.
type CaptionSet struct {
	Short      string `json:"short"`
	Story      string `json:"story"`
	Philosophy string `json:"philosophy"`
	Lifestyle  string `json:"lifestyle"`
	Quote      string `json:"quote"`
}

// IsEmpty reports whether every slot is empty.
func (c CaptionSet) IsEmpty() bool {
	return c.Short == "" && c.Story == "" && c.Philosophy == "" &&
		c.Lifestyle == "" && c.Quote == ""
}

// Tone is the caller-selected platform style influencing the instruction
// text sent to the text model. Unrecognized values resolve to ToneGeneric.
type Tone string

const (
	ToneGeneric   Tone = ""
	ToneInstagram Tone = "instagram"
	ToneFacebook  Tone = "facebook"
	ToneLinkedIn  Tone = "linkedin"
)

// ResolveTone maps a caller-supplied tone selector to a known Tone.
// Matching is case-insensitive; anything unrecognized maps to ToneGeneric.
func ResolveTone(s string) Tone {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case string(ToneInstagram):
		return ToneInstagram
	case string(ToneFacebook):
		return ToneFacebook
	case string(ToneLinkedIn):
		return ToneLinkedIn
	default:
		return ToneGeneric
	}
}
