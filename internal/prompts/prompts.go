package prompts

import (
	"fmt"

	"github.com/timmy/snapcap/internal/domain"
)

// ============================================================================
// Vision Prompt (image description model)
// ============================================================================

// VisionPrompt asks the vision model for a vivid, neutral description and
// forbids the hedging language that HedgeRules strips from replies that use
// it anyway.
const VisionPrompt = "Look at this image and describe it in a detailed and insightful way. " +
	"Go beyond literal descriptions—capture the emotion, atmosphere, and what the moment might feel like. " +
	"Mention people, expressions, scenery, actions, and overall vibe, but avoid guessing or reasoning. " +
	"Just describe what's there vividly and neutrally. " +
	"Avoid phrases like 'I think', 'maybe', or 'it seems'. " +
	"Present your output as a JSON with keys such as 'people', 'emotion', 'setting', 'actions', and 'overall_vibe'. " +
	"The full output should be at least 400 words."

// ============================================================================
// Hedge-phrase rules (description cleanup)
// ============================================================================

// HedgeRule removes one speculative opening phrase from a description. Each
// rule matches from Trigger (case-insensitive) non-greedily through the next
// occurrence of Terminator. Rules are applied in table order.
type HedgeRule struct {
	Trigger    string
	Terminator string
}

// HedgeRules is the ordered cleanup table applied to raw vision output.
// Edit the table, not the cleanup code.
var HedgeRules = []HedgeRule{
	{"It appears", ". "},
	{"It seems", ". "},
	{"Maybe", ". "},
	{"Probably", ". "},
	{"it looks like", ". "},
	{"it is possible", ". "},
	{"it could be", ". "},
	{"in my opinion", ". "},
	{"I think", ". "},
	{"I believe", ". "},
	{"I guess", ". "},
	{"I suppose", ". "},
	{"I would say", ". "},
	{"Imagine", ". "},
	{"Perhaps", ". "},
	{"Filler text", ". "},
	{"Speculative reasoning", ". "},
}

// ============================================================================
// Caption Prompt (text model)
// ============================================================================

// captionPromptTemplate instructs the text model to keep its reasoning inside
// <think></think> and then emit exactly five labeled caption lines. The label
// set here is the contract the response parser enforces.
const captionPromptTemplate = `You are a caption writing assistant. First, reflect privately about the best angles for the requested platform, then write 5 distinct caption types.

CRITICAL: Put your private reasoning ONLY between <think> and </think>. After </think>, output exactly 5 captions in the format below.

Platform tone: %s

Image description: %s

Output format (exactly this):
<think>your step-by-step reasoning about how to adapt captions for this specific platform</think>
SHORT: your concise, punchy caption with relevant hashtags
STORY: your narrative, storytelling caption with hashtags
PHILOSOPHY: your deep, thought-provoking caption with hashtags
LIFESTYLE: your aspirational, lifestyle-focused caption with hashtags
QUOTE: your inspirational quote-style caption with hashtags

Rules: Do not use markdown. Keep reasoning strictly inside <think> tags. Each caption must be distinctly different in style and approach.`

// CaptionPrompt builds the full text-model prompt for a description and tone.
func CaptionPrompt(description string, tone domain.Tone) string {
	return fmt.Sprintf(captionPromptTemplate, ToneInstructions(tone), description)
}

// ============================================================================
// Tone instruction blocks
// ============================================================================

const toneGenericInstructions = "General social media style. Create 5 distinctly different caption approaches: punchy, narrative, philosophical, aspirational, and inspirational."

const toneInstagramInstructions = "Instagram style: Create 5 distinctly different captions - trendy/punchy, storytelling, philosophical, lifestyle/aspirational, and inspirational/quote-style. Use emojis strategically, focus on aesthetics and trends, include strong hashtags. Each caption should feel unique and capture different moods."

const toneFacebookInstructions = "Facebook style: Create 5 distinctly different captions - engaging, narrative/storytelling, thoughtful, community-focused, and motivational. Use conversational tone, relatable language, community-oriented hashtags. Each caption should feel personal and encourage interaction."

const toneLinkedInInstructions = "LinkedIn style: Create 5 distinctly different captions - professional, insightful, thought-leadership, career-focused, and inspirational. Use professional language, industry insights, value-driven content, relevant hashtags. Each caption should demonstrate expertise and professional growth."

// ToneInstructions returns the instruction block for a resolved tone.
func ToneInstructions(tone domain.Tone) string {
	switch tone {
	case domain.ToneInstagram:
		return toneInstagramInstructions
	case domain.ToneFacebook:
		return toneFacebookInstructions
	case domain.ToneLinkedIn:
		return toneLinkedInInstructions
	default:
		return toneGenericInstructions
	}
}
