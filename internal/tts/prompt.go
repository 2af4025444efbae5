package tts

import (
	"strings"
)

// rule is one step of a descriptor ladder: the first matching rule wins.
type rule struct {
	matches func(v float64) bool
	label   string
}

func newLadder(veryLow, low, veryHigh, high string) []rule {
	return []rule{
		{func(v float64) bool { return v < 0.85 }, veryLow},
		{func(v float64) bool { return v < 0.95 }, low},
		{func(v float64) bool { return v > 1.15 }, veryHigh},
		{func(v float64) bool { return v > 1.05 }, high},
	}
}

var (
	pitchLadder = newLadder("a very low pitch", "a low pitch", "a very high pitch", "a high pitch")
	speedLadder = newLadder("a very slow speaking rate", "a slow speaking rate", "a very fast speaking rate", "a fast speaking rate")
)

func describe(ladder []rule, v float64) (string, bool) {
	for _, r := range ladder {
		if r.matches(v) {
			return r.label, true
		}
	}
	return "", false
}

// PitchClause returns the pitch descriptor, or false inside the neutral band [0.95, 1.05].
func PitchClause(pitch float64) (string, bool) {
	return describe(pitchLadder, pitch)
}

// SpeedClause returns the speaking-rate descriptor, or false inside the neutral band.
func SpeedClause(speed float64) (string, bool) {
	return describe(speedLadder, speed)
}

func clauses(style Style) []string {
	var out []string
	if v := strings.TrimSpace(style.Tone); v != "" {
		out = append(out, "a tone that is "+v)
	}
	if v := strings.TrimSpace(style.Intention); v != "" {
		out = append(out, "an intention to "+v)
	}
	if v := strings.TrimSpace(style.Characteristics); v != "" {
		out = append(out, "voice characteristics that are "+v)
	}
	if c, ok := PitchClause(style.Pitch); ok {
		out = append(out, c)
	}
	if c, ok := SpeedClause(style.Speed); ok {
		out = append(out, c)
	}
	return out
}

// StyleInstruction renders the sentence prefixed to plain text, or "" when the
// style asks for nothing.
func StyleInstruction(style Style) string {
	cs := clauses(style)
	if len(cs) == 0 {
		return ""
	}
	return "Speak with " + strings.Join(cs, " and ") + ". The text to say is: "
}

// WrapSSML wraps text in a speak element unless it already opens with one.
func WrapSSML(text string) string {
	trimmed := strings.TrimSpace(text)
	if strings.HasPrefix(trimmed, "<speak>") || strings.HasPrefix(trimmed, "<speak ") {
		return text
	}
	return "<speak>" + text + "</speak>"
}

// BuildEffectiveText produces the exact string sent to the model. SSML input
// ignores the style entirely.
func BuildEffectiveText(req Request) string {
	if req.IsSSML {
		return WrapSSML(req.Text)
	}
	return StyleInstruction(req.Style) + req.Text
}
