package tts

import (
	"strings"

	"github.com/samber/lo"
	"github.com/schollz/closestmatch"
)

type Voice struct {
	Name  string `json:"name"`
	Style string `json:"style"`
}

// GeminiVoices is the prebuilt voice catalog of the Gemini TTS models.
var GeminiVoices = []Voice{
	{"Zephyr", "Bright"},
	{"Puck", "Upbeat"},
	{"Charon", "Informative"},
	{"Kore", "Firm"},
	{"Fenrir", "Excitable"},
	{"Leda", "Youthful"},
	{"Orus", "Firm"},
	{"Aoede", "Breezy"},
	{"Callirrhoe", "Easy-going"},
	{"Autonoe", "Bright"},
	{"Enceladus", "Breathy"},
	{"Iapetus", "Clear"},
	{"Umbriel", "Easy-going"},
	{"Algieba", "Smooth"},
	{"Despina", "Smooth"},
	{"Erinome", "Clear"},
	{"Algenib", "Gravelly"},
	{"Rasalgethi", "Informative"},
	{"Laomedeia", "Upbeat"},
	{"Achernar", "Soft"},
	{"Alnilam", "Firm"},
	{"Schedar", "Even"},
	{"Gacrux", "Mature"},
	{"Pulcherrima", "Forward"},
	{"Achird", "Friendly"},
	{"Zubenelgenubi", "Casual"},
	{"Vindemiatrix", "Gentle"},
	{"Sadachbia", "Lively"},
	{"Sadaltager", "Knowledgeable"},
	{"Sulafat", "Warm"},
}

// VoiceCatalog validates voice names for callers that collect them from users.
// Synthesizers themselves pass voice names through untouched.
type VoiceCatalog struct {
	voices  []Voice
	matcher *closestmatch.ClosestMatch
}

func NewVoiceCatalog(voices []Voice) *VoiceCatalog {
	keys := lo.Map(voices, func(v Voice, _ int) string { return strings.ToLower(v.Name) })
	return &VoiceCatalog{
		voices:  voices,
		matcher: closestmatch.New(keys, []int{2, 3}),
	}
}

func (c *VoiceCatalog) Voices() []Voice {
	return c.voices
}

// Lookup finds a voice by name, ignoring case.
func (c *VoiceCatalog) Lookup(name string) (Voice, bool) {
	name = strings.TrimSpace(name)
	return lo.Find(c.voices, func(v Voice) bool { return strings.EqualFold(v.Name, name) })
}

// Suggest returns the catalog voice closest to name, or "" if nothing is close.
func (c *VoiceCatalog) Suggest(name string) string {
	closest := c.matcher.Closest(strings.ToLower(strings.TrimSpace(name)))
	if closest == "" {
		return ""
	}
	v, ok := c.Lookup(closest)
	if !ok {
		return ""
	}
	return v.Name
}
