package tts

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVoiceCatalog_Lookup(t *testing.T) {
	c := NewVoiceCatalog(GeminiVoices)

	v, ok := c.Lookup("kore")
	assert.True(t, ok)
	assert.Equal(t, "Kore", v.Name)
	assert.Equal(t, "Firm", v.Style)

	_, ok = c.Lookup(" Algenib ")
	assert.True(t, ok)

	_, ok = c.Lookup("Nobody")
	assert.False(t, ok)

	assert.Len(t, c.Voices(), 30)
}

func TestVoiceCatalog_Suggest(t *testing.T) {
	c := NewVoiceCatalog(GeminiVoices)
	assert.Equal(t, "Zephyr", c.Suggest("Zephir"))
	assert.Equal(t, "Sulafat", c.Suggest("sulafatt"))
}
