package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestColorHex(t *testing.T) {
	assert.Equal(t, "#a7ffeb", ColorHex("teal", false))
	assert.Equal(t, "#16504b", ColorHex("teal", true))
	assert.Equal(t, "#ffffff", ColorHex("chartreuse", false), "unknown ids fall back to default")
	assert.Equal(t, "#202124", ColorHex("", true))
}

func TestIsValidColor(t *testing.T) {
	for _, c := range NoteColors {
		assert.True(t, IsValidColor(c.ID), c.ID)
	}
	assert.False(t, IsValidColor("Teal"))
	assert.False(t, IsValidColor(""))
}
