package tui

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/colonyops/powerbar/pkg/tuitest"
)

func TestWhatsNewDialog_Overlay(t *testing.T) {
	d := NewWhatsNewDialog("v2.0.0", changeNotes, 100, 40)
	bg := strings.Repeat(strings.Repeat(".", 100)+"\n", 39) + strings.Repeat(".", 100)

	out := tuitest.StripANSI(d.Overlay(bg, 100, 40))

	assert.Equal(t, "v2.0.0", d.Version())
	assert.Contains(t, out, "New in powerbar v2.0.0")
	assert.Contains(t, out, "Play an item without opening it.")
}

func TestRenderMarkdown(t *testing.T) {
	out := tuitest.StripANSI(renderMarkdown("* **bold** item", 40))

	assert.Contains(t, out, "bold")
	assert.NotContains(t, out, "**")
}
