package engine

import "strings"

// ============================================================================
// TEXT BUILDER — Produces TextData for text blocks
// ============================================================================

// TextSpec holds the inputs of a text component.
type TextSpec struct {
	Title string
	Body  string
}

// BuildText produces a text block. Surrounding blank lines are trimmed
// from the body; inner formatting is left to the renderer.
func BuildText(spec TextSpec) *TextData {
	return &TextData{
		Title: strings.TrimSpace(spec.Title),
		Body:  strings.Trim(spec.Body, "\n\r"),
	}
}
