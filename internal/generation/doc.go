// Package generation defines the boundary between deck editing and the
// language model that drafts flashcards from a source text. The Gemini
// adapter in internal/platform/gemini implements the Generator interface.
package generation
