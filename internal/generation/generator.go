package generation

import (
	"context"
	"fmt"
	"strings"

	"github.com/langtogether/langtogether-api/internal/domain"
)

const (
	// MinCards and MaxCards bound the number of cards one request may ask for.
	MinCards = 1
	MaxCards = 50

	// MaxSourceTextLength bounds the text sent to the model.
	MaxSourceTextLength = 10000
)

// Generator drafts flashcards from a source text.
type Generator interface {
	// GenerateCards returns up to count cards about sourceText. The result
	// is never empty on success.
	GenerateCards(ctx context.Context, sourceText string, count int) ([]domain.CardContent, error)
}

// ValidateRequest checks the arguments of a GenerateCards call.
func ValidateRequest(sourceText string, count int) error {
	text := strings.TrimSpace(sourceText)
	switch {
	case text == "":
		return domain.NewValidationError("source_text", "cannot be empty", ErrEmptySourceText)
	case len(text) > MaxSourceTextLength:
		return domain.NewValidationError("source_text",
			fmt.Sprintf("must be at most %d characters long", MaxSourceTextLength), domain.ErrValidation)
	case count < MinCards || count > MaxCards:
		return domain.NewValidationError("count",
			fmt.Sprintf("must be between %d and %d", MinCards, MaxCards), domain.ErrValidation)
	}
	return nil
}
