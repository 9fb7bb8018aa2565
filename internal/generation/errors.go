package generation

import "errors"

var (
	// ErrGenerationFailed wraps model failures that are neither transient
	// nor caused by the content.
	ErrGenerationFailed = errors.New("card generation failed")

	// ErrInvalidResponse means the model answered with something that is
	// not a usable list of cards.
	ErrInvalidResponse = errors.New("invalid response from language model")

	// ErrContentBlocked means the source text tripped the model's safety
	// filters.
	ErrContentBlocked = errors.New("source text blocked by language model safety filters")

	// ErrTransientFailure marks rate limits, timeouts and 5xx answers that
	// are worth retrying.
	ErrTransientFailure = errors.New("language model temporarily unavailable")

	ErrInvalidConfig = errors.New("invalid generator configuration")

	ErrEmptySourceText = errors.New("source text cannot be empty")
)
