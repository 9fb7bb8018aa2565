package gemini

import "errors"

// ErrNoCards is returned when the model answered with an empty card list.
var ErrNoCards = errors.New("model returned no cards")
