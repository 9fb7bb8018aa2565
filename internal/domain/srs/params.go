package srs

// Params defines the constants of the SM-2 update.
type Params struct {
	// MinEasinessFactor is the floor applied after every successful review.
	MinEasinessFactor float64

	// FailureInterval is the interval in days set after a failed recall,
	// which makes the card due again almost immediately.
	FailureInterval float64

	// FirstInterval and SecondInterval are the fixed intervals in days after
	// the first and second consecutive successful reviews.
	FirstInterval  float64
	SecondInterval float64

	// MaxQuality is the top of the recall scale used by the easiness formula.
	MaxQuality int
}

// ParamsConfig allows overriding the default parameters. Zero values keep
// the default.
type ParamsConfig struct {
	MinEasinessFactor float64
	FailureInterval   float64
	FirstInterval     float64
	SecondInterval    float64
}

// NewDefaultParams returns the classic SM-2 constants.
func NewDefaultParams() *Params {
	return &Params{
		MinEasinessFactor: 1.3,
		FailureInterval:   0.01,
		FirstInterval:     1,
		SecondInterval:    6,
		MaxQuality:        5,
	}
}

// NewParams creates a Params instance with custom configuration.
func NewParams(config ParamsConfig) *Params {
	params := NewDefaultParams()

	if config.MinEasinessFactor > 0 {
		params.MinEasinessFactor = config.MinEasinessFactor
	}
	if config.FailureInterval > 0 {
		params.FailureInterval = config.FailureInterval
	}
	if config.FirstInterval > 0 {
		params.FirstInterval = config.FirstInterval
	}
	if config.SecondInterval > 0 {
		params.SecondInterval = config.SecondInterval
	}

	return params
}
