package domain

import (
	"time"

	"github.com/google/uuid"
)

// DailyStatistic counts a progress deck's review activity on one UTC day.
// There is at most one row per (ProgressDeckID, Date). Counters only grow.
type DailyStatistic struct {
	ID              uuid.UUID `json:"id"`
	ProgressDeckID  uuid.UUID `json:"progress_deck_id"`
	Date            time.Time `json:"date"`
	NewWordsLearned int       `json:"new_words_learned"`
	WordsReviewed   int       `json:"words_reviewed"`
}

// CombinedStatistic is a per-day aggregate across several progress decks.
// UserName is only filled in for group statistics.
type CombinedStatistic struct {
	Date            time.Time `json:"date"`
	NewWordsLearned int       `json:"new_words_learned"`
	WordsReviewed   int       `json:"words_reviewed"`
	UserName        string    `json:"user_name,omitempty"`
}

// StatIncrement is the instruction produced by a review for the daily
// statistic of the reviewed card's deck. At most one flag is set.
type StatIncrement struct {
	ProgressDeckID    uuid.UUID
	Date              time.Time
	IncrementNewWords bool
	IncrementReviewed bool
}

// IsZero reports whether the increment changes nothing.
func (s StatIncrement) IsZero() bool {
	return !s.IncrementNewWords && !s.IncrementReviewed
}

// Day truncates t to midnight UTC. Statistic dates and "today" comparisons
// are always made on UTC calendar days.
func Day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
