package srs

import (
	"math"
	"time"

	"github.com/langtogether/langtogether-api/internal/domain"
)

// calculateEasinessFactor applies the SM-2 easiness update for a successful
// recall of the given quality.
//
// Formula:
//
//	ef' = max(min, ef + 0.1 - (5-q) * (0.08 + (5-q) * 0.02))
//
// A perfect recall (q = 5) raises the factor by 0.1, q = 4 leaves it
// unchanged and lower grades shrink it. The floor keeps intervals growing
// even for cards the learner finds very hard.
func calculateEasinessFactor(current float64, quality int, params *Params) float64 {
	d := float64(params.MaxQuality - quality)
	return math.Max(params.MinEasinessFactor, current+0.1-d*(0.08+d*0.02))
}

// calculateInterval returns the interval in days for a card that has just
// reached the given repetition count.
//
// The first two successful reviews use fixed intervals. From the third
// review on, the previous interval is multiplied by the freshly computed
// easiness factor.
func calculateInterval(repetitions int, previous, easiness float64, params *Params) float64 {
	switch repetitions {
	case 1:
		return params.FirstInterval
	case 2:
		return params.SecondInterval
	default:
		return previous * easiness
	}
}

// addDays adds a fractional number of days to t.
func addDays(t time.Time, days float64) time.Time {
	return t.Add(time.Duration(days * float64(24*time.Hour)))
}

// statIncrementFor decides which daily counter a review touches. It must be
// called with the card state from before the review is applied.
//
// A card that was never reviewed counts as a new word whatever the grade.
// Otherwise only a successful review of a card with a running streak counts
// as reviewed.
func statIncrementFor(before *domain.ProgressCard, quality int, now time.Time) domain.StatIncrement {
	inc := domain.StatIncrement{
		ProgressDeckID: before.ProgressDeckID,
		Date:           domain.Day(now),
	}

	switch {
	case before.LastReviewedAt == nil:
		inc.IncrementNewWords = true
	case before.Repetitions > 0 && quality > 0:
		inc.IncrementReviewed = true
	}

	return inc
}

// applyReview is the pure SM-2 update. card is not modified.
//
// On a failed recall (quality < 1) the streak is reset and the card comes
// back after FailureInterval. The easiness factor and the stored quality are
// left untouched in that branch, so QualityOfRecall keeps the
// grade of the last successful review.
func applyReview(card *domain.ProgressCard, quality int, now time.Time, params *Params) *domain.ProgressCard {
	next := card.Clone()

	if quality < 1 {
		next.Repetitions = 0
		next.Interval = params.FailureInterval
	} else {
		next.QualityOfRecall = quality
		next.EasinessFactor = calculateEasinessFactor(card.EasinessFactor, quality, params)
		next.Repetitions++
		next.Interval = calculateInterval(next.Repetitions, card.Interval, next.EasinessFactor, params)
	}

	reviewed := now
	due := addDays(now, next.Interval)
	next.LastReviewedAt = &reviewed
	next.NextReviewAt = &due

	return next
}
