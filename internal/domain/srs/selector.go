package srs

import (
	"sort"
	"time"

	"github.com/langtogether/langtogether-api/internal/domain"
)

// CardCounts summarises what a learner has left to do today.
type CardCounts struct {
	NewCards      int `json:"new_cards"`
	LearningCards int `json:"learning_cards"`
	ReviewCards   int `json:"review_cards"`
}

// SelectForSession builds today's review queue for one progress deck:
//
//  1. up to max(0, dailyCardLimit-newWordsLearned) new cards,
//  2. cards due on or before today with a running streak and a positive
//     last grade, earliest due first,
//  3. every card whose last recall failed, regardless of due date.
//
// The groups are concatenated in that order and never re-sorted across
// groups. The first element is the next card to show; callers rebuild the
// queue after every review. An empty result means nothing is left for today.
//
// cards is not modified.
func SelectForSession(cards []domain.ProgressCard, dailyCardLimit, newWordsLearned int, today time.Time) []domain.ProgressCard {
	ordered := sortByNextReview(cards)
	day := domain.Day(today)
	quota := remainingQuota(dailyCardLimit, newWordsLearned)

	var fresh, review, failed []domain.ProgressCard
	for i := range ordered {
		c := &ordered[i]
		if c.IsNew() && len(fresh) < quota {
			fresh = append(fresh, *c)
		}
		if c.Repetitions > 0 && c.QualityOfRecall > 0 && dueBy(c, day) {
			review = append(review, *c)
		}
		if isFailed(c) {
			failed = append(failed, *c)
		}
	}

	queue := make([]domain.ProgressCard, 0, len(fresh)+len(review)+len(failed))
	queue = append(queue, fresh...)
	queue = append(queue, review...)
	queue = append(queue, failed...)
	return queue
}

// CountCards returns the new, learning and review counts shown on a deck's
// overview. The review count does not require a running streak, unlike the
// review group of SelectForSession.
func CountCards(cards []domain.ProgressCard, dailyCardLimit, newWordsLearned int, today time.Time) CardCounts {
	day := domain.Day(today)
	counts := CardCounts{NewCards: remainingQuota(dailyCardLimit, newWordsLearned)}

	for i := range cards {
		c := &cards[i]
		if isFailed(c) {
			counts.LearningCards++
		}
		if c.QualityOfRecall > 0 && dueBy(c, day) {
			counts.ReviewCards++
		}
	}

	return counts
}

func remainingQuota(dailyCardLimit, newWordsLearned int) int {
	if q := dailyCardLimit - newWordsLearned; q > 0 {
		return q
	}
	return 0
}

// isFailed matches cards in the retry loop: reviewed at least once and the
// stored grade is zero. Both the queue and the counts use it.
func isFailed(c *domain.ProgressCard) bool {
	return c.QualityOfRecall == 0 && c.LastReviewedAt != nil
}

// dueBy reports whether the card's next review falls on or before day.
// Unscheduled cards are never due.
func dueBy(c *domain.ProgressCard, day time.Time) bool {
	if c.NextReviewAt == nil {
		return false
	}
	return !domain.Day(*c.NextReviewAt).After(day)
}

// sortByNextReview returns a copy of cards stably ordered by next review
// time with unscheduled cards last.
func sortByNextReview(cards []domain.ProgressCard) []domain.ProgressCard {
	ordered := make([]domain.ProgressCard, len(cards))
	copy(ordered, cards)
	sort.SliceStable(ordered, func(i, j int) bool {
		a, b := ordered[i].NextReviewAt, ordered[j].NextReviewAt
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return a.Before(*b)
		}
	})
	return ordered
}
