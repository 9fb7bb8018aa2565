// Package domain contains the core business entities of the flashcard
// service: users, decks and their cards, learner-owned progress decks with
// their review state, daily statistics, groups and invitations.
//
// Entities here carry their own validation but know nothing about storage
// or HTTP. The spaced-repetition arithmetic lives in the srs subpackage.
package domain
