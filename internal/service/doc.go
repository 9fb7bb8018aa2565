// Package service contains the application use cases: decks and their
// cards, progress decks with review sessions and statistics, groups with
// invitations, and user registration. Services take the caller's user id
// explicitly on every call, coordinate the stores in internal/store inside
// transactions, and delegate scheduling to internal/domain/srs.
package service
