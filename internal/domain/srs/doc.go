// Package srs implements the SM-2 spaced-repetition schedule used for
// progress cards, and the selection of the cards a learner should see today.
//
// Everything in this package is pure: no I/O, no locking and no clock
// access. Callers pass "now" explicitly.
package srs
