// Package store defines the persistence contracts of the application.
//
// Every call that filters by owner takes the caller's user ID explicitly;
// no store reads identity from the context. Stores offer WithTx so that
// services can compose several calls into one transaction with
// RunInTransaction.
package store
