// Package jobs runs the background maintenance of the API on a gocron
// scheduler. The only job removes invitations nobody answered within the
// configured time to live.
package jobs
