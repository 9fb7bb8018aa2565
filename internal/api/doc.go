// Package api exposes the deck, progress deck, group and authentication
// services over HTTP. Handlers decode typed JSON requests, validate them at
// the boundary, take the caller's identity from the request context and map
// service errors to status codes through HandleAPIError.
package api
