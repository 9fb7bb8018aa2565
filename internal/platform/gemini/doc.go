// Package gemini implements generation.Generator with Google's Gemini API.
//
// A prompt is rendered from an embedded template, sent with a JSON response
// type, and the returned cards are validated before they reach the caller.
// Transient API failures are retried with exponential backoff and jitter;
// blocked or malformed responses are not retried.
package gemini
