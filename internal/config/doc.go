// Package config loads application settings from a .env file, an optional
// config.yaml and LANGTOGETHER_-prefixed environment variables, and
// validates them before any component is built.
package config
