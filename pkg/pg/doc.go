// Package pg provides PostgreSQL connectivity for the platform: pool
// construction with startup retries, goose migrations from an embedded
// filesystem, a readiness probe, and error classification helpers.
package pg
