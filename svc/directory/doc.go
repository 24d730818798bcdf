// Package directory is the tenant-management data service backing the
// resolver core: a Postgres repository of tenant records, a service
// that keeps the in-memory directory loaded and periodically
// refreshed, and an optional Redis lookaside cache shared across
// backend instances.
package directory
