// Package redis provides Redis connectivity with startup retries and a
// readiness probe. The platform uses it for the shared tenant-lookup
// cache in front of the directory store.
package redis
