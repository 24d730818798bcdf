// Package httpserver wraps http.Server with graceful shutdown, option
// based configuration, and probe handlers for liveness and readiness.
package httpserver
