// Package logger builds slog loggers with a consistent handler chain:
// JSON or text encoding, static service attributes, and context
// extractors that annotate every record with request-scoped values
// such as the resolved tenant ID.
package logger
