// Package config loads typed configuration structs from environment
// variables, with optional .env support for local development.
//
// Each config type is parsed once per process and cached, so every
// component reading the same config sees the same immutable values.
// Components declare their own Config struct with env tags and call
// Load (or MustLoad for startup-critical config).
package config
