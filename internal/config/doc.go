// Package config loads, validates, and defaults the TOML configuration used
// by the videoai daemon and CLI.
//
// Configuration lives in a single config.toml with one section per subsystem.
// Secrets can be supplied through the environment (optionally via a .env
// file); environment values take precedence over file values so deployments
// never need credentials on disk.
package config
