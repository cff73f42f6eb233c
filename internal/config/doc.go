// Package config loads and validates the engine configuration.
//
// Configuration is layered the usual way: built-in defaults, then an
// optional YAML file, then HFM_-prefixed environment variables on
// top. Validation combines struct tags with the semantic checks the
// tags cannot express; every violation surfaces as a fatal
// ConfigError before any computation starts.
package config
