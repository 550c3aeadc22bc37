// Package config loads and validates pipeline configuration.
//
// Configuration is a YAML file with ${VAR} environment expansion, so
// secrets (API key ID, private key, database password) come from the
// environment while structure and tuning live in the file.
package config
