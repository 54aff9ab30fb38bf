// Package config provides functionality for loading and managing application configuration.
//
// Settings come from defaults, an optional YAML file and RSAKEY_-prefixed environment
// variables, in increasing order of precedence, and are validated before use.
package config
