// Package cmd implements the tally subcommands for evaluating,
// formatting, and interactively exploring call specs.
package cmd

var (
	// CacheIdentifier is the kong variable identifier containing the path to
	// the runtime cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable identifier containing the path to
	// the default configuration file.
	ConfigIdentifier = "config"

	// PathIdentifier is the kong variable identifier containing the spec file
	// search path, with elements joined by the OS path list separator.
	PathIdentifier = "path"
)
