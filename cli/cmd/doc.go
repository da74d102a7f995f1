// Package cmd implements the ccnt subcommands.
//
// Commands read their shared settings from the [context.Context] passed to
// Run: the parsed [kong.Context] (see [WithContext]) and the global flags
// (see [WithGlobals]).
package cmd

var (
	// CacheIdentifier is the kong variable identifier containing the path to
	// the runtime cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable identifier containing the path to
	// the CLI configuration file.
	ConfigIdentifier = "config"
)
