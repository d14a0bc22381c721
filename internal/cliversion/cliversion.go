// Package cliversion holds the iotaa CLI's version identifier, overridden
// at build time via -ldflags.
package cliversion

// Version is the CLI's version identifier, printed by --version.
var Version = "dev"
