// Package meta holds build metadata shared by the CLI subcommands.
package meta

// Version is the release version printed by serve and doctor.
const Version = "1.0.0"
