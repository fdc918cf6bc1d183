// Package version holds the tramy build version.
package version

// Version is overridden at build time with -ldflags "-X".
var Version = "0.3.0"

// SchemaVersion is the config.yaml schema revision this build writes.
const SchemaVersion = "2.0"
