// Package version holds the build version.
package version

// Version is the application version. Overridden at build time via ldflags.
var Version = "0.3.0"
