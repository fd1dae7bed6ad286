// Package ember holds shared metadata for the Ember CLI.
package ember

// Version is the current Ember release.
var Version = "0.3.0"
