package version

// Version is overridden at release time via -ldflags.
var Version = "0.2.0"
