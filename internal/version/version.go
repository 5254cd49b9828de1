package version

import "github.com/fatih/color"

// Build metadata for the zajal CLI, overridable via -ldflags.

var (
	majorColor = color.New(color.FgMagenta, color.Bold)
	minorColor = color.New(color.FgCyan, color.Bold)
	patchColor = color.New(color.FgWhite)

	// Version is the semantic version of the runtime.
	Version = majorColor.Sprint("0") + "." + minorColor.Sprint("2") + "." + patchColor.Sprint("0") + "-dev"

	// GitCommit is an optional git commit hash.
	GitCommit = ""

	// BuildDate is an optional build date in ISO-8601.
	BuildDate = ""
)
