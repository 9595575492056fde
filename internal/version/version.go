package version

import (
	"fmt"
	"runtime/debug"
	"strings"

	"github.com/fatih/color"
)

// Version information for the stencil CLI.
// These variables can be overridden at build time via -ldflags.

var (
	versionMajorColor = color.New(color.FgYellow, color.Bold)
	versionMinorColor = color.New(color.FgGreen, color.Bold)
	versionPatchColor = color.New(color.FgBlue, color.Bold)

	// Version is the semantic version of the CLI. It also salts the
	// expansion cache key, so a new release never reuses old output.
	Version = "0.1.0-dev"

	// GitCommit is an optional git commit hash.
	GitCommit = ""

	// GitMessage is an optional git commit message.
	GitMessage = ""

	// BuildDate is an optional build date in ISO-8601.
	BuildDate = ""
)

// Colored renders Version with each numeric component colored.
func Colored() string {
	core, suffix, _ := strings.Cut(Version, "-")
	parts := strings.SplitN(core, ".", 3)
	if len(parts) != 3 {
		return Version
	}
	out := versionMajorColor.Sprint(parts[0]) + "." +
		versionMinorColor.Sprint(parts[1]) + "." +
		versionPatchColor.Sprint(parts[2])
	if suffix != "" {
		out += "-" + suffix
	}
	return out
}

// Info returns the multi-line build description printed by `version --full`.
func Info() string {
	var b strings.Builder
	fmt.Fprintf(&b, "stencil %s\n", Colored())
	commit := GitCommit
	if commit == "" {
		if bi, ok := debug.ReadBuildInfo(); ok {
			for _, s := range bi.Settings {
				if s.Key == "vcs.revision" {
					commit = s.Value
				}
			}
		}
	}
	if commit != "" {
		fmt.Fprintf(&b, "commit: %s\n", commit)
	}
	if GitMessage != "" {
		fmt.Fprintf(&b, "message: %s\n", GitMessage)
	}
	if BuildDate != "" {
		fmt.Fprintf(&b, "built: %s\n", BuildDate)
	}
	return b.String()
}
