package version

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// Version information for the polyc CLI.
// These variables can be overridden at build time via -ldflags.
var (
	// Version is the semantic version of the CLI.
	Version = "0.1.0-dev"

	// GitCommit is an optional git commit hash.
	GitCommit = ""

	// GitMessage is an optional git commit message.
	GitMessage = ""

	// BuildDate is an optional build date in ISO-8601.
	BuildDate = ""
)

var (
	versionMajorColor = color.New(color.FgYellow, color.Bold)
	versionMinorColor = color.New(color.FgGreen, color.Bold)
	versionPatchColor = color.New(color.FgBlue, color.Bold)
)

// Colored раскрашивает major.minor.patch, суффикс остаётся как есть.
func Colored(enabled bool) string {
	core, suffix, _ := strings.Cut(Version, "-")
	parts := strings.SplitN(core, ".", 3)
	if len(parts) != 3 {
		return Version
	}
	paint := func(c *color.Color, s string) string {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		return c.Sprint(s)
	}
	out := paint(versionMajorColor, parts[0]) + "." + paint(versionMinorColor, parts[1]) + "." + paint(versionPatchColor, parts[2])
	if suffix != "" {
		out += "-" + suffix
	}
	return out
}

// Banner is the multi-line text printed by `polyc version`.
func Banner(colored bool, languages []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "polyc %s\n", Colored(colored))
	if GitCommit != "" {
		fmt.Fprintf(&b, "commit: %s", GitCommit)
		if GitMessage != "" {
			fmt.Fprintf(&b, " (%s)", GitMessage)
		}
		b.WriteByte('\n')
	}
	if BuildDate != "" {
		fmt.Fprintf(&b, "built: %s\n", BuildDate)
	}
	if len(languages) > 0 {
		fmt.Fprintf(&b, "languages: %s\n", strings.Join(languages, ", "))
	}
	return b.String()
}
