// Package version holds the build fingerprint of the lowerjs CLI. The
// variables are set at build time with -ldflags "-X".
package version

import "github.com/fatih/color"

var (
	// Version is the semantic version; "dev" when built without ldflags.
	Version = "0.1.0-dev"

	GitCommit  = ""
	GitMessage = ""
	// BuildDate is ISO-8601.
	BuildDate = ""
)

var (
	majorColor = color.New(color.FgYellow, color.Bold)
	restColor  = color.New(color.FgGreen)
)

// Colored renders v with the major component highlighted. Colors follow
// color.NoColor unless force is set.
func Colored(v string, force bool) string {
	major, rest := v, ""
	for i := 0; i < len(v); i++ {
		if v[i] == '.' {
			major, rest = v[:i], v[i:]
			break
		}
	}
	m, r := *majorColor, *restColor
	if force {
		m.EnableColor()
		r.EnableColor()
	}
	return m.Sprint(major) + r.Sprint(rest)
}
