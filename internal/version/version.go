package version

import (
	"strings"

	"github.com/fatih/color"
)

// Build metadata, overridable at build time via -ldflags, e.g.
//
//	go build -ldflags "-X tessera/internal/version.GitCommit=$(git rev-parse --short HEAD)"
var (
	// Version is the semantic version of the CLI.
	Version = "0.1.0-dev"

	// GitCommit is an optional git commit hash.
	GitCommit = ""

	// BuildDate is an optional build date in ISO-8601.
	BuildDate = ""
)

var versionColor = color.New(color.FgYellow, color.Bold)

// String renders the version line shown by the CLI: the colored version
// number, then the commit and build date when they were injected.
func String() string {
	var sb strings.Builder
	sb.WriteString(versionColor.Sprint(Version))
	if GitCommit != "" {
		sb.WriteString(" (")
		sb.WriteString(GitCommit)
		sb.WriteString(")")
	}
	if BuildDate != "" {
		sb.WriteString(" built ")
		sb.WriteString(BuildDate)
	}
	return sb.String()
}
