// Package version exposes build metadata for profview binaries and dumps.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

var (
	// Version is the application version, set via ldflags.
	Version string
	// Branch is the git branch, set via ldflags.
	Branch string
	// BuildUser is the user who built the binary, set via ldflags.
	BuildUser string
	// BuildDate is when the binary was built, set via ldflags.
	BuildDate string

	// Revision is the git commit revision.
	Revision = readRevision(debug.ReadBuildInfo)
	// GoVersion is the Go version used to build.
	GoVersion = runtime.Version()
	// GoOS is the operating system target.
	GoOS = runtime.GOOS
	// GoArch is the architecture target.
	GoArch = runtime.GOARCH
)

// Short returns [Version], or "dev" for builds without one. It appears in
// profile table dump headers.
func Short() string {
	if Version == "" {
		return "dev"
	}

	return Version
}

// Info returns a multi-line summary of the build metadata.
func Info() string {
	return fmt.Sprintf(
		"profview %s\n  revision: %s\n  branch: %s\n  build user: %s\n  build date: %s\n  go: %s %s/%s\n",
		Short(), Revision, orUnknown(Branch), orUnknown(BuildUser), orUnknown(BuildDate),
		GoVersion, GoOS, GoArch,
	)
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}

	return s
}

func readRevision(read func() (*debug.BuildInfo, bool)) string {
	rev := "unknown"

	buildInfo, ok := read()
	if !ok {
		return rev
	}

	modified := false

	for _, v := range buildInfo.Settings {
		switch v.Key {
		case "vcs.revision":
			rev = v.Value
		case "vcs.modified":
			modified = v.Value == "true"
		}
	}

	if modified {
		return rev + "-dirty"
	}

	return rev
}
