// Package version provides build-time version information for WineGallery.
// Variables are injected at build time via ldflags.
package version

import (
	"fmt"
	"runtime"
)

// Build-time variables injected via ldflags.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// BuildInfo is the version report served by the health endpoint and the
// version command.
type BuildInfo struct {
	Version   string `json:"version" yaml:"version"`
	GitCommit string `json:"git_commit" yaml:"git_commit"`
	BuildDate string `json:"build_date" yaml:"build_date"`
	GoVersion string `json:"go_version" yaml:"go_version"`
	OS        string `json:"os" yaml:"os"`
	Arch      string `json:"arch" yaml:"arch"`
}

// Get returns the current build information.
func Get() BuildInfo {
	return BuildInfo{
		Version:   Version,
		GitCommit: GitCommit,
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
	}
}

// Info returns a formatted version string suitable for --version output.
func Info() string {
	b := Get()
	return fmt.Sprintf("WineGallery %s (commit: %s, built: %s, go: %s, %s/%s)",
		b.Version, b.GitCommit, b.BuildDate, b.GoVersion, b.OS, b.Arch)
}

// Short returns just the version string (e.g., "1.2.0" or "dev").
func Short() string {
	return Version
}
