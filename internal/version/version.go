// Package version reports build information for the ezexport CLI.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Set via ldflags. Builds without ldflags fall back to the module build info.
var (
	Version   = "v0.0.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// CUESDKVersion is the CUE module the preferences schema was written
// against, used when build info is unavailable.
const CUESDKVersion = "v0.15.4"

const cueModule = "cuelang.org/go"

// Info contains version information.
type Info struct {
	Version       string `json:"version"`
	GitCommit     string `json:"gitCommit"`
	BuildDate     string `json:"buildDate"`
	GoVersion     string `json:"goVersion"`
	CUESDKVersion string `json:"cueSDKVersion"`
}

// Get returns the current version information.
func Get() Info {
	info := Info{
		Version:       Version,
		GitCommit:     GitCommit,
		BuildDate:     BuildDate,
		GoVersion:     runtime.Version(),
		CUESDKVersion: CUESDKVersion,
	}
	if bi, ok := debug.ReadBuildInfo(); ok {
		fromBuildInfo(&info, bi)
	}
	return info
}

// fromBuildInfo fills values ldflags left at their defaults.
func fromBuildInfo(info *Info, bi *debug.BuildInfo) {
	for _, dep := range bi.Deps {
		if dep.Path == cueModule && dep.Version != "" {
			info.CUESDKVersion = dep.Version
		}
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			if info.GitCommit == "unknown" && len(s.Value) >= 7 {
				info.GitCommit = s.Value[:7]
			}
		case "vcs.time":
			if info.BuildDate == "unknown" {
				info.BuildDate = s.Value
			}
		}
	}
}

// String returns a human-readable version string.
func (i Info) String() string {
	return fmt.Sprintf("ezexport %s\n  commit: %s\n  built:  %s\n  go:     %s\n  cue:    %s",
		i.Version, i.GitCommit, i.BuildDate, i.GoVersion, i.CUESDKVersion)
}
