package version

import (
	"runtime/debug"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet(t *testing.T) {
	info := Get()

	require.NotEmpty(t, info.GoVersion)
	require.NotEmpty(t, info.CUESDKVersion)
	assert.Equal(t, Version, info.Version)
}

func TestFromBuildInfo(t *testing.T) {
	info := Info{GitCommit: "unknown", BuildDate: "unknown", CUESDKVersion: CUESDKVersion}
	fromBuildInfo(&info, &debug.BuildInfo{
		Deps: []*debug.Module{
			{Path: "github.com/spf13/cobra", Version: "v1.10.2"},
			{Path: "cuelang.org/go", Version: "v0.16.0"},
		},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "0123456789abcdef"},
			{Key: "vcs.time", Value: "2026-10-01T12:00:00Z"},
		},
	})

	assert.Equal(t, "v0.16.0", info.CUESDKVersion)
	assert.Equal(t, "0123456", info.GitCommit)
	assert.Equal(t, "2026-10-01T12:00:00Z", info.BuildDate)
}

func TestFromBuildInfo_KeepsLdflags(t *testing.T) {
	info := Info{GitCommit: "abc1234", BuildDate: "2026-01-29"}
	fromBuildInfo(&info, &debug.BuildInfo{
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "fedcba9876543210"},
			{Key: "vcs.time", Value: "2026-10-01T12:00:00Z"},
		},
	})

	assert.Equal(t, "abc1234", info.GitCommit)
	assert.Equal(t, "2026-01-29", info.BuildDate)
}

func TestInfoString(t *testing.T) {
	str := Info{
		Version:       "v1.0.0",
		GitCommit:     "abc123",
		BuildDate:     "2026-01-29",
		GoVersion:     "go1.25",
		CUESDKVersion: "v0.15.0",
	}.String()

	for _, want := range []string{"ezexport v1.0.0", "abc123", "2026-01-29", "go1.25", "v0.15.0"} {
		assert.Contains(t, str, want)
	}
}
