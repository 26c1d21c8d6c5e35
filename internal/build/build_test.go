package build

import (
	"runtime/debug"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestVersion(t *testing.T) {
	tests := []struct {
		name          string
		versionFunc   func()
		buildInfoFunc buildInfoFunc
		exp           string
	}{
		{
			name: "default",
			exp:  "dev",
		},
		{
			name:        "no v prefix",
			versionFunc: func() { Version = "9.8.7" },
			exp:         "v9.8.7",
		},
		{
			name:        "v prefix",
			versionFunc: func() { Version = "v3.1.4" },
			exp:         "v3.1.4",
		},
		{
			name:          "non-ok BuildInfo",
			buildInfoFunc: func() (*debug.BuildInfo, bool) { return nil, false },
			exp:           "dev",
		},
		{
			name:        "version non-dev, BuildInfo ignored",
			versionFunc: func() { Version = "5.5.5" },
			buildInfoFunc: func() (*debug.BuildInfo, bool) {
				return &debug.BuildInfo{Main: debug.Module{Version: "v9.9.9"}}, true
			},
			exp: "v5.5.5",
		},
		{
			name: "version dev, BuildInfo honored",
			buildInfoFunc: func() (*debug.BuildInfo, bool) {
				return &debug.BuildInfo{Main: debug.Module{Version: "v9.9.9"}}, true
			},
			exp: "v9.9.9",
		},
		{
			name: "version dev, devel BuildInfo",
			buildInfoFunc: func() (*debug.BuildInfo, bool) {
				return &debug.BuildInfo{Main: debug.Module{Version: "(devel)"}}, true
			},
			exp: "dev",
		},
		{
			name:        "invalid version defined",
			versionFunc: func() { Version = "bad.version" },
			exp:         "invalid (bad.version)",
		},
		{
			name: "invalid version from buildInfo",
			buildInfoFunc: func() (*debug.BuildInfo, bool) {
				return &debug.BuildInfo{Main: debug.Module{Version: "BAD_BUILD"}}, true
			},
			exp: "invalid (BAD_BUILD)",
		},
	}

	origReadBuildInfo := readBuildInfo
	origVersion := Version
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Cleanup(func() {
				readBuildInfo = origReadBuildInfo
				Version = origVersion
			})
			Version = "dev"
			if tt.buildInfoFunc != nil {
				readBuildInfo = tt.buildInfoFunc
			} else {
				readBuildInfo = func() (*debug.BuildInfo, bool) { return nil, false }
			}
			if tt.versionFunc != nil {
				tt.versionFunc()
			}
			setVersion()

			if d := cmp.Diff(tt.exp, Version); d != "" {
				t.Error("Version differed (-want, +got):", d)
			}
		})
	}
}

func TestVersion_VCSSettings(t *testing.T) {
	origReadBuildInfo := readBuildInfo
	origVersion, origRevision, origTime, origModified := Version, Revision, ModificationTime, Modified
	t.Cleanup(func() {
		readBuildInfo = origReadBuildInfo
		Version, Revision, ModificationTime, Modified = origVersion, origRevision, origTime, origModified
	})

	Version = "dev"
	readBuildInfo = func() (*debug.BuildInfo, bool) {
		return &debug.BuildInfo{Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "d34db33fcafe"},
			{Key: "vcs.time", Value: "2024-01-02T03:04:05Z"},
			{Key: "vcs.modified", Value: "true"},
		}}, true
	}
	setVersion()

	if d := cmp.Diff("d34db33fcafe", Revision); d != "" {
		t.Error("Revision differed (-want, +got):", d)
	}
	if d := cmp.Diff("2024-01-02T03:04:05Z", ModificationTime); d != "" {
		t.Error("ModificationTime differed (-want, +got):", d)
	}
	if !Modified {
		t.Error("Modified should be true")
	}
}

func TestUserAgentAndRelease(t *testing.T) {
	origVersion, origRevision := Version, Revision
	t.Cleanup(func() { Version, Revision = origVersion, origRevision })

	Version = "v1.2.3"
	Revision = ""
	if d := cmp.Diff("catcherprobe/v1.2.3", UserAgent()); d != "" {
		t.Error("UserAgent differed (-want, +got):", d)
	}
	if d := cmp.Diff("v1.2.3", Release()); d != "" {
		t.Error("Release differed (-want, +got):", d)
	}

	Revision = "d34db33fcafe"
	if d := cmp.Diff("v1.2.3+d34db33", Release()); d != "" {
		t.Error("Release differed (-want, +got):", d)
	}
}
