package build

import (
	"fmt"
	"runtime/debug"
	"strings"

	"golang.org/x/mod/semver"
)

// Name is the binary name, used in the User-Agent and as the catcher name.
const Name = "catcherprobe"

// Version of the probe. Set at build time via ldflags, or taken from the BuildInfo if "go install"ed.
// Supported values: "dev", any semver (with or without a 'v', if no 'v' exists, one will be added).
// Any invalid version will be replaced with "invalid (BAD_VERSION)".
var Version = "dev"

// Revision is the git hash which built this binary, from the "vcs.revision" setting.
var Revision string

// Modified is true if the binary was built from a dirty tree ("vcs.modified").
var Modified bool

// ModificationTime is the RFC3339 "vcs.time" setting.
var ModificationTime string

// buildInfoFunc matches debug.ReadBuildInfo.
type buildInfoFunc func() (*debug.BuildInfo, bool)

var readBuildInfo buildInfoFunc = debug.ReadBuildInfo

// setVersion normalises Version and fills the vcs variables.
// Only init and the unit tests call it.
func setVersion() {
	if Version == "dev" {
		if buildInfo, ok := readBuildInfo(); ok {
			if buildInfo.Main.Version != "" && buildInfo.Main.Version != "(devel)" {
				Version = buildInfo.Main.Version
			}
			for _, kv := range buildInfo.Settings {
				switch kv.Key {
				case "vcs.modified":
					Modified = kv.Value == "true"
				case "vcs.time":
					ModificationTime = kv.Value
				case "vcs.revision":
					Revision = kv.Value
				}
			}
		}
	}

	if Version == "dev" {
		return
	}

	orig := Version
	if !strings.HasPrefix(Version, "v") {
		Version = "v" + Version
	}
	if !semver.IsValid(Version) {
		Version = fmt.Sprintf("invalid (%s)", orig)
	}
}

// UserAgent identifies the probe on outbound requests, e.g. "catcherprobe/v1.2.3".
func UserAgent() string {
	return Name + "/" + Version
}

// Release is the value reported as the event release.
// The short revision is appended when known, so dev builds stay distinguishable.
func Release() string {
	if Revision == "" {
		return Version
	}
	rev := Revision
	if len(rev) > 7 {
		rev = rev[:7]
	}
	return Version + "+" + rev
}

func init() {
	setVersion()
}
