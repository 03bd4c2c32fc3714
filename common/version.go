package common

import (
	"fmt"
	"runtime"
)

// Build metadata of the git-parameter binary, stamped through -ldflags -X by the release build.
// Local builds keep the placeholders and report a "+unknown" development version.
var (
	version      = "99.99.99"
	buildDate    = "1970-01-01T00:00:00Z"
	gitCommit    = ""
	gitTag       = ""
	gitTreeState = "" // clean or dirty
)

const shortCommitLength = 7

// Version describes the running git-parameter binary. It is printed by the version command and
// logged when the parameter server starts.
type Version struct {
	Version      string
	BuildDate    string
	GitCommit    string
	GitTag       string
	GitTreeState string
	GoVersion    string
	Compiler     string
	Platform     string
}

func (v Version) String() string {
	return v.Version
}

// IsRelease reports whether the binary was built from a tagged commit of a clean checkout
func (v Version) IsRelease() bool {
	return v.GitCommit != "" && v.GitTag != "" && v.GitTreeState == "clean"
}

func GetVersion() Version {
	v := Version{
		BuildDate:    buildDate,
		GitCommit:    gitCommit,
		GitTag:       gitTag,
		GitTreeState: gitTreeState,
		GoVersion:    runtime.Version(),
		Compiler:     runtime.Compiler,
		Platform:     fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
	}
	if v.IsRelease() {
		v.Version = gitTag
		return v
	}
	v.Version = fmt.Sprintf("v%s+%s", version, buildSuffix())
	return v
}

// buildSuffix is the semver build metadata of a development build: the short commit, marked
// dirty when the checkout had local changes.
func buildSuffix() string {
	if len(gitCommit) < shortCommitLength {
		return "unknown"
	}
	suffix := gitCommit[:shortCommitLength]
	if gitTreeState != "clean" {
		suffix += ".dirty"
	}
	return suffix
}
