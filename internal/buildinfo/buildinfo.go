package buildinfo

import "github.com/Masterminds/semver/v3"

// Version is set at build time via -ldflags.
var Version = "dev"

// Commit is set at build time via -ldflags.
var Commit = "unknown"

// Date is set at build time via -ldflags.
var Date = "unknown"

// Short returns a compact build identifier for UI/logging.
//
// Versions that parse as semver are normalized to "vMAJOR.MINOR.PATCH[-pre]".
// Anything else falls back to the commit.
func Short() string {
	if Version != "" && Version != "dev" {
		if v, err := semver.NewVersion(Version); err == nil {
			return "v" + v.String()
		}
	}
	if Commit != "" && Commit != "unknown" {
		if len(Commit) > 12 {
			return Commit[:12]
		}
		return Commit
	}
	return "dev"
}

// AtLeast reports whether the build version satisfies ">= min". Development
// builds always satisfy it.
func AtLeast(min string) bool {
	if Version == "" || Version == "dev" {
		return true
	}
	v, err := semver.NewVersion(Version)
	if err != nil {
		return false
	}
	c, err := semver.NewConstraint(">= " + min)
	if err != nil {
		return false
	}
	return c.Check(v)
}
