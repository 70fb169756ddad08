package greenops

import (
	"github.com/Masterminds/semver/v3"
)

// versionsDiffer reports whether two calculation versions have different
// major versions. Unparseable or empty versions are not flagged.
func versionsDiffer(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	va, errA := semver.NewVersion(a)
	vb, errB := semver.NewVersion(b)
	if errA != nil || errB != nil {
		return false
	}
	return va.Major() != vb.Major()
}
