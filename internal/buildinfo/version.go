// Package buildinfo carries values stamped in at link time
package buildinfo

// Version is set with -ldflags "-X github.com/YoshitsuguKoike/taskcore/internal/buildinfo.Version=v0.1.0"
var Version = "dev"

// GetVersion returns Version, or "dev" for unstamped builds
func GetVersion() string {
	if Version == "" {
		return "dev"
	}
	return Version
}
