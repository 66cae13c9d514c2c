// Package build is an importable repository of variables set at build
// time via linker flags, used in startup banners and fault messages.
package build

import "fmt"

var (
	// Version should be set via linker flag using the release tag.
	Version string = "unset"
	// Revision should be set via linker flag using the VCS commit hash.
	Revision string = ""
	// DirtyBuild marks a build made from an uncommitted tree.
	DirtyBuild bool = false

	// ProductName names the daemon in logs and startup banners.
	ProductName = "LID Manager"
	// DefaultGRPCPort is the default port lidmgrd listens on for
	// PortInfo transport RPCs.
	DefaultGRPCPort = 9712
)

func revString() string {
	if Revision == "" {
		return Version
	}
	rev := Revision
	if len(rev) > 7 {
		rev = rev[:7]
	}
	if DirtyBuild {
		return fmt.Sprintf("%s-%s-dirty", Version, rev)
	}
	return fmt.Sprintf("%s-%s", Version, rev)
}

// String returns a banner line naming the product and its build version.
func String() string {
	return fmt.Sprintf("%s version %s", ProductName, revString())
}
