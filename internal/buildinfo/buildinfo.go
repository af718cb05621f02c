package buildinfo

import (
	"fmt"
	"runtime/debug"
	"strings"
)

// Set at build time, e.g.
//
//	go build -ldflags "-X github.com/bemanproject/beman-init/internal/buildinfo.Version=1.2.0"
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// Info is the build metadata of the running binary.
type Info struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
}

// GetInfo returns the stamped build metadata. A binary installed with
// `go install` carries no ldflags, so the module version recorded by the Go
// toolchain replaces "dev" when one is available.
func GetInfo() Info {
	info := Info{Version: Version, Commit: Commit, Date: Date}
	if info.Version == "dev" {
		if bi, ok := debug.ReadBuildInfo(); ok && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
			info.Version = strings.TrimPrefix(bi.Main.Version, "v")
		}
	}
	return info
}

// String renders the info the way `beman-init --version` prints it:
// "beman-init v1.2.0 (commit: a1b2c3d, built: 2026-02-17T10:00:00Z)".
func (i Info) String() string {
	return fmt.Sprintf("beman-init v%s (commit: %s, built: %s)", i.Version, i.Commit, i.Date)
}
