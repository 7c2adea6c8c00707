// Package version reports build metadata for the evmscan binary.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"
)

const (
	devVersion = "dev"
	unknown    = "unknown"
)

// Set by the linker:
//
//	-ldflags "-X github.com/mrz1836/evmscan/internal/version.version=v1.0.0"
//
//nolint:gochecknoglobals // linker-injected build metadata
var (
	version string
	commit  string
	date    string
)

// Info contains build information.
type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	Date      string `json:"date"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
}

// Get returns the build information of the running binary. Linker-injected
// values win; otherwise the module version and VCS stamp embedded by the Go
// toolchain are used.
func Get() Info {
	info := Info{
		Version:   version,
		Commit:    commit,
		Date:      date,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}

	if bi, ok := debug.ReadBuildInfo(); ok {
		fillFromBuildInfo(&info, bi)
	}
	return info
}

// fillFromBuildInfo fills empty fields from the toolchain's build stamp.
func fillFromBuildInfo(info *Info, bi *debug.BuildInfo) {
	if info.Version == "" && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		info.Version = bi.Main.Version
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			if info.Commit == "" {
				info.Commit = shortCommit(s.Value)
			}
		case "vcs.time":
			if info.Date == "" {
				info.Date = s.Value
			}
		}
	}
}

// String renders "v1.2.3 (commit: abc1234, built: 2024-01-15)".
func (i Info) String() string {
	v, c, d := i.Version, i.Commit, i.Date
	if v == "" {
		v = devVersion
	}
	if c == "" {
		c = unknown
	}
	if d == "" {
		d = unknown
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", v, c, d)
}

// IsDev reports whether the build carries no release version.
func (i Info) IsDev() bool {
	v := NormalizeVersion(i.Version)
	return v == "" || v == devVersion || isCommitHash(v)
}

// NormalizeVersion ensures version strings are in a consistent format.
// It removes the 'v' prefix, trims whitespace, and removes any pre-release
// or build metadata suffixes (e.g., -rc1, -dirty, +build).
func NormalizeVersion(version string) string {
	if idx := strings.IndexAny(version, "-+"); idx != -1 {
		version = version[:idx]
	}

	for {
		trimmed := strings.TrimSpace(version)
		trimmed = strings.TrimLeft(trimmed, "v")
		if trimmed == version {
			break
		}
		version = trimmed
	}

	return version
}

func shortCommit(rev string) string {
	if len(rev) > 7 {
		return rev[:7]
	}
	return rev
}

// isCommitHash checks if a string looks like a git commit hash: 7-40 hex
// characters with at least one letter, so "1234567" stays a number.
func isCommitHash(s string) bool {
	s = strings.TrimSuffix(s, "-dirty")

	if len(s) < 7 || len(s) > 40 {
		return false
	}

	hasLetter := false
	for _, c := range s {
		isDigit := c >= '0' && c <= '9'
		isLowerHex := c >= 'a' && c <= 'f'
		isUpperHex := c >= 'A' && c <= 'F'

		if !isDigit && !isLowerHex && !isUpperHex {
			return false
		}
		if isLowerHex || isUpperHex {
			hasLetter = true
		}
	}

	return hasLetter
}
