// Package platform detects the host OS, architecture and Linux distribution
// and exposes them to rules files as a read-only Lua table.
//
// Distribution details come from gopsutil. Detection never fails on an
// unfamiliar architecture or distribution; unknown values are passed through
// so a rules file can still branch on them.
package platform

import "context"

// Linux distribution family constants.
const (
	FamilyDebian  = "debian"  // Debian, Ubuntu, Linux Mint
	FamilyRHEL    = "rhel"    // RHEL, CentOS, Rocky Linux, AlmaLinux
	FamilyFedora  = "fedora"  // Fedora
	FamilySUSE    = "suse"    // openSUSE, SLES
	FamilyArch    = "arch"    // Arch Linux, Manjaro
	FamilyAlpine  = "alpine"  // Alpine Linux
	FamilyGentoo  = "gentoo"  // Gentoo
	FamilyUnknown = "unknown" // Unrecognized distributions
)

// Info contains platform detection information.
type Info struct {
	OS        string // "linux", "darwin", "windows"
	Arch      string // normalized GOARCH ("amd64", "arm64", ...)
	ArchRaw   string // GOARCH as reported by the runtime
	ArchToken string // release asset naming ("x86_64", "arm64", ...)
	Platform  string // distro ID (Linux only, e.g., "ubuntu", "arch")
	Family    string // canonical family (e.g., "debian", "rhel", "arch")
	Version   string // distro version (Linux only, e.g., "22.04")
}

// IsLinux returns true if the platform is Linux.
func (i *Info) IsLinux() bool {
	return i.OS == "linux"
}

// IsMacOS returns true if the platform is macOS.
func (i *Info) IsMacOS() bool {
	return i.OS == "darwin"
}

// IsWindows returns true if the platform is Windows.
func (i *Info) IsWindows() bool {
	return i.OS == "windows"
}

// IsAMD64 returns true if the architecture is amd64.
func (i *Info) IsAMD64() bool {
	return i.Arch == "amd64"
}

// IsARM64 returns true if the architecture is arm64.
func (i *Info) IsARM64() bool {
	return i.Arch == "arm64"
}

// HasDistro reports whether Linux distribution details were detected.
func (i *Info) HasDistro() bool {
	return i.IsLinux() && i.Platform != ""
}

// Detector is the interface for platform detection.
type Detector interface {
	Detect(ctx context.Context) (*Info, error)
}
