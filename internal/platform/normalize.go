package platform

import (
	"strings"
)

// familyMap maps distribution names to their canonical family names.
// gopsutil reports families inconsistently across distributions.
var familyMap = map[string]string{
	"debian":   FamilyDebian,
	"ubuntu":   FamilyDebian,
	"rhel":     FamilyRHEL,
	"centos":   FamilyRHEL,
	"rocky":    FamilyRHEL,
	"fedora":   FamilyFedora,
	"suse":     FamilySUSE,
	"opensuse": FamilySUSE,
	"arch":     FamilyArch,
	"manjaro":  FamilyArch,
	"alpine":   FamilyAlpine,
	"gentoo":   FamilyGentoo,
}

// archTokens maps normalized architectures to the spelling most release
// assets use.
var archTokens = map[string]string{
	"amd64": "x86_64",
	"arm64": "arm64",
	"386":   "x86",
	"arm":   "armv7",
}

// normalizeArch converts GOARCH and uname spellings to GOARCH names.
// Unrecognized values are returned lower-cased.
func normalizeArch(arch string) string {
	a := strings.ToLower(strings.TrimSpace(arch))
	switch a {
	case "amd64", "x86_64", "x64":
		return "amd64"
	case "arm64", "aarch64":
		return "arm64"
	case "386", "i386", "i686", "x86":
		return "386"
	case "arm", "armv7", "armv7l":
		return "arm"
	default:
		return a
	}
}

// archToken returns the release naming token for a normalized arch.
func archToken(arch string) string {
	if token, ok := archTokens[arch]; ok {
		return token
	}
	return arch
}

// normalizePlatform converts platform IDs to lowercase for consistency.
func normalizePlatform(platform string) string {
	return strings.ToLower(strings.TrimSpace(platform))
}

// mapFamily maps distribution family strings to canonical family names.
func mapFamily(family string) string {
	normalized := strings.ToLower(strings.TrimSpace(family))
	if canonical, ok := familyMap[normalized]; ok {
		return canonical
	}
	return FamilyUnknown
}
