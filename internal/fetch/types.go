package fetch

import (
	"fmt"
	"time"

	"github.com/ZebulonRouseFrantzich/qbdifetch/internal/release"
)

const (
	// DefaultTag is used when no tag is requested
	DefaultTag = "v0.12.0"
	// DefaultOutputDir is used when no output directory is requested
	DefaultOutputDir = "/opt/qbdi"
)

// Format identifies an archive format
type Format int

const (
	// FormatUnknown is the zero value and is never returned with a nil error
	FormatUnknown Format = iota
	// FormatTarGz is a gzip-compressed tar archive (.tar.gz, .tgz)
	FormatTarGz
	// FormatTarXz is an xz-compressed tar archive (.tar.xz)
	FormatTarXz
	// FormatZip is a zip archive (.zip)
	FormatZip
)

// String returns the string representation of the format
func (f Format) String() string {
	switch f {
	case FormatTarGz:
		return "tar.gz"
	case FormatTarXz:
		return "tar.xz"
	case FormatZip:
		return "zip"
	default:
		return "unknown"
	}
}

// Request names the release to install and where to put it
type Request struct {
	// Tag is the release tag (default: DefaultTag)
	Tag string
	// OutputDir receives the archive contents (default: DefaultOutputDir)
	OutputDir string
}

// InstallResult describes a completed install
type InstallResult struct {
	Tag       string
	Asset     release.Asset
	Rule      string
	Format    Format
	OutputDir string
	// ArchivePath is where the archive was downloaded. It has been removed
	// by the time Install returns.
	ArchivePath string
	Duration    time.Duration
}

// UnsupportedFormatError is returned for asset names with no known archive suffix
type UnsupportedFormatError struct {
	Name string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported archive format: %s", e.Name)
}

// IllegalPathError is returned for archive entries that would be written
// outside the output directory
type IllegalPathError struct {
	Entry string
}

func (e *IllegalPathError) Error() string {
	return fmt.Sprintf("illegal file path in archive: %s", e.Entry)
}
