package fetch

import (
	"archive/tar"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zip"
	"github.com/ulikunitz/xz"
)

// DetectFormat maps an asset name to its archive format by suffix.
// Suffixes are matched exactly, so "x.ZIP" is unsupported.
func DetectFormat(name string) (Format, error) {
	switch {
	case strings.HasSuffix(name, ".tar.gz"), strings.HasSuffix(name, ".tgz"):
		return FormatTarGz, nil
	case strings.HasSuffix(name, ".tar.xz"):
		return FormatTarXz, nil
	case strings.HasSuffix(name, ".zip"):
		return FormatZip, nil
	default:
		return FormatUnknown, &UnsupportedFormatError{Name: name}
	}
}

// Extractor handles archive extraction
type Extractor struct{}

// NewExtractor creates a new extractor
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract unpacks archivePath into destDir using the reader for format.
// destDir is created if needed and existing files in it are overwritten.
func (e *Extractor) Extract(archivePath string, format Format, destDir string) error {
	switch format {
	case FormatTarGz:
		return e.ExtractTarGz(archivePath, destDir)
	case FormatTarXz:
		return e.ExtractTarXz(archivePath, destDir)
	case FormatZip:
		return e.ExtractZip(archivePath, destDir)
	default:
		return &UnsupportedFormatError{Name: filepath.Base(archivePath)}
	}
}

// ExtractTarGz extracts a .tar.gz archive to a destination directory
func (e *Extractor) ExtractTarGz(archivePath, destDir string) error {
	// Open archive file
	archiveFile, err := os.Open(archivePath)
	if err != nil {
		return fmt.Errorf("open archive: %w", err)
	}
	defer archiveFile.Close()

	// Create gzip reader
	gzipReader, err := gzip.NewReader(archiveFile)
	if err != nil {
		return fmt.Errorf("create gzip reader: %w", err)
	}
	defer gzipReader.Close()

	return extractTar(tar.NewReader(gzipReader), destDir)
}

// ExtractTarXz extracts a .tar.xz archive to a destination directory
func (e *Extractor) ExtractTarXz(archivePath, destDir string) error {
	archiveFile, err := os.Open(archivePath)
	if err != nil {
		return fmt.Errorf("open archive: %w", err)
	}
	defer archiveFile.Close()

	// Create xz reader
	xzReader, err := xz.NewReader(archiveFile)
	if err != nil {
		return fmt.Errorf("create xz reader: %w", err)
	}

	return extractTar(tar.NewReader(xzReader), destDir)
}

// ExtractZip extracts a .zip archive to a destination directory
func (e *Extractor) ExtractZip(archivePath, destDir string) error {
	zipReader, err := zip.OpenReader(archivePath)
	if err != nil {
		return fmt.Errorf("open zip: %w", err)
	}
	defer zipReader.Close()

	if err := os.MkdirAll(destDir, 0755); err != nil {
		return fmt.Errorf("create dest dir: %w", err)
	}

	for _, f := range zipReader.File {
		// Security check: prevent path traversal
		target, err := safeEntryPath(destDir, f.Name)
		if err != nil {
			return err
		}

		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0755); err != nil {
				return fmt.Errorf("create directory %s: %w", target, err)
			}
			continue
		}

		rc, err := f.Open()
		if err != nil {
			return fmt.Errorf("open %s in zip: %w", f.Name, err)
		}
		err = writeFile(target, rc, f.Mode())
		rc.Close()
		if err != nil {
			return err
		}
	}

	return nil
}

// extractTar writes every entry of r below destDir
func extractTar(r *tar.Reader, destDir string) error {
	// Create destination directory
	if err := os.MkdirAll(destDir, 0755); err != nil {
		return fmt.Errorf("create dest dir: %w", err)
	}

	for {
		header, err := r.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read tar header: %w", err)
		}

		// Security check: prevent path traversal, lexically and through
		// symlinks already on disk
		target, err := safeEntryPath(destDir, header.Name)
		if err != nil {
			return err
		}

		switch header.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, 0755); err != nil {
				return fmt.Errorf("create directory %s: %w", target, err)
			}

		case tar.TypeReg:
			if err := writeFile(target, r, os.FileMode(header.Mode)); err != nil {
				return err
			}

		case tar.TypeSymlink:
			if err := symlinkWithin(destDir, target, header.Name, header.Linkname); err != nil {
				return err
			}

		case tar.TypeLink:
			if err := hardLinkWithin(destDir, target, header.Name, header.Linkname); err != nil {
				return err
			}

		default:
			// Skip other types (char devices, block devices, fifos, etc.)
			continue
		}
	}
}

// entryPath resolves an archive entry name below destDir and rejects names
// that escape it. The check is lexical only.
func entryPath(destDir, name string) (string, error) {
	root := filepath.Clean(destDir)
	target := filepath.Join(root, name)
	if !within(root, target) {
		return "", &IllegalPathError{Entry: name}
	}
	return target, nil
}

// safeEntryPath is entryPath plus a check that no directory between destDir
// and the entry is a symlink, so a link extracted earlier cannot redirect
// the write.
func safeEntryPath(destDir, name string) (string, error) {
	target, err := entryPath(destDir, name)
	if err != nil {
		return "", err
	}
	if err := noSymlinkParents(filepath.Clean(destDir), target, name); err != nil {
		return "", err
	}
	return target, nil
}

// noSymlinkParents walks the directories from root down to target's parent.
// Components that do not exist yet are fine: MkdirAll creates them as
// plain directories.
func noSymlinkParents(root, target, name string) error {
	if target == root {
		return nil
	}
	rel, err := filepath.Rel(root, filepath.Dir(target))
	if err != nil {
		return &IllegalPathError{Entry: name}
	}
	if rel == "." {
		return nil
	}

	current := root
	for _, part := range strings.Split(rel, string(os.PathSeparator)) {
		current = filepath.Join(current, part)
		fi, err := os.Lstat(current)
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return fmt.Errorf("stat %s: %w", current, err)
		}
		if fi.Mode()&os.ModeSymlink != 0 {
			return &IllegalPathError{Entry: name}
		}
	}
	return nil
}

func within(root, target string) bool {
	if target == root {
		return true
	}
	prefix := root
	if !strings.HasSuffix(prefix, string(os.PathSeparator)) {
		prefix += string(os.PathSeparator)
	}
	return strings.HasPrefix(target, prefix)
}

// symlinkWithin creates target -> linkname, refusing links that point
// outside destDir. ".." is only accepted as a leading component: "a/.."
// would be resolved through whatever "a" is at lookup time, which may be
// a link itself.
func symlinkWithin(destDir, target, name, linkname string) error {
	illegal := &IllegalPathError{Entry: name + " -> " + linkname}

	if filepath.IsAbs(linkname) || linkname == "" {
		return illegal
	}
	descending := false
	for _, part := range strings.Split(filepath.ToSlash(linkname), "/") {
		switch part {
		case "..":
			if descending {
				return illegal
			}
		case "", ".":
		default:
			descending = true
		}
	}
	resolved := filepath.Join(filepath.Dir(target), linkname)
	if !within(filepath.Clean(destDir), resolved) {
		return illegal
	}

	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return fmt.Errorf("create parent dir for %s: %w", target, err)
	}
	if err := clearTarget(target); err != nil {
		return err
	}
	if err := os.Symlink(linkname, target); err != nil {
		return fmt.Errorf("create symlink %s: %w", target, err)
	}
	return nil
}

// hardLinkWithin creates target as a hard link to the archive member
// linkname. The source must be a regular file reached without following
// symlinks; a hard-linked symlink would re-resolve its relative target from
// the new location.
func hardLinkWithin(destDir, target, name, linkname string) error {
	source, err := safeEntryPath(destDir, linkname)
	if err != nil {
		return err
	}
	fi, err := os.Lstat(source)
	if err != nil {
		return fmt.Errorf("stat link source %s: %w", source, err)
	}
	if !fi.Mode().IsRegular() {
		return &IllegalPathError{Entry: name + " => " + linkname}
	}

	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return fmt.Errorf("create parent dir for %s: %w", target, err)
	}
	if err := clearTarget(target); err != nil {
		return err
	}
	if err := os.Link(source, target); err != nil {
		return fmt.Errorf("create hard link %s: %w", target, err)
	}
	return nil
}

// writeFile writes src to target with the entry's permission bits,
// replacing whatever is there.
func writeFile(target string, src io.Reader, mode os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return fmt.Errorf("create parent dir for %s: %w", target, err)
	}
	if err := clearTarget(target); err != nil {
		return err
	}

	// Preserve permission bits, falling back to rw-r--r--
	perm := mode.Perm()
	if perm == 0 {
		perm = 0644
	}

	outFile, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, perm)
	if err != nil {
		return fmt.Errorf("create file %s: %w", target, err)
	}

	if _, err := io.Copy(outFile, src); err != nil {
		outFile.Close()
		return fmt.Errorf("write file %s: %w", target, err)
	}

	if err := outFile.Close(); err != nil {
		return fmt.Errorf("close file %s: %w", target, err)
	}
	return nil
}

// clearTarget removes a non-directory entry at target so it can be replaced.
// Writing through an existing symlink could otherwise leave destDir.
func clearTarget(target string) error {
	fi, err := os.Lstat(target)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("stat %s: %w", target, err)
	}
	if fi.IsDir() {
		return nil
	}
	if err := os.Remove(target); err != nil {
		return fmt.Errorf("replace %s: %w", target, err)
	}
	return nil
}
