package fetch

import (
	"archive/tar"
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/require"
	"github.com/ulikunitz/xz"
)

// testEntry describes one archive member used by the archive builders.
type testEntry struct {
	Name     string
	Body     string
	Mode     int64
	Type     byte // tar type flag; 0 means regular file
	Linkname string
}

var sampleEntries = []testEntry{
	{Name: "qbdi/", Type: tar.TypeDir, Mode: 0755},
	{Name: "qbdi/include/QBDI.h", Body: "#pragma once\n", Mode: 0644},
	{Name: "qbdi/lib/libQBDI.so", Body: "ELF...", Mode: 0755},
}

func writeTar(t *testing.T, w io.Writer, entries []testEntry) {
	t.Helper()
	tw := tar.NewWriter(w)
	for _, e := range entries {
		typ := e.Type
		if typ == 0 {
			typ = tar.TypeReg
		}
		mode := e.Mode
		if mode == 0 {
			mode = 0644
		}
		hdr := &tar.Header{
			Name:     e.Name,
			Mode:     mode,
			Typeflag: typ,
			Linkname: e.Linkname,
		}
		if typ == tar.TypeReg {
			hdr.Size = int64(len(e.Body))
		}
		require.NoError(t, tw.WriteHeader(hdr))
		if typ == tar.TypeReg {
			_, err := tw.Write([]byte(e.Body))
			require.NoError(t, err)
		}
	}
	require.NoError(t, tw.Close())
}

func buildTarGz(t *testing.T, entries []testEntry) []byte {
	t.Helper()
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	writeTar(t, gz, entries)
	require.NoError(t, gz.Close())
	return buf.Bytes()
}

func buildTarXz(t *testing.T, entries []testEntry) []byte {
	t.Helper()
	var buf bytes.Buffer
	xw, err := xz.NewWriter(&buf)
	require.NoError(t, err)
	writeTar(t, xw, entries)
	require.NoError(t, xw.Close())
	return buf.Bytes()
}

func buildZip(t *testing.T, entries []testEntry) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, e := range entries {
		fh := &zip.FileHeader{Name: e.Name, Method: zip.Deflate}
		if e.Type == tar.TypeDir {
			fh.SetMode(os.ModeDir | 0755)
		} else if e.Mode != 0 {
			fh.SetMode(os.FileMode(e.Mode))
		}
		w, err := zw.CreateHeader(fh)
		require.NoError(t, err)
		if e.Type != tar.TypeDir {
			_, err = w.Write([]byte(e.Body))
			require.NoError(t, err)
		}
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func buildArchive(t *testing.T, format Format, entries []testEntry) []byte {
	t.Helper()
	switch format {
	case FormatTarGz:
		return buildTarGz(t, entries)
	case FormatTarXz:
		return buildTarXz(t, entries)
	case FormatZip:
		return buildZip(t, entries)
	}
	t.Fatalf("unknown format %v", format)
	return nil
}

func writeArchive(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0644))
	return path
}
