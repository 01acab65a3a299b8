// Package fetch downloads a selected release asset and unpacks it into an
// output directory.
//
// # Pipeline
//
// Manager.Install runs the whole operation for one release tag:
//  1. Resolve the tag to its asset list (ReleaseSource)
//  2. Pick an asset with the configured selector rules
//  3. Download the asset into a temporary file named after it
//  4. Extract the archive into the output directory
//  5. Remove the temporary file
//
// Every step returns an error instead of terminating the process, so callers
// embedding the pipeline decide whether to abort or continue.
//
// # Usage
//
//	mgr, err := fetch.NewManager(fetch.Config{
//	    Source: release.NewClient(),
//	    Rules:  selector.DefaultRules(),
//	})
//	if err != nil {
//	    return err
//	}
//
//	res, err := mgr.Install(ctx, fetch.Request{
//	    Tag:       "v0.12.0",
//	    OutputDir: "/opt/qbdi",
//	})
//
// # Archive Formats
//
// The format is chosen from the asset name suffix only, matched exactly
// (an upper-case ".ZIP" is unsupported):
//   - .tar.gz, .tgz: gzip-compressed tar
//   - .tar.xz: xz-compressed tar
//   - .zip: zip
//
// Archive entries that would land outside the output directory are rejected,
// including entries reached through a symlink extracted earlier from the
// same archive.
// No checksum or signature verification is performed.
package fetch
