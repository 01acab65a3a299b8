// Package config loads the asset selection policy from a Lua rules file.
//
// # Overview
//
// The selection rules are policy, not logic: a rules file lets users target
// other platforms or other release repositories without touching the fetch
// pipeline. Without a rules file the built-in Android x86_64 rules apply.
//
// # Schema
//
//	qbdifetch = {
//	    source = {
//	        owner = "QBDI",
//	        repo = "QBDI",
//	        api_url = "https://api.github.com",  -- optional
//	    },
//	    rules = {
//	        -- tried in order; each rule scans the whole asset list
//	        { pattern = "android.*?(x86_64|X86_64).*?\\.(tar\\.gz|tgz|tar\\.xz|zip)$" },
//	        { contains = { "android", "x86_64" }, fold_case = true },
//	    },
//	}
//
// A rule given as a bare string is shorthand for { pattern = "..." }.
//
// # Platform Table
//
// A read-only platform table describing the host (see the platform package)
// is available while the file runs, so rules can be conditional:
//
//	rules = {
//	    platform.when(platform.is_arm64, { contains = { "android", "arm64" } }),
//	    { contains = { "android", "x86_64" }, fold_case = true },
//	}
//
// nil entries are skipped.
//
// # Sandboxing
//
// Rules files run in a restricted gopher-lua VM without os, io, debug or any
// code loading functions. Only the string, table and math libraries and the
// basic functions remain.
package config
