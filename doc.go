// Package yum implements a package-metadata caching engine for RPM/Yum
// repositories.
//
// It converts the three XML streams published by a repository — primary,
// filelists and other — into three corresponding on-disk SQLite cache
// databases. Consumers of those databases (a package resolver running
// queries over provides/requires, filename lookups, and changelog history)
// are external to this package; yum is an offline-ish transformer whose sole
// concern is producing byte-stable, schema-versioned databases quickly and
// idempotently.
//
// Architecture:
//
//	┌──────────────────────────────────────────────┐
//	│  XML file ──► SAX parser ──► Package (arena)  │
//	│                    │                          │
//	│                    ▼                          │
//	│              updater callback                  │
//	│                    │                          │
//	│                    ▼                          │
//	│         prepared inserts ──► commit            │
//	│                    │                          │
//	│                    ▼                          │
//	│           db_info update ──► close             │
//	└──────────────────────────────────────────────┘
//
// Entry points:
//
//	UpdatePrimary(mdFilename, checksum, opts...)
//	UpdateFilelist(mdFilename, checksum, opts...)
//	UpdateOther(mdFilename, checksum, opts...)
//
// Each reconciles the cache file "<mdFilename>.sqlite" against the packages
// observed in the XML: unseen pkgIds are inserted, stale ones are deleted,
// and an unchanged checksum short-circuits the whole operation.
//
// Control flow is single-threaded and cooperative: one invocation holds one
// database connection, one parser, and one arena-owned package at a time.
// Callers wanting concurrency across document types or repositories must
// serialize or shard themselves; nothing here is safe for concurrent use
// against the same cache file.
package yum
