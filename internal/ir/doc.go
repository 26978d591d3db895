// Package ir provides the value types shared by every other package: the
// contact record, the application state document, and the canonical JSON
// encoding used to compare and digest them.
//
// ir imports nothing internal. Higher layers (state, seed, harness, cli)
// build on it, never the other way round.
//
// Key design constraints:
//   - Contact ids are int64 and stable; they are assigned externally
//   - Contact order is insertion order and is never re-sorted
//   - All JSON and YAML tags use snake_case
//   - Canonical JSON forbids floats so digests stay deterministic
package ir
