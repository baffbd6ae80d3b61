// Package session persists cross-invocation state in SQLite: the active
// project name used by codeword resolution and a history of import runs.
// No pipeline component reads ambient globals; they receive this store
// explicitly.
package session
