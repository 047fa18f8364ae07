// Package memory provides in-memory implementations of driven port interfaces.
// They hold state for the lifetime of the process and are used by tests and by
// sessions that should not touch the filesystem.
package memory
