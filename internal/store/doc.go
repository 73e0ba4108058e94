// Package store defines the persistence interfaces for the task side and
// the archive side, the shared DBTX abstraction, and the sentinel errors
// implementations map database failures onto.
package store
