package domain

import "errors"

// ArchiveEntry-specific validation errors
var (
	// ErrEntryTaskIDInvalid is returned when an archive entry has no valid task ID.
	ErrEntryTaskIDInvalid = errors.New("archive entry task ID must be positive")

	// ErrEntryDateZero is returned when an archive entry has no date set.
	ErrEntryDateZero = errors.New("archive entry date cannot be zero")
)

// ArchiveEntry is the historical record of one daily task's state on one
// calendar date. Entries are keyed by (TaskID, Date); at most one entry
// exists per key and later events for the same key overwrite the mutable
// fields. Entries are written exclusively by the archive builder.
type ArchiveEntry struct {
	ID             int64
	TaskID         int64
	Date           Date
	Description    string
	WasDone        bool
	GroupID        int64
	AssigneeUserID *int64
}

// Validate checks if the ArchiveEntry has valid data.
func (e *ArchiveEntry) Validate() error {
	if e.TaskID <= 0 {
		return ErrEntryTaskIDInvalid
	}

	if e.Date.IsZero() {
		return ErrEntryDateZero
	}

	return nil
}
