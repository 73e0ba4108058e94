package domain

import "errors"

// DailyTask-specific validation errors
var (
	// ErrTaskDescriptionEmpty is returned when a daily task has no description.
	ErrTaskDescriptionEmpty = errors.New("daily task description cannot be empty")

	// ErrTaskGroupInvalid is returned when a daily task has no valid group.
	ErrTaskGroupInvalid = errors.New("daily task group ID must be positive")

	// ErrTaskDayZero is returned when a daily task has no current day set.
	ErrTaskDayZero = errors.New("daily task current day cannot be zero")
)

// DailyTask is a task that resets at every calendar-day boundary, as opposed
// to a persistent task. CurrentDay is the day the task instance belongs to;
// under normal operation it never moves backwards for a given ID. Tasks
// partition by GroupID.
type DailyTask struct {
	ID             int64
	Description    string
	Done           bool
	CurrentDay     Date
	GroupID        int64
	AssigneeUserID *int64
}

// NewDailyTask creates a DailyTask for the given day and group. The task
// starts not done. Returns an error if validation fails.
func NewDailyTask(description string, day Date, groupID int64, assigneeUserID *int64) (*DailyTask, error) {
	task := &DailyTask{
		Description:    description,
		Done:           false,
		CurrentDay:     day,
		GroupID:        groupID,
		AssigneeUserID: assigneeUserID,
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	return task, nil
}

// Validate checks if the DailyTask has valid data.
func (t *DailyTask) Validate() error {
	if t.Description == "" {
		return ErrTaskDescriptionEmpty
	}

	if t.GroupID <= 0 {
		return ErrTaskGroupInvalid
	}

	if t.CurrentDay.IsZero() {
		return ErrTaskDayZero
	}

	return nil
}

// ToggleDone flips the task's completion flag.
func (t *DailyTask) ToggleDone() {
	t.Done = !t.Done
}

// ResetForDay clears the completion flag and advances the task to the given
// day. The caller is responsible for recording the pre-reset state first.
func (t *DailyTask) ResetForDay(day Date) {
	t.Done = false
	t.CurrentDay = day
}
