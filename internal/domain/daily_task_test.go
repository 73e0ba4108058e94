package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDailyTask(t *testing.T) {
	day := NewDate(2024, time.January, 1)
	assignee := int64(42)

	task, err := NewDailyTask("Water plants", day, 7, &assignee)
	require.NoError(t, err)

	assert.Equal(t, "Water plants", task.Description)
	assert.False(t, task.Done)
	assert.True(t, day.Equal(task.CurrentDay))
	assert.Equal(t, int64(7), task.GroupID)
	require.NotNil(t, task.AssigneeUserID)
	assert.Equal(t, int64(42), *task.AssigneeUserID)
}

func TestNewDailyTaskValidation(t *testing.T) {
	day := NewDate(2024, time.January, 1)

	_, err := NewDailyTask("", day, 7, nil)
	assert.ErrorIs(t, err, ErrTaskDescriptionEmpty)

	_, err = NewDailyTask("Water plants", day, 0, nil)
	assert.ErrorIs(t, err, ErrTaskGroupInvalid)

	_, err = NewDailyTask("Water plants", Date{}, 7, nil)
	assert.ErrorIs(t, err, ErrTaskDayZero)
}

func TestToggleDone(t *testing.T) {
	task, err := NewDailyTask("Water plants", NewDate(2024, time.January, 1), 7, nil)
	require.NoError(t, err)

	task.ToggleDone()
	assert.True(t, task.Done)
	task.ToggleDone()
	assert.False(t, task.Done)
}

func TestResetForDay(t *testing.T) {
	task, err := NewDailyTask("Water plants", NewDate(2024, time.January, 1), 7, nil)
	require.NoError(t, err)
	task.Done = true

	today := NewDate(2024, time.January, 2)
	task.ResetForDay(today)

	assert.False(t, task.Done)
	assert.True(t, today.Equal(task.CurrentDay))
}

func TestArchiveEntryValidate(t *testing.T) {
	entry := &ArchiveEntry{TaskID: 1, Date: NewDate(2024, time.January, 1)}
	assert.NoError(t, entry.Validate())

	entry = &ArchiveEntry{TaskID: 0, Date: NewDate(2024, time.January, 1)}
	assert.ErrorIs(t, entry.Validate(), ErrEntryTaskIDInvalid)

	entry = &ArchiveEntry{TaskID: 1}
	assert.ErrorIs(t, entry.Validate(), ErrEntryDateZero)
}
