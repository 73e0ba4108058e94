package events

import (
	"context"
	"strconv"

	"github.com/grouptaskmanager/taskflow/internal/domain"
)

// Kind tags a lifecycle event on the wire.
type Kind string

const (
	KindCreated  Kind = "CREATED"
	KindUpdated  Kind = "UPDATED"
	KindDeleted  Kind = "DELETED"
	KindDayReset Kind = "DAY_RESET"
)

// Fields is the payload every lifecycle event carries. Created and Updated
// carry post-mutation state, Deleted and DayReset carry the pre-mutation
// snapshot. TaskDate is the calendar day the state belongs to; EventDate is
// the day the event was produced.
type Fields struct {
	TaskID         int64
	Description    string
	Done           bool
	TaskDate       domain.Date
	EventDate      domain.Date
	GroupID        int64
	AssigneeUserID *int64
}

// PartitionKey returns the event log partition key: the decimal string of
// the task ID. Events sharing a key are delivered in publish order; there
// is no ordering across keys.
func (f Fields) PartitionKey() string {
	return strconv.FormatInt(f.TaskID, 10)
}

// Payload returns the event's fields. Promoted onto every concrete kind.
func (f Fields) Payload() Fields {
	return f
}

func (Fields) sealed() {}

// Event is the closed sum of daily-task lifecycle events. The set of kinds
// is fixed: only types in this package can implement the unexported sealed
// method, and dispatch goes through Accept, so adding a kind forces every
// Handler to grow a method for it.
type Event interface {
	Kind() Kind
	Payload() Fields
	PartitionKey() string

	// Accept dispatches the event to the matching Handler method.
	Accept(ctx context.Context, h Handler) error

	sealed()
}

// Handler handles each lifecycle event kind. Implementations get a missing
// method compile error when a kind is added, instead of a runtime
// "unknown kind" branch.
type Handler interface {
	HandleCreated(ctx context.Context, e Created) error
	HandleUpdated(ctx context.Context, e Updated) error
	HandleDeleted(ctx context.Context, e Deleted) error
	HandleDayReset(ctx context.Context, e DayReset) error
}

// Created records that a daily task came into existence. Carries the
// post-creation state.
type Created struct {
	Fields
}

func (Created) Kind() Kind { return KindCreated }

func (e Created) Accept(ctx context.Context, h Handler) error {
	return h.HandleCreated(ctx, e)
}

// Updated records a mutation of an existing task, such as a completion
// toggle. Carries the post-mutation state.
type Updated struct {
	Fields
}

func (Updated) Kind() Kind { return KindUpdated }

func (e Updated) Accept(ctx context.Context, h Handler) error {
	return h.HandleUpdated(ctx, e)
}

// Deleted records that a task was removed. Carries the pre-deletion
// snapshot; consumers retain any archive state the task already produced.
type Deleted struct {
	Fields
}

func (Deleted) Kind() Kind { return KindDeleted }

func (e Deleted) Accept(ctx context.Context, h Handler) error {
	return h.HandleDeleted(ctx, e)
}

// DayReset records the pre-rollover state of a task at a day boundary:
// TaskDate is the day being closed out, EventDate the day of the rollover.
type DayReset struct {
	Fields
}

func (DayReset) Kind() Kind { return KindDayReset }

func (e DayReset) Accept(ctx context.Context, h Handler) error {
	return h.HandleDayReset(ctx, e)
}

// fieldsFromTask builds an event payload from a task snapshot.
func fieldsFromTask(t *domain.DailyTask, eventDate domain.Date) Fields {
	return Fields{
		TaskID:         t.ID,
		Description:    t.Description,
		Done:           t.Done,
		TaskDate:       t.CurrentDay,
		EventDate:      eventDate,
		GroupID:        t.GroupID,
		AssigneeUserID: t.AssigneeUserID,
	}
}

// NewCreated builds a Created event from the task's post-creation state.
func NewCreated(t *domain.DailyTask, eventDate domain.Date) Created {
	return Created{fieldsFromTask(t, eventDate)}
}

// NewUpdated builds an Updated event from the task's post-mutation state.
func NewUpdated(t *domain.DailyTask, eventDate domain.Date) Updated {
	return Updated{fieldsFromTask(t, eventDate)}
}

// NewDeleted builds a Deleted event from the task's pre-deletion snapshot.
func NewDeleted(t *domain.DailyTask, eventDate domain.Date) Deleted {
	return Deleted{fieldsFromTask(t, eventDate)}
}

// NewDayReset builds a DayReset event from the task's pre-rollover snapshot.
// Call this before mutating the task: the payload must be the state being
// closed out, not the reset state.
func NewDayReset(t *domain.DailyTask, eventDate domain.Date) DayReset {
	return DayReset{fieldsFromTask(t, eventDate)}
}
