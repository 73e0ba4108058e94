package events

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/grouptaskmanager/taskflow/internal/domain"
)

// ErrUnknownKind is returned when a message carries an eventType outside the
// closed set. The consumer fails loud on these rather than guessing.
var ErrUnknownKind = errors.New("unknown lifecycle event kind")

// wireEvent is the fixed wire shape shared by all four event kinds. The
// shape carries no version field; decoders tolerate unknown extra fields
// but reject unknown kinds.
type wireEvent struct {
	TaskID         int64       `json:"taskId"`
	Description    string      `json:"description"`
	Done           bool        `json:"done"`
	TaskDate       domain.Date `json:"taskDate"`
	EventDate      domain.Date `json:"eventDate"`
	GroupID        int64       `json:"groupId"`
	AssigneeUserID *int64      `json:"assigneeUserId"`
	EventType      Kind        `json:"eventType"`
}

// Marshal encodes a lifecycle event into its wire form.
func Marshal(e Event) ([]byte, error) {
	f := e.Payload()
	w := wireEvent{
		TaskID:         f.TaskID,
		Description:    f.Description,
		Done:           f.Done,
		TaskDate:       f.TaskDate,
		EventDate:      f.EventDate,
		GroupID:        f.GroupID,
		AssigneeUserID: f.AssigneeUserID,
		EventType:      e.Kind(),
	}

	data, err := json.Marshal(w)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s event for task %d: %w", e.Kind(), f.TaskID, err)
	}
	return data, nil
}

// Unmarshal decodes a wire message into the matching event kind. Unknown
// JSON fields are ignored for forward compatibility.
func Unmarshal(data []byte) (Event, error) {
	var w wireEvent
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("failed to decode lifecycle event: %w", err)
	}

	f := Fields{
		TaskID:         w.TaskID,
		Description:    w.Description,
		Done:           w.Done,
		TaskDate:       w.TaskDate,
		EventDate:      w.EventDate,
		GroupID:        w.GroupID,
		AssigneeUserID: w.AssigneeUserID,
	}

	switch w.EventType {
	case KindCreated:
		return Created{f}, nil
	case KindUpdated:
		return Updated{f}, nil
	case KindDeleted:
		return Deleted{f}, nil
	case KindDayReset:
		return DayReset{f}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, w.EventType)
	}
}
