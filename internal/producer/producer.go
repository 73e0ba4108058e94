// Package producer publishes daily-task lifecycle events to the event log.
// The log is a best-effort replication channel: publish failures are
// reported to the caller but must never unwind the store mutation that
// triggered the event.
package producer

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/grouptaskmanager/taskflow/internal/eventlog"
	"github.com/grouptaskmanager/taskflow/internal/events"
)

// Producer encodes lifecycle events and appends them to the event log,
// keyed by task ID so same-task events keep their publish order.
type Producer struct {
	log    eventlog.Publisher
	logger *slog.Logger
}

// New creates a Producer on the given log.
func New(log eventlog.Publisher, logger *slog.Logger) *Producer {
	return &Producer{
		log:    log,
		logger: logger.With(slog.String("component", "event_producer")),
	}
}

// Publish encodes the event and appends it to the log. It returns once the
// log has accepted the message; delivery downstream is at-least-once.
func (p *Producer) Publish(ctx context.Context, e events.Event) error {
	value, err := events.Marshal(e)
	if err != nil {
		return fmt.Errorf("failed to encode %s event: %w", e.Kind(), err)
	}

	if err := p.log.Publish(ctx, e.PartitionKey(), value); err != nil {
		p.logger.Error("failed to publish lifecycle event",
			"kind", string(e.Kind()),
			"task_id", e.Payload().TaskID,
			"error", err)
		return fmt.Errorf("failed to publish %s event for task %d: %w",
			e.Kind(), e.Payload().TaskID, err)
	}

	p.logger.Debug("published lifecycle event",
		"kind", string(e.Kind()),
		"task_id", e.Payload().TaskID,
		"task_date", e.Payload().TaskDate.String())
	return nil
}
