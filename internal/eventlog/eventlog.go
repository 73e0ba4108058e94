// Package eventlog abstracts the append-only event transport between the
// task side and the archive side. The log delivers each message at least
// once and preserves order only among messages that share a partition key.
package eventlog

import (
	"context"
	"errors"
)

// ErrEndOfLog is returned by Fetch when a log implementation has no more
// messages and will never get any. The Kafka consumer never returns it;
// the in-memory log uses it so tests can drain deterministically.
var ErrEndOfLog = errors.New("end of event log")

// Message is one record fetched from the log. The unexported handle ties
// the message back to its source so it can be committed.
type Message struct {
	Key   string
	Value []byte

	handle any
}

// Publisher appends messages to the log. Publish returns once the log has
// durably accepted the message; the message may still be delivered more
// than once downstream.
type Publisher interface {
	Publish(ctx context.Context, key string, value []byte) error
	Close() error
}

// Consumer reads messages off the log. Fetch blocks until a message is
// available or the context is done. A fetched message is redelivered after
// a restart unless Commit is called for it, so consumers must commit only
// after their side effects are durable.
type Consumer interface {
	Fetch(ctx context.Context) (Message, error)
	Commit(ctx context.Context, msg Message) error
	Close() error
}
