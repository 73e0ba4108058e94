package eventlog

import (
	"context"
	"sync"
)

// Memory is an in-process event log for tests. It keeps every published
// message in publish order (which trivially preserves per-key order),
// tracks commits per message, and can rewind to redeliver everything not
// yet committed, imitating a consumer restart under at-least-once delivery.
type Memory struct {
	mu        sync.Mutex
	messages  []Message
	committed []bool
	cursor    int
}

// NewMemory creates an empty in-memory log.
func NewMemory() *Memory {
	return &Memory{}
}

// Publish appends a message to the log.
func (m *Memory) Publish(ctx context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	v := make([]byte, len(value))
	copy(v, value)

	m.messages = append(m.messages, Message{Key: key, Value: v, handle: len(m.messages)})
	m.committed = append(m.committed, false)
	return nil
}

// Fetch returns the next message past the cursor, or ErrEndOfLog when the
// log is drained. Unlike the Kafka consumer it never blocks.
func (m *Memory) Fetch(ctx context.Context) (Message, error) {
	if err := ctx.Err(); err != nil {
		return Message{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.cursor >= len(m.messages) {
		return Message{}, ErrEndOfLog
	}

	msg := m.messages[m.cursor]
	m.cursor++
	return msg, nil
}

// Commit marks the message as acknowledged so Rewind will not redeliver it.
func (m *Memory) Commit(ctx context.Context, msg Message) error {
	idx, ok := msg.handle.(int)
	if !ok || idx < 0 || idx >= len(m.messages) {
		return ErrEndOfLog
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.committed[idx] = true
	return nil
}

// Rewind moves the cursor back to the first uncommitted message, simulating
// a consumer restart: everything not committed gets delivered again.
func (m *Memory) Rewind() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.messages {
		if !m.committed[i] {
			m.cursor = i
			return
		}
	}
	m.cursor = len(m.messages)
}

// Len returns the number of messages ever published.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.messages)
}

// Keys returns the partition keys of all published messages in publish order.
func (m *Memory) Keys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	keys := make([]string, len(m.messages))
	for i, msg := range m.messages {
		keys[i] = msg.Key
	}
	return keys
}

// Close implements Publisher and Consumer.
func (m *Memory) Close() error {
	return nil
}
