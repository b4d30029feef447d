package queue

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// MemoryQueue is an in-process queue backed by a buffered channel. Failed
// messages are kept in memory as dead letters.
type MemoryQueue struct {
	ch     chan Message
	logger *zap.Logger

	mu     sync.RWMutex
	closed bool

	deadMu sync.Mutex
	dead   []Message
}

// NewMemoryQueue creates a queue holding up to size pending messages.
func NewMemoryQueue(size int, logger *zap.Logger) *MemoryQueue {
	if size <= 0 {
		size = 100
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MemoryQueue{ch: make(chan Message, size), logger: logger}
}

// Enqueue adds msg, blocking while the buffer is full.
func (q *MemoryQueue) Enqueue(ctx context.Context, msg Message) error {
	if _, err := encode(msg); err != nil {
		return err
	}
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		return ErrClosed
	}

	select {
	case q.ch <- msg:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Consume delivers messages until ctx is done or the queue is closed.
func (q *MemoryQueue) Consume(ctx context.Context, handler Handler) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-q.ch:
			if !ok {
				return ErrClosed
			}
			if err := handler(ctx, msg); err != nil {
				q.logger.Error("Failed to process message", zap.Error(err), zap.Int64("job_video_id", msg.JobVideoID))
				q.deadMu.Lock()
				q.dead = append(q.dead, msg)
				q.deadMu.Unlock()
			}
		}
	}
}

// Depth returns the number of buffered messages.
func (q *MemoryQueue) Depth(ctx context.Context) (int64, error) {
	return int64(len(q.ch)), nil
}

// DeadLetters returns the messages whose handler failed.
func (q *MemoryQueue) DeadLetters() []Message {
	q.deadMu.Lock()
	defer q.deadMu.Unlock()
	return append([]Message(nil), q.dead...)
}

// Close stops consumers once the buffer drains.
func (q *MemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if !q.closed {
		q.closed = true
		close(q.ch)
	}
	return nil
}
