// Package queue carries job video ids from the API to the processing workers.
package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ErrClosed is returned by operations on a closed queue.
var ErrClosed = errors.New("queue closed")

// Message asks a worker to process one job video.
type Message struct {
	JobVideoID int64     `json:"job_video_id"`
	Reason     string    `json:"reason,omitempty"`
	EnqueuedAt time.Time `json:"enqueued_at"`
}

// Enqueue reasons.
const (
	ReasonUploaded = "uploaded"
	ReasonRetry    = "retry"
	ReasonRequeue  = "requeue"
)

// Handler processes one message. A returned error dead-letters the message.
type Handler func(ctx context.Context, msg Message) error

// Queue is a work queue of job video messages.
type Queue interface {
	Enqueue(ctx context.Context, msg Message) error
	// Consume blocks, passing messages to handler until ctx is done.
	Consume(ctx context.Context, handler Handler) error
	// Depth reports how many messages are waiting.
	Depth(ctx context.Context) (int64, error)
	Close() error
}

// NewMessage builds a message stamped with the current time.
func NewMessage(jobVideoID int64, reason string) Message {
	return Message{JobVideoID: jobVideoID, Reason: reason, EnqueuedAt: time.Now().UTC()}
}

func encode(msg Message) ([]byte, error) {
	if msg.JobVideoID <= 0 {
		return nil, fmt.Errorf("invalid job video id %d", msg.JobVideoID)
	}
	return json.Marshal(msg)
}

func decode(data []byte) (Message, error) {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return Message{}, fmt.Errorf("decode message: %w", err)
	}
	if msg.JobVideoID <= 0 {
		return Message{}, fmt.Errorf("message without job video id: %s", data)
	}
	return msg, nil
}
