package notify

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Common errors returned when enqueueing.
var (
	ErrQueueClosed = errors.New("notification queue is closed")
	ErrQueueFull   = errors.New("notification queue is full")
)

// Message is a queued notification.
type Message struct {
	ID         uuid.UUID
	Text       string
	EnqueuedAt time.Time
}

// queue is a bounded, closable buffer of messages.
type queue struct {
	mu       sync.Mutex
	messages chan Message
	closed   bool
}

func newQueue(size int) *queue {
	return &queue{messages: make(chan Message, size)}
}

// enqueue adds msg without blocking.
func (q *queue) enqueue(msg Message) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return ErrQueueClosed
	}

	select {
	case q.messages <- msg:
		return nil
	default:
		return fmt.Errorf("%w: queue capacity %d reached", ErrQueueFull, cap(q.messages))
	}
}

// close stops further enqueues. Messages already buffered remain readable.
func (q *queue) close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if !q.closed {
		q.closed = true
		close(q.messages)
	}
}

func (q *queue) len() int {
	return len(q.messages)
}
