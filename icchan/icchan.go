// package icchan implements blocking point-to-point channels of Words.
//
// A channel has exactly two endpoints. Send never blocks; the queue is unbounded.
// Receive blocks until a value is available, the sender is closed, or the context is done.
package icchan

import (
	"context"
	"errors"
	"sync"
	"time"

	"myceliumweb.org/intcode"
	"myceliumweb.org/intcode/internal/ringbuf"
)

type Word = intcode.Word

var (
	// ErrBrokenChannel is returned when the peer endpoint has been closed.
	ErrBrokenChannel = errors.New("broken channel")
	// ErrClosed is returned when an endpoint is used after it has been closed.
	ErrClosed = errors.New("endpoint closed")
)

type queue struct {
	mu           sync.Mutex
	buf          ringbuf.RingBuf[Word]
	senderGone   bool
	receiverGone bool
	// notify has capacity 1 and is signalled after every state change.
	notify chan struct{}
}

func (q *queue) signal() {
	select {
	case q.notify <- struct{}{}:
	default:
	}
}

// New creates a channel and returns its two endpoints.
func New() (*Sender, *Receiver) {
	q := &queue{
		buf:    ringbuf.New[Word](16),
		notify: make(chan struct{}, 1),
	}
	return &Sender{q: q}, &Receiver{q: q}
}

// Sender is the sending endpoint of a channel.
type Sender struct {
	q *queue
}

// Send enqueues x.
func (s *Sender) Send(x Word) error {
	q := s.q
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.senderGone {
		return ErrClosed
	}
	if q.receiverGone {
		return ErrBrokenChannel
	}
	q.buf.PushBack(x)
	q.signal()
	return nil
}

// Close drops the sending endpoint.
// Values already sent can still be received.
// It is safe to call Close more than once.
func (s *Sender) Close() {
	q := s.q
	q.mu.Lock()
	defer q.mu.Unlock()
	q.senderGone = true
	q.signal()
}

// Receiver is the receiving endpoint of a channel.
type Receiver struct {
	q *queue
}

// Receive blocks until a value can be dequeued, and returns it.
// If the sender has been closed and the queue is empty, ErrBrokenChannel is returned.
func (r *Receiver) Receive(ctx context.Context) (Word, error) {
	for {
		x, ok, err := r.TryReceive()
		if err != nil || ok {
			return x, err
		}
		select {
		case <-ctx.Done():
			return 0, ctx.Err()
		case <-r.q.notify:
		}
	}
}

// ReceiveTimeout is like Receive, but gives up after d.
func (r *Receiver) ReceiveTimeout(d time.Duration) (Word, error) {
	ctx, cf := context.WithTimeout(context.Background(), d)
	defer cf()
	return r.Receive(ctx)
}

// TryReceive dequeues a value if one is available, without blocking.
func (r *Receiver) TryReceive() (Word, bool, error) {
	q := r.q
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.receiverGone {
		return 0, false, ErrClosed
	}
	if q.buf.Len() > 0 {
		return q.buf.PopFront(), true, nil
	}
	if q.senderGone {
		return 0, false, ErrBrokenChannel
	}
	return 0, false, nil
}

// Len returns the number of values waiting to be received.
func (r *Receiver) Len() int {
	q := r.q
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.buf.Len()
}

// Drain dequeues all of the values currently waiting and appends them to out.
func (r *Receiver) Drain(out []Word) []Word {
	q := r.q
	q.mu.Lock()
	defer q.mu.Unlock()
	for q.buf.Len() > 0 {
		out = append(out, q.buf.PopFront())
	}
	return out
}

// Close drops the receiving endpoint.
// Subsequent calls to Send on the peer return ErrBrokenChannel.
func (r *Receiver) Close() {
	q := r.q
	q.mu.Lock()
	defer q.mu.Unlock()
	q.receiverGone = true
	q.signal()
}
