package icvm

import (
	"context"
)

// Source supplies the values read by input instructions.
type Source interface {
	// Receive blocks until a value is available.
	Receive(ctx context.Context) (Word, error)
}

// TrySource is a Source which can report that no value is ready without blocking.
type TrySource interface {
	Source
	TryReceive() (Word, bool, error)
}

// Sink accepts the values written by output instructions.
type Sink interface {
	Send(x Word) error
}

type SourceFunc func(ctx context.Context) (Word, error)

func (f SourceFunc) Receive(ctx context.Context) (Word, error) {
	return f(ctx)
}

type SinkFunc func(x Word) error

func (f SinkFunc) Send(x Word) error {
	return f(x)
}

var (
	_ TrySource = &Queue{}
	_ Sink      = &Queue{}
)

// Queue is an in-memory FIFO usable as both a Source and a Sink.
// It never blocks: receiving from an empty Queue fails with ErrNoInput.
// Queue is not safe for concurrent use; use icchan to connect machines running in different goroutines.
type Queue struct {
	xs []Word
}

// Values returns a Queue holding xs.
func Values(xs ...Word) *Queue {
	return &Queue{xs: append([]Word{}, xs...)}
}

func (q *Queue) Push(xs ...Word) {
	q.xs = append(q.xs, xs...)
}

func (q *Queue) Send(x Word) error {
	q.Push(x)
	return nil
}

func (q *Queue) Receive(ctx context.Context) (Word, error) {
	x, ok, _ := q.TryReceive()
	if !ok {
		return 0, ErrNoInput
	}
	return x, nil
}

func (q *Queue) TryReceive() (Word, bool, error) {
	if len(q.xs) == 0 {
		return 0, false, nil
	}
	x := q.xs[0]
	q.xs = q.xs[1:]
	return x, true, nil
}

func (q *Queue) Len() int {
	return len(q.xs)
}

// Values returns a copy of the values in the queue.
func (q *Queue) Values() []Word {
	return append([]Word{}, q.xs...)
}
