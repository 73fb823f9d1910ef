package ringbuf

// RingBuf is a FIFO queue backed by a circular buffer.
// The buffer doubles in size when it is full.
type RingBuf[T any] struct {
	buf        []T
	head, size int
}

func New[T any](n int) RingBuf[T] {
	if n < 1 {
		n = 1
	}
	return RingBuf[T]{buf: make([]T, n)}
}

func (rb *RingBuf[T]) Cap() int {
	return len(rb.buf)
}

func (rb *RingBuf[T]) PushBack(val T) {
	if rb.size == len(rb.buf) {
		rb.grow()
	}
	rb.buf[(rb.head+rb.size)%len(rb.buf)] = val
	rb.size++
}

func (rb *RingBuf[T]) PopFront() T {
	if rb.size == 0 {
		panic("ringbuf: PopFront on empty buffer")
	}
	var zero T
	val := rb.buf[rb.head]
	rb.buf[rb.head] = zero
	rb.head = (rb.head + 1) % len(rb.buf)
	rb.size--
	return val
}

func (rb *RingBuf[T]) At(i int) T {
	if i < 0 || i >= rb.size {
		panic(i)
	}
	return rb.buf[(rb.head+i)%len(rb.buf)]
}

func (rb *RingBuf[T]) Len() int {
	return rb.size
}

func (rb *RingBuf[T]) grow() {
	n := 2 * len(rb.buf)
	if n == 0 {
		n = 1
	}
	buf := make([]T, n)
	for i := 0; i < rb.size; i++ {
		buf[i] = rb.At(i)
	}
	rb.buf = buf
	rb.head = 0
}
