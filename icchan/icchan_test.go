package icchan

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"myceliumweb.org/intcode/internal/testutil"
)

func TestFIFO(t *testing.T) {
	t.Parallel()
	ctx := testutil.Context(t)
	s, r := New()
	for i := 0; i < 1000; i++ {
		require.NoError(t, s.Send(Word(i)))
	}
	require.Equal(t, 1000, r.Len())
	for i := 0; i < 1000; i++ {
		x, err := r.Receive(ctx)
		require.NoError(t, err)
		require.Equal(t, Word(i), x)
	}
	require.Equal(t, 0, r.Len())
}

func TestBlockingReceive(t *testing.T) {
	t.Parallel()
	ctx := testutil.Context(t)
	s, r := New()
	const n = 10000
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < n; i++ {
			if err := s.Send(Word(i)); err != nil {
				panic(err)
			}
		}
		s.Close()
	}()
	var got []Word
	for {
		x, err := r.Receive(ctx)
		if err != nil {
			require.ErrorIs(t, err, ErrBrokenChannel)
			break
		}
		got = append(got, x)
	}
	wg.Wait()
	require.Len(t, got, n)
	for i, x := range got {
		require.Equal(t, Word(i), x)
	}
}

func TestSenderClosed(t *testing.T) {
	t.Parallel()
	ctx := testutil.Context(t)
	s, r := New()
	require.NoError(t, s.Send(1))
	s.Close()
	s.Close()

	// buffered values survive the close
	x, err := r.Receive(ctx)
	require.NoError(t, err)
	require.Equal(t, Word(1), x)

	_, err = r.Receive(ctx)
	require.ErrorIs(t, err, ErrBrokenChannel)
	require.ErrorIs(t, s.Send(2), ErrClosed)
}

func TestReceiverClosed(t *testing.T) {
	t.Parallel()
	s, r := New()
	r.Close()
	require.ErrorIs(t, s.Send(1), ErrBrokenChannel)
	_, _, err := r.TryReceive()
	require.ErrorIs(t, err, ErrClosed)
}

func TestReceiveWakesOnClose(t *testing.T) {
	t.Parallel()
	ctx := testutil.Context(t)
	s, r := New()
	errs := make(chan error, 1)
	go func() {
		_, err := r.Receive(ctx)
		errs <- err
	}()
	time.Sleep(10 * time.Millisecond)
	s.Close()
	require.ErrorIs(t, <-errs, ErrBrokenChannel)
}

func TestReceiveContext(t *testing.T) {
	t.Parallel()
	ctx, cf := context.WithCancel(testutil.Context(t))
	_, r := New()
	cf()
	_, err := r.Receive(ctx)
	require.ErrorIs(t, err, context.Canceled)

	_, err = r.ReceiveTimeout(5 * time.Millisecond)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestTryReceiveAndDrain(t *testing.T) {
	t.Parallel()
	s, r := New()
	_, ok, err := r.TryReceive()
	require.NoError(t, err)
	require.False(t, ok)

	for _, x := range []Word{3, 1, 4, 1, 5} {
		require.NoError(t, s.Send(x))
	}
	x, ok, err := r.TryReceive()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, Word(3), x)
	require.Equal(t, []Word{1, 4, 1, 5}, r.Drain(nil))
	require.Equal(t, 0, r.Len())
}
