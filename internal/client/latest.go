package client

import (
	"context"
	"errors"
	"sync"
)

var ErrClosed = errors.New("loader closed")

// Latest runs loads one generation at a time. Starting a load cancels the
// previous one, and a result that is no longer the newest is discarded, so a
// slow stale response can never overwrite a fresher one.
type Latest[T any] struct {
	mu     sync.Mutex
	gen    uint64
	cancel context.CancelFunc
	closed bool
}

func NewLatest[T any]() *Latest[T] {
	return &Latest[T]{}
}

// Load runs fn with a context that the next Load or Close cancels. current is
// false when the result was superseded; value and err are then zero.
func (l *Latest[T]) Load(ctx context.Context, fn func(context.Context) (T, error)) (value T, current bool, err error) {
	return l.load(ctx, fn, nil)
}

// LoadInto is Load with a commit step. commit receives a successful current
// result and runs before any newer load can start or finish, so it is the
// place to publish the value.
func (l *Latest[T]) LoadInto(ctx context.Context, fn func(context.Context) (T, error), commit func(T)) (current bool, err error) {
	_, current, err = l.load(ctx, fn, commit)
	return current, err
}

func (l *Latest[T]) load(ctx context.Context, fn func(context.Context) (T, error), commit func(T)) (value T, current bool, err error) {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return value, false, ErrClosed
	}
	if l.cancel != nil {
		l.cancel()
	}
	l.gen++
	gen := l.gen
	reqCtx, cancel := context.WithCancel(ctx)
	l.cancel = cancel
	l.mu.Unlock()

	v, fnErr := fn(reqCtx)

	l.mu.Lock()
	defer l.mu.Unlock()
	cancel()
	if l.closed || gen != l.gen {
		return value, false, nil
	}
	l.cancel = nil
	if fnErr == nil && commit != nil {
		commit(v)
	}
	return v, true, fnErr
}

// Close cancels the in-flight load and refuses new ones.
func (l *Latest[T]) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.closed = true
	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
}
