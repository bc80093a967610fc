// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package notify fans typed events out to subscribers.

Each subscriber owns an unbounded queue drained by its own goroutine, so a
publisher never blocks on a slow reader and every subscriber sees events in
publication order.
*/
package notify

import "sync"

// Hub broadcasts values of type T. The zero value is ready to use.
type Hub[T any] struct {
	mu     sync.Mutex
	subs   []*subscriber[T]
	closed bool
}

// Subscribe registers a new reader. The returned cancel function is
// idempotent and closes the channel; pending undelivered events are dropped.
func (h *Hub[T]) Subscribe() (<-chan T, func()) {
	sub := newSubscriber[T]()

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		close(sub.out)
		return sub.out, func() {}
	}
	h.subs = append(h.subs, sub)
	h.mu.Unlock()

	go sub.run()

	return sub.out, func() {
		h.remove(sub)
		sub.cancel()
	}
}

// Publish enqueues value for every current subscriber.
func (h *Hub[T]) Publish(value T) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, sub := range h.subs {
		sub.push(value)
	}
}

// Close cancels every subscription. Later subscriptions are closed at once.
func (h *Hub[T]) Close() {
	h.mu.Lock()
	subs := h.subs
	h.subs = nil
	h.closed = true
	h.mu.Unlock()

	for _, sub := range subs {
		sub.cancel()
	}
}

func (h *Hub[T]) remove(target *subscriber[T]) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for i, sub := range h.subs {
		if sub == target {
			h.subs = append(h.subs[:i], h.subs[i+1:]...)
			return
		}
	}
}

type subscriber[T any] struct {
	mu    sync.Mutex
	cond  *sync.Cond
	queue []T
	done  bool

	out  chan T
	stop chan struct{}
	once sync.Once
}

func newSubscriber[T any]() *subscriber[T] {
	sub := &subscriber[T]{out: make(chan T), stop: make(chan struct{})}
	sub.cond = sync.NewCond(&sub.mu)
	return sub
}

func (s *subscriber[T]) push(value T) {
	s.mu.Lock()
	if !s.done {
		s.queue = append(s.queue, value)
		s.cond.Signal()
	}
	s.mu.Unlock()
}

func (s *subscriber[T]) cancel() {
	s.once.Do(func() {
		s.mu.Lock()
		s.done = true
		s.queue = nil
		s.cond.Broadcast()
		s.mu.Unlock()
		close(s.stop)
	})
}

func (s *subscriber[T]) run() {
	defer close(s.out)

	for {
		s.mu.Lock()
		for len(s.queue) == 0 && !s.done {
			s.cond.Wait()
		}
		if s.done {
			s.mu.Unlock()
			return
		}
		value := s.queue[0]
		s.queue = s.queue[1:]
		s.mu.Unlock()

		select {
		case s.out <- value:
		case <-s.stop:
			return
		}
	}
}
