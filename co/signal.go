// Copyright (c) 2025 The Whoosh Bridge developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package co provides the small concurrency helpers the node is built on.
package co

import "sync"

// Waiter provides the channel to wait on for an event.
// The value read reports how the event was raised: true for Signal,
// false (a closed channel) for Broadcast.
type Waiter interface {
	C() <-chan bool
}

// Signal is a channel-based rendezvous point for goroutines announcing and
// awaiting an event. Unlike sync.Cond, waiting happens on a channel, so a
// waiter can select on it together with cancellation or timers.
//
// The zero value is ready to use.
type Signal struct {
	mu sync.Mutex
	ch chan bool
}

// lazyInit must be called with mu held.
func (s *Signal) lazyInit() {
	if s.ch == nil {
		s.ch = make(chan bool, 1)
	}
}

// Signal wakes one waiter. Signals raised while no one waits coalesce into
// a single wakeup.
func (s *Signal) Signal() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lazyInit()
	select {
	case s.ch <- true:
	default:
	}
}

// Broadcast wakes every current waiter.
func (s *Signal) Broadcast() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lazyInit()
	close(s.ch)
	s.ch = make(chan bool, 1)
}

// NewWaiter creates a Waiter bound to s. Each call to C returns the channel
// current at the previous call, so a waiter looping on C observes every
// broadcast even as the underlying channel is replaced.
func (s *Signal) NewWaiter() Waiter {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lazyInit()
	return &waiter{s: s, ch: s.ch}
}

type waiter struct {
	s  *Signal
	ch chan bool
}

func (w *waiter) C() <-chan bool {
	ch := w.ch

	w.s.mu.Lock()
	w.ch = w.s.ch
	w.s.mu.Unlock()

	return ch
}
