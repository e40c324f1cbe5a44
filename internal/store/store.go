package store

import (
	"sort"
	"sync"
)

// Reducer computes the next state for an action. It must not mutate its input.
type Reducer[S any, A any] func(state S, action A) S

// Listener is notified after every applied action with the resulting state.
type Listener[S any, A any] func(state S, action A)

// Store holds reducer state and fans out changes to subscribers.
// Dispatch reduces its action before returning, so State reflects it.
// Listeners see transitions in the order they were applied, including
// transitions dispatched from inside a listener.
type Store[S any, A any] struct {
	mu        sync.Mutex
	state     S
	reduce    Reducer[S, A]
	listeners map[int]Listener[S, A]
	nextID    int
	pending   []transition[S, A]
	notifying bool
}

type transition[S any, A any] struct {
	state  S
	action A
}

// New creates a store seeded with initial.
func New[S any, A any](initial S, reduce Reducer[S, A]) *Store[S, A] {
	return &Store[S, A]{
		state:     initial,
		reduce:    reduce,
		listeners: make(map[int]Listener[S, A]),
	}
}

// State returns the current state snapshot.
func (s *Store[S, A]) State() S {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Dispatch applies action. When another caller is already notifying
// listeners, the transition is queued behind it and delivered by that caller.
func (s *Store[S, A]) Dispatch(action A) {
	if s.apply(action) {
		s.notify()
	}
}

// apply reduces action and reports whether the caller must notify listeners.
func (s *Store[S, A]) apply(action A) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = s.reduce(s.state, action)
	s.pending = append(s.pending, transition[S, A]{state: s.state, action: action})
	if s.notifying {
		return false
	}
	s.notifying = true
	return true
}

func (s *Store[S, A]) notify() {
	done := false
	defer func() {
		if done {
			return
		}
		// a listener panicked; later dispatches must not queue forever
		s.mu.Lock()
		s.pending = nil
		s.notifying = false
		s.mu.Unlock()
	}()

	for {
		s.mu.Lock()
		if len(s.pending) == 0 {
			s.pending = nil
			s.notifying = false
			s.mu.Unlock()
			done = true
			return
		}
		next := s.pending[0]
		s.pending = s.pending[1:]
		listeners := s.snapshotListeners()
		s.mu.Unlock()

		for _, l := range listeners {
			l(next.state, next.action)
		}
	}
}

// Subscribe registers l and returns a func that removes it.
func (s *Store[S, A]) Subscribe(l Listener[S, A]) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = l

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.listeners, id)
			s.mu.Unlock()
		})
	}
}

func (s *Store[S, A]) snapshotListeners() []Listener[S, A] {
	ids := make([]int, 0, len(s.listeners))
	for id := range s.listeners {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	out := make([]Listener[S, A], 0, len(ids))
	for _, id := range ids {
		out = append(out, s.listeners[id])
	}
	return out
}
