// Package store holds the client-side state containers. Every mutation is an
// action applied by a pure reducer; subscribers see each new snapshot.
package store

import (
	"sync"
)

type action interface {
	actionName() string
}

// machine serialises dispatches over a state value
type machine[S any] struct {
	mu      sync.Mutex
	state   S
	reduce  func(S, action) S
	clone   func(S) S
	subs    map[int]func(S)
	nextSub int
}

func newMachine[S any](initial S, reduce func(S, action) S, clone func(S) S) *machine[S] {
	return &machine[S]{
		state:  initial,
		reduce: reduce,
		clone:  clone,
		subs:   make(map[int]func(S)),
	}
}

// dispatch applies a and runs commit with the old and new state while still
// holding the lock, then notifies subscribers
func (m *machine[S]) dispatch(a action, commit func(prev, next S) error) error {
	m.mu.Lock()
	prev := m.state
	next := m.reduce(m.clone(prev), a)
	m.state = next

	var err error
	if commit != nil {
		err = commit(prev, next)
	}

	subs := make([]func(S), 0, len(m.subs))
	for _, fn := range m.subs {
		subs = append(subs, fn)
	}
	snapshot := m.clone(next)
	m.mu.Unlock()

	for _, fn := range subs {
		fn(snapshot)
	}
	return err
}

func (m *machine[S]) snapshot() S {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.clone(m.state)
}

func (m *machine[S]) subscribe(fn func(S)) func() {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.nextSub
	m.nextSub++
	m.subs[id] = fn
	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.subs, id)
	}
}

// persisted is the on-disk envelope shared by the persisted stores
type persisted[T any] struct {
	State   T   `json:"state"`
	Version int `json:"version"`
}
