// Package uistate holds client-session UI state the backend mirrors for
// the SPA, currently just the sidebar.
package uistate

import "sync"

// SidebarStore is an injected state container for the sidebar open flag:
// one boolean, two mutators, and change notification for any listener
// that wants to observe it. One store exists per running client session.
type SidebarStore struct {
	mu   sync.Mutex
	open bool
	subs []chan bool
}

// NewSidebarStore returns a store with the sidebar closed.
func NewSidebarStore() *SidebarStore {
	return &SidebarStore{}
}

// Open returns the current flag.
func (s *SidebarStore) Open() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.open
}

// SetOpen sets the flag and notifies subscribers on change.
func (s *SidebarStore) SetOpen(open bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.open == open {
		return
	}
	s.open = open
	s.notify()
}

// Toggle flips the flag, notifies subscribers and returns the new state.
func (s *SidebarStore) Toggle() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.open = !s.open
	s.notify()
	return s.open
}

// Subscribe returns a channel receiving the flag after each change.
// Slow subscribers miss intermediate states rather than block mutators.
func (s *SidebarStore) Subscribe() <-chan bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	ch := make(chan bool, 1)
	s.subs = append(s.subs, ch)
	return ch
}

// notify delivers the current flag without blocking. Callers hold s.mu.
func (s *SidebarStore) notify() {
	for _, ch := range s.subs {
		select {
		case ch <- s.open:
		default:
			// Drop the stale value so the latest one fits.
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- s.open:
			default:
			}
		}
	}
}
