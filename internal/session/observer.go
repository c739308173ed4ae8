package session

import "github.com/ds124wfegd/WB_L3/realtyedit/internal/entity"

// Observer receives a snapshot after every state change. It runs with the
// session locked, so it must not call back into the session and must not block.
type Observer func(snap *entity.Snapshot)

// Subscribe registers obs and returns a function that removes it.
func (s *Session) Subscribe(obs Observer) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextObserver
	s.nextObserver++
	s.observers[id] = obs

	return func() {
		s.mu.Lock()
		delete(s.observers, id)
		s.mu.Unlock()
	}
}

// changed bumps the version and fans the new snapshot out. Callers hold s.mu.
func (s *Session) changed() *entity.Snapshot {
	s.version++
	s.updatedAt = s.now()
	snap := s.snapshotLocked()
	for _, obs := range s.observers {
		obs(snap)
	}
	return snap
}
