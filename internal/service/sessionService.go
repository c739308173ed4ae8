package service

import (
	"sync"
	"time"

	"github.com/ds124wfegd/WB_L3/realtyedit/internal/entity"
	"github.com/ds124wfegd/WB_L3/realtyedit/internal/session"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type sessionService struct {
	mu       sync.RWMutex
	sessions map[string]*session.Session

	editor  session.Editor
	options []session.Option
}

func NewSessionService(editor session.Editor, options ...session.Option) SessionService {
	return &sessionService{
		sessions: make(map[string]*session.Session),
		editor:   editor,
		options:  options,
	}
}

func (s *sessionService) Create() *session.Session {
	id := uuid.NewString()
	sess := session.New(id, s.editor, s.options...)

	s.mu.Lock()
	s.sessions[id] = sess
	s.mu.Unlock()

	logrus.WithField("session_id", id).Info("Session created")
	return sess
}

func (s *sessionService) Get(id string) (*session.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, entity.ErrSessionNotFound
	}
	return sess, nil
}

func (s *sessionService) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[id]; !ok {
		return entity.ErrSessionNotFound
	}
	delete(s.sessions, id)
	logrus.WithField("session_id", id).Info("Session deleted")
	return nil
}

// EvictIdle drops sessions untouched since before. Sessions with an edit
// outstanding are kept.
func (s *sessionService) EvictIdle(before time.Time) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var evicted []string
	for id, sess := range s.sessions {
		if sess.Busy() || sess.LastActivity().After(before) {
			continue
		}
		delete(s.sessions, id)
		evicted = append(evicted, id)
	}
	return evicted
}

func (s *sessionService) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.sessions)
}
