package transport

import (
	"github.com/ds124wfegd/WB_L3/realtyedit/internal/database/postgres"
	"github.com/ds124wfegd/WB_L3/realtyedit/internal/service"
)

type SessionHandler struct {
	sessions      service.SessionService
	archive       service.ArchiveService
	journal       postgres.JournalRepository
	hub           *Hub
	maxUploadSize int64

	healthChecks map[string]func() error
}

// NewSessionHandler wires the handlers; archive and journal may be nil.
func NewSessionHandler(sessions service.SessionService, archive service.ArchiveService, journal postgres.JournalRepository, maxUploadSize int64) *SessionHandler {
	if maxUploadSize <= 0 {
		maxUploadSize = 20 << 20
	}
	return &SessionHandler{
		sessions:      sessions,
		archive:       archive,
		journal:       journal,
		hub:           NewHub(),
		maxUploadSize: maxUploadSize,
		healthChecks:  make(map[string]func() error),
	}
}

// AddHealthCheck reports check under name on /health. Call before serving.
func (h *SessionHandler) AddHealthCheck(name string, check func() error) {
	h.healthChecks[name] = check
}
