package worker

import (
	"context"
	"time"

	"github.com/ds124wfegd/WB_L3/realtyedit/internal/service"
	"github.com/sirupsen/logrus"
)

// SessionCleanupWorker evicts sessions nobody has touched for ttl.
type SessionCleanupWorker struct {
	sessions service.SessionService
	archive  service.ArchiveService
	interval time.Duration
	ttl      time.Duration
	now      func() time.Time
}

func NewSessionCleanupWorker(sessions service.SessionService, archive service.ArchiveService, interval, ttl time.Duration) *SessionCleanupWorker {
	return &SessionCleanupWorker{
		sessions: sessions,
		archive:  archive,
		interval: interval,
		ttl:      ttl,
		now:      time.Now,
	}
}

func (w *SessionCleanupWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	logrus.Info("Session cleanup worker started")

	for {
		select {
		case <-ctx.Done():
			logrus.Info("Session cleanup worker stopped")
			return
		case <-ticker.C:
			w.cleanupIdleSessions()
		}
	}
}

func (w *SessionCleanupWorker) cleanupIdleSessions() {
	evicted := w.sessions.EvictIdle(w.now().Add(-w.ttl))
	if len(evicted) == 0 {
		logrus.Debug("No idle sessions found for cleanup")
		return
	}

	failed := 0
	if w.archive != nil {
		for _, id := range evicted {
			if err := w.archive.Purge(id); err != nil {
				logrus.WithField("session_id", id).Errorf("Failed to purge archive: %v", err)
				failed++
			}
		}
	}

	logrus.Infof("Idle session cleanup completed: %d evicted, %d remaining, %d archive purges failed",
		len(evicted), w.sessions.Count(), failed)
}
