package service

import (
	"context"
	"time"

	"github.com/ds124wfegd/WB_L3/realtyedit/internal/entity"
	"github.com/ds124wfegd/WB_L3/realtyedit/internal/session"
)

// SessionService keeps the in-memory edit sessions, one per browser tab.
type SessionService interface {
	Create() *session.Session
	Get(id string) (*session.Session, error)
	Delete(id string) error
	EvictIdle(before time.Time) []string
	Count() int
}

// EditRecorder collects finished edit records for the journal worker.
type EditRecorder interface {
	session.Recorder
	Records() <-chan entity.EditRecord
	Close()
}

// EventPublisher is satisfied by the Kafka and RabbitMQ publishers.
type EventPublisher interface {
	Publish(ctx context.Context, key string, message interface{}) error
	Close() error
}

// ArchiveService stores a copy of each download.
type ArchiveService interface {
	Archive(sessionID, name string, data []byte) error
	Purge(sessionID string) error
}
