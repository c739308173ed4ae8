package service

import (
	"sync"

	"github.com/ds124wfegd/WB_L3/realtyedit/internal/entity"
	"github.com/sirupsen/logrus"
)

type channelRecorder struct {
	mu     sync.RWMutex
	ch     chan entity.EditRecord
	closed bool
}

// NewEditRecorder buffers up to size records; when the buffer is full new
// records are dropped and logged rather than blocking the session.
func NewEditRecorder(size int) EditRecorder {
	if size <= 0 {
		size = 1
	}
	return &channelRecorder{ch: make(chan entity.EditRecord, size)}
}

func (r *channelRecorder) Record(rec entity.EditRecord) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		return
	}
	select {
	case r.ch <- rec:
	default:
		logrus.WithFields(logrus.Fields{
			"session_id": rec.SessionID,
			"outcome":    rec.Outcome,
		}).Warn("Edit record buffer full, dropping record")
	}
}

func (r *channelRecorder) Records() <-chan entity.EditRecord {
	return r.ch
}

func (r *channelRecorder) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.closed {
		r.closed = true
		close(r.ch)
	}
}
