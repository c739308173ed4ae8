package worker

import (
	"context"
	"time"

	"github.com/ds124wfegd/WB_L3/realtyedit/internal/database/postgres"
	"github.com/ds124wfegd/WB_L3/realtyedit/internal/entity"
	"github.com/ds124wfegd/WB_L3/realtyedit/internal/service"
	"github.com/sirupsen/logrus"
)

// EditJournalWorker drains finished edit records into the journal and the
// event publisher. Either sink may be nil.
type EditJournalWorker struct {
	records   <-chan entity.EditRecord
	journal   postgres.JournalRepository
	publisher service.EventPublisher
	timeout   time.Duration
}

func NewEditJournalWorker(records <-chan entity.EditRecord, journal postgres.JournalRepository, publisher service.EventPublisher) *EditJournalWorker {
	return &EditJournalWorker{
		records:   records,
		journal:   journal,
		publisher: publisher,
		timeout:   10 * time.Second,
	}
}

// Start runs until records is closed, or until ctx is done.
func (w *EditJournalWorker) Start(ctx context.Context) {
	logrus.Info("Edit journal worker started")

	for {
		select {
		case <-ctx.Done():
			w.drain()
			logrus.Info("Edit journal worker stopped")
			return
		case rec, ok := <-w.records:
			if !ok {
				logrus.Info("Edit journal worker stopped")
				return
			}
			w.handle(ctx, rec)
		}
	}
}

// drain flushes what is already buffered so shutdown does not lose records.
func (w *EditJournalWorker) drain() {
	for {
		select {
		case rec, ok := <-w.records:
			if !ok {
				return
			}
			w.handle(context.Background(), rec)
		default:
			return
		}
	}
}

func (w *EditJournalWorker) handle(ctx context.Context, rec entity.EditRecord) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), w.timeout)
	defer cancel()

	log := logrus.WithFields(logrus.Fields{"session_id": rec.SessionID, "edit_id": rec.ID})

	if w.journal != nil {
		if err := w.journal.Save(ctx, &rec); err != nil {
			log.Errorf("Failed to journal edit: %v", err)
		}
	}

	if w.publisher != nil {
		event := editEvent{
			Event:      rec.EventName(),
			SessionID:  rec.SessionID,
			Prompt:     rec.Prompt,
			Masked:     rec.Masked,
			Outcome:    rec.Outcome,
			Error:      rec.Error,
			DurationMs: rec.DurationMs,
			At:         rec.At,
		}
		if err := w.publisher.Publish(ctx, rec.SessionID, event); err != nil {
			log.Errorf("Failed to publish edit event: %v", err)
		}
	}
}

type editEvent struct {
	Event      string             `json:"event"`
	SessionID  string             `json:"session_id"`
	Prompt     string             `json:"prompt"`
	Masked     bool               `json:"masked"`
	Outcome    entity.EditOutcome `json:"outcome"`
	Error      string             `json:"error,omitempty"`
	DurationMs int64              `json:"duration_ms"`
	At         time.Time          `json:"at"`
}
