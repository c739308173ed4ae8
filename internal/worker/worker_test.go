package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/ds124wfegd/WB_L3/realtyedit/internal/entity"
	"github.com/ds124wfegd/WB_L3/realtyedit/internal/service"
	"github.com/ds124wfegd/WB_L3/realtyedit/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memJournal struct {
	mu      sync.Mutex
	records []*entity.EditRecord
	err     error
}

func (j *memJournal) Save(ctx context.Context, rec *entity.EditRecord) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.err != nil {
		return j.err
	}
	j.records = append(j.records, rec)
	return nil
}

func (j *memJournal) Recent(ctx context.Context, limit int) ([]*entity.EditRecord, error) {
	return j.records, nil
}

func (j *memJournal) BySession(ctx context.Context, sessionID string) ([]*entity.EditRecord, error) {
	return j.records, nil
}

type memPublisher struct {
	mu     sync.Mutex
	keys   []string
	events []interface{}
}

func (p *memPublisher) Publish(ctx context.Context, key string, message interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.keys = append(p.keys, key)
	p.events = append(p.events, message)
	return nil
}

func (p *memPublisher) Close() error { return nil }

type nopEditor struct{}

func (nopEditor) Edit(ctx context.Context, image *entity.Raster, prompt string, mask *entity.Raster) ([]byte, error) {
	return nil, entity.ErrRemote
}

func TestEditJournalWorkerDeliversToBothSinks(t *testing.T) {
	recorder := service.NewEditRecorder(8)
	journal := &memJournal{}
	publisher := &memPublisher{}
	w := NewEditJournalWorker(recorder.Records(), journal, publisher)

	recorder.Record(entity.EditRecord{ID: "e1", SessionID: "s-1", Outcome: entity.OutcomeCompleted})
	recorder.Record(entity.EditRecord{ID: "e2", SessionID: "s-2", Outcome: entity.OutcomeFailed, Error: "boom"})
	recorder.Close()

	w.Start(context.Background())

	require.Len(t, journal.records, 2)
	assert.Equal(t, "e1", journal.records[0].ID)
	assert.Equal(t, []string{"s-1", "s-2"}, publisher.keys)
	ev := publisher.events[1].(editEvent)
	assert.Equal(t, "edit.failed", ev.Event)
	assert.Equal(t, "boom", ev.Error)
}

func TestEditJournalWorkerKeepsPublishingWhenJournalFails(t *testing.T) {
	recorder := service.NewEditRecorder(4)
	publisher := &memPublisher{}
	w := NewEditJournalWorker(recorder.Records(), &memJournal{err: errors.New("db down")}, publisher)

	recorder.Record(entity.EditRecord{ID: "e1", SessionID: "s-1"})
	recorder.Close()
	w.Start(context.Background())

	assert.Len(t, publisher.events, 1)
}

func TestEditJournalWorkerDrainsOnCancel(t *testing.T) {
	recorder := service.NewEditRecorder(4)
	journal := &memJournal{}
	w := NewEditJournalWorker(recorder.Records(), journal, nil)

	recorder.Record(entity.EditRecord{ID: "e1"})
	recorder.Record(entity.EditRecord{ID: "e2"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	w.Start(ctx)

	assert.Len(t, journal.records, 2)
}

func TestSessionCleanupWorker(t *testing.T) {
	now := time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)
	sessions := service.NewSessionService(nopEditor{}, session.WithClock(func() time.Time { return now }))
	old := sessions.Create()
	now = now.Add(3 * time.Hour)
	recent := sessions.Create()

	w := NewSessionCleanupWorker(sessions, nil, time.Minute, 2*time.Hour)
	w.now = func() time.Time { return now }
	w.cleanupIdleSessions()

	_, err := sessions.Get(old.ID())
	assert.ErrorIs(t, err, entity.ErrSessionNotFound)
	_, err = sessions.Get(recent.ID())
	assert.NoError(t, err)
}
