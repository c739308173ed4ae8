// Package session owns one edit session: the image history, the mask, the
// viewport and the single outstanding remote edit.
package session

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/ds124wfegd/WB_L3/realtyedit/internal/entity"
	"github.com/ds124wfegd/WB_L3/realtyedit/internal/history"
	"github.com/ds124wfegd/WB_L3/realtyedit/internal/mask"
	"github.com/ds124wfegd/WB_L3/realtyedit/internal/pkg/imagecodec"
	"github.com/ds124wfegd/WB_L3/realtyedit/internal/viewport"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Editor is the remote image edit capability.
type Editor interface {
	Edit(ctx context.Context, image *entity.Raster, prompt string, mask *entity.Raster) ([]byte, error)
}

// Limiter decides whether another remote edit may start for key.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// Recorder receives one record per finished remote edit.
type Recorder interface {
	Record(rec entity.EditRecord)
}

type Option func(*Session)

func WithLimiter(l Limiter) Option { return func(s *Session) { s.limiter = l } }

func WithRecorder(r Recorder) Option { return func(s *Session) { s.recorder = r } }

func WithClock(now func() time.Time) Option { return func(s *Session) { s.now = now } }

// WithEditTimeout bounds each remote call; zero leaves it to the editor.
func WithEditTimeout(d time.Duration) Option { return func(s *Session) { s.editTimeout = d } }

// WithMaxPixels caps width*height of uploads and edit results.
func WithMaxPixels(n int) Option { return func(s *Session) { s.maxPixels = n } }

// Session is safe for concurrent use. Every mutation and observer
// notification happens under mu; the remote call runs without it.
type Session struct {
	id string

	mu         sync.Mutex
	history    *history.History
	mask       *mask.Surface
	view       *viewport.Transform
	guard      guard
	generation uint64
	prompt     string
	errMsg     string
	panning    bool
	panFrom    viewport.Point

	observers    map[int]Observer
	nextObserver int
	version      uint64
	updatedAt    time.Time

	editor      Editor
	limiter     Limiter
	recorder    Recorder
	editTimeout time.Duration
	maxPixels   int
	now         func() time.Time
	log         *logrus.Entry
}

func New(id string, editor Editor, opts ...Option) *Session {
	s := &Session{
		id:        id,
		history:   history.New(),
		mask:      mask.New(),
		view:      viewport.New(),
		observers: make(map[int]Observer),
		editor:    editor,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.updatedAt = s.now()
	s.log = logrus.WithField("session_id", id)
	return s
}

func (s *Session) ID() string { return s.id }

// Upload replaces the whole history with the decoded file. A failed decode
// only records the error.
func (s *Session) Upload(data []byte, name string) (*entity.Snapshot, error) {
	state, err := imagecodec.Decode(data, name, s.maxPixels)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.errMsg = entity.UserMessage(err)
		s.log.WithError(err).Warn("Upload rejected")
		return s.changed(), err
	}

	s.generation++
	s.history.ResetTo(state)
	s.resetSurfacesLocked()
	s.prompt = ""
	s.errMsg = ""

	s.log.WithFields(logrus.Fields{
		"name":     state.Name,
		"encoding": state.Encoding,
		"width":    state.Width,
		"height":   state.Height,
	}).Info("Image uploaded")
	return s.changed(), nil
}

// RequestEdit runs one remote edit for prompt against the current image and,
// on success, appends the result to history. It blocks until the remote call
// returns; a caller going away does not cancel the call.
func (s *Session) RequestEdit(ctx context.Context, prompt string) (*entity.Snapshot, error) {
	prompt = strings.TrimSpace(prompt)

	s.mu.Lock()
	source := s.history.Current()
	if source.Empty() || prompt == "" {
		s.errMsg = entity.ErrInvalidRequest.Error()
		snap := s.changed()
		s.mu.Unlock()
		return snap, entity.ErrInvalidRequest
	}
	if !s.guard.tryAcquire(s.now()) {
		snap := s.snapshotLocked()
		s.mu.Unlock()
		return snap, entity.ErrBusy
	}

	s.prompt = prompt
	s.errMsg = ""
	gen := s.generation
	maskRaster, masked, err := s.mask.Export()
	if err != nil {
		s.guard.release()
		s.errMsg = entity.UserMessage(err)
		snap := s.changed()
		s.mu.Unlock()
		return snap, fmt.Errorf("export mask: %w", err)
	}
	s.changed()
	s.mu.Unlock()

	started := s.now()
	rec := entity.EditRecord{
		ID:         uuid.NewString(),
		SessionID:  s.id,
		Prompt:     prompt,
		Masked:     masked,
		SourceName: source.Name,
	}

	if s.limiter != nil {
		allowed, err := s.limiter.Allow(ctx, s.id)
		if err != nil {
			s.log.WithError(err).Warn("Rate limiter unavailable, allowing edit")
		} else if !allowed {
			return s.finishEdit(gen, source, nil, entity.ErrRateLimited, rec, started)
		}
	}

	image := &entity.Raster{PixelData: source.PixelData, Encoding: source.Encoding}
	editCtx := context.WithoutCancel(ctx)
	if s.editTimeout > 0 {
		var cancel context.CancelFunc
		editCtx, cancel = context.WithTimeout(editCtx, s.editTimeout)
		defer cancel()
	}
	data, err := s.editor.Edit(editCtx, image, prompt, maskRaster)
	return s.finishEdit(gen, source, data, err, rec, started)
}

// QuickEdit applies a catalog prompt to the current image.
func (s *Session) QuickEdit(ctx context.Context, key string) (*entity.Snapshot, error) {
	q, ok := entity.FindQuickEdit(key)
	if !ok {
		return s.Snapshot(), fmt.Errorf("%w: %s", entity.ErrUnknownQuickEdit, key)
	}
	return s.RequestEdit(ctx, q.Prompt)
}

func (s *Session) finishEdit(gen uint64, source *entity.ImageState, data []byte, editErr error, rec entity.EditRecord, started time.Time) (*entity.Snapshot, error) {
	var result *entity.ImageState
	if editErr == nil {
		var err error
		result, err = imagecodec.Decode(data, source.Name, s.maxPixels)
		if err != nil {
			editErr = fmt.Errorf("%w: unreadable result: %v", entity.ErrRemote, err)
		}
	}

	s.mu.Lock()
	s.guard.release()

	var snap *entity.Snapshot
	switch {
	case gen != s.generation:
		rec.Outcome = entity.OutcomeDiscarded
		if editErr == nil {
			editErr = entity.ErrSuperseded
		}
		s.log.WithError(editErr).Info("Discarding edit result for replaced image")
		snap = s.changed()

	case editErr != nil:
		rec.Outcome = entity.OutcomeFailed
		s.errMsg = entity.UserMessage(editErr)
		s.log.WithError(editErr).WithField("masked", rec.Masked).Error("Image edit failed")
		snap = s.changed()

	default:
		result.Name = source.EditName(s.history.Len())
		s.history.Append(result)
		s.resetSurfacesLocked()
		rec.Outcome = entity.OutcomeCompleted
		rec.ResultName = result.Name
		s.log.WithFields(logrus.Fields{
			"result":  result.Name,
			"masked":  rec.Masked,
			"history": s.history.Len(),
		}).Info("Image edit applied")
		snap = s.changed()
	}
	s.mu.Unlock()

	if editErr != nil {
		rec.Error = editErr.Error()
	}
	rec.At = s.now()
	rec.Duration = rec.At.Sub(started)
	rec.DurationMs = rec.Duration.Milliseconds()
	if s.recorder != nil {
		s.recorder.Record(rec)
	}

	if rec.Outcome == entity.OutcomeCompleted {
		return snap, nil
	}
	return snap, editErr
}

// Undo steps back one version; the mask and viewport reset when it moves.
func (s *Session) Undo() *entity.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.history.Undo() {
		return s.snapshotLocked()
	}
	s.resetSurfacesLocked()
	return s.changed()
}

// Redo steps forward one version; the mask and viewport reset when it moves.
func (s *Session) Redo() *entity.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.history.Redo() {
		return s.snapshotLocked()
	}
	s.resetSurfacesLocked()
	return s.changed()
}

// StartOver keeps only the original upload.
func (s *Session) StartOver() *entity.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.generation++
	s.history.ResetTo(s.history.First())
	s.resetSurfacesLocked()
	s.prompt = ""
	s.errMsg = ""
	return s.changed()
}

func (s *Session) DismissError() *entity.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.errMsg == "" {
		return s.snapshotLocked()
	}
	s.errMsg = ""
	return s.changed()
}

// SetTool switches between brush and eraser; unknown tools are ignored.
func (s *Session) SetTool(tool entity.Tool) *entity.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.mask.SetTool(tool)
	return s.changed()
}

func (s *Session) SetBrushSize(size int) *entity.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.mask.SetBrushSize(size)
	return s.changed()
}

func (s *Session) ClearMask() *entity.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.mask.Clear()
	return s.changed()
}

// Zoom applies one wheel notch around a screen-space pivot.
func (s *Session) Zoom(pivot viewport.Point, deltaY float64) *entity.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.view.ZoomWheel(pivot, deltaY)
	return s.changed()
}

// ZoomStep applies a toolbar zoom button, which scales without re-anchoring.
func (s *Session) ZoomStep(direction entity.ZoomDirection) *entity.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch direction {
	case entity.ZoomIn:
		s.view.ZoomBy(viewport.ButtonFactor)
	case entity.ZoomOut:
		s.view.ZoomBy(1 / viewport.ButtonFactor)
	default:
		return s.snapshotLocked()
	}
	return s.changed()
}

func (s *Session) ResetViewport() *entity.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.view.Reset()
	return s.changed()
}

// Current returns the current image state, or nil before the first upload.
func (s *Session) Current() *entity.ImageState {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.history.Current()
}

// Download returns the current image as PNG with its download file name.
func (s *Session) Download() (name string, data []byte, err error) {
	current := s.Current()
	if current.Empty() {
		return "", nil, entity.ErrNothingToExport
	}
	data, err = imagecodec.ToPNG(current)
	if err != nil {
		return "", nil, err
	}
	return current.DownloadName(), data, nil
}

// MaskPNG exports the painted mask; ok is false when nothing is painted.
func (s *Session) MaskPNG() (*entity.Raster, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.mask.Export()
}

func (s *Session) Snapshot() *entity.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.snapshotLocked()
}

// Busy reports whether a remote edit is outstanding.
func (s *Session) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.guard.busy
}

// LastActivity is the time of the last state change.
func (s *Session) LastActivity() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.updatedAt
}

// resetSurfacesLocked clears the mask at the current image size and resets
// the viewport. Callers hold s.mu.
func (s *Session) resetSurfacesLocked() {
	if current := s.history.Current(); !current.Empty() {
		s.mask.Resize(current.Width, current.Height)
	} else {
		s.mask.Resize(0, 0)
	}
	s.view.Reset()
	s.panning = false
}

func (s *Session) snapshotLocked() *entity.Snapshot {
	current := s.history.Current()
	snap := &entity.Snapshot{
		ID:             s.id,
		Busy:           s.guard.busy,
		Error:          s.errMsg,
		Prompt:         s.prompt,
		Image:          current.Meta(),
		HistoryLength:  s.history.Len(),
		HistoryIndex:   s.history.Index(),
		CanUndo:        s.history.CanUndo(),
		CanRedo:        s.history.CanRedo(),
		CanStartOver:   s.history.Len() > 1,
		CanDownload:    s.history.Len() > 1,
		Viewport:       s.view.State(),
		Tool:           s.mask.Tool(),
		BrushSize:      s.mask.BrushSize(),
		MaskHasContent: s.mask.HasContent(),
		Version:        s.version,
		UpdatedAt:      s.updatedAt,
	}

	switch {
	case current.Empty():
		snap.Status = entity.StatusAwaitingUpload
	case s.guard.busy:
		snap.Status = entity.StatusEditing
	case s.errMsg != "":
		snap.Status = entity.StatusError
	default:
		snap.Status = entity.StatusIdle
	}
	return snap
}
