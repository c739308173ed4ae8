package session

import (
	"github.com/ds124wfegd/WB_L3/realtyedit/internal/entity"
	"github.com/ds124wfegd/WB_L3/realtyedit/internal/viewport"
)

// HandlePointer routes a unified pointer event to the mask or the viewport.
// Only the primary pointer with the primary button starts a stroke or a pan.
func (s *Session) HandlePointer(ev entity.PointerEvent) *entity.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.history.Current().Empty() {
		return s.snapshotLocked()
	}

	screen := viewport.Point{X: ev.ClientX, Y: ev.ClientY}

	switch ev.Kind {
	case entity.PointerDown:
		if !ev.IsPrimary || ev.Button != 0 {
			return s.snapshotLocked()
		}
		if ev.Target == entity.TargetViewport {
			s.panning = true
			s.panFrom = screen
			return s.snapshotLocked()
		}
		p := s.view.ToImageSpace(screen)
		s.mask.BeginStroke(p.X, p.Y)
		return s.changed()

	case entity.PointerMove:
		if !ev.IsPrimary {
			return s.snapshotLocked()
		}
		if s.mask.Stroking() {
			p := s.view.ToImageSpace(screen)
			s.mask.ContinueStroke(p.X, p.Y)
			return s.changed()
		}
		if s.panning {
			s.view.Pan(viewport.Point{X: screen.X - s.panFrom.X, Y: screen.Y - s.panFrom.Y})
			s.panFrom = screen
			return s.changed()
		}

	case entity.PointerUp, entity.PointerLeave:
		if s.mask.Stroking() {
			s.mask.EndStroke()
			return s.changed()
		}
		s.panning = false
	}

	return s.snapshotLocked()
}
