// Package history keeps the linear undo/redo sequence of image states.
package history

import "github.com/ds124wfegd/WB_L3/realtyedit/internal/entity"

// History is a branch-discarding undo stack. Only Append and ResetTo change
// the sequence; Undo and Redo move the index.
type History struct {
	states []*entity.ImageState
	index  int
}

func New() *History {
	return &History{}
}

// Append drops any redo branch and makes state current.
func (h *History) Append(state *entity.ImageState) {
	if len(h.states) > 0 {
		h.states = h.states[:h.index+1]
	}
	h.states = append(h.states, state)
	h.index = len(h.states) - 1
}

// Undo reports whether the index moved.
func (h *History) Undo() bool {
	if h.index > 0 {
		h.index--
		return true
	}
	return false
}

// Redo reports whether the index moved.
func (h *History) Redo() bool {
	if h.index < len(h.states)-1 {
		h.index++
		return true
	}
	return false
}

// Current returns nil for an empty history.
func (h *History) Current() *entity.ImageState {
	if len(h.states) == 0 {
		return nil
	}
	return h.states[h.index]
}

// First returns the original upload, or nil.
func (h *History) First() *entity.ImageState {
	if len(h.states) == 0 {
		return nil
	}
	return h.states[0]
}

// ResetTo replaces the sequence with state alone, or empties it when state is nil.
func (h *History) ResetTo(state *entity.ImageState) {
	h.states = nil
	h.index = 0
	if state != nil {
		h.states = []*entity.ImageState{state}
	}
}

func (h *History) Len() int { return len(h.states) }

func (h *History) Index() int { return h.index }

func (h *History) CanUndo() bool { return h.index > 0 }

func (h *History) CanRedo() bool { return h.index < len(h.states)-1 }
