package history

import (
	"math/rand"
	"strconv"
	"testing"

	"github.com/ds124wfegd/WB_L3/realtyedit/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func state(name string) *entity.ImageState {
	return &entity.ImageState{PixelData: []byte(name), Encoding: "image/png", Name: name}
}

func TestEmptyHistory(t *testing.T) {
	h := New()

	assert.Nil(t, h.Current())
	assert.Nil(t, h.First())
	assert.False(t, h.Undo())
	assert.False(t, h.Redo())
	assert.Equal(t, 0, h.Len())
	assert.Equal(t, 0, h.Index())
}

func TestUndoRedo(t *testing.T) {
	h := New()
	i0, i1 := state("i0"), state("i1")
	h.ResetTo(i0)
	h.Append(i1)

	require.Equal(t, 2, h.Len())
	assert.Equal(t, 1, h.Index())

	assert.True(t, h.Undo())
	assert.Same(t, i0, h.Current())
	assert.False(t, h.Undo())
	assert.Equal(t, 0, h.Index())

	assert.True(t, h.Redo())
	assert.Same(t, i1, h.Current())
	assert.False(t, h.Redo())
	assert.Equal(t, 1, h.Index())
}

func TestAppendDiscardsRedoBranch(t *testing.T) {
	h := New()
	h.ResetTo(state("i0"))
	h.Append(state("i1"))
	h.Append(state("i2"))
	h.Undo()
	h.Undo()

	i3 := state("i3")
	h.Append(i3)

	assert.Equal(t, 2, h.Len())
	assert.Equal(t, 1, h.Index())
	assert.Same(t, i3, h.Current())
	assert.False(t, h.CanRedo())
	assert.False(t, h.Redo())
}

func TestResetTo(t *testing.T) {
	tests := []struct {
		name    string
		state   *entity.ImageState
		wantLen int
	}{
		{name: "keep original", state: state("orig"), wantLen: 1},
		{name: "discard everything", state: nil, wantLen: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := New()
			h.ResetTo(state("a"))
			h.Append(state("b"))

			h.ResetTo(tt.state)

			assert.Equal(t, tt.wantLen, h.Len())
			assert.Equal(t, 0, h.Index())
			assert.Equal(t, tt.state, h.Current())
		})
	}
}

func TestIndexStaysInRangeUnderRandomOps(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	h := New()
	h.ResetTo(state("seed"))

	for i := 0; i < 2000; i++ {
		switch rng.Intn(3) {
		case 0:
			h.Append(state(strconv.Itoa(i)))
			assert.False(t, h.Redo(), "redo right after append must be a no-op")
		case 1:
			h.Undo()
		case 2:
			h.Redo()
		}
		require.GreaterOrEqual(t, h.Index(), 0)
		require.LessOrEqual(t, h.Index(), h.Len()-1)
	}
}
