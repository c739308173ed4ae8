package storage

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStorageLifecycle(t *testing.T) {
	s := NewFileStorage(t.TempDir())

	require.NoError(t, s.Save("s-1/house_edited.png", strings.NewReader("png-bytes")))
	assert.True(t, s.Exists("s-1/house_edited.png"))

	r, err := s.Get("s-1/house_edited.png")
	require.NoError(t, err)
	data, err := io.ReadAll(r)
	require.NoError(t, r.Close())
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))

	require.NoError(t, s.Save("s-1/house_edited.png", strings.NewReader("newer")))
	r, err = s.Get("s-1/house_edited.png")
	require.NoError(t, err)
	data, _ = io.ReadAll(r)
	r.Close()
	assert.Equal(t, "newer", string(data))

	require.NoError(t, s.Delete("s-1"))
	assert.False(t, s.Exists("s-1/house_edited.png"))
}

func TestFileStorageRejectsEscapes(t *testing.T) {
	tests := []string{"../outside.png", "s-1/../../outside.png"}

	for _, path := range tests {
		t.Run(path, func(t *testing.T) {
			s := NewFileStorage(t.TempDir())

			assert.ErrorIs(t, s.Save(path, strings.NewReader("x")), ErrOutsideBase)
			assert.False(t, s.Exists(path))
		})
	}
}
