package kafka

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProducerFallsBackToMock(t *testing.T) {
	// nothing listens on port 1
	p := NewProducer("127.0.0.1:1", "photo-edits")

	require.IsType(t, &mockProducer{}, p)
	assert.NoError(t, p.Publish(context.Background(), "s-1", map[string]string{"outcome": "completed"}))
	assert.NoError(t, p.Close())
}
