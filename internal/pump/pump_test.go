package pump

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatchRunsOnServeLoop(t *testing.T) {
	p := New()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go p.Serve(ctx)

	ran := false
	require.NoError(t, p.Dispatch(ctx, func() { ran = true }))
	assert.True(t, ran)
}

func TestDispatchSequential(t *testing.T) {
	p := New()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go p.Serve(ctx)

	var order []int
	for i := 0; i < 10; i++ {
		i := i
		require.NoError(t, p.Dispatch(ctx, func() { order = append(order, i) }))
	}
	assert.Len(t, order, 10)
	for i, v := range order {
		assert.Equal(t, i, v)
	}
}

func TestDispatchCancelledContext(t *testing.T) {
	p := New()

	// Nothing is serving, so dispatch must bail on the context.
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	err := p.Dispatch(ctx, func() {})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
