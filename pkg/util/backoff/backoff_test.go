package backoff

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNextDoublesUpToMax(t *testing.T) {
	b := New(100*time.Millisecond, time.Second)

	var got []time.Duration
	for i := 0; i < 6; i++ {
		got = append(got, b.Next())
	}
	assert.Equal(t, []time.Duration{
		100 * time.Millisecond,
		200 * time.Millisecond,
		400 * time.Millisecond,
		800 * time.Millisecond,
		time.Second,
		time.Second,
	}, got)
	assert.Equal(t, 6, b.Attempts())

	b.Reset()
	assert.Equal(t, 100*time.Millisecond, b.Next())
}

func TestNewFallsBackOnInvalidArgs(t *testing.T) {
	b := New(0, 0)
	assert.Equal(t, 500*time.Millisecond, b.Initial)
	assert.Equal(t, 30*time.Second, b.Max)
}

func TestSleepStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.False(t, Sleep(ctx, time.Hour))
	assert.True(t, Sleep(context.Background(), time.Millisecond))
}
