package main

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDebounceFileEvents(t *testing.T) {
	t.Run("coalesces a burst into the last event", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		in := make(chan fileEvent)
		out := make(chan fileEvent)
		go debounceFileEvents(ctx, in, out, 20*time.Millisecond)

		stamp := time.Now()
		in <- fileEvent{Path: "skills/schema-validation/SKILL.md", Time: stamp}
		in <- fileEvent{Path: "skills/schema-validation/AGENTS.md", Time: stamp.Add(time.Millisecond)}

		select {
		case event := <-out:
			assert.Equal(t, "skills/schema-validation/AGENTS.md", event.Path)
			assert.Equal(t, stamp.Add(time.Millisecond), event.Time)
		case <-time.After(time.Second):
			t.Fatal("debounced event never arrived")
		}
	})

	t.Run("closes output on cancellation", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		in := make(chan fileEvent)
		out := make(chan fileEvent)
		go debounceFileEvents(ctx, in, out, 20*time.Millisecond)

		cancel()
		select {
		case _, ok := <-out:
			require.False(t, ok)
		case <-time.After(time.Second):
			t.Fatal("output channel never closed")
		}
	})
}
