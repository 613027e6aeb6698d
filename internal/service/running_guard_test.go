package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRunGuard_TryLock(t *testing.T) {
	var g runGuard

	assert.True(t, g.TryLock("a.csv"))
	assert.False(t, g.TryLock("a.csv"), "second lock on the same key must fail")
	assert.True(t, g.TryLock("b.csv"))
	g.Unlock("a.csv")
	g.Unlock("b.csv")

	assert.True(t, g.TryLock("a.csv"))
	g.Unlock("a.csv")
}

func TestRunGuard_Wait(t *testing.T) {
	var g runGuard
	assert.True(t, g.TryLock("a.csv"))

	done := make(chan struct{})
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		g.Wait(ctx)
		close(done)
	}()

	time.Sleep(20 * time.Millisecond)
	g.Unlock("a.csv")

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Wait did not return after Unlock")
	}
}
