package service

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTurnLockService_SerializesSameUser(t *testing.T) {
	svc := NewTurnLockService(newTestLogger())
	defer svc.Stop()

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		active  int
		maxSeen int
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := svc.Lock("u-1")
			defer unlock()

			mu.Lock()
			active++
			if active > maxSeen {
				maxSeen = active
			}
			mu.Unlock()

			time.Sleep(time.Millisecond)

			mu.Lock()
			active--
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, maxSeen)
}

func TestTurnLockService_IndependentUsers(t *testing.T) {
	svc := NewTurnLockService(newTestLogger())
	defer svc.Stop()

	unlockA := svc.Lock("a")
	defer unlockA()

	done := make(chan struct{})
	go func() {
		unlock := svc.Lock("b")
		unlock()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("lock for another user blocked")
	}
}

func TestTurnLockService_CleanupStaleMutexes(t *testing.T) {
	svc := NewTurnLockService(newTestLogger())
	defer svc.Stop()
	svc.staleAfter = -time.Second // everything is stale

	unlock := svc.Lock("busy")
	svc.Lock("idle")()

	assert.Equal(t, 1, svc.cleanupStaleMutexes())
	_, busyKept := svc.userMu.Load("busy")
	assert.True(t, busyKept)
	unlock()

	svc.Stop()
	svc.Stop() // idempotent
}
