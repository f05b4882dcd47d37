package service

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	// Interval for cleaning up stale mutexes
	mutexCleanupInterval = 10 * time.Minute

	// How long a mutex must be unused before cleanup
	mutexStaleThreshold = 10 * time.Minute
)

// TurnLockService serializes chat turns per user id. The chat core does not
// lock, so this is applied at the transport layer when strict per-user
// ordering is wanted.
type TurnLockService struct {
	log *logrus.Logger

	userMu sync.Map // map[string]*mutexWithTimestamp

	staleAfter time.Duration

	// Graceful shutdown
	stopChan chan struct{}
	wg       sync.WaitGroup
	stopped  atomic.Bool
}

// mutexWithTimestamp tracks mutex usage for cleanup
type mutexWithTimestamp struct {
	mu       sync.Mutex
	lastUsed atomic.Int64 // Unix nano timestamp
}

// NewTurnLockService starts a background goroutine for mutex cleanup.
// Call Stop() during graceful shutdown.
func NewTurnLockService(log *logrus.Logger) *TurnLockService {
	svc := &TurnLockService{
		log:        log,
		staleAfter: mutexStaleThreshold,
		stopChan:   make(chan struct{}),
	}

	svc.wg.Add(1)
	go svc.cleanupMutexMapLoop(mutexCleanupInterval)

	return svc
}

// Stop gracefully shuts down the service.
// Safe to call multiple times.
func (s *TurnLockService) Stop() {
	if s.stopped.CompareAndSwap(false, true) {
		close(s.stopChan)
		s.wg.Wait()
		s.log.Info("TurnLockService stopped")
	}
}

// Lock blocks until userID is free and returns the matching unlock.
func (s *TurnLockService) Lock(userID string) func() {
	for {
		mt := s.getUserMutex(userID)
		mt.mu.Lock()
		// The entry may have been evicted while we waited; retry on the live one.
		if current, ok := s.userMu.Load(userID); ok && current == mt {
			mt.lastUsed.Store(time.Now().UnixNano())
			return mt.mu.Unlock
		}
		mt.mu.Unlock()
	}
}

// getUserMutex returns mutex for a specific user id
func (s *TurnLockService) getUserMutex(userID string) *mutexWithTimestamp {
	mt, _ := s.userMu.LoadOrStore(userID, &mutexWithTimestamp{})
	result := mt.(*mutexWithTimestamp)
	result.lastUsed.Store(time.Now().UnixNano())
	return result
}

// cleanupMutexMapLoop runs in background to clean stale mutexes
func (s *TurnLockService) cleanupMutexMapLoop(interval time.Duration) {
	defer s.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			s.log.Debug("Mutex cleanup goroutine stopping")
			return
		case <-ticker.C:
			s.cleanupStaleMutexes()
		}
	}
}

// cleanupStaleMutexes removes unused mutexes using TryLock for safety
func (s *TurnLockService) cleanupStaleMutexes() int {
	cutoff := time.Now().Add(-s.staleAfter).UnixNano()
	var cleaned int

	s.userMu.Range(func(key, value any) bool {
		mt, ok := value.(*mutexWithTimestamp)
		if !ok {
			return true
		}

		// TryLock first - if we can't get lock, someone is using it
		if mt.mu.TryLock() {
			// lastUsed is checked under the lock so a concurrent Lock can't slip in
			if mt.lastUsed.Load() < cutoff {
				s.userMu.Delete(key)
				cleaned++
			}
			mt.mu.Unlock()
		}
		return true
	})

	if cleaned > 0 {
		s.log.Debugf("Cleaned up %d stale mutexes", cleaned)
	}
	return cleaned
}
