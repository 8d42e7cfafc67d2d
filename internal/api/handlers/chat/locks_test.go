package chat

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTurnLocksSerializesSameSession(t *testing.T) {
	locks := newTurnLocks()

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		counter int
		maxSeen int
	)

	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			release := locks.acquire("s1")
			defer release()

			mu.Lock()
			counter++
			if counter > maxSeen {
				maxSeen = counter
			}
			mu.Unlock()

			mu.Lock()
			counter--
			mu.Unlock()
		}()
	}
	wg.Wait()

	// 同一 session 同時最多一個回合
	assert.Equal(t, 1, maxSeen)
}

func TestTurnLocksReleasedWhenIdle(t *testing.T) {
	locks := newTurnLocks()

	release := locks.acquire("s1")
	release()

	locks.mu.Lock()
	defer locks.mu.Unlock()
	assert.Empty(t, locks.locks)
}

func TestTurnLocksIndependentSessions(t *testing.T) {
	locks := newTurnLocks()

	releaseA := locks.acquire("a")
	defer releaseA()

	done := make(chan struct{})
	go func() {
		release := locks.acquire("b")
		release()
		close(done)
	}()

	// 不同 session 互不阻塞
	<-done
}
