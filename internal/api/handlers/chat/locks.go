package chat

import "sync"

// turnLocks 每個 session 一把回合鎖
// 核心的 Session 不允許兩個回合並行修改，這裡以引用計數
// 管理鎖的生命週期，沒有等待者時立即回收
type turnLocks struct {
	mu    sync.Mutex
	locks map[string]*turnLock
}

type turnLock struct {
	mu   sync.Mutex
	refs int
}

func newTurnLocks() *turnLocks {
	return &turnLocks{locks: make(map[string]*turnLock)}
}

// acquire 取得指定 session 的回合鎖，回傳釋放函式
func (t *turnLocks) acquire(sessionID string) func() {
	t.mu.Lock()
	lock, ok := t.locks[sessionID]
	if !ok {
		lock = &turnLock{}
		t.locks[sessionID] = lock
	}
	lock.refs++
	t.mu.Unlock()

	lock.mu.Lock()

	return func() {
		lock.mu.Unlock()

		t.mu.Lock()
		lock.refs--
		if lock.refs == 0 {
			delete(t.locks, sessionID)
		}
		t.mu.Unlock()
	}
}
