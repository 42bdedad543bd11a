package service

import "sync"

// KeyLock serializes critical sections per logical key. Distinct keys
// proceed independently; callers holding the same key are strictly ordered,
// so the loser of a race always observes the winner's committed state.
//
// One instance is shared by the matchmaker and the move coordinator: rooms
// lock under "room:<id>", games under "game:<id>".
type KeyLock struct {
	mutex sync.Mutex
	locks map[string]*lockEntry
}

type lockEntry struct {
	mu   sync.Mutex
	refs int
}

func NewKeyLock() *KeyLock {
	return &KeyLock{
		locks: make(map[string]*lockEntry),
	}
}

// Acquire blocks until the key's lock is held and returns the release
// function. Entries are reference-counted and removed once idle so the
// registry does not grow with every game ever played.
func (that *KeyLock) Acquire(key string) func() {
	that.mutex.Lock()
	entry, ok := that.locks[key]
	if !ok {
		entry = &lockEntry{}
		that.locks[key] = entry
	}
	entry.refs++
	that.mutex.Unlock()

	entry.mu.Lock()

	return func() {
		entry.mu.Unlock()

		that.mutex.Lock()
		entry.refs--
		if entry.refs == 0 {
			delete(that.locks, key)
		}
		that.mutex.Unlock()
	}
}

func roomLockKey(roomID string) string {
	return "room:" + roomID
}

func gameLockKey(gameID string) string {
	return "game:" + gameID
}
