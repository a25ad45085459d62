package service

import "sync"

// keyedMutex serializes session mutations per plate or card uid, making the
// "no open session exists" check and the following write atomic as a unit.
// Sessions for different keys stay fully independent. Entries are never
// reclaimed; the set of keys is bounded by the plates and cards the facility
// ever sees.
type keyedMutex struct {
	locks sync.Map // key -> *sync.Mutex
}

// lock acquires the mutex for key and returns its unlock function.
func (k *keyedMutex) lock(key string) func() {
	v, _ := k.locks.LoadOrStore(key, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}
