package ratelimit

import (
	"fmt"
	"sync"
)

// MutexMap hands out one mutex per key. A key's mutex is dropped once no
// goroutine holds or waits on it.
type MutexMap struct {
	edit         sync.Mutex
	queueLengths map[string]int
	mutexes      map[string]*sync.Mutex
}

func NewMutexMap() *MutexMap {
	return &MutexMap{
		queueLengths: make(map[string]int),
		mutexes:      make(map[string]*sync.Mutex),
	}
}

func (m *MutexMap) Lock(key string) {
	m.edit.Lock()

	mu := m.mutexes[key]
	if mu == nil {
		mu = &sync.Mutex{}
		m.mutexes[key] = mu
	}
	m.queueLengths[key]++
	m.edit.Unlock()

	mu.Lock()
}

func (m *MutexMap) Unlock(key string) error {
	m.edit.Lock()
	defer m.edit.Unlock()

	mu := m.mutexes[key]
	if mu == nil {
		return fmt.Errorf("key %s not found", key)
	}

	mu.Unlock()
	m.queueLengths[key]--

	if m.queueLengths[key] == 0 {
		delete(m.mutexes, key)
		delete(m.queueLengths, key)
	}

	return nil
}

func (m *MutexMap) Len() int {
	m.edit.Lock()
	defer m.edit.Unlock()
	return len(m.mutexes)
}
