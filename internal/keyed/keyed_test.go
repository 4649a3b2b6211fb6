package keyed

import (
	"sync"
	"testing"
)

func TestLockSerializesSameKey(t *testing.T) {
	m := New()

	var counter int
	var wg sync.WaitGroup
	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := m.Lock("Nesco1")
			counter++
			unlock()
		}()
	}
	wg.Wait()

	if counter != 64 {
		t.Errorf("counter = %d, want 64", counter)
	}
}

func TestDifferentKeysDoNotBlock(t *testing.T) {
	m := New()

	unlockA := m.Lock("Nesco1")
	done := make(chan struct{})
	go func() {
		unlockB := m.Lock("Desco1")
		unlockB()
		close(done)
	}()
	<-done // must complete while Nesco1 is still held
	unlockA()
}

func TestEntriesAreReclaimed(t *testing.T) {
	m := New()

	for i := 0; i < 10; i++ {
		unlock := m.Lock("PBS2")
		unlock()
	}

	m.mu.Lock()
	n := len(m.locks)
	m.mu.Unlock()
	if n != 0 {
		t.Errorf("lock map has %d entries, want 0", n)
	}
}
