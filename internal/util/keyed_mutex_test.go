package util

import (
	"sync"
	"testing"
)

func TestKeyedMutexSerializesSameKey(t *testing.T) {
	km := NewKeyedMutex()

	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			km.Lock("version-1")
			defer km.Unlock("version-1")
			counter++
		}()
	}
	wg.Wait()

	if counter != 100 {
		t.Errorf("expected 100 increments, got %d", counter)
	}
}

func TestKeyedMutexIndependentKeys(t *testing.T) {
	km := NewKeyedMutex()

	km.Lock("version-1")
	defer km.Unlock("version-1")

	done := make(chan struct{})
	go func() {
		km.Lock("version-2")
		km.Unlock("version-2")
		close(done)
	}()

	// A different key must not be blocked by the held lock.
	<-done
}

func TestKeyedMutexReleasesEntries(t *testing.T) {
	km := NewKeyedMutex()

	km.Lock("version-1")
	km.Unlock("version-1")

	km.mu.Lock()
	defer km.mu.Unlock()
	if len(km.locks) != 0 {
		t.Errorf("expected lock map to be empty after release, got %d entries", len(km.locks))
	}
}
