package keymutex

import (
	"sync"
	"testing"
)

func TestLockSerialisesPerKey(t *testing.T) {
	m := New()
	var wg sync.WaitGroup
	counter := 0
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := m.Lock("a")
			defer unlock()
			v := counter
			counter = v + 1
		}()
	}
	wg.Wait()
	if counter != 50 {
		t.Fatalf("counter: got=%d want=50", counter)
	}
	if n := m.len(); n != 0 {
		t.Fatalf("idle keys retained: got=%d", n)
	}
}

func TestDistinctKeysDoNotBlock(t *testing.T) {
	m := New()
	unlockA := m.Lock("a")
	done := make(chan struct{})
	go func() {
		unlockB := m.Lock("b")
		unlockB()
		close(done)
	}()
	<-done
	unlockA()
}
