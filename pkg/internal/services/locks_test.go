package services

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeyedMutexSerializesSameKey(t *testing.T) {
	locks := newKeyedMutex()

	var wg sync.WaitGroup
	counter := 0
	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			locks.Lock("same")
			counter++
			locks.Unlock("same")
		}()
	}
	wg.Wait()

	assert.Equal(t, 64, counter)
}

func TestKeyedMutexIndependentKeys(t *testing.T) {
	locks := newKeyedMutex()

	locks.Lock("a")
	// A different key must not block while "a" is held.
	done := make(chan struct{})
	go func() {
		locks.Lock("b")
		locks.Unlock("b")
		close(done)
	}()
	<-done
	locks.Unlock("a")
}
