package http

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRemoteAddr_ResolvesAtMostOnce(t *testing.T) {
	var r RemoteAddr

	addr, known := r.Get()
	assert.False(t, known)
	assert.Empty(t, addr)

	assert.False(t, r.Resolve(""), "empty address is ignored")
	assert.True(t, r.Resolve("10.0.0.1:443"))
	assert.False(t, r.Resolve("10.0.0.2:443"))

	addr, known = r.Get()
	assert.True(t, known)
	assert.Equal(t, "10.0.0.1:443", addr)
}

func TestRemoteAddr_SealFreezesUnknown(t *testing.T) {
	var r RemoteAddr

	addr, known := r.Seal()
	assert.False(t, known)
	assert.Empty(t, addr)

	assert.False(t, r.Resolve("10.0.0.1:80"), "late notification after seal")
	_, known = r.Get()
	assert.False(t, known)
}

func TestRemoteAddr_ConcurrentResolve(t *testing.T) {
	var r RemoteAddr
	var wg sync.WaitGroup
	var mu sync.Mutex
	winners := 0

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if r.Resolve(fmt.Sprintf("10.0.0.%d:80", i)) {
				mu.Lock()
				winners++
				mu.Unlock()
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, winners)
	_, known := r.Seal()
	assert.True(t, known)
}
