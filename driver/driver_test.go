package driver

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNextHandleIsUnique(t *testing.T) {
	const n = 100
	var (
		mutex sync.Mutex
		wg    sync.WaitGroup
		seen  = map[Handle]bool{}
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			h := NextHandle()
			mutex.Lock()
			defer mutex.Unlock()
			seen[h] = true
		}()
	}
	wg.Wait()
	assert.Len(t, seen, n)
	for h := range seen {
		assert.Greater(t, h, Handle(0x1000))
	}
}
