package store

import (
	"path/filepath"
	"sync"
)

// writeLocks serialises writers per store path within the process
var writeLocks sync.Map // map[string]*sync.Mutex

func lockPath(path string) (unlock func()) {
	key := filepath.Clean(path)
	if abs, err := filepath.Abs(key); err == nil {
		key = abs
	}
	v, _ := writeLocks.LoadOrStore(key, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}
