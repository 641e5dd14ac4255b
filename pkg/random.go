package pkg

import (
	"math/rand"
	"sync"
	"time"
)

const letters = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

var (
	mu  sync.Mutex
	src = rand.New(rand.NewSource(time.Now().UnixNano()))
)

// RandString returns an n character room code.
func RandString(n int) string {
	mu.Lock()
	defer mu.Unlock()
	b := make([]byte, n)
	for i := range b {
		b[i] = letters[src.Intn(len(letters))]
	}
	return string(b)
}
