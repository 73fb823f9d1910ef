package icprog

import (
	"sync"

	"github.com/hashicorp/golang-lru/v2/simplelru"

	"myceliumweb.org/intcode"
	"myceliumweb.org/intcode/icvm"
)

// Cache holds recently parsed programs, keyed by the hash of their text.
// It is safe for concurrent use.
type Cache struct {
	mu    sync.Mutex
	progs *simplelru.LRU[intcode.Fingerprint, Program]
}

// NewCache returns a Cache holding at most n programs.
func NewCache(n int) *Cache {
	progs, err := simplelru.NewLRU[intcode.Fingerprint, Program](n, nil)
	if err != nil {
		panic(err)
	}
	return &Cache{progs: progs}
}

// Parse is like the package level Parse, but only parses a given text once.
// The returned Program belongs to the caller.
func (c *Cache) Parse(text string) (Program, error) {
	key := intcode.Hash(nil, []byte(text))
	c.mu.Lock()
	prog, exists := c.progs.Get(key)
	c.mu.Unlock()
	if exists {
		return prog.Clone(), nil
	}
	prog, err := Parse(text)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	c.progs.Add(key, prog)
	c.mu.Unlock()
	return prog.Clone(), nil
}

// Load is like the package level Load, but uses the cache.
func (c *Cache) Load(text string, opts ...icvm.Option) (*icvm.VM, error) {
	prog, err := c.Parse(text)
	if err != nil {
		return nil, err
	}
	return icvm.New(prog, opts...), nil
}

// Len returns the number of programs in the cache.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.progs.Len()
}
