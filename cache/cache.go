// Package cache is the bounded store of parsed programs keyed by their
// (trimmed) source text. Eviction is FIFO: reads never promote an entry, the
// oldest inserted entry goes first once the size exceeds the maximum.
// Not safe for concurrent use.
package cache

import (
	"errors"
	"fmt"
	"math"

	"fortio.org/log"
	"fortio.org/safecast"
	"grol.io/lits/ast"
)

var (
	ErrDuplicateKey = errors.New("cache key already present")
	ErrInvalidSize  = errors.New("cache max size must be at least 1")
)

type entry struct {
	key   string
	value *ast.Program
	next  *entry
}

type Cache struct {
	maxSize int // 0 means unbounded.
	entries map[string]*entry
	first   *entry // oldest.
	last    *entry // newest.
}

// New returns a cache holding at most maxSize programs. maxSize is rounded
// up to an integer and must then be at least 1; +Inf means no eviction.
func New(maxSize float64) (*Cache, error) {
	c := &Cache{entries: make(map[string]*entry)}
	if math.IsInf(maxSize, 1) {
		return c, nil
	}
	size, err := safecast.Convert[int](math.Ceil(max(0, maxSize)))
	if err != nil || size < 1 {
		return nil, fmt.Errorf("%w, got %v", ErrInvalidSize, maxSize)
	}
	c.maxSize = size
	return c, nil
}

func (c *Cache) Len() int {
	return len(c.entries)
}

func (c *Cache) MaxSize() int {
	return c.maxSize
}

func (c *Cache) Get(key string) (*ast.Program, bool) {
	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	return e.value, true
}

func (c *Cache) Has(key string) bool {
	_, ok := c.entries[key]
	return ok
}

// Set appends a new entry. Entries are write once: setting an existing key is an error.
func (c *Cache) Set(key string, value *ast.Program) error {
	if c.Has(key) {
		return fmt.Errorf("%w: %q", ErrDuplicateKey, key)
	}
	e := &entry{key: key, value: value}
	c.entries[key] = e
	if c.last == nil {
		c.first = e
	} else {
		c.last.next = e
	}
	c.last = e
	for c.maxSize > 0 && len(c.entries) > c.maxSize {
		c.dropFirst()
	}
	return nil
}

func (c *Cache) dropFirst() {
	e := c.first
	log.LogVf("AST cache full (%d), evicting %q", c.maxSize, e.key)
	delete(c.entries, e.key)
	c.first = e.next
	if c.first == nil {
		c.last = nil
	}
}

func (c *Cache) Clear() {
	c.entries = make(map[string]*entry)
	c.first = nil
	c.last = nil
}
