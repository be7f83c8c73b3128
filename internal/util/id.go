// Package util provides identifiers and time helpers for tankmate.
package util

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// IDGenerator hands out time-ordered UUIDv7 report identifiers. IDs from
// the same millisecond stay ordered through a 12-bit sequence.
type IDGenerator struct {
	mu       sync.Mutex
	lastTime int64
	seq      uint16
	now      func() time.Time
}

// NewIDGenerator creates a new ID generator.
func NewIDGenerator() *IDGenerator {
	return &IDGenerator{now: time.Now}
}

// NewID generates a new UUIDv7 identifier.
func (g *IDGenerator) NewID() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	ms := g.now().UnixMilli()
	if ms <= g.lastTime {
		ms = g.lastTime
		g.seq++
		if g.seq > 0x0FFF {
			ms++
			g.seq = 0
		}
	} else {
		g.seq = 0
	}
	g.lastTime = ms

	return uuidV7(ms, g.seq).String()
}

func uuidV7(unixMilli int64, seq uint16) uuid.UUID {
	var id uuid.UUID

	binary.BigEndian.PutUint32(id[0:4], uint32(unixMilli>>16))
	binary.BigEndian.PutUint16(id[4:6], uint16(unixMilli))
	binary.BigEndian.PutUint16(id[6:8], 0x7000|(seq&0x0FFF))

	_, _ = rand.Read(id[8:])
	id[8] = (id[8] & 0x3F) | 0x80

	return id
}

// ParseID validates and normalizes a UUID string.
func ParseID(s string) (string, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return "", fmt.Errorf("invalid ID format: %w", err)
	}
	return id.String(), nil
}

// IsValidID checks if a string is a valid UUID.
func IsValidID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}

// Counter assigns monotonic animal ids for hypothetical occupants. It is
// owned by the caller building a check, so ids never leak across checks.
type Counter struct {
	last atomic.Uint64
}

// NewCounter returns a counter whose first id is start+1.
func NewCounter(start uint64) *Counter {
	c := &Counter{}
	c.last.Store(start)
	return c
}

// Next returns the next id.
func (c *Counter) Next() uint64 {
	return c.last.Add(1)
}

// Reserve makes sure future ids are greater than id.
func (c *Counter) Reserve(id uint64) {
	for {
		cur := c.last.Load()
		if cur >= id || c.last.CompareAndSwap(cur, id) {
			return
		}
	}
}
