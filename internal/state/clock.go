package state

import (
	"sync/atomic"

	"github.com/google/uuid"
)

// Stamp orders writes across replicas: higher Lamport wins, Site breaks
// ties.
type Stamp struct {
	Lamport uint64 `json:"lamport"`
	Site    string `json:"site"`
}

// After reports whether s is newer than o.
func (s Stamp) After(o Stamp) bool {
	if s.Lamport != o.Lamport {
		return s.Lamport > o.Lamport
	}
	return s.Site > o.Site
}

// IsZero reports whether s was never assigned.
func (s Stamp) IsZero() bool { return s.Lamport == 0 && s.Site == "" }

// Clock is a Lamport clock owned by one replica.
type Clock struct {
	site    string
	lamport atomic.Uint64
}

// NewClock returns a clock with a fresh random site id.
func NewClock() *Clock {
	return &Clock{site: uuid.NewString()}
}

// Tick advances the clock and returns a stamp for a local write.
func (c *Clock) Tick() Stamp {
	return Stamp{Lamport: c.lamport.Add(1), Site: c.site}
}

// Witness moves the clock past a stamp seen from another replica.
func (c *Clock) Witness(s Stamp) {
	for {
		cur := c.lamport.Load()
		if s.Lamport <= cur || c.lamport.CompareAndSwap(cur, s.Lamport) {
			return
		}
	}
}
