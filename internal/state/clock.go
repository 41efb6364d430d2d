package state

import (
	"sync/atomic"

	"github.com/google/uuid"
)

// Clock numbers the revisions of one editing session. Every edit ticks it;
// viewers use the site and revision to order the scenes they receive.
type Clock struct {
	site string
	rev  atomic.Uint64
}

func NewClock() *Clock {
	return &Clock{site: uuid.NewString()}
}

// Tick advances the clock and returns the new revision.
func (c *Clock) Tick() uint64 {
	return c.rev.Add(1)
}

// Now returns the current revision without advancing it.
func (c *Clock) Now() uint64 {
	return c.rev.Load()
}

func (c *Clock) Site() string { return c.site }
