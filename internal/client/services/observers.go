package services

import "github.com/dmitrijs2005/storefront/internal/client/models"

// Subscribe registers fn to be called after every change of decision or
// profile. The returned function removes the registration; calling it more
// than once is harmless.
func (c *SessionCoordinator) Subscribe(fn func(models.Event)) (unsubscribe func()) {
	c.obsMu.Lock()
	id := c.nextObsID
	c.nextObsID++
	c.observers[id] = fn
	c.obsMu.Unlock()

	return func() {
		c.obsMu.Lock()
		delete(c.observers, id)
		c.obsMu.Unlock()
	}
}

// publish calls the observers outside of any coordinator lock, so they may
// call back into the coordinator.
func (c *SessionCoordinator) publish(ev models.Event) {
	c.obsMu.Lock()
	fns := make([]func(models.Event), 0, len(c.observers))
	for _, fn := range c.observers {
		fns = append(fns, fn)
	}
	c.obsMu.Unlock()

	for _, fn := range fns {
		fn(ev)
	}
}
