// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package session

import "sync"

// Controller owns at most one live session. Starting a new session
// closes the previous one first, so two sessions never edit the same
// document at once.
type Controller struct {
	mu      sync.Mutex
	current *Session
}

// Start closes any current session and starts a new one over document.
// If New fails, no session is current afterwards.
func (c *Controller) Start(document string, opts Options) (*Session, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.current != nil {
		c.current.Close()
		c.current = nil
	}
	s, err := New(document, opts)
	if err != nil {
		return nil, err
	}
	c.current = s
	return s, nil
}

// Current returns the live session, or nil.
func (c *Controller) Current() *Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// Close tears down the live session, if any.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current != nil {
		c.current.Close()
		c.current = nil
	}
}
