package tracking

import "sync"

// MemoryChannel is an in-process RealtimeChannel for tests and single-node
// development runs.
type MemoryChannel struct {
	mu       sync.Mutex
	values   map[string][]byte
	handlers map[string]map[int]func([]byte)
	nextID   int
}

// NewMemoryChannel builds an empty in-process channel.
func NewMemoryChannel() *MemoryChannel {
	return &MemoryChannel{
		values:   make(map[string][]byte),
		handlers: make(map[string]map[int]func([]byte)),
	}
}

// Publish overwrites the current value for key and notifies subscribers.
func (c *MemoryChannel) Publish(key string, value []byte) error {
	c.mu.Lock()
	c.values[key] = value
	subscribers := make([]func([]byte), 0, len(c.handlers[key]))
	for _, h := range c.handlers[key] {
		subscribers = append(subscribers, h)
	}
	c.mu.Unlock()

	for _, h := range subscribers {
		h(value)
	}
	return nil
}

// Current returns the latest value for key.
func (c *MemoryChannel) Current(key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	value, ok := c.values[key]
	return value, ok, nil
}

// Subscribe registers a handler for future publishes on key.
func (c *MemoryChannel) Subscribe(key string, handler func([]byte)) (func(), error) {
	c.mu.Lock()
	id := c.nextID
	c.nextID++
	if c.handlers[key] == nil {
		c.handlers[key] = make(map[int]func([]byte))
	}
	c.handlers[key][id] = handler
	c.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			c.mu.Lock()
			delete(c.handlers[key], id)
			c.mu.Unlock()
		})
	}
	return cancel, nil
}
