package discovery

import "sync"

// Catalog is the ordered set of descriptors an application declares. It
// stands in for walking source or class files: components register here and
// the scanner filters by namespace.
type Catalog struct {
	mu          sync.Mutex
	descriptors []Descriptor
}

func NewCatalog() *Catalog {
	return &Catalog{}
}

func (c *Catalog) Add(descriptors ...Descriptor) *Catalog {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.descriptors = append(c.descriptors, descriptors...)
	return c
}

// Descriptors returns a copy in registration order.
func (c *Catalog) Descriptors() []Descriptor {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Descriptor(nil), c.descriptors...)
}

func (c *Catalog) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.descriptors)
}
