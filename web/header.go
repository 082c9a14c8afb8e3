package web

import "strings"

type headerField struct {
	name  string
	value string
}

// Header is an insertion-ordered header list. Names keep the case they were
// written with; lookups ignore case.
type Header struct {
	fields []headerField
}

func NewHeader() *Header {
	return &Header{}
}

// Add appends a field, keeping any previous value with the same name.
func (h *Header) Add(name, value string) {
	h.fields = append(h.fields, headerField{name, value})
}

// Set replaces the first field named name or appends a new one. Later
// duplicates are removed.
func (h *Header) Set(name, value string) {
	out := h.fields[:0]
	replaced := false
	for _, f := range h.fields {
		if strings.EqualFold(f.name, name) {
			if replaced {
				continue
			}
			f.value = value
			replaced = true
		}
		out = append(out, f)
	}
	h.fields = out
	if !replaced {
		h.Add(name, value)
	}
}

// Get returns the first value for name, or "".
func (h *Header) Get(name string) string {
	v, _ := h.Lookup(name)
	return v
}

func (h *Header) Lookup(name string) (string, bool) {
	if h == nil {
		return "", false
	}
	for _, f := range h.fields {
		if strings.EqualFold(f.name, name) {
			return f.value, true
		}
	}
	return "", false
}

func (h *Header) Len() int {
	if h == nil {
		return 0
	}
	return len(h.fields)
}

// Each visits the fields in insertion order.
func (h *Header) Each(fn func(name, value string)) {
	if h == nil {
		return
	}
	for _, f := range h.fields {
		fn(f.name, f.value)
	}
}

func (h *Header) Clone() *Header {
	c := &Header{}
	if h != nil {
		c.fields = append(c.fields, h.fields...)
	}
	return c
}
