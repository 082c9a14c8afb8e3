// Package bootErrors holds the error categories shared by every layer of
// go-mini-boot. Concrete error types live next to the code that raises them
// and report their category through errors.Is.
package bootErrors

import "errors"

var (
	// ErrConfiguration marks startup misconfiguration: duplicate bindings or
	// routes, undeclared or unloadable components, a missing scan root.
	ErrConfiguration = errors.New("configuration error")

	// ErrResolution marks failures to produce a dependency.
	ErrResolution = errors.New("resolution error")

	// ErrRequest marks per-request failures. They never terminate the server.
	ErrRequest = errors.New("request error")
)

// Category returns the category sentinel err belongs to, or nil.
func Category(err error) error {
	for _, c := range []error{ErrConfiguration, ErrResolution, ErrRequest} {
		if errors.Is(err, c) {
			return c
		}
	}
	return nil
}
