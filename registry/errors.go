package registry

import (
	"fmt"

	"github.com/SaiNageswarS/go-mini-boot/bootErrors"
)

// DuplicateBindingError is returned when a (capability, qualifier) pair is bound twice.
type DuplicateBindingError struct {
	Capability string
	Qualifier  string
	Existing   string
	Rejected   string
}

func (e *DuplicateBindingError) Error() string {
	return fmt.Sprintf("duplicate binding for %s qualified %q: %s already bound, rejected %s",
		e.Capability, e.Qualifier, e.Existing, e.Rejected)
}

func (e *DuplicateBindingError) Is(target error) bool {
	return target == bootErrors.ErrConfiguration
}

// BindingNotFoundError is returned when no implementation is bound to a
// (capability, qualifier) pair.
type BindingNotFoundError struct {
	Capability string
	Qualifier  string
}

func (e *BindingNotFoundError) Error() string {
	return fmt.Sprintf("no implementation bound for %s qualified %q", e.Capability, e.Qualifier)
}

func (e *BindingNotFoundError) Is(target error) bool {
	return target == bootErrors.ErrResolution
}
