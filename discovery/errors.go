package discovery

import (
	"fmt"

	"github.com/SaiNageswarS/go-mini-boot/bootErrors"
)

// LoadError reports a descriptor that cannot be turned into a component.
type LoadError struct {
	Type   string
	Reason string
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("cannot load component %s: %s", e.Type, e.Reason)
}

func (e *LoadError) Is(target error) bool {
	return target == bootErrors.ErrConfiguration
}

// MissingScanRootError is returned when the scan root is empty or selects nothing.
type MissingScanRootError struct {
	Root string
}

func (e *MissingScanRootError) Error() string {
	if e.Root == "" {
		return "scan root is not set"
	}
	return fmt.Sprintf("scan root %q contains no components", e.Root)
}

func (e *MissingScanRootError) Is(target error) bool {
	return target == bootErrors.ErrConfiguration
}

// TypeMismatchError is returned when a resolved dependency cannot be stored
// in the field it was resolved for.
type TypeMismatchError struct {
	Field string
	Want  string
	Got   string
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("field %s wants %s, got %s", e.Field, e.Want, e.Got)
}

func (e *TypeMismatchError) Is(target error) bool {
	return target == bootErrors.ErrResolution
}
