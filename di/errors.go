package di

import (
	"fmt"
	"strings"

	"github.com/SaiNageswarS/go-mini-boot/bootErrors"
)

// CircularDependencyError is returned when a type is requested again while
// it is still being constructed within the same resolution.
type CircularDependencyError struct {
	Type  string
	Chain []string
}

func (e *CircularDependencyError) Error() string {
	return fmt.Sprintf("circular dependency detected for %s (%s)", e.Type, strings.Join(e.Chain, " -> "))
}

func (e *CircularDependencyError) Is(target error) bool {
	return target == bootErrors.ErrResolution
}

// MissingQualifierError is returned for an interface-typed field declared
// without a qualifier.
type MissingQualifierError struct {
	Owner string
	Field string
	Type  string
}

func (e *MissingQualifierError) Error() string {
	return fmt.Sprintf("field %s.%s of interface type %s needs a qualifier", e.Owner, e.Field, e.Type)
}

func (e *MissingQualifierError) Is(target error) bool {
	return target == bootErrors.ErrResolution
}

// InvalidInjectionTargetError is returned for a concrete field type that is
// not a bean, service or component.
type InvalidInjectionTargetError struct {
	Owner string
	Field string
	Type  string
}

func (e *InvalidInjectionTargetError) Error() string {
	return fmt.Sprintf("field %s.%s: %s is not a bean, service or component", e.Owner, e.Field, e.Type)
}

func (e *InvalidInjectionTargetError) Is(target error) bool {
	return target == bootErrors.ErrResolution
}

// UnknownComponentError is returned when a type has no scanned descriptor.
type UnknownComponentError struct {
	Type string
}

func (e *UnknownComponentError) Error() string {
	return fmt.Sprintf("no component declared for %s", e.Type)
}

func (e *UnknownComponentError) Is(target error) bool {
	return target == bootErrors.ErrResolution
}

// InjectionError wraps a failure to fill one field.
type InjectionError struct {
	Owner string
	Field string
	Err   error
}

func (e *InjectionError) Error() string {
	return fmt.Sprintf("inject %s.%s: %v", e.Owner, e.Field, e.Err)
}

func (e *InjectionError) Unwrap() error { return e.Err }
