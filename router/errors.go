package router

import (
	"fmt"

	"github.com/SaiNageswarS/go-mini-boot/bootErrors"
)

// DuplicateRouteError is returned when (method, pattern) is registered twice.
type DuplicateRouteError struct {
	Method  string
	Pattern string
}

func (e *DuplicateRouteError) Error() string {
	return fmt.Sprintf("duplicate route %s %s", e.Method, e.Pattern)
}

func (e *DuplicateRouteError) Is(target error) bool {
	return target == bootErrors.ErrConfiguration
}

// InvalidRouteError is returned for a route that can never be matched.
type InvalidRouteError struct {
	Method  string
	Pattern string
	Reason  string
}

func (e *InvalidRouteError) Error() string {
	return fmt.Sprintf("invalid route %s %s: %s", e.Method, e.Pattern, e.Reason)
}

func (e *InvalidRouteError) Is(target error) bool {
	return target == bootErrors.ErrConfiguration
}

// RouteNotFoundError is returned when no route matches a request.
type RouteNotFoundError struct {
	Method string
	Path   string
}

func (e *RouteNotFoundError) Error() string {
	return fmt.Sprintf("no route for %s %s", e.Method, e.Path)
}

func (e *RouteNotFoundError) Is(target error) bool {
	return target == bootErrors.ErrRequest
}

// DispatchError wraps a failure of the matched operation.
type DispatchError struct {
	Method    string
	Pattern   string
	Operation string
	Err       error
}

func (e *DispatchError) Error() string {
	return fmt.Sprintf("%s %s (%s): %v", e.Method, e.Pattern, e.Operation, e.Err)
}

func (e *DispatchError) Unwrap() error { return e.Err }

func (e *DispatchError) Is(target error) bool {
	return target == bootErrors.ErrRequest
}
