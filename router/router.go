package router

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/SaiNageswarS/go-mini-boot/web"
)

// ControllerSource hands out the controller instance an operation runs on.
type ControllerSource interface {
	Controller(t reflect.Type) (any, error)
}

// Route binds (Method, Pattern) to one controller operation. Pattern
// segments written as {name} match any single path segment.
type Route struct {
	Method     string
	Pattern    string
	Controller reflect.Type
	Operation  string
	Params     []string

	segments []string
	invoke   web.Invoker
}

type Router struct {
	mu      sync.RWMutex
	exact   map[string]*Route
	ordered []*Route

	controllers ControllerSource
}

func New(controllers ControllerSource) *Router {
	return &Router{
		exact:       map[string]*Route{},
		controllers: controllers,
	}
}

func routeKey(method, path string) string {
	return method + " " + path
}

func splitPath(p string) []string {
	p = strings.Trim(p, "/")
	if p == "" {
		return nil
	}
	return strings.Split(p, "/")
}

func placeholder(segment string) (string, bool) {
	if len(segment) > 2 && strings.HasPrefix(segment, "{") && strings.HasSuffix(segment, "}") {
		return segment[1 : len(segment)-1], true
	}
	return "", false
}

// Register adds a route. The same (method, pattern) may only be registered once.
func (r *Router) Register(method, pattern string, controller reflect.Type, operation string, invoke web.Invoker) error {
	switch {
	case method == "":
		return &InvalidRouteError{Method: method, Pattern: pattern, Reason: "empty method"}
	case !strings.HasPrefix(pattern, "/"):
		return &InvalidRouteError{Method: method, Pattern: pattern, Reason: "pattern must start with /"}
	case invoke == nil:
		return &InvalidRouteError{Method: method, Pattern: pattern, Reason: "no handler"}
	}

	route := &Route{
		Method:     method,
		Pattern:    pattern,
		Controller: controller,
		Operation:  operation,
		segments:   splitPath(pattern),
		invoke:     invoke,
	}
	seen := map[string]bool{}
	for _, s := range route.segments {
		if name, ok := placeholder(s); ok {
			if seen[name] {
				return &InvalidRouteError{Method: method, Pattern: pattern, Reason: "parameter " + name + " repeated"}
			}
			seen[name] = true
			route.Params = append(route.Params, name)
		}
	}

	key := routeKey(method, pattern)

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.exact[key]; ok {
		return &DuplicateRouteError{Method: method, Pattern: pattern}
	}
	r.exact[key] = route
	r.ordered = append(r.ordered, route)
	return nil
}

// Match finds the route for (method, path). An exact pattern match wins;
// otherwise routes are tried in registration order and the first structural
// match is returned together with its extracted parameters.
func (r *Router) Match(method, path string) (*Route, map[string]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if route, ok := r.exact[routeKey(method, path)]; ok {
		return route, map[string]string{}, nil
	}

	segments := splitPath(path)
	for _, route := range r.ordered {
		if route.Method != method || len(route.segments) != len(segments) {
			continue
		}
		if params, ok := route.match(segments); ok {
			return route, params, nil
		}
	}
	return nil, nil, &RouteNotFoundError{Method: method, Path: path}
}

func (rt *Route) match(segments []string) (map[string]string, bool) {
	params := map[string]string{}
	for i, s := range rt.segments {
		if name, ok := placeholder(s); ok {
			params[name] = segments[i]
			continue
		}
		if s != segments[i] {
			return nil, false
		}
	}
	return params, true
}

// Dispatch routes req to its operation. Path parameters are copied into
// req.Params before the operation runs.
func (r *Router) Dispatch(req *web.Request) (web.Response, error) {
	route, params, err := r.Match(req.Method, req.Path)
	if err != nil {
		return nil, err
	}
	for k, v := range params {
		req.SetParam(k, v)
	}

	controller, err := r.controllers.Controller(route.Controller)
	if err != nil {
		return nil, route.fail(err)
	}

	res, err := route.invoke(controller, req)
	if err != nil {
		return nil, route.fail(err)
	}
	if res == nil {
		return nil, route.fail(errors.New("operation returned no response"))
	}
	return res, nil
}

func (rt *Route) fail(err error) error {
	return &DispatchError{Method: rt.Method, Pattern: rt.Pattern, Operation: rt.Operation, Err: err}
}

// Routes returns a snapshot of all routes in registration order.
func (r *Router) Routes() []Route {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Route, 0, len(r.ordered))
	for _, route := range r.ordered {
		out = append(out, *route)
	}
	return out
}
