package discovery

import (
	"reflect"
	"strings"

	"github.com/SaiNageswarS/go-mini-boot/web"
)

// Stereotype classifies a component. A descriptor may carry several.
type Stereotype uint8

const (
	Controller Stereotype = 1 << iota
	Service
	Component
	Bean
	Qualified
)

var stereotypeNames = []struct {
	s    Stereotype
	name string
}{
	{Controller, "controller"},
	{Service, "service"},
	{Component, "component"},
	{Bean, "bean"},
	{Qualified, "qualified"},
}

func (s Stereotype) Has(other Stereotype) bool { return s&other == other }

func (s Stereotype) String() string {
	var parts []string
	for _, n := range stereotypeNames {
		if s.Has(n.s) {
			parts = append(parts, n.name)
		}
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "|")
}

// Scope is the lifecycle of a bean.
type Scope string

const (
	ScopeSingleton Scope = "singleton"
	ScopePrototype Scope = "prototype"
)

// Field is an injection point of a component.
type Field struct {
	Name      string
	Type      reflect.Type
	Qualifier string
	Verbose   bool

	// Assign stores dep into the field of owner.
	Assign func(owner, dep any) error
}

// Operation is a routable handler method of a controller.
type Operation struct {
	Method string
	Path   string
	Name   string
	Invoke web.Invoker
}

// Descriptor is the static metadata of one component type. Type is the
// pointer type of the component (*T) for concrete components and the
// interface type for abstract declarations.
type Descriptor struct {
	Type        reflect.Type
	Namespace   string
	Stereotypes Stereotype
	Scope       Scope
	Qualifier   string
	Implements  []reflect.Type
	Fields      []Field
	Operations  []Operation
	New         func() any
}

func (d *Descriptor) Name() string {
	if d.Type == nil {
		return "<nil>"
	}
	return d.Type.String()
}

func (d *Descriptor) Is(s Stereotype) bool { return d.Stereotypes.Has(s) }

func (d *Descriptor) Abstract() bool {
	return d.Type != nil && d.Type.Kind() == reflect.Interface
}

// Singleton reports whether at most one instance of the type should exist.
func (d *Descriptor) Singleton() bool {
	if d.Is(Controller) || d.Is(Service) {
		return true
	}
	return d.Is(Bean) && d.Scope != ScopePrototype
}

// Injectable reports whether the type may be injected as a concrete field.
func (d *Descriptor) Injectable() bool {
	return d.Is(Bean) || d.Is(Service) || d.Is(Component)
}

// TypeOf returns the reflect.Type of T, including interface types.
func TypeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}
