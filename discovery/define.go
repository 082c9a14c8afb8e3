package discovery

import (
	"fmt"
	"reflect"

	"github.com/SaiNageswarS/go-mini-boot/web"
)

// Definition declares the metadata of component type T fluently:
//
//	discovery.Define[StudentService]("example/service", discovery.Service).
//		Autowired(discovery.Wire("repo", "inMemory", func(s *StudentService, r Repo) { s.repo = r })).
//		Descriptor()
type Definition[T any] struct {
	d Descriptor
}

func Define[T any](namespace string, stereotypes Stereotype) *Definition[T] {
	return &Definition[T]{d: Descriptor{
		Type:        reflect.TypeOf((*T)(nil)),
		Namespace:   namespace,
		Stereotypes: stereotypes,
		Scope:       ScopeSingleton,
		New:         func() any { return new(T) },
	}}
}

// Qualified marks T as the implementation of capabilities under qualifier.
func (b *Definition[T]) Qualified(qualifier string, capabilities ...reflect.Type) *Definition[T] {
	b.d.Stereotypes |= Qualified
	b.d.Qualifier = qualifier
	b.d.Implements = append(b.d.Implements, capabilities...)
	return b
}

func (b *Definition[T]) Scope(s Scope) *Definition[T] {
	b.d.Scope = s
	return b
}

func (b *Definition[T]) Autowired(fields ...Injection[T]) *Definition[T] {
	for _, f := range fields {
		b.d.Fields = append(b.d.Fields, f.field)
	}
	return b
}

// Handle registers a handler operation. Only controllers may declare them.
func (b *Definition[T]) Handle(method, path, name string, fn func(*T, *web.Request) (web.Response, error)) *Definition[T] {
	var invoke web.Invoker
	if fn != nil {
		invoke = func(controller any, req *web.Request) (web.Response, error) {
			c, ok := controller.(*T)
			if !ok {
				return nil, fmt.Errorf("operation %s expects %T, got %T", name, (*T)(nil), controller)
			}
			return fn(c, req)
		}
	}
	b.d.Operations = append(b.d.Operations, Operation{Method: method, Path: path, Name: name, Invoke: invoke})
	return b
}

func (b *Definition[T]) GET(path, name string, fn func(*T, *web.Request) (web.Response, error)) *Definition[T] {
	return b.Handle("GET", path, name, fn)
}

func (b *Definition[T]) POST(path, name string, fn func(*T, *web.Request) (web.Response, error)) *Definition[T] {
	return b.Handle("POST", path, name, fn)
}

func (b *Definition[T]) PUT(path, name string, fn func(*T, *web.Request) (web.Response, error)) *Definition[T] {
	return b.Handle("PUT", path, name, fn)
}

func (b *Definition[T]) DELETE(path, name string, fn func(*T, *web.Request) (web.Response, error)) *Definition[T] {
	return b.Handle("DELETE", path, name, fn)
}

func (b *Definition[T]) Descriptor() Descriptor {
	d := b.d
	d.Implements = append([]reflect.Type(nil), b.d.Implements...)
	d.Fields = append([]Field(nil), b.d.Fields...)
	d.Operations = append([]Operation(nil), b.d.Operations...)
	return d
}

// Injection is a field injection point owned by T.
type Injection[T any] struct {
	field Field
}

// Wire declares field name of T, receiving a D through set. Interface types
// need a qualifier; concrete types must themselves be declared components.
func Wire[T, D any](name, qualifier string, set func(*T, D)) Injection[T] {
	f := Field{
		Name:      name,
		Type:      TypeOf[D](),
		Qualifier: qualifier,
	}
	if set != nil {
		f.Assign = func(owner, dep any) error {
			o, ok := owner.(*T)
			if !ok {
				return &TypeMismatchError{Field: name, Want: reflect.TypeOf((*T)(nil)).String(), Got: fmt.Sprintf("%T", owner)}
			}
			d, ok := dep.(D)
			if !ok {
				return &TypeMismatchError{Field: name, Want: f.Type.String(), Got: fmt.Sprintf("%T", dep)}
			}
			set(o, d)
			return nil
		}
	}
	return Injection[T]{field: f}
}

// Verbose logs every injection into this field.
func (i Injection[T]) Verbose() Injection[T] {
	i.field.Verbose = true
	return i
}

// Abstract declares capability I in namespace. The scanner skips it; it
// exists so capabilities can be listed next to their implementations.
func Abstract[I any](namespace string) Descriptor {
	return Descriptor{Type: TypeOf[I](), Namespace: namespace}
}
