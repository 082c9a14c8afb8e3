package di

import (
	"fmt"
	"reflect"
	"sync"
	"time"

	"github.com/SaiNageswarS/go-mini-boot/bootErrors"
	"github.com/SaiNageswarS/go-mini-boot/discovery"
	"github.com/SaiNageswarS/go-mini-boot/logger"
	"github.com/SaiNageswarS/go-mini-boot/registry"
	"go.uber.org/zap"
)

// Engine materializes scanned components and injects their fields.
//
// Singletons are published to the registry before their fields are filled,
// so a singleton reached again while its own dependencies are being built
// resolves to the half-built instance instead of recursing. Any other type
// requested twice within one resolution is a circular dependency.
type Engine struct {
	registry *registry.Registry

	mu          sync.RWMutex
	descriptors map[reflect.Type]*discovery.Descriptor

	controllers sync.Map // reflect.Type -> *controllerCell
}

type controllerCell struct {
	mu       sync.Mutex
	instance any
}

// resolution is the in-flight construction set of a single top-level request.
// published records the singletons it stored, so a failed request can take
// them back.
type resolution struct {
	stack     []reflect.Type
	active    map[reflect.Type]bool
	published []publishedSingleton
}

type publishedSingleton struct {
	t        reflect.Type
	instance any
}

func newResolution() *resolution {
	return &resolution{active: map[reflect.Type]bool{}}
}

func (r *resolution) enter(t reflect.Type) error {
	if r.active[t] {
		chain := make([]string, 0, len(r.stack)+1)
		for _, s := range r.stack {
			chain = append(chain, s.String())
		}
		chain = append(chain, t.String())
		return &CircularDependencyError{Type: t.String(), Chain: chain}
	}
	r.active[t] = true
	r.stack = append(r.stack, t)
	return nil
}

func (r *resolution) leave(t reflect.Type) {
	delete(r.active, t)
	r.stack = r.stack[:len(r.stack)-1]
}

func NewEngine(reg *registry.Registry) *Engine {
	return &Engine{
		registry:    reg,
		descriptors: map[reflect.Type]*discovery.Descriptor{},
	}
}

func (e *Engine) Registry() *registry.Registry { return e.registry }

// Load indexes descriptors so they can be materialized. Initialize calls it.
func (e *Engine) Load(descriptors ...*discovery.Descriptor) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, d := range descriptors {
		e.descriptors[d.Type] = d
	}
}

func (e *Engine) descriptor(t reflect.Type) (*discovery.Descriptor, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	d, ok := e.descriptors[t]
	return d, ok
}

// Initialize runs the startup ordering pass: qualified bindings first, then
// every service, then every singleton bean. Components and controllers are
// created on demand.
func (e *Engine) Initialize(scan *discovery.ScanResult) error {
	e.Load(scan.All...)

	for _, d := range scan.Qualified {
		for _, capability := range d.Implements {
			if err := e.registry.RegisterImplementation(capability, d.Qualifier, d.Type); err != nil {
				return err
			}
			logger.Info("Registered implementation",
				zap.String("capability", capability.String()),
				zap.String("qualifier", d.Qualifier),
				zap.String("implementation", d.Name()))
		}
	}

	for _, d := range scan.Services {
		if _, err := e.Instantiate(d.Type); err != nil {
			return fmt.Errorf("initialize service %s: %w", d.Name(), err)
		}
		logger.Info("Initialized service", zap.String("type", d.Name()))
	}

	for _, d := range scan.Beans {
		if !d.Singleton() {
			logger.Info("Bean will be created on demand", zap.String("type", d.Name()), zap.String("scope", string(discovery.ScopePrototype)))
			continue
		}
		if _, err := e.Instantiate(d.Type); err != nil {
			return fmt.Errorf("initialize bean %s: %w", d.Name(), err)
		}
		logger.Info("Initialized bean", zap.String("type", d.Name()))
	}

	for _, d := range scan.Components {
		logger.Info("Component will be initialized on demand", zap.String("type", d.Name()))
	}
	return nil
}

// Instantiate returns an instance of t with all fields injected. When it
// fails, no singleton it created stays published.
func (e *Engine) Instantiate(t reflect.Type) (any, error) {
	res := newResolution()
	instance, err := e.instantiate(t, res)
	if err != nil {
		e.rollback(res)
		return nil, err
	}
	return instance, nil
}

func (e *Engine) rollback(res *resolution) {
	for i := len(res.published) - 1; i >= 0; i-- {
		p := res.published[i]
		if e.registry.RemoveSingleton(p.t, p.instance) {
			logger.Debug("Discarded partially built singleton", zap.String("type", p.t.String()))
		}
	}
	res.published = nil
}

// Controller returns the cached controller instance of t, creating it on
// first use. Concurrent first calls construct it once.
func (e *Engine) Controller(t reflect.Type) (any, error) {
	d, ok := e.descriptor(t)
	if !ok {
		return nil, &UnknownComponentError{Type: t.String()}
	}
	if !d.Is(discovery.Controller) {
		return nil, fmt.Errorf("%s is not a controller: %w", d.Name(), bootErrors.ErrResolution)
	}

	res := newResolution()
	instance, err := e.controller(d, res)
	if err != nil {
		e.rollback(res)
		return nil, err
	}
	return instance, nil
}

func (e *Engine) instantiate(t reflect.Type, res *resolution) (any, error) {
	d, ok := e.descriptor(t)
	if !ok {
		return nil, &UnknownComponentError{Type: t.String()}
	}
	if d.Is(discovery.Controller) {
		return e.controller(d, res)
	}

	singleton := d.Singleton()
	if singleton {
		if instance, ok := e.registry.GetSingleton(t); ok {
			return instance, nil
		}
	}

	if err := res.enter(t); err != nil {
		return nil, err
	}
	defer res.leave(t)

	instance := d.New()
	if singleton {
		actual, stored := e.registry.PutSingleton(t, instance)
		if !stored {
			return actual, nil
		}
		res.published = append(res.published, publishedSingleton{t: t, instance: instance})
	}

	if err := e.inject(d, instance, res); err != nil {
		return nil, err
	}
	return instance, nil
}

func (e *Engine) controller(d *discovery.Descriptor, res *resolution) (any, error) {
	v, _ := e.controllers.LoadOrStore(d.Type, &controllerCell{})
	cell := v.(*controllerCell)

	// the cell lock is not reentrant
	if res.active[d.Type] {
		return nil, res.enter(d.Type)
	}

	cell.mu.Lock()
	defer cell.mu.Unlock()
	if cell.instance != nil {
		return cell.instance, nil
	}

	if err := res.enter(d.Type); err != nil {
		return nil, err
	}
	defer res.leave(d.Type)

	instance := d.New()
	if err := e.inject(d, instance, res); err != nil {
		return nil, err
	}
	cell.instance = instance
	logger.Info("Created and cached controller", zap.String("type", d.Name()))
	return instance, nil
}

func (e *Engine) inject(d *discovery.Descriptor, instance any, res *resolution) error {
	for _, f := range d.Fields {
		impl, err := e.target(d, f)
		if err != nil {
			return err
		}

		dep, err := e.instantiate(impl, res)
		if err != nil {
			return &InjectionError{Owner: d.Name(), Field: f.Name, Err: err}
		}
		if err := f.Assign(instance, dep); err != nil {
			return &InjectionError{Owner: d.Name(), Field: f.Name, Err: err}
		}

		if f.Verbose {
			logger.Info("Injected dependency",
				zap.String("fieldType", f.Type.String()),
				zap.String("field", f.Name),
				zap.String("owner", d.Name()),
				zap.Time("at", time.Now()),
				zap.String("instance", fmt.Sprintf("%p", dep)))
		}
	}
	return nil
}

// target picks the concrete type to materialize for field f of d.
func (e *Engine) target(d *discovery.Descriptor, f discovery.Field) (reflect.Type, error) {
	if f.Type.Kind() == reflect.Interface {
		if f.Qualifier == "" {
			return nil, &MissingQualifierError{Owner: d.Name(), Field: f.Name, Type: f.Type.String()}
		}
		impl, err := e.registry.ResolveImplementation(f.Type, f.Qualifier)
		if err != nil {
			return nil, &InjectionError{Owner: d.Name(), Field: f.Name, Err: err}
		}
		return impl, nil
	}

	td, ok := e.descriptor(f.Type)
	if !ok || !td.Injectable() {
		return nil, &InvalidInjectionTargetError{Owner: d.Name(), Field: f.Name, Type: f.Type.String()}
	}
	return f.Type, nil
}

// Resolve materializes the component of type T, as in Resolve[*StudentService](e).
func Resolve[T any](e *Engine) (T, error) {
	var zero T
	v, err := e.Instantiate(discovery.TypeOf[T]())
	if err != nil {
		return zero, err
	}
	out, ok := v.(T)
	if !ok {
		return zero, &discovery.TypeMismatchError{Field: "<root>", Want: discovery.TypeOf[T]().String(), Got: fmt.Sprintf("%T", v)}
	}
	return out, nil
}

// ResolveQualified materializes the implementation bound to capability T
// under qualifier.
func ResolveQualified[T any](e *Engine, qualifier string) (T, error) {
	var zero T
	impl, err := e.registry.ResolveImplementation(discovery.TypeOf[T](), qualifier)
	if err != nil {
		return zero, err
	}
	v, err := e.Instantiate(impl)
	if err != nil {
		return zero, err
	}
	out, ok := v.(T)
	if !ok {
		return zero, &discovery.TypeMismatchError{Field: "<root>", Want: discovery.TypeOf[T]().String(), Got: fmt.Sprintf("%T", v)}
	}
	return out, nil
}
