package discovery

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/SaiNageswarS/go-mini-boot/logger"
	"go.uber.org/zap"
)

// ScanResult is the classification of every concrete descriptor under a
// scan root. A descriptor appears in each list its stereotypes select.
type ScanResult struct {
	Root string

	All         []*Descriptor
	Controllers []*Descriptor
	Services    []*Descriptor
	Components  []*Descriptor
	Beans       []*Descriptor
	Qualified   []*Descriptor

	// Operations maps a controller type to its operations in declaration order.
	Operations map[reflect.Type][]Operation
}

// Lookup returns the descriptor of t, if scanned.
func (r *ScanResult) Lookup(t reflect.Type) (*Descriptor, bool) {
	for _, d := range r.All {
		if d.Type == t {
			return d, true
		}
	}
	return nil, false
}

type Scanner struct {
	catalog *Catalog
}

func NewScanner(catalog *Catalog) *Scanner {
	return &Scanner{catalog: catalog}
}

// Scan selects the descriptors whose namespace is root or lies below it.
// Any descriptor that fails validation aborts the whole scan.
func (s *Scanner) Scan(root string) (*ScanResult, error) {
	root = strings.Trim(root, "/")
	if root == "" {
		return nil, &MissingScanRootError{}
	}

	res := &ScanResult{Root: root, Operations: map[reflect.Type][]Operation{}}
	seen := map[reflect.Type]bool{}

	for _, desc := range s.catalog.Descriptors() {
		if !underRoot(desc.Namespace, root) {
			continue
		}
		if desc.Abstract() {
			logger.Debug("Skipping abstract type", zap.String("type", desc.Name()))
			continue
		}

		d := desc
		if err := validate(&d); err != nil {
			return nil, err
		}
		if seen[d.Type] {
			return nil, &LoadError{Type: d.Name(), Reason: "declared more than once"}
		}
		seen[d.Type] = true

		res.classify(&d)
	}

	if len(res.All) == 0 {
		return nil, &MissingScanRootError{Root: root}
	}

	logger.Info("Scan complete",
		zap.String("root", root),
		zap.Int("controllers", len(res.Controllers)),
		zap.Int("services", len(res.Services)),
		zap.Int("components", len(res.Components)),
		zap.Int("beans", len(res.Beans)),
		zap.Int("qualified", len(res.Qualified)))
	return res, nil
}

func (r *ScanResult) classify(d *Descriptor) {
	r.All = append(r.All, d)
	if d.Is(Controller) {
		r.Controllers = append(r.Controllers, d)
		r.Operations[d.Type] = d.Operations
	}
	if d.Is(Service) {
		r.Services = append(r.Services, d)
	}
	if d.Is(Component) {
		r.Components = append(r.Components, d)
	}
	if d.Is(Bean) {
		r.Beans = append(r.Beans, d)
	}
	if d.Is(Qualified) {
		r.Qualified = append(r.Qualified, d)
	}
}

func underRoot(namespace, root string) bool {
	namespace = strings.Trim(namespace, "/")
	return namespace == root || strings.HasPrefix(namespace, root+"/")
}

func validate(d *Descriptor) error {
	fail := func(format string, args ...any) error {
		return &LoadError{Type: d.Name(), Reason: fmt.Sprintf(format, args...)}
	}

	if d.Type == nil {
		return fail("missing type")
	}
	if d.New == nil {
		return fail("missing constructor")
	}
	if d.Stereotypes == 0 {
		return fail("no stereotype")
	}
	if d.Is(Bean) && d.Scope != "" && d.Scope != ScopeSingleton && d.Scope != ScopePrototype {
		return fail("unknown scope %q", d.Scope)
	}

	if d.Is(Qualified) {
		if d.Qualifier == "" {
			return fail("qualified without a qualifier")
		}
		if len(d.Implements) == 0 {
			return fail("qualified without a capability")
		}
		for _, c := range d.Implements {
			if c == nil || c.Kind() != reflect.Interface {
				return fail("capability %v is not an interface", c)
			}
			if !d.Type.Implements(c) {
				return fail("does not implement %s", c)
			}
		}
	}

	if len(d.Operations) > 0 && !d.Is(Controller) {
		return fail("declares operations but is not a controller")
	}
	for _, op := range d.Operations {
		if op.Method == "" || op.Path == "" || op.Invoke == nil {
			return fail("incomplete operation %q", op.Name)
		}
	}

	for _, f := range d.Fields {
		if f.Name == "" || f.Type == nil || f.Assign == nil {
			return fail("incomplete field %q", f.Name)
		}
	}
	return nil
}
