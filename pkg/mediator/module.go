package mediator

import (
	"context"
	"reflect"
	"sort"
	"sync"
)

// TypeDescriptor describes one implementation type offered for discovery
type TypeDescriptor struct {
	Type reflect.Type
	// Abstract descriptors are listed but never registered
	Abstract     bool
	Conformances []Conformance
	New          Factory
}

// Implementation describes the type H built by ctor and the contracts it
// handles. Interface types are marked abstract
func Implementation[H any](ctor func(ctx context.Context, resolver Resolver) (H, error), conformances ...Conformance) TypeDescriptor {
	t := reflect.TypeFor[H]()
	d := TypeDescriptor{
		Type:         t,
		Abstract:     t.Kind() == reflect.Interface,
		Conformances: conformances,
	}
	if ctor != nil {
		d.New = func(ctx context.Context, resolver Resolver) (any, error) {
			return ctor(ctx, resolver)
		}
	}
	return d
}

// Abstract describes a type that conforms to contracts but cannot be
// instantiated on its own
func Abstract[H any](conformances ...Conformance) TypeDescriptor {
	return TypeDescriptor{
		Type:         reflect.TypeFor[H](),
		Abstract:     true,
		Conformances: conformances,
	}
}

// Module is a named unit of discovery, normally one per package
type Module struct {
	mu    sync.RWMutex
	name  string
	types []TypeDescriptor
}

// NewModule creates a module that is not indexed by package
func NewModule(name string, types ...TypeDescriptor) *Module {
	return &Module{name: name, types: types}
}

// Name returns the module name
func (m *Module) Name() string {
	return m.name
}

// Types returns a copy of the module's descriptors
func (m *Module) Types() []TypeDescriptor {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]TypeDescriptor, len(m.types))
	copy(out, m.types)
	return out
}

func (m *Module) add(types ...TypeDescriptor) {
	m.mu.Lock()
	m.types = append(m.types, types...)
	m.mu.Unlock()
}

var moduleIndex = struct {
	sync.Mutex
	byPackage map[string]*Module
}{byPackage: make(map[string]*Module)}

// DefineModule adds types to the module of the package that declares
// Marker and returns that module. Repeated calls from the same package
// extend one module
func DefineModule[Marker any](types ...TypeDescriptor) *Module {
	pkg := packageOf(reflect.TypeFor[Marker]())

	moduleIndex.Lock()
	defer moduleIndex.Unlock()

	m, ok := moduleIndex.byPackage[pkg]
	if !ok {
		m = NewModule(pkg)
		moduleIndex.byPackage[pkg] = m
	}
	m.add(types...)
	return m
}

// ModuleFor returns the module of the package that declares Marker
func ModuleFor[Marker any]() (*Module, error) {
	t := reflect.TypeFor[Marker]()
	pkg := packageOf(t)
	if pkg == "" {
		return nil, configurationErrorf("marker %s does not belong to a package", t)
	}

	moduleIndex.Lock()
	defer moduleIndex.Unlock()

	m, ok := moduleIndex.byPackage[pkg]
	if !ok {
		return nil, configurationErrorf("no module defined for package %s", pkg)
	}
	return m, nil
}

// DefinedModules returns the names of all package modules, sorted
func DefinedModules() []string {
	moduleIndex.Lock()
	defer moduleIndex.Unlock()

	names := make([]string, 0, len(moduleIndex.byPackage))
	for name := range moduleIndex.byPackage {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func packageOf(t reflect.Type) string {
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil {
		return ""
	}
	return t.PkgPath()
}
