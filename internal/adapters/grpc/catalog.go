package grpc

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"unicode"

	"github.com/andrescamacho/mediator-go/pkg/mediator"
)

// ErrUnknownType is returned when a type name is not in the catalog
var ErrUnknownType = errors.New("unknown request type")

// ErrInvalidPayload is returned when a payload cannot be decoded into its
// request type
var ErrInvalidPayload = errors.New("invalid payload")

// CatalogEntry describes one request type that can be dispatched remotely
type CatalogEntry struct {
	Name         string
	RequestType  reflect.Type
	ResponseType reflect.Type // nil for void requests
}

// Void reports whether the request produces no response
func (e CatalogEntry) Void() bool {
	return e.ResponseType == nil
}

// Decode unmarshals a JSON payload into a new request value
func (e CatalogEntry) Decode(payload []byte) (any, error) {
	t := e.RequestType
	isPtr := t.Kind() == reflect.Pointer
	if isPtr {
		t = t.Elem()
	}

	v := reflect.New(t)
	if len(bytes.TrimSpace(payload)) > 0 {
		dec := json.NewDecoder(bytes.NewReader(payload))
		dec.DisallowUnknownFields()
		if err := dec.Decode(v.Interface()); err != nil {
			return nil, fmt.Errorf("%w for %s: %v", ErrInvalidPayload, e.Name, err)
		}
	}

	if isPtr {
		return v.Interface(), nil
	}
	return v.Elem().Interface(), nil
}

// DecodeResponse unmarshals a JSON result into a new response value
func (e CatalogEntry) DecodeResponse(data []byte) (any, error) {
	if e.Void() {
		return nil, nil
	}
	v := reflect.New(e.ResponseType)
	if err := json.Unmarshal(data, v.Interface()); err != nil {
		return nil, fmt.Errorf("failed to decode %s response: %w", e.Name, err)
	}
	return v.Elem().Interface(), nil
}

// Catalog maps wire names such as "get.order.query" to request types
type Catalog struct {
	byName map[string]CatalogEntry
	byType map[reflect.Type]string
}

// NewCatalog lists every request type handled by the concrete types in
// modules
func NewCatalog(modules ...*mediator.Module) (*Catalog, error) {
	c := &Catalog{
		byName: make(map[string]CatalogEntry),
		byType: make(map[reflect.Type]string),
	}

	descriptors, err := mediator.ModuleScanner{}.ConcreteTypes(modules...)
	if err != nil {
		return nil, err
	}
	for _, d := range descriptors {
		for _, conformance := range d.Conformances {
			if conformance.RequestType == nil {
				continue
			}
			entry := CatalogEntry{RequestType: conformance.RequestType}
			if !conformance.Void() {
				entry.ResponseType = conformance.ResponseType
			}
			if err := c.Add(entry); err != nil {
				return nil, err
			}
		}
	}
	return c, nil
}

// Add registers an entry, naming it after its request type when Name is
// empty
func (c *Catalog) Add(entry CatalogEntry) error {
	if entry.RequestType == nil {
		return fmt.Errorf("catalog entry %q has no request type", entry.Name)
	}
	if entry.Name == "" {
		entry.Name = TypeName(entry.RequestType)
	}

	if existing, ok := c.byName[entry.Name]; ok {
		if existing.RequestType == entry.RequestType {
			return nil
		}
		return fmt.Errorf("request name %q is used by both %s and %s",
			entry.Name, existing.RequestType, entry.RequestType)
	}

	c.byName[entry.Name] = entry
	c.byType[entry.RequestType] = entry.Name
	return nil
}

// Lookup finds the entry for a wire name
func (c *Catalog) Lookup(name string) (CatalogEntry, error) {
	entry, ok := c.byName[name]
	if !ok {
		return CatalogEntry{}, fmt.Errorf("%w: %q", ErrUnknownType, name)
	}
	return entry, nil
}

// EntryFor finds the entry for a request value
func (c *Catalog) EntryFor(request any) (CatalogEntry, error) {
	t := reflect.TypeOf(request)
	name, ok := c.byType[t]
	if !ok {
		return CatalogEntry{}, fmt.Errorf("%w: %s", ErrUnknownType, mediator.RequestName(t))
	}
	return c.byName[name], nil
}

// Entries returns all entries sorted by name
func (c *Catalog) Entries() []CatalogEntry {
	out := make([]CatalogEntry, 0, len(c.byName))
	for _, e := range c.byName {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// TypeName converts a request type name to its dotted lowercase wire form:
// GetOrderQuery becomes "get.order.query"
func TypeName(t reflect.Type) string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	name := t.Name()
	if name == "" {
		return ""
	}

	var words []string
	var current strings.Builder
	for i, r := range name {
		if i > 0 && unicode.IsUpper(r) {
			words = append(words, strings.ToLower(current.String()))
			current.Reset()
		}
		current.WriteRune(r)
	}
	if current.Len() > 0 {
		words = append(words, strings.ToLower(current.String()))
	}
	return strings.Join(words, ".")
}
