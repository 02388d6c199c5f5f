package uniforms

import (
	"errors"
	"fmt"
	"reflect"
	"sort"

	"github.com/go-gl/mathgl/mgl32"
)

var (
	ErrUnknownUniform = errors.New("unknown uniform")
	ErrTypeMismatch   = errors.New("uniform type mismatch")
)

// Table is a fixed set of named shader uniforms. The set of names is decided
// when the table is built; afterwards only values change, and a value keeps the
// Go type it was declared with (float32, int32, mgl32.Vec3 or mgl32.Mat4).
type Table struct {
	values map[string]any
	names  []string
}

// Entry declares one uniform and its initial value.
type Entry struct {
	Name  string
	Value any
}

// NewTable builds a table from its entries. Duplicate names and unsupported
// value types are rejected.
func NewTable(entries ...Entry) (*Table, error) {
	t := &Table{values: make(map[string]any, len(entries))}
	for _, e := range entries {
		if _, dup := t.values[e.Name]; dup {
			return nil, fmt.Errorf("duplicate uniform %q", e.Name)
		}
		if !supported(e.Value) {
			return nil, fmt.Errorf("uniform %q: unsupported value type %T", e.Name, e.Value)
		}
		t.values[e.Name] = e.Value
		t.names = append(t.names, e.Name)
	}
	sort.Strings(t.names)
	return t, nil
}

func supported(v any) bool {
	switch v.(type) {
	case float32, int32, mgl32.Vec3, mgl32.Mat4:
		return true
	}
	return false
}

// Set replaces the value of an existing uniform. The new value must have the
// same type as the declared one.
func (t *Table) Set(name string, v any) error {
	old, ok := t.values[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownUniform, name)
	}
	if reflect.TypeOf(old) != reflect.TypeOf(v) {
		return fmt.Errorf("%w: %s is %T, got %T", ErrTypeMismatch, name, old, v)
	}
	t.values[name] = v
	return nil
}

func (t *Table) Has(name string) bool {
	_, ok := t.values[name]
	return ok
}

func (t *Table) Get(name string) (any, bool) {
	v, ok := t.values[name]
	return v, ok
}

func (t *Table) Float(name string) (float32, bool) {
	v, ok := t.values[name].(float32)
	return v, ok
}

func (t *Table) Int(name string) (int32, bool) {
	v, ok := t.values[name].(int32)
	return v, ok
}

func (t *Table) Vec3(name string) (mgl32.Vec3, bool) {
	v, ok := t.values[name].(mgl32.Vec3)
	return v, ok
}

func (t *Table) Mat4(name string) (mgl32.Mat4, bool) {
	v, ok := t.values[name].(mgl32.Mat4)
	return v, ok
}

// Names returns the uniform names in sorted order.
func (t *Table) Names() []string {
	out := make([]string, len(t.names))
	copy(out, t.names)
	return out
}

// Each calls fn for every uniform in name order.
func (t *Table) Each(fn func(name string, v any)) {
	for _, n := range t.names {
		fn(n, t.values[n])
	}
}
