package globals

import (
	"go.starlark.net/starlark"
)

// FileKey is the reserved binding that holds the resolved script path.
const FileKey = "__file__"

// Map is an insertion-ordered namespace of global bindings. Rebinding a
// name replaces its value but keeps its original position.
type Map struct {
	names  []string
	values starlark.StringDict
}

// NewMap returns an empty Map.
func NewMap() *Map {
	return &Map{values: make(starlark.StringDict)}
}

func (m *Map) Set(name string, v starlark.Value) {
	if _, ok := m.values[name]; !ok {
		m.names = append(m.names, name)
	}
	m.values[name] = v
}

func (m *Map) Get(name string) (starlark.Value, bool) {
	v, ok := m.values[name]
	return v, ok
}

func (m *Map) Has(name string) bool {
	_, ok := m.values[name]
	return ok
}

func (m *Map) Len() int {
	return len(m.names)
}

// Names returns the bound names in discovery order.
func (m *Map) Names() []string {
	out := make([]string, len(m.names))
	copy(out, m.names)
	return out
}

// StringDict returns an unordered copy suitable for use as a predeclared
// environment.
func (m *Map) StringDict() starlark.StringDict {
	out := make(starlark.StringDict, len(m.values))
	for k, v := range m.values {
		out[k] = v
	}
	return out
}

// Dict returns the bindings as a Starlark dict, preserving order.
func (m *Map) Dict() *starlark.Dict {
	d := starlark.NewDict(len(m.names))
	for _, name := range m.names {
		_ = d.SetKey(starlark.String(name), m.values[name])
	}
	return d
}

// Clone returns a shallow copy of m.
func (m *Map) Clone() *Map {
	out := &Map{
		names:  m.Names(),
		values: m.StringDict(),
	}
	return out
}
