package globals

import (
	"fmt"
	"path/filepath"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/sameehj/scriptkit/pkg/source"
)

// ParseError reports a script that is not valid source. Nothing in the
// script has run when it is returned.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse script: %v", e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Extract reads and parses the script at path and returns the globals its
// literal assignments bind, plus FileKey set to the absolute script path.
func Extract(path string) (*Map, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve script path: %w", err)
	}
	src, err := source.Read(abs)
	if err != nil {
		return nil, err
	}
	return ExtractSource(abs, src)
}

// ExtractSource is Extract for source already in memory. path is recorded
// as given.
func ExtractSource(path string, src []byte) (*Map, error) {
	f, err := source.Parse(path, src)
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	m := Collect(f)
	m.Set(FileKey, starlark.String(path))
	return m, nil
}

// Collect walks f breadth first and binds every `name = literal` assignment
// it finds, later discoveries replacing earlier ones. Assignments to tuples,
// attributes or indexes, augmented assignments and non-literal values are
// ignored.
func Collect(f *syntax.File) *Map {
	m := NewMap()
	queue := []syntax.Node{f}
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		if assign, ok := n.(*syntax.AssignStmt); ok {
			if name, v, ok := literalAssignment(assign); ok {
				m.Set(name, v)
			}
		}
		queue = append(queue, children(n)...)
	}
	return m
}

func literalAssignment(assign *syntax.AssignStmt) (string, starlark.Value, bool) {
	if assign.Op != syntax.EQ {
		return "", nil, false
	}
	ident, ok := unparen(assign.LHS).(*syntax.Ident)
	if !ok {
		return "", nil, false
	}
	v, ok := Literal(assign.RHS)
	if !ok {
		return "", nil, false
	}
	return ident.Name, v, true
}

// children returns the direct children of n. syntax.Walk does not descend
// into while loops, so their condition and body are listed here.
func children(n syntax.Node) []syntax.Node {
	if loop, ok := n.(*syntax.WhileStmt); ok {
		out := []syntax.Node{loop.Cond}
		for _, stmt := range loop.Body {
			out = append(out, stmt)
		}
		return out
	}
	var out []syntax.Node
	syntax.Walk(n, func(c syntax.Node) bool {
		if c == nil {
			return false
		}
		if c == n {
			return true
		}
		out = append(out, c)
		return false
	})
	return out
}
