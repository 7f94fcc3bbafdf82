package globals

import (
	"math/big"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// Literal reports the value of expr when it may seed a global binding: a
// scalar literal, True, False, None, or a list, dict or tuple built only from
// literals. Signed numbers are accepted inside containers but not on their
// own. The boolean result is false for anything else, including dicts with
// unhashable keys.
func Literal(expr syntax.Expr) (starlark.Value, bool) {
	switch e := unparen(expr).(type) {
	case *syntax.Literal, *syntax.Ident, *syntax.ListExpr, *syntax.DictExpr, *syntax.TupleExpr:
		return literalValue(e)
	}
	return nil, false
}

func literalValue(expr syntax.Expr) (starlark.Value, bool) {
	switch e := unparen(expr).(type) {
	case *syntax.Literal:
		return constant(e)

	case *syntax.Ident:
		switch e.Name {
		case "True":
			return starlark.True, true
		case "False":
			return starlark.False, true
		case "None":
			return starlark.None, true
		}
		return nil, false

	case *syntax.UnaryExpr:
		if e.Op != syntax.PLUS && e.Op != syntax.MINUS {
			return nil, false
		}
		lit, ok := unparen(e.X).(*syntax.Literal)
		if !ok || (lit.Token != syntax.INT && lit.Token != syntax.FLOAT) {
			return nil, false
		}
		x, ok := constant(lit)
		if !ok {
			return nil, false
		}
		v, err := starlark.Unary(e.Op, x)
		if err != nil {
			return nil, false
		}
		return v, true

	case *syntax.ListExpr:
		elems, ok := literalList(e.List)
		if !ok {
			return nil, false
		}
		return starlark.NewList(elems), true

	case *syntax.TupleExpr:
		elems, ok := literalList(e.List)
		if !ok {
			return nil, false
		}
		return starlark.Tuple(elems), true

	case *syntax.DictExpr:
		d := starlark.NewDict(len(e.List))
		for _, item := range e.List {
			entry, ok := item.(*syntax.DictEntry)
			if !ok {
				return nil, false
			}
			k, ok := literalValue(entry.Key)
			if !ok {
				return nil, false
			}
			v, ok := literalValue(entry.Value)
			if !ok {
				return nil, false
			}
			if err := d.SetKey(k, v); err != nil {
				return nil, false
			}
		}
		return d, true
	}
	return nil, false
}

func literalList(exprs []syntax.Expr) ([]starlark.Value, bool) {
	out := make([]starlark.Value, 0, len(exprs))
	for _, expr := range exprs {
		v, ok := literalValue(expr)
		if !ok {
			return nil, false
		}
		out = append(out, v)
	}
	return out, true
}

func constant(lit *syntax.Literal) (starlark.Value, bool) {
	switch lit.Token {
	case syntax.STRING:
		s, ok := lit.Value.(string)
		return starlark.String(s), ok
	case syntax.BYTES:
		s, ok := lit.Value.(string)
		return starlark.Bytes(s), ok
	case syntax.INT:
		switch v := lit.Value.(type) {
		case int64:
			return starlark.MakeInt64(v), true
		case *big.Int:
			return starlark.MakeBigInt(v), true
		}
	case syntax.FLOAT:
		if f, ok := lit.Value.(float64); ok {
			return starlark.Float(f), true
		}
	}
	return nil, false
}

func unparen(expr syntax.Expr) syntax.Expr {
	for {
		p, ok := expr.(*syntax.ParenExpr)
		if !ok {
			return expr
		}
		expr = p.X
	}
}
