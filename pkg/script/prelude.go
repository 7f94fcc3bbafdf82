package script

import (
	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/sameehj/scriptkit/pkg/globals"
)

// prelude builds `name = literal` statements for every extracted global so
// the bindings exist before the script's first statement runs. Top-level
// names are module globals for the whole file, so predeclaring them alone
// would leave them unbound until the script's own assignment.
func prelude(f *syntax.File, initial *globals.Map) []syntax.Stmt {
	pos := syntax.MakePosition(&f.Path, 1, 1)
	var stmts []syntax.Stmt
	for _, name := range initial.Names() {
		if name == globals.FileKey {
			continue
		}
		v, _ := initial.Get(name)
		rhs, ok := literalExpr(v, pos)
		if !ok {
			continue
		}
		stmts = append(stmts, &syntax.AssignStmt{
			OpPos: pos,
			Op:    syntax.EQ,
			LHS:   &syntax.Ident{NamePos: pos, Name: name},
			RHS:   rhs,
		})
	}
	return stmts
}

// literalExpr is the inverse of globals.Literal.
func literalExpr(v starlark.Value, pos syntax.Position) (syntax.Expr, bool) {
	switch v := v.(type) {
	case starlark.NoneType:
		return &syntax.Ident{NamePos: pos, Name: "None"}, true
	case starlark.Bool:
		if v {
			return &syntax.Ident{NamePos: pos, Name: "True"}, true
		}
		return &syntax.Ident{NamePos: pos, Name: "False"}, true
	case starlark.String:
		return &syntax.Literal{Token: syntax.STRING, TokenPos: pos, Raw: v.String(), Value: string(v)}, true
	case starlark.Bytes:
		return &syntax.Literal{Token: syntax.BYTES, TokenPos: pos, Raw: v.String(), Value: string(v)}, true
	case starlark.Int:
		lit := &syntax.Literal{Token: syntax.INT, TokenPos: pos, Raw: v.String()}
		if i, ok := v.Int64(); ok {
			lit.Value = i
		} else {
			lit.Value = v.BigInt()
		}
		return lit, true
	case starlark.Float:
		return &syntax.Literal{Token: syntax.FLOAT, TokenPos: pos, Raw: v.String(), Value: float64(v)}, true
	case *starlark.List:
		elems, ok := literalExprs(v, pos)
		if !ok {
			return nil, false
		}
		return &syntax.ListExpr{Lbrack: pos, List: elems, Rbrack: pos}, true
	case starlark.Tuple:
		elems, ok := literalExprs(v, pos)
		if !ok {
			return nil, false
		}
		return &syntax.TupleExpr{Lparen: pos, List: elems, Rparen: pos}, true
	case *starlark.Dict:
		entries := make([]syntax.Expr, 0, v.Len())
		for _, item := range v.Items() {
			k, ok := literalExpr(item[0], pos)
			if !ok {
				return nil, false
			}
			val, ok := literalExpr(item[1], pos)
			if !ok {
				return nil, false
			}
			entries = append(entries, &syntax.DictEntry{Key: k, Colon: pos, Value: val})
		}
		return &syntax.DictExpr{Lbrace: pos, List: entries, Rbrace: pos}, true
	}
	return nil, false
}

func literalExprs(seq starlark.Indexable, pos syntax.Position) ([]syntax.Expr, bool) {
	out := make([]syntax.Expr, 0, seq.Len())
	for i := 0; i < seq.Len(); i++ {
		e, ok := literalExpr(seq.Index(i), pos)
		if !ok {
			return nil, false
		}
		out = append(out, e)
	}
	return out, true
}
