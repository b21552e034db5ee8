package eval

import (
	"math"

	"github.com/kolkov/nawk/internal/ast"
	"github.com/kolkov/nawk/internal/runtime"
	"github.com/kolkov/nawk/internal/token"
	"github.com/kolkov/nawk/internal/types"
)

// evalExpr evaluates an expression node to a Value, dispatching on the
// node's concrete type.
func (it *Interp) evalExpr(e ast.Expr) types.Value {
	switch n := e.(type) {
	case *ast.NumLit:
		return types.Num(n.Value)

	case *ast.StrLit:
		return types.Str(n.Value)

	case *ast.RegexLit:
		// A regex literal used as an expression matches against $0.
		return types.Bool(it.mustRegex(n.Pattern).MatchString(it.getField(0)))

	case *ast.Ident:
		return it.getVar(n.Name)

	case *ast.FieldExpr:
		return it.getFieldValue(it.fieldIndex(n))

	case *ast.IndexExpr:
		name := identName(n.Array)
		key := it.subscript(it.evalIndexParts(n.Index))
		arr := it.getArray(name)
		if arr == nil {
			return types.Null()
		}
		return arr[key]

	case *ast.GroupExpr:
		return it.evalExpr(n.Expr)

	case *ast.BinaryExpr:
		return it.evalBinary(n)

	case *ast.UnaryExpr:
		return it.evalUnary(n)

	case *ast.TernaryExpr:
		if it.evalExpr(n.Cond).AsBool() {
			return it.evalExpr(n.Then)
		}
		return it.evalExpr(n.Else)

	case *ast.AssignExpr:
		return it.evalAssign(n)

	case *ast.ConcatExpr:
		s := ""
		for _, sub := range n.Exprs {
			s += it.evalExpr(sub).AsStr(it.convfmt)
		}
		return types.Str(s)

	case *ast.CallExpr:
		return it.callUserFunc(n.Name, n.Args)

	case *ast.BuiltinExpr:
		return it.callBuiltin(n.Func, n.Args)

	case *ast.GetlineExpr:
		return it.evalGetline(n)

	case *ast.InExpr:
		name := identName(n.Array)
		key := it.subscript(it.evalIndexParts(n.Index))
		arr := it.getArray(name)
		if arr == nil {
			return types.Bool(false)
		}
		_, ok := arr[key]
		return types.Bool(ok)

	case *ast.MatchExpr:
		s := it.evalExpr(n.Expr).AsStr(it.convfmt)
		re := it.regexFor(n.Pattern)
		matched := re.MatchString(s)
		if n.Op == token.NOT_MATCH {
			matched = !matched
		}
		return types.Bool(matched)

	default:
		it.fatalf("unsupported expression %T", e)
		return types.Null()
	}
}

// fieldIndex evaluates a field reference's index expression, defaulting to
// 0 (the whole record) when absent.
func (it *Interp) fieldIndex(fe *ast.FieldExpr) int {
	if fe.Index == nil {
		return 0
	}
	return int(it.evalExpr(fe.Index).AsNum())
}

// regexFor returns a compiled regex for a pattern expression, reusing the
// literal text directly for regex literals and compiling dynamic string
// expressions through the cache otherwise.
func (it *Interp) regexFor(pat ast.Expr) *runtime.Regex {
	if re, ok := pat.(*ast.RegexLit); ok {
		return it.mustRegex(re.Pattern)
	}
	return it.mustRegex(it.evalExpr(pat).AsStr(it.convfmt))
}

// mustRegex compiles pattern through the shared cache, raising a fatal
// runtime error (recoverable by Run, unlike RegexCache.MustGet's bare panic)
// when the pattern is invalid: a bad dynamic regex aborts the run as a
// reported error, not a crash.
func (it *Interp) mustRegex(pattern string) *runtime.Regex {
	re, err := it.regexCache.Get(pattern)
	if err != nil {
		it.fatalf("invalid regular expression %q: %v", pattern, err)
	}
	return re
}

func (it *Interp) evalBinary(n *ast.BinaryExpr) types.Value {
	switch n.Op {
	case token.AND:
		if !it.evalExpr(n.Left).AsBool() {
			return types.Bool(false)
		}
		return types.Bool(it.evalExpr(n.Right).AsBool())
	case token.OR:
		if it.evalExpr(n.Left).AsBool() {
			return types.Bool(true)
		}
		return types.Bool(it.evalExpr(n.Right).AsBool())
	}

	left := it.evalExpr(n.Left)

	switch n.Op {
	case token.EQUALS, token.NOT_EQUALS, token.LESS, token.LTE, token.GREATER, token.GTE:
		right := it.evalExpr(n.Right)
		cmp := types.Compare(left, right)
		switch n.Op {
		case token.EQUALS:
			return types.Bool(cmp == 0)
		case token.NOT_EQUALS:
			return types.Bool(cmp != 0)
		case token.LESS:
			return types.Bool(cmp < 0)
		case token.LTE:
			return types.Bool(cmp <= 0)
		case token.GREATER:
			return types.Bool(cmp > 0)
		default: // GTE
			return types.Bool(cmp >= 0)
		}
	}

	a := left.AsNum()
	b := it.evalExpr(n.Right).AsNum()
	switch n.Op {
	case token.ADD:
		return types.Num(a + b)
	case token.SUB:
		return types.Num(a - b)
	case token.MUL:
		return types.Num(a * b)
	case token.DIV:
		return types.Num(a / b)
	case token.MOD:
		return types.Num(math.Mod(a, b))
	case token.POW:
		return types.Num(math.Pow(a, b))
	default:
		it.fatalf("unsupported binary operator %v", n.Op)
		return types.Null()
	}
}

func (it *Interp) evalUnary(n *ast.UnaryExpr) types.Value {
	switch n.Op {
	case token.SUB:
		return types.Num(-it.evalExpr(n.Expr).AsNum())
	case token.ADD:
		return types.Num(it.evalExpr(n.Expr).AsNum())
	case token.NOT:
		return types.Bool(!it.evalExpr(n.Expr).AsBool())
	case token.INCR, token.DECR:
		old := it.getLValueNum(n.Expr)
		delta := 1.0
		if n.Op == token.DECR {
			delta = -1.0
		}
		next := old + delta
		it.assignTo(n.Expr, types.Num(next))
		if n.Post {
			return types.Num(old)
		}
		return types.Num(next)
	default:
		it.fatalf("unsupported unary operator %v", n.Op)
		return types.Null()
	}
}

// getLValueNum reads the numeric value currently held by an lvalue
// expression, used by pre/post increment and decrement.
func (it *Interp) getLValueNum(e ast.Expr) float64 {
	return it.evalExpr(e).AsNum()
}

func (it *Interp) evalAssign(n *ast.AssignExpr) types.Value {
	if n.Op == token.ASSIGN {
		v := it.evalExpr(n.Right)
		it.assignTo(n.Left, v)
		return v
	}

	cur := it.evalExpr(n.Left).AsNum()
	rhs := it.evalExpr(n.Right).AsNum()
	var result float64
	switch n.Op {
	case token.ADD_ASSIGN:
		result = cur + rhs
	case token.SUB_ASSIGN:
		result = cur - rhs
	case token.MUL_ASSIGN:
		result = cur * rhs
	case token.DIV_ASSIGN:
		result = cur / rhs
	case token.MOD_ASSIGN:
		result = math.Mod(cur, rhs)
	case token.POW_ASSIGN:
		result = math.Pow(cur, rhs)
	default:
		it.fatalf("unsupported assignment operator %v", n.Op)
	}
	v := types.Num(result)
	it.assignTo(n.Left, v)
	return v
}

// assignTo writes v to an lvalue expression (*ast.Ident, *ast.FieldExpr,
// or *ast.IndexExpr, the only three kinds ast.IsLValue accepts).
func (it *Interp) assignTo(e ast.Expr, v types.Value) {
	switch lv := e.(type) {
	case *ast.Ident:
		it.setVar(lv.Name, v)
	case *ast.FieldExpr:
		it.setField(it.fieldIndex(lv), v.AsStr(it.convfmt))
	case *ast.IndexExpr:
		name := identName(lv.Array)
		key := it.subscript(it.evalIndexParts(lv.Index))
		arr := it.getOrCreateArray(name)
		arr[key] = v
	default:
		it.fatalf("invalid assignment target %T", e)
	}
}
