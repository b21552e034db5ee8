package eval

import (
	"github.com/kolkov/nawk/internal/ast"
	"github.com/kolkov/nawk/internal/token"
	"github.com/kolkov/nawk/internal/types"
)

// ctrlKind classifies the result of executing a statement: normal, break,
// continue, or return(value).
type ctrlKind int

const (
	ctrlNormal ctrlKind = iota
	ctrlBreak
	ctrlContinue
	ctrlReturn
)

// ctrl is the result of executing a statement. next/nextfile/exit are not
// represented here: they set evaluator-level flags (it.nextRec, it.nextFile,
// it.exiting) and otherwise behave as ctrlNormal, so every caller up the
// chain (block, loop, record loop) must check those flags after any nested
// execution to unwind cooperatively.
type ctrl struct {
	kind  ctrlKind
	value types.Value
}

var normalCtrl = ctrl{kind: ctrlNormal}

// stopped reports whether the evaluator-level flags mean execution of the
// current block/loop/rule set should stop immediately.
func (it *Interp) stopped() bool {
	return it.exiting || it.nextRec || it.nextFile
}

// execBlock runs a block's statements in order, stopping early on
// break/continue/return or on any evaluator-level flag.
func (it *Interp) execBlock(b *ast.BlockStmt) ctrl {
	if b == nil {
		return normalCtrl
	}
	for _, s := range b.Stmts {
		c := it.execStmt(s)
		if c.kind != ctrlNormal || it.stopped() {
			return c
		}
	}
	return normalCtrl
}

// execStmt dispatches on statement type.
func (it *Interp) execStmt(s ast.Stmt) ctrl {
	switch st := s.(type) {
	case *ast.ExprStmt:
		it.evalExpr(st.Expr)
		return normalCtrl

	case *ast.BlockStmt:
		return it.execBlock(st)

	case *ast.PrintStmt:
		it.execPrint(st)
		return normalCtrl

	case *ast.IfStmt:
		if it.evalExpr(st.Cond).AsBool() {
			return it.execStmt(st.Then)
		} else if st.Else != nil {
			return it.execStmt(st.Else)
		}
		return normalCtrl

	case *ast.WhileStmt:
		for it.evalExpr(st.Cond).AsBool() {
			c := it.execStmt(st.Body)
			if it.stopped() {
				return normalCtrl
			}
			if c.kind == ctrlBreak {
				break
			}
			if c.kind == ctrlReturn {
				return c
			}
		}
		return normalCtrl

	case *ast.DoWhileStmt:
		for {
			c := it.execStmt(st.Body)
			if it.stopped() {
				return normalCtrl
			}
			if c.kind == ctrlBreak {
				break
			}
			if c.kind == ctrlReturn {
				return c
			}
			if !it.evalExpr(st.Cond).AsBool() {
				break
			}
		}
		return normalCtrl

	case *ast.ForStmt:
		if st.Init != nil {
			it.execStmt(st.Init)
		}
		for st.Cond == nil || it.evalExpr(st.Cond).AsBool() {
			c := it.execStmt(st.Body)
			if it.stopped() {
				return normalCtrl
			}
			if c.kind == ctrlBreak {
				break
			}
			if c.kind == ctrlReturn {
				return c
			}
			if st.Post != nil {
				it.execStmt(st.Post)
			}
		}
		return normalCtrl

	case *ast.ForInStmt:
		arrName := identName(st.Array)
		arr := it.getArray(arrName)
		keys := make([]string, 0, len(arr))
		for k := range arr {
			keys = append(keys, k)
		}
		for _, k := range keys {
			it.setVar(st.Var.Name, types.FromInputString(k))
			c := it.execStmt(st.Body)
			if it.stopped() {
				return normalCtrl
			}
			if c.kind == ctrlBreak {
				break
			}
			if c.kind == ctrlReturn {
				return c
			}
		}
		return normalCtrl

	case *ast.BreakStmt:
		return ctrl{kind: ctrlBreak}

	case *ast.ContinueStmt:
		return ctrl{kind: ctrlContinue}

	case *ast.NextStmt:
		it.nextRec = true
		return normalCtrl

	case *ast.NextFileStmt:
		it.nextFile = true
		return normalCtrl

	case *ast.ReturnStmt:
		var v types.Value
		if st.Value != nil {
			v = it.evalExpr(st.Value)
		}
		return ctrl{kind: ctrlReturn, value: v}

	case *ast.ExitStmt:
		if st.Code != nil {
			it.exitCode = int(it.evalExpr(st.Code).AsNum())
		}
		it.exiting = true
		return normalCtrl

	case *ast.DeleteStmt:
		arrName := identName(st.Array)
		if len(st.Index) == 0 {
			it.deleteArray(arrName)
		} else {
			key := it.subscript(it.evalIndexParts(st.Index))
			arr := it.getArray(arrName)
			delete(arr, key)
		}
		return normalCtrl

	default:
		it.fatalf("unsupported statement %T", s)
		return normalCtrl
	}
}

// identName extracts the bare name from an array-reference expression,
// which the parser guarantees is always an *ast.Ident.
func identName(e ast.Expr) string {
	if id, ok := e.(*ast.Ident); ok {
		return id.Name
	}
	return ""
}

// evalIndexParts evaluates each subscript expression to its CONVFMT string
// form, ready for subscript() to join with SUBSEP.
func (it *Interp) evalIndexParts(idx []ast.Expr) []string {
	parts := make([]string, len(idx))
	for i, e := range idx {
		parts[i] = it.evalExpr(e).AsStr(it.convfmt)
	}
	return parts
}

// execPrint implements `print`/`printf` with optional redirection.
func (it *Interp) execPrint(st *ast.PrintStmt) {
	var text string
	if st.Printf {
		args := make([]types.Value, len(st.Args))
		for i, a := range st.Args {
			args[i] = it.evalExpr(a)
		}
		if len(args) == 0 {
			it.fatalf("printf: no format argument")
		}
		text = it.sprintf(args[0].AsStr(it.convfmt), args[1:])
	} else {
		if len(st.Args) == 0 {
			text = it.getField(0) + it.ors
		} else {
			parts := make([]string, len(st.Args))
			for i, a := range st.Args {
				parts[i] = it.evalExpr(a).AsStr(it.ofmt)
			}
			text = joinStrings(parts, it.ofs) + it.ors
		}
	}

	w := it.outputWriter(st)
	w.WriteString(text)
}

func joinStrings(parts []string, sep string) string {
	n := 0
	for i, p := range parts {
		n += len(p)
		if i > 0 {
			n += len(sep)
		}
	}
	buf := make([]byte, 0, n)
	for i, p := range parts {
		if i > 0 {
			buf = append(buf, sep...)
		}
		buf = append(buf, p...)
	}
	return string(buf)
}

// outputWriter resolves the destination writer for a print/printf
// statement: the default output, or a lazily opened redirected file/pipe.
func (it *Interp) outputWriter(st *ast.PrintStmt) writerFlusher {
	if st.Redirect == token.ILLEGAL || st.Dest == nil {
		return it.out
	}
	dest := it.evalExpr(st.Dest).AsStr(it.convfmt)
	switch st.Redirect {
	case token.GREATER:
		w, err := it.io.GetOutputFile(dest, false)
		if err != nil {
			it.fatalf("can't redirect to %q: %v", dest, err)
		}
		return w
	case token.APPEND:
		w, err := it.io.GetOutputFile(dest, true)
		if err != nil {
			it.fatalf("can't redirect to %q: %v", dest, err)
		}
		return w
	case token.PIPE:
		w, err := it.io.GetOutputPipe(dest)
		if err != nil {
			it.fatalf("can't pipe to %q: %v", dest, err)
		}
		return w
	default:
		it.fatalf("unsupported redirection")
		return it.out
	}
}

// writerFlusher is the subset of *bufio.Writer execPrint needs; satisfied
// directly by *bufio.Writer, used here only to name the return type.
type writerFlusher interface {
	WriteString(string) (int, error)
}
