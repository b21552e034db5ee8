package ast

import "github.com/kolkov/nawk/internal/token"

// WalkFunc is called for each node visited by Walk. Returning false stops
// Walk from descending into that node's children.
type WalkFunc func(Node) bool

// Walk traverses an AST in depth-first order, calling fn for every node
// reachable from node. CallNames is built on it.
func Walk(node Node, fn WalkFunc) {
	if node == nil || !fn(node) {
		return
	}

	switch n := node.(type) {
	case *Program:
		for _, b := range n.Begin {
			Walk(b, fn)
		}
		for _, b := range n.BeginFile {
			Walk(b, fn)
		}
		for _, r := range n.Rules {
			Walk(r, fn)
		}
		for _, b := range n.EndFile {
			Walk(b, fn)
		}
		for _, b := range n.EndBlocks {
			Walk(b, fn)
		}
		for _, f := range n.Functions {
			Walk(f, fn)
		}

	case *Rule:
		Walk(n.Pattern, fn)
		Walk(n.Action, fn)

	case *FuncDecl:
		Walk(n.Body, fn)

	case *NumLit, *StrLit, *RegexLit, *Ident:
		// no children

	case *FieldExpr:
		Walk(n.Index, fn)

	case *IndexExpr:
		Walk(n.Array, fn)
		for _, idx := range n.Index {
			Walk(idx, fn)
		}

	case *BinaryExpr:
		Walk(n.Left, fn)
		Walk(n.Right, fn)

	case *UnaryExpr:
		Walk(n.Expr, fn)

	case *TernaryExpr:
		Walk(n.Cond, fn)
		Walk(n.Then, fn)
		Walk(n.Else, fn)

	case *AssignExpr:
		Walk(n.Left, fn)
		Walk(n.Right, fn)

	case *ConcatExpr:
		for _, e := range n.Exprs {
			Walk(e, fn)
		}

	case *GroupExpr:
		Walk(n.Expr, fn)

	case *CallExpr:
		for _, arg := range n.Args {
			Walk(arg, fn)
		}

	case *BuiltinExpr:
		for _, arg := range n.Args {
			Walk(arg, fn)
		}

	case *GetlineExpr:
		Walk(n.Target, fn)
		Walk(n.File, fn)
		Walk(n.Command, fn)

	case *InExpr:
		for _, idx := range n.Index {
			Walk(idx, fn)
		}
		Walk(n.Array, fn)

	case *MatchExpr:
		Walk(n.Expr, fn)
		Walk(n.Pattern, fn)

	case *CommaExpr:
		Walk(n.Left, fn)
		Walk(n.Right, fn)

	case *ExprStmt:
		Walk(n.Expr, fn)

	case *PrintStmt:
		for _, arg := range n.Args {
			Walk(arg, fn)
		}
		Walk(n.Dest, fn)

	case *BlockStmt:
		for _, s := range n.Stmts {
			Walk(s, fn)
		}

	case *IfStmt:
		Walk(n.Cond, fn)
		Walk(n.Then, fn)
		Walk(n.Else, fn)

	case *WhileStmt:
		Walk(n.Cond, fn)
		Walk(n.Body, fn)

	case *DoWhileStmt:
		Walk(n.Body, fn)
		Walk(n.Cond, fn)

	case *ForStmt:
		Walk(n.Init, fn)
		Walk(n.Cond, fn)
		Walk(n.Post, fn)
		Walk(n.Body, fn)

	case *ForInStmt:
		Walk(n.Var, fn)
		Walk(n.Array, fn)
		Walk(n.Body, fn)

	case *BreakStmt, *ContinueStmt, *NextStmt, *NextFileStmt:
		// no children

	case *ReturnStmt:
		Walk(n.Value, fn)

	case *ExitStmt:
		Walk(n.Code, fn)

	case *DeleteStmt:
		Walk(n.Array, fn)
		for _, idx := range n.Index {
			Walk(idx, fn)
		}
	}
}

// CallNames returns the set of user function names referenced anywhere in
// prog. The evaluator does not call it: a call to an undefined function is
// reported when that call is executed.
func CallNames(prog *Program) map[string]token.Position {
	names := make(map[string]token.Position)
	record := func(n Node) bool {
		if call, ok := n.(*CallExpr); ok {
			if _, seen := names[call.Name]; !seen {
				names[call.Name] = call.Pos()
			}
		}
		return true
	}
	for _, b := range prog.Begin {
		Walk(b, record)
	}
	for _, b := range prog.BeginFile {
		Walk(b, record)
	}
	for _, r := range prog.Rules {
		Walk(r, record)
	}
	for _, b := range prog.EndFile {
		Walk(b, record)
	}
	for _, b := range prog.EndBlocks {
		Walk(b, record)
	}
	for _, f := range prog.Functions {
		Walk(f, record)
	}
	return names
}

