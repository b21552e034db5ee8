package ast

import (
	"fmt"
	"strings"
)

// Dump renders a program as an indented tree for humans to read. It is not
// a re-parseable printer, so it favors showing node kinds and key fields
// over exact AWK source reconstruction. The CLI has no flag that prints it.
func Dump(prog *Program) string {
	var b strings.Builder
	for _, blk := range prog.Begin {
		fmt.Fprintln(&b, "BEGIN")
		dumpStmt(&b, blk, 1)
	}
	for _, blk := range prog.BeginFile {
		fmt.Fprintln(&b, "BEGINFILE")
		dumpStmt(&b, blk, 1)
	}
	for _, r := range prog.Rules {
		if r.Pattern != nil {
			fmt.Fprintf(&b, "rule pattern=%T\n", r.Pattern)
		} else {
			fmt.Fprintln(&b, "rule")
		}
		if r.Action != nil {
			dumpStmt(&b, r.Action, 1)
		}
	}
	for _, blk := range prog.EndFile {
		fmt.Fprintln(&b, "ENDFILE")
		dumpStmt(&b, blk, 1)
	}
	for _, blk := range prog.EndBlocks {
		fmt.Fprintln(&b, "END")
		dumpStmt(&b, blk, 1)
	}
	for _, fn := range prog.Functions {
		fmt.Fprintf(&b, "function %s(%s)\n", fn.Name, strings.Join(fn.Params, ", "))
		dumpStmt(&b, fn.Body, 1)
	}
	return b.String()
}

func dumpStmt(b *strings.Builder, s Stmt, depth int) {
	indent := strings.Repeat("  ", depth)
	switch n := s.(type) {
	case *BlockStmt:
		for _, st := range n.Stmts {
			dumpStmt(b, st, depth)
		}
	default:
		fmt.Fprintf(b, "%s%T\n", indent, s)
	}
}
