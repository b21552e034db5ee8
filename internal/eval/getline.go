package eval

import (
	"bufio"

	"github.com/kolkov/nawk/internal/ast"
	"github.com/kolkov/nawk/internal/types"
)

// evalGetline implements every getline form, returning 1 on success, 0 on
// end of input, -1 on error. NR and FNR are bumped on every successful read
// from the main input stream (plain `getline` and `getline var`) and on a
// redirected read that replaces $0 (`getline < f`, `cmd | getline`); a
// redirected read into a variable touches only that variable. Reading with
// no redirection inside a BEGIN block returns 0: before any input stream
// has been opened there is no current input to read from.
func (it *Interp) evalGetline(n *ast.GetlineExpr) types.Value {
	var scanner *bufio.Scanner
	var err error
	redirected := false

	switch {
	case n.Command != nil:
		cmdStr := it.evalExpr(n.Command).AsStr(it.convfmt)
		scanner, err = it.io.GetInputPipe(cmdStr, it.rs, it.regexCache)
		redirected = true
	case n.File != nil:
		filename := it.evalExpr(n.File).AsStr(it.convfmt)
		scanner, err = it.io.GetInputFile(filename, it.rs, it.regexCache)
		redirected = true
	default:
		scanner = it.curScanner
	}

	if err != nil {
		return types.Num(-1)
	}
	if scanner == nil {
		return types.Num(0)
	}
	if !scanner.Scan() {
		if scanner.Err() != nil {
			return types.Num(-1)
		}
		return types.Num(0)
	}

	line := scanner.Text()

	if n.Target != nil {
		if !redirected {
			it.nr++
			it.fnr++
		}
		it.assignTo(n.Target, types.FromInputString(line))
	} else {
		it.nr++
		it.fnr++
		it.setRecord(line)
	}
	return types.Num(1)
}
