package eval

import (
	"github.com/kolkov/nawk/internal/ast"
	"github.com/kolkov/nawk/internal/types"
)

// callUserFunc calls a user-defined function. Array pass-by-reference is
// resolved dynamically: an argument aliases the callee's parameter only
// when it is a bare identifier that already names a known array in the
// caller's current scope at the moment of the call. Anything else (an
// identifier that isn't yet an array, an expression, a field) is passed as
// an ordinary scalar value, so a function that receives a variable used as
// an array for the first time inside the call will not see its writes
// reflected in the caller.
func (it *Interp) callUserFunc(name string, argExprs []ast.Expr) types.Value {
	fn, ok := it.funcs[name]
	if !ok {
		it.fatalf("calling undefined function %s", name)
		return types.Null()
	}
	if it.callDepth >= maxCallDepth {
		it.fatalf("call stack too deep calling %s", name)
		return types.Null()
	}

	arrayRefs := make([]string, len(fn.Params))
	argVals := make([]types.Value, len(argExprs))
	for i, a := range argExprs {
		if id, idOk := a.(*ast.Ident); idOk && it.getArray(id.Name) != nil {
			if i < len(arrayRefs) {
				arrayRefs[i] = it.resolveArrayName(id.Name)
			}
			continue
		}
		argVals[i] = it.evalExpr(a)
	}

	savedScalars := make(map[string]types.Value, len(fn.Params))
	hadScalar := make(map[string]bool, len(fn.Params))
	savedArrays := make(map[string]map[string]types.Value, len(fn.Params))
	hadArray := make(map[string]bool, len(fn.Params))
	for _, p := range fn.Params {
		if v, present := it.globals[p]; present {
			savedScalars[p] = v
			hadScalar[p] = true
		}
		if a, present := it.arrays[p]; present {
			savedArrays[p] = a
			hadArray[p] = true
		}
	}

	aliasFrame := make(map[string]string, len(fn.Params))
	for i, p := range fn.Params {
		if arrayRefs[i] != "" && arrayRefs[i] != p {
			aliasFrame[p] = arrayRefs[i]
		}
	}
	it.aliases = append(it.aliases, aliasFrame)

	for i, p := range fn.Params {
		if arrayRefs[i] != "" {
			continue
		}
		delete(it.arrays, p)
		if i < len(argVals) {
			it.globals[p] = argVals[i]
		} else {
			delete(it.globals, p)
		}
	}

	it.callDepth++
	c := it.execBlock(fn.Body)
	it.callDepth--

	it.aliases = it.aliases[:len(it.aliases)-1]

	for i, p := range fn.Params {
		if arrayRefs[i] != "" {
			continue
		}
		if hadScalar[p] {
			it.globals[p] = savedScalars[p]
		} else {
			delete(it.globals, p)
		}
		if hadArray[p] {
			it.arrays[p] = savedArrays[p]
		} else {
			delete(it.arrays, p)
		}
	}

	if c.kind == ctrlReturn {
		return c.value
	}
	return types.Null()
}
