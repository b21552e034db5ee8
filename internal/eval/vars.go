package eval

import (
	"strconv"
	"strings"

	"github.com/kolkov/nawk/internal/types"
)

// getVar reads a scalar variable by name, dispatching to built-in state
// for the special names and falling back to the globals table.
func (it *Interp) getVar(name string) types.Value {
	switch name {
	case "NF":
		return types.Num(float64(it.nf))
	case "NR":
		return types.Num(float64(it.nr))
	case "FNR":
		return types.Num(float64(it.fnr))
	case "FS":
		return types.Str(it.fs)
	case "OFS":
		return types.Str(it.ofs)
	case "RS":
		return types.Str(it.rs)
	case "ORS":
		return types.Str(it.ors)
	case "OFMT":
		return types.Str(it.ofmt)
	case "CONVFMT":
		return types.Str(it.convfmt)
	case "SUBSEP":
		return types.Str(it.subsep)
	case "FILENAME":
		return types.Str(it.filename)
	case "RSTART":
		return types.Num(float64(it.rstart))
	case "RLENGTH":
		return types.Num(float64(it.rlength))
	case "FPAT":
		return types.Str(it.fpat)
	case "FIELDWIDTHS":
		return types.Str(formatFieldWidths(it.fieldwidths))
	default:
		if v, ok := it.globals[name]; ok {
			return v
		}
		return types.Null()
	}
}

// setVar assigns a scalar variable by name, applying the side effects
// built-in variables carry (field resplit triggers, separator-mode
// switches).
func (it *Interp) setVar(name string, v types.Value) {
	switch name {
	case "NF":
		it.setNF(int(v.AsNum()))
	case "NR":
		it.nr = int(v.AsNum())
	case "FNR":
		it.fnr = int(v.AsNum())
	case "FS":
		it.setFS(v.AsStr(it.convfmt))
	case "OFS":
		it.ofs = v.AsStr(it.convfmt)
	case "RS":
		it.rs = v.AsStr(it.convfmt)
	case "ORS":
		it.ors = v.AsStr(it.convfmt)
	case "OFMT":
		it.ofmt = v.AsStr(it.convfmt)
	case "CONVFMT":
		it.convfmt = v.AsStr(it.convfmt)
	case "SUBSEP":
		it.subsep = v.AsStr(it.convfmt)
	case "FILENAME":
		it.filename = v.AsStr(it.convfmt)
	case "RSTART":
		it.rstart = int(v.AsNum())
	case "RLENGTH":
		it.rlength = int(v.AsNum())
	case "FPAT":
		it.setFPAT(v.AsStr(it.convfmt))
	case "FIELDWIDTHS":
		it.setFieldWidths(v.AsStr(it.convfmt))
	default:
		it.globals[name] = v
	}
}

func formatFieldWidths(widths []int) string {
	parts := make([]string, len(widths))
	for i, w := range widths {
		parts[i] = strconv.Itoa(w)
	}
	return strings.Join(parts, " ")
}

// resolveArrayName follows the alias established for the currently active
// function call (if any). Array parameters are passed by reference through
// name-aliasing rather than by sharing table pointers, so the same
// underlying table is read and written through either name.
func (it *Interp) resolveArrayName(name string) string {
	if len(it.aliases) == 0 {
		return name
	}
	top := it.aliases[len(it.aliases)-1]
	if outer, ok := top[name]; ok {
		return outer
	}
	return name
}

// getArray returns the named array without creating it, or nil if it does
// not exist yet (spec: "arrays created on first indexed write").
func (it *Interp) getArray(name string) map[string]types.Value {
	name = it.resolveArrayName(name)
	arr := it.arrays[name]
	if name == "PROCINFO" && arr != nil {
		arr["FS"] = types.Str(it.procinfoFSMode())
	}
	return arr
}

// procinfoFSMode names the active field-splitting mode for PROCINFO["FS"],
// recomputed from the current FPAT/FIELDWIDTHS/FS state on every read
// rather than cached, since assignments can switch the mode at any time.
func (it *Interp) procinfoFSMode() string {
	if it.gawkExtensionsEnabled() {
		if it.fpat != "" {
			return "FPAT"
		}
		if len(it.fieldwidths) > 0 {
			return "FIELDWIDTHS"
		}
	}
	return "FS"
}

// getOrCreateArray returns the named array, creating an empty one on first
// use.
func (it *Interp) getOrCreateArray(name string) map[string]types.Value {
	name = it.resolveArrayName(name)
	arr, ok := it.arrays[name]
	if !ok {
		arr = make(map[string]types.Value)
		it.arrays[name] = arr
	}
	return arr
}

// deleteArray removes every element of the named array (`delete arr`).
func (it *Interp) deleteArray(name string) {
	name = it.resolveArrayName(name)
	delete(it.arrays, name)
}

// subscript joins multiple index expressions' string forms with SUBSEP to
// form a single array key.
func (it *Interp) subscript(parts []string) string {
	if len(parts) == 1 {
		return parts[0]
	}
	return strings.Join(parts, it.subsep)
}
