package eval

import (
	"math"
	"os/exec"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/kolkov/nawk/internal/ast"
	"github.com/kolkov/nawk/internal/token"
	"github.com/kolkov/nawk/internal/types"
)

// callBuiltin dispatches a built-in function call. Argument evaluation is
// interleaved with dispatch, rather than evaluated up front, because several
// builtins (split, sub/gsub, match, asort, patsplit) need the raw argument
// expressions instead of their values: array destinations are resolved by
// name and substitution targets are written back through assignTo.
func (it *Interp) callBuiltin(fn token.Token, args []ast.Expr) types.Value {
	switch fn {
	case token.F_LENGTH:
		return it.builtinLength(args)
	case token.F_SUBSTR:
		return it.builtinSubstr(args)
	case token.F_INDEX:
		s := it.evalExpr(args[0]).AsStr(it.convfmt)
		t := it.evalExpr(args[1]).AsStr(it.convfmt)
		return types.Num(float64(runeIndex(s, t)))
	case token.F_SPRINTF:
		return types.Str(it.sprintfArgs(args))
	case token.F_TOLOWER:
		return types.Str(toLowerASCII(it.evalExpr(args[0]).AsStr(it.convfmt)))
	case token.F_TOUPPER:
		return types.Str(toUpperASCII(it.evalExpr(args[0]).AsStr(it.convfmt)))

	case token.F_SIN:
		return types.Num(math.Sin(it.evalExpr(args[0]).AsNum()))
	case token.F_COS:
		return types.Num(math.Cos(it.evalExpr(args[0]).AsNum()))
	case token.F_ATAN2:
		y := it.evalExpr(args[0]).AsNum()
		x := it.evalExpr(args[1]).AsNum()
		return types.Num(math.Atan2(y, x))
	case token.F_EXP:
		return types.Num(math.Exp(it.evalExpr(args[0]).AsNum()))
	case token.F_LOG:
		return types.Num(math.Log(it.evalExpr(args[0]).AsNum()))
	case token.F_SQRT:
		return types.Num(math.Sqrt(it.evalExpr(args[0]).AsNum()))
	case token.F_INT:
		return types.Num(math.Trunc(it.evalExpr(args[0]).AsNum()))
	case token.F_RAND:
		return types.Num(it.nextRandom())
	case token.F_SRAND:
		return it.builtinSrand(args)

	case token.F_SYSTEM:
		return it.builtinSystem(it.evalExpr(args[0]).AsStr(it.convfmt))
	case token.F_CLOSE:
		return types.Num(float64(it.io.Close(it.evalExpr(args[0]).AsStr(it.convfmt))))
	case token.F_FFLUSH:
		return it.builtinFflush(args)

	case token.F_MATCH:
		return it.builtinMatch(args)
	case token.F_SUB:
		return it.builtinSub(args, false)
	case token.F_GSUB:
		return it.builtinSub(args, true)
	case token.F_GENSUB:
		it.requireGawk("gensub")
		return it.builtinGensub(args)
	case token.F_SPLIT:
		return it.builtinSplit(args)
	case token.F_PATSPLIT:
		it.requireGawk("patsplit")
		return it.builtinPatsplit(args)
	case token.F_ASORT:
		it.requireGawk("asort")
		return it.builtinAsort(args, false)
	case token.F_ASORTI:
		it.requireGawk("asorti")
		return it.builtinAsort(args, true)

	case token.F_SYSTIME:
		return types.Num(float64(it.systimeSecs()))
	case token.F_MKTIME:
		return it.builtinMktime(args)
	case token.F_STRFTIME:
		return it.builtinStrftime(args)

	default:
		it.fatalf("unsupported builtin function %v", fn)
		return types.Null()
	}
}

// requireGawk aborts with a runtime error when a gawk-only builtin is
// called with extensions disabled (--posix or --traditional).
func (it *Interp) requireGawk(name string) {
	if !it.gawkExtensionsEnabled() {
		it.fatalf("%s is a gawk extension", name)
	}
}

// builtinLength returns the character count of its argument, or of $0 when
// called with no argument. The count is in characters, not bytes, so
// multi-byte UTF-8 input counts correctly.
func (it *Interp) builtinLength(args []ast.Expr) types.Value {
	if len(args) == 0 {
		return types.Num(float64(len([]rune(it.getField(0)))))
	}
	s := it.evalExpr(args[0]).AsStr(it.convfmt)
	return types.Num(float64(len([]rune(s))))
}

// builtinSubstr implements substr(s, start[, length]) with 1-based,
// character-counted indexing: a start before 1 clamps to 1, a start past
// the end yields the empty string, and a non-positive length yields the
// empty string.
func (it *Interp) builtinSubstr(args []ast.Expr) types.Value {
	s := it.evalExpr(args[0]).AsStr(it.convfmt)
	runes := []rune(s)

	start := int(it.evalExpr(args[1]).AsNum())
	if start < 1 {
		start = 1
	}
	skip := start - 1
	if skip > len(runes) {
		skip = len(runes)
	}

	if len(args) < 3 {
		return types.Str(string(runes[skip:]))
	}
	length := int(it.evalExpr(args[2]).AsNum())
	if length < 0 {
		length = 0
	}
	end := skip + length
	if end > len(runes) {
		end = len(runes)
	}
	return types.Str(string(runes[skip:end]))
}

// runeIndex returns the 1-based character position of the first occurrence
// of sub within s, or 0 if not found. An empty needle is never found.
func runeIndex(s, sub string) int {
	if sub == "" {
		return 0
	}
	byteIdx := strings.Index(s, sub)
	if byteIdx < 0 {
		return 0
	}
	return len([]rune(s[:byteIdx])) + 1
}

func (it *Interp) builtinSrand(args []ast.Expr) types.Value {
	old := it.rngSeed
	var seed float64
	if len(args) > 0 {
		seed = it.evalExpr(args[0]).AsNum()
	} else {
		seed = float64(it.systimeSecs())
	}
	it.rngSeed = seed
	it.rngState = seedState(int64(seed))
	return types.Num(old)
}

// seedState expands a seed into a nonzero xorshift64 state with one
// splitmix64 step. Zero is a fixed point of xorshift64, so seeding the
// state with the raw seed would make srand(0) produce a constant stream.
func seedState(seed int64) uint64 {
	z := uint64(seed) + 0x9e3779b97f4a7c15
	z ^= z >> 30
	z *= 0xbf58476d1ce4e5b9
	z ^= z >> 27
	z *= 0x94d049bb133111eb
	z ^= z >> 31
	if z == 0 {
		z = 0x9e3779b97f4a7c15
	}
	return z
}

// nextRandom advances the xorshift64 generator one step and returns a value
// in [0,1). The sequence is fully determined by the seed, so reseeding with
// the same value reproduces the same numbers.
func (it *Interp) nextRandom() float64 {
	x := it.rngState
	x ^= x << 13
	x ^= x >> 7
	x ^= x << 17
	it.rngState = x
	return float64(x>>11) / float64(uint64(1)<<53)
}

func (it *Interp) systimeSecs() int64 {
	return time.Now().Unix()
}

func (it *Interp) builtinSystem(cmd string) types.Value {
	it.out.Flush()
	c := exec.Command("sh", "-c", cmd)
	c.Stdout = it.out
	c.Stderr = it.errOut
	err := c.Run()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return types.Num(float64(exitErr.ExitCode()))
		}
		return types.Num(-1)
	}
	return types.Num(0)
}

func (it *Interp) builtinFflush(args []ast.Expr) types.Value {
	it.out.Flush()
	if len(args) == 0 {
		return types.Num(float64(it.io.Flush("")))
	}
	name := it.evalExpr(args[0]).AsStr(it.convfmt)
	if name == "" {
		return types.Num(float64(it.io.Flush("")))
	}
	return types.Num(float64(it.io.Flush(name)))
}

// builtinMatch implements match(s, re): sets RSTART/RLENGTH (1-based,
// character counted) and returns RSTART.
func (it *Interp) builtinMatch(args []ast.Expr) types.Value {
	s := it.evalExpr(args[0]).AsStr(it.convfmt)
	re := it.regexFor(args[1])

	loc := re.FindStringIndex(s)
	if loc == nil {
		it.rstart = 0
		it.rlength = -1
		return types.Num(0)
	}
	it.rstart = len([]rune(s[:loc[0]])) + 1
	it.rlength = len([]rune(s[loc[0]:loc[1]]))
	return types.Num(float64(it.rstart))
}

// builtinSub implements sub/gsub: substitutes into the (optional) third
// lvalue argument, defaulting to $0, and returns the substitution count.
func (it *Interp) builtinSub(args []ast.Expr, global bool) types.Value {
	re := it.regexFor(args[0])
	replacement := it.evalExpr(args[1]).AsStr(it.convfmt)

	var target ast.Expr
	var value string
	if len(args) > 2 {
		target = args[2]
		value = it.evalExpr(target).AsStr(it.convfmt)
	} else {
		value = it.getField(0)
	}

	count := 0
	var result string
	if global {
		result = re.ReplaceAllStringFunc(value, func(m string) string {
			count++
			return handleAwkReplacement(replacement, m)
		})
	} else {
		loc := re.FindStringIndex(value)
		if loc == nil {
			result = value
		} else {
			count = 1
			matched := value[loc[0]:loc[1]]
			result = value[:loc[0]] + handleAwkReplacement(replacement, matched) + value[loc[1]:]
		}
	}

	if count > 0 {
		if target != nil {
			it.assignTo(target, types.Str(result))
		} else {
			it.setField(0, result)
		}
	}
	return types.Num(float64(count))
}

// handleAwkReplacement expands & to the matched text and \& to a literal &
// within a sub/gsub replacement string.
func handleAwkReplacement(replacement, matched string) string {
	var b strings.Builder
	for i := 0; i < len(replacement); i++ {
		c := replacement[i]
		if c == '\\' && i+1 < len(replacement) {
			next := replacement[i+1]
			if next == '&' || next == '\\' {
				b.WriteByte(next)
				i++
				continue
			}
		}
		if c == '&' {
			b.WriteString(matched)
		} else {
			b.WriteByte(c)
		}
	}
	return b.String()
}

// builtinGensub implements gensub(re, repl, how[, target]): non-destructive
// substitution returning the result rather than writing it back. how is "g"
// or "G" for global, an integer string for the nth occurrence, or anything
// else for the first occurrence.
func (it *Interp) builtinGensub(args []ast.Expr) types.Value {
	re := it.regexFor(args[0])
	replacement := it.evalExpr(args[1]).AsStr(it.convfmt)
	how := it.evalExpr(args[2]).AsStr(it.convfmt)

	var target string
	if len(args) > 3 {
		target = it.evalExpr(args[3]).AsStr(it.convfmt)
	} else {
		target = it.getField(0)
	}

	if strings.EqualFold(how, "g") {
		return types.Str(re.ReplaceAllStringFunc(target, func(m string) string {
			return handleAwkReplacement(replacement, m)
		}))
	}

	n, err := strconv.Atoi(how)
	if err != nil || n < 1 {
		n = 1
	}

	locs := re.FindAllStringIndex(target, -1)
	if n > len(locs) {
		return types.Str(target)
	}
	loc := locs[n-1]
	matched := target[loc[0]:loc[1]]
	result := target[:loc[0]] + handleAwkReplacement(replacement, matched) + target[loc[1]:]
	return types.Str(result)
}

// builtinSplit implements split(s, arr[, fs]): clears arr, splits s by fs
// (or FS when omitted) using the same separator rules as record splitting,
// and populates arr with 1-based string keys.
func (it *Interp) builtinSplit(args []ast.Expr) types.Value {
	s := it.evalExpr(args[0]).AsStr(it.convfmt)
	arrName := identName(args[1])

	sep := it.fs
	if len(args) > 2 {
		sep = it.patternArgString(args[2])
		if sep == "" {
			sep = it.fs
		}
	}

	arr := it.getOrCreateArray(arrName)
	for k := range arr {
		delete(arr, k)
	}

	parts := it.splitFS(s, sep)
	for i, p := range parts {
		arr[strconv.Itoa(i+1)] = types.FromInputString(p)
	}
	return types.Num(float64(len(parts)))
}

// patternArgString extracts the string form of a split/patsplit separator
// argument, keeping regex literals as their raw pattern text rather than
// matching them against $0 first.
func (it *Interp) patternArgString(e ast.Expr) string {
	if re, ok := e.(*ast.RegexLit); ok {
		return re.Pattern
	}
	return it.evalExpr(e).AsStr(it.convfmt)
}

// builtinPatsplit implements patsplit(s, arr, fieldpat[, seps]): splits by
// successive matches of fieldpat rather than by separators, optionally also
// recording the interstitial separator text (including leading/trailing) in
// seps, keyed 0..n.
func (it *Interp) builtinPatsplit(args []ast.Expr) types.Value {
	s := it.evalExpr(args[0]).AsStr(it.convfmt)
	arrName := identName(args[1])
	fieldpat := it.patternArgString(args[2])

	arr := it.getOrCreateArray(arrName)
	for k := range arr {
		delete(arr, k)
	}

	var seps map[string]types.Value
	if len(args) > 3 {
		sepsName := identName(args[3])
		seps = it.getOrCreateArray(sepsName)
		for k := range seps {
			delete(seps, k)
		}
	}

	re := it.mustRegex(fieldpat)
	locs := re.FindAllStringIndex(s, -1)
	for i, loc := range locs {
		arr[strconv.Itoa(i+1)] = types.Str(s[loc[0]:loc[1]])
	}

	if seps != nil {
		lastEnd := 0
		for i, loc := range locs {
			seps[strconv.Itoa(i)] = types.Str(s[lastEnd:loc[0]])
			lastEnd = loc[1]
		}
		seps[strconv.Itoa(len(locs))] = types.Str(s[lastEnd:])
	}

	return types.Num(float64(len(locs)))
}

// builtinAsort implements asort/asorti: sorts a source array's values (or
// keys, for asorti) lexicographically into a destination array (the source
// array itself when no destination is given), keyed 1..n, returning the
// element count.
func (it *Interp) builtinAsort(args []ast.Expr, byIndex bool) types.Value {
	srcName := identName(args[0])
	dstName := srcName
	if len(args) > 1 {
		dstName = identName(args[1])
	}

	src := it.getArray(srcName)
	items := make([]string, 0, len(src))
	if byIndex {
		for k := range src {
			items = append(items, k)
		}
	} else {
		for _, v := range src {
			items = append(items, v.AsStr(it.convfmt))
		}
	}
	sort.Strings(items)

	dst := it.getOrCreateArray(dstName)
	for k := range dst {
		delete(dst, k)
	}
	for i, v := range items {
		dst[strconv.Itoa(i+1)] = types.Str(v)
	}
	return types.Num(float64(len(items)))
}
