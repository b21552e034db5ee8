// Package eval implements the tree-walking evaluator for AWK programs: it
// owns all mutable runtime state (globals, arrays, fields, built-in
// variables, open streams, regex cache, range-pattern state) and walks the
// program tree produced by internal/parser.
package eval

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/kolkov/nawk/internal/ast"
	"github.com/kolkov/nawk/internal/runtime"
	"github.com/kolkov/nawk/internal/types"
)

// Config carries the subset of top-level configuration the evaluator needs.
// It mirrors the root package's Config without importing it (avoiding an
// import cycle); the root package constructs one of these from its own
// Config before calling New.
type Config struct {
	FS          string
	RS          string
	OFS         string
	ORS         string
	Variables   map[string]string
	Output      io.Writer
	Stderr      io.Writer
	Args        []string
	POSIXMode   bool
	Traditional bool
}

// Input is one named input stream. Name becomes FILENAME while the stream
// is active; an empty Name or "-" means standard input.
type Input struct {
	Name   string
	Reader io.Reader
}

// fieldMode names the three ways a record can be split into fields. The
// Interp.fieldMode field is not consulted: splitFields chooses the way from
// the FPAT and FIELDWIDTHS settings.
type fieldMode int

const (
	modeFS fieldMode = iota
	modeFPAT
	modeFieldWidths
)

// Interp is the evaluator: one struct owning every runtime table. AWK has a
// single global namespace for scalars and another for arrays, so all state
// lives here rather than in nested scopes; function parameters shadow
// globals by save/restore around each call.
type Interp struct {
	prog  *ast.Program
	funcs map[string]*ast.FuncDecl

	globals map[string]types.Value
	arrays  map[string]map[string]types.Value

	// array_aliases: parameter name -> outer array name, active only
	// inside the user function call that established it.
	aliases []map[string]string

	record string
	fields []string
	nf     int
	// fieldsDirty is true when $0 needs to be rebuilt from fields before
	// it is next read.
	fieldsDirty bool

	fs          string
	ofs         string
	rs          string
	ors         string
	ofmt        string
	convfmt     string
	subsep      string
	fpat        string
	fieldwidths []int
	fieldMode   fieldMode

	nr, fnr int
	rstart  int
	rlength int
	filename string

	posixMode   bool
	traditional bool

	io         *runtime.IOManager
	regexCache *runtime.RegexCache

	// curScanner is the main input stream's scanner while a record loop is
	// active, used by plain `getline`/`getline var` (no redirection) to
	// read the next record from the same stream the record loop is
	// driving.
	curScanner *bufio.Scanner

	out    *bufio.Writer
	errOut io.Writer

	rangeActive []bool

	rngState uint64
	rngSeed  float64

	exiting  bool
	exitCode int
	nextRec  bool
	nextFile bool

	callDepth int
}

const maxCallDepth = 2000

// New constructs an evaluator for prog with cfg, pre-populating globals
// from cfg.Variables and the ENVIRON/ARGV/PROCINFO special arrays.
func New(prog *ast.Program, cfg *Config) (*Interp, error) {
	it := &Interp{
		prog:        prog,
		funcs:       make(map[string]*ast.FuncDecl, len(prog.Functions)),
		globals:     make(map[string]types.Value),
		arrays:      make(map[string]map[string]types.Value),
		fs:          " ",
		ofs:         " ",
		rs:          "\n",
		ors:         "\n",
		ofmt:        "%.6g",
		convfmt:     "%.6g",
		subsep:      "\x1c",
		rstart:      0,
		rlength:     -1,
		io:          runtime.NewIOManager(),
		regexCache:  runtime.NewRegexCache(0),
		posixMode:   cfg.POSIXMode,
		traditional: cfg.Traditional,
	}
	for _, fn := range prog.Functions {
		it.funcs[fn.Name] = fn
	}
	it.rangeActive = make([]bool, len(prog.Rules))

	if cfg.FS != "" {
		it.fs = cfg.FS
	}
	if cfg.RS != "" {
		it.rs = cfg.RS
	}
	if cfg.OFS != "" {
		it.ofs = cfg.OFS
	}
	if cfg.ORS != "" {
		it.ors = cfg.ORS
	}

	if cfg.Output != nil {
		it.out = bufio.NewWriter(cfg.Output)
	} else {
		it.out = bufio.NewWriter(io.Discard)
	}
	if cfg.Stderr != nil {
		it.errOut = cfg.Stderr
	} else {
		it.errOut = io.Discard
	}

	seed := time.Now().Unix()
	it.rngSeed = float64(seed)
	it.rngState = seedState(seed)

	environ := make(map[string]types.Value)
	for _, kv := range os.Environ() {
		for i := 0; i < len(kv); i++ {
			if kv[i] == '=' {
				environ[kv[:i]] = types.FromInputString(kv[i+1:])
				break
			}
		}
	}
	it.arrays["ENVIRON"] = environ

	argv := make(map[string]types.Value)
	args := cfg.Args
	if len(args) == 0 {
		args = []string{"awk"}
	}
	for i, a := range args {
		argv[fmt.Sprintf("%d", i)] = types.Str(a)
	}
	it.arrays["ARGV"] = argv
	it.globals["ARGC"] = types.Num(float64(len(args)))

	// "FS" is a placeholder recomputed on every read by getArray
	// (vars.go's procinfoFSMode), since the active splitting mode can
	// change after construction (FPAT/FIELDWIDTHS assignment).
	it.arrays["PROCINFO"] = map[string]types.Value{
		"version": types.Str("1.0"),
		"pid":     types.Num(float64(os.Getpid())),
		"FS":      types.Str("FS"),
	}

	for name, val := range cfg.Variables {
		it.globals[name] = types.FromInputString(val)
	}

	return it, nil
}

// gawkExtensionsEnabled reports whether FPAT/FIELDWIDTHS/gensub/patsplit/
// asort/asorti/BEGINFILE/ENDFILE are active.
func (it *Interp) gawkExtensionsEnabled() bool {
	return !it.posixMode && !it.traditional
}

// Run executes the program against inputs, writing to the writer supplied
// via Config.Output: every BEGIN rule, then per input stream the BEGINFILE
// rules, the record loop, and the ENDFILE rules, then every END rule.
func (it *Interp) Run(inputs []Input) (exitCode int, err error) {
	defer it.out.Flush()
	defer it.io.CloseAll()

	defer func() {
		if r := recover(); r != nil {
			if re, ok := r.(*evalError); ok {
				err = re.err
				return
			}
			panic(r)
		}
	}()

	for _, blk := range it.prog.Begin {
		it.execBlock(blk)
		if it.exiting {
			break
		}
	}

	// A program with only BEGIN rules exits without reading input; END (or
	// any per-record or per-file rule) forces the record loop to run.
	readsInput := len(it.prog.Rules) > 0 || len(it.prog.EndBlocks) > 0 ||
		len(it.prog.BeginFile) > 0 || len(it.prog.EndFile) > 0
	if !it.exiting && readsInput {
		if len(inputs) == 0 {
			inputs = []Input{{Name: "", Reader: os.Stdin}}
		}
		for _, in := range inputs {
			if it.exiting {
				break
			}
			it.runInput(in)
		}
	}

	// exit stops the record loop but program-end rules still run; only an
	// exit issued inside an END rule stops the remaining END rules.
	it.exiting = false
	for _, blk := range it.prog.EndBlocks {
		it.execBlock(blk)
		if it.exiting {
			break
		}
	}

	return it.exitCode, nil
}

// runInput drives the record loop over a single input stream.
func (it *Interp) runInput(in Input) {
	name := in.Name
	if name == "" {
		name = "-"
	}
	it.filename = name
	it.fnr = 0
	it.nextFile = false

	if it.gawkExtensionsEnabled() {
		for _, blk := range it.prog.BeginFile {
			it.execBlock(blk)
			if it.exiting || it.nextFile {
				break
			}
		}
	}

	if !it.exiting && !it.nextFile {
		split, splitErr := runtime.NewRecordSplitFunc(it.rs, it.regexCache)
		if splitErr != nil {
			it.fatalf("invalid RS %q: %v", it.rs, splitErr)
		}
		scanner := bufio.NewScanner(in.Reader)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024*1024)
		scanner.Split(split)
		it.curScanner = scanner

		for scanner.Scan() {
			it.nr++
			it.fnr++
			it.setRecord(scanner.Text())

			it.nextRec = false
			for ruleIdx, rule := range it.prog.Rules {
				if it.exiting || it.nextRec || it.nextFile {
					break
				}
				if it.ruleMatches(rule, ruleIdx) {
					it.runAction(rule)
				}
			}
			if it.exiting || it.nextFile {
				break
			}
		}
	}
	it.curScanner = nil

	if it.gawkExtensionsEnabled() {
		for _, blk := range it.prog.EndFile {
			it.execBlock(blk)
			if it.exiting {
				break
			}
		}
	}
}

// runAction executes a rule's action, defaulting to `print $0` when the
// rule has no action block.
func (it *Interp) runAction(rule *ast.Rule) {
	if rule.Action == nil {
		it.out.WriteString(it.getField(0))
		it.out.WriteString(it.ors)
		return
	}
	it.execBlock(rule.Action)
}

// fatalf raises a fatal runtime error, unwinding to Run via panic/recover
// (see evalError). Fatal conditions use this single abort channel; the
// normal/break/continue/return/next/nextfile control results are returned
// directly by statement execution instead.
func (it *Interp) fatalf(format string, args ...any) {
	panic(&evalError{err: &runtimeError{message: fmt.Sprintf(format, args...)}})
}

// evalError is the panic payload used to unwind to Run.
type evalError struct {
	err error
}

// runtimeError implements error for fatal evaluation failures, formatted
// per the root package's RuntimeError contract.
type runtimeError struct {
	message string
}

func (e *runtimeError) Error() string {
	return "runtime error: " + e.message
}

// RuntimeErrorMessage extracts the message from a fatal runtime error
// raised by the evaluator, for the root package to re-wrap into its own
// RuntimeError type.
func RuntimeErrorMessage(err error) (string, bool) {
	if re, ok := err.(*runtimeError); ok {
		return re.message, true
	}
	return "", false
}
