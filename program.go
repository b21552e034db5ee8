package nawk

import (
	"bytes"
	"io"

	"github.com/kolkov/nawk/internal/ast"
	"github.com/kolkov/nawk/internal/eval"
	"github.com/kolkov/nawk/internal/parser"
)

// Input is one named input stream. Name becomes FILENAME while the stream is
// being read and drives per-file FNR reset and BEGINFILE/ENDFILE rules; an
// empty Name (or "-") means standard input.
type Input struct {
	Name   string
	Reader io.Reader
}

// Program represents a parsed AWK program ready for execution. It is safe
// for concurrent use; each call to Run creates an independent evaluator.
type Program struct {
	prog   *ast.Program
	source string
}

// Source returns the original AWK source code.
func (p *Program) Source() string {
	return p.source
}

// Run executes the compiled program against inputs, writing to
// config.Output. If inputs is empty, standard input is read. If config is
// nil, default configuration is used.
//
// The returned int is the program's exit code (0 unless the program called
// exit with a nonzero status); err is non-nil only for a fatal runtime
// error, never for a plain exit.
func (p *Program) Run(inputs []Input, config *Config) (int, error) {
	if config == nil {
		config = &Config{}
	}
	config.applyDefaults()

	it, err := eval.New(p.prog, toEvalConfig(config))
	if err != nil {
		return 0, &RuntimeError{Message: err.Error()}
	}

	evalInputs := make([]eval.Input, len(inputs))
	for i, in := range inputs {
		evalInputs[i] = eval.Input{Name: in.Name, Reader: in.Reader}
	}

	code, runErr := it.Run(evalInputs)
	if runErr != nil {
		if msg, ok := eval.RuntimeErrorMessage(runErr); ok {
			return code, &RuntimeError{Message: msg}
		}
		return code, &RuntimeError{Message: runErr.Error()}
	}
	return code, nil
}

// RunCLI is Run with the exit-code/error split collapsed into a single
// error, for driver code that only wants to know whether to exit 0: a
// nonzero exit code with no runtime error becomes an *ExitError.
func (p *Program) RunCLI(inputs []Input, config *Config) error {
	code, err := p.Run(inputs, config)
	if err != nil {
		return err
	}
	if code != 0 {
		return &ExitError{Code: code}
	}
	return nil
}

func toEvalConfig(c *Config) *eval.Config {
	return &eval.Config{
		FS:          c.FS,
		RS:          c.RS,
		OFS:         c.OFS,
		ORS:         c.ORS,
		Variables:   c.Variables,
		Output:      c.Output,
		Stderr:      c.Stderr,
		Args:        c.Args,
		POSIXMode:   c.POSIXMode,
		Traditional: c.Traditional,
	}
}

// runBuffered runs the program against a single reader, capturing output
// into a string when config.Output is nil; the shared implementation
// behind the package-level Run and Exec convenience functions.
func runBuffered(p *Program, input io.Reader, config *Config) (string, error) {
	if config == nil {
		config = &Config{}
	}

	var buf *bytes.Buffer
	if config.Output == nil {
		buf = &bytes.Buffer{}
		cfgCopy := *config
		cfgCopy.Output = buf
		config = &cfgCopy
	}

	var inputs []Input
	if input != nil {
		inputs = []Input{{Reader: input}}
	}

	code, err := p.Run(inputs, config)
	if err != nil {
		return "", err
	}
	if code != 0 {
		out := ""
		if buf != nil {
			out = buf.String()
		}
		return out, &ExitError{Code: code}
	}

	if buf != nil {
		return buf.String(), nil
	}
	return "", nil
}

func compileSource(program string) (*Program, error) {
	astProg, err := parser.Parse(program)
	if err != nil {
		return nil, convertParseError(err)
	}
	return &Program{prog: astProg, source: program}, nil
}

func convertParseError(err error) error {
	if pe, ok := err.(*parser.ParseError); ok {
		return &ParseError{Line: pe.Pos.Line, Column: pe.Pos.Column, Message: pe.Message}
	}
	if el, ok := err.(parser.ErrorList); ok && len(el) > 0 {
		return &ParseError{Line: el[0].Pos.Line, Column: el[0].Pos.Column, Message: el[0].Message}
	}
	return &ParseError{Message: err.Error()}
}
