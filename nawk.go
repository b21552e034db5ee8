package nawk

import "io"

// Version is the nawk version string.
const Version = "1.0.0"

// Run executes an AWK program against a single input stream. This is a
// convenience function for one-off execution; for repeated execution of the
// same program, or execution over several named input streams, use Compile
// followed by Program.Run.
//
// Parameters:
//   - program: AWK source code
//   - input: input data reader (nil for programs that don't read input)
//   - config: execution configuration (nil for defaults)
//
// Returns the program's output, or an error if parsing or execution fails.
// A program that calls exit with a nonzero status returns its output so far
// alongside an *ExitError.
//
// Example:
//
//	output, err := nawk.Run(`{ print $1 }`, strings.NewReader("hello world"), nil)
//	// output: "hello\n"
func Run(program string, input io.Reader, config *Config) (string, error) {
	prog, err := Compile(program)
	if err != nil {
		return "", err
	}
	return runBuffered(prog, input, config)
}

// Compile parses an AWK program for execution. The returned Program can be
// run multiple times, against different inputs and configurations.
//
// Example:
//
//	prog, err := nawk.Compile(`{ sum += $1 } END { print sum }`)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	err = prog.RunCLI([]nawk.Input{{Reader: os.Stdin}}, nil) // or prog.Run for the exit code
func Compile(program string) (*Program, error) {
	return compileSource(program)
}

// Exec is a simplified interface for running an AWK program: it reads from
// input, writes to output, and returns any error. Useful for integration
// with I/O pipelines where the caller already owns the output writer.
//
// Example:
//
//	err := nawk.Exec(`{ print toupper($0) }`, os.Stdin, os.Stdout, nil)
func Exec(program string, input io.Reader, output io.Writer, config *Config) error {
	prog, err := Compile(program)
	if err != nil {
		return err
	}

	if config == nil {
		config = &Config{}
	}
	cfg := *config
	cfg.Output = output

	var inputs []Input
	if input != nil {
		inputs = []Input{{Reader: input}}
	}
	return prog.RunCLI(inputs, &cfg)
}

// MustCompile is like Compile but panics if the program cannot be parsed. It
// simplifies initialization of package-level program variables.
//
// Example:
//
//	var sumProgram = nawk.MustCompile(`{ sum += $1 } END { print sum }`)
func MustCompile(program string) *Program {
	prog, err := Compile(program)
	if err != nil {
		panic(err)
	}
	return prog
}
