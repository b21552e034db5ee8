// Package nawk provides a standalone AWK interpreter.
//
// nawk is an AWK implementation written in Go, featuring:
//   - POSIX AWK compatibility plus a selected set of gawk extensions
//   - A leftmost-longest regex engine (coregex)
//   - A tree-walking evaluator, embeddable in Go applications
//
// # Quick Start
//
// For simple one-off execution:
//
//	output, err := nawk.Run(`{ print $1 }`, strings.NewReader("hello world"), nil)
//
// With configuration:
//
//	output, err := nawk.Run(program, input, &nawk.Config{
//	    FS: ":",
//	    Variables: map[string]string{"threshold": "100"},
//	})
//
// # Compiled Programs
//
// For repeated execution of the same program, possibly over several named
// input streams:
//
//	prog, err := nawk.Compile(`$1 > threshold { print $2 }`)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	code, err := prog.Run([]nawk.Input{{Name: "data.txt", Reader: f}}, &nawk.Config{
//	    Variables: map[string]string{"threshold": "100"},
//	})
//
// # Configuration
//
// The [Config] type allows customization of AWK execution:
//   - Field and record separators (FS, RS, OFS, ORS)
//   - Pre-defined variables
//   - Custom I/O writers
//   - POSIX/traditional mode, which disables gawk extensions
//
// # Error Handling
//
// Errors are returned as specific types for detailed handling:
//   - [ParseError]: syntax errors in AWK source
//   - [RegexError]: an invalid regular expression discovered at its use site
//   - [RuntimeError]: errors during execution
//   - [ExitError]: the program called exit with a nonzero status
package nawk
