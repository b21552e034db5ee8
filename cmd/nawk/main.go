// nawk - a standalone AWK interpreter
//
// Manual argument parsing is used rather than the "flag" package so that
// flags with no space between flag and argument ("-F:") are accepted, as
// POSIX requires.
package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/kolkov/nawk"
)

var version = "dev"

const (
	shortUsage = "usage: nawk [-F fs] [-v var=value] [-f progfile | 'prog'] [--posix] [--traditional] [file ...]"
	longUsage  = `Standard AWK arguments:
  -F separator      field separator (default " ")
  -f progfile       load AWK source from progfile (multiple allowed)
  -v var=value      variable assignment (multiple allowed)

Mode flags:
  --posix           disable gawk extensions (FPAT, FIELDWIDTHS, gensub,
                    patsplit, asort, asorti, BEGINFILE, ENDFILE)
  --traditional     same effect as --posix

Other:
  -h, --help        show this help message
  --version         show nawk version and exit
  --                end of flags
  -                 read input from standard input
`
)

func main() {
	var progFiles []string
	var vars []string
	fieldSep := ""
	posixMode := false
	traditional := false

	var i int
	for i = 1; i < len(os.Args); i++ {
		arg := os.Args[i]
		if arg == "--" {
			i++
			break
		}
		if arg == "-" || !strings.HasPrefix(arg, "-") {
			break
		}

		switch arg {
		case "-F":
			fieldSep = requireArg(os.Args, &i, "-F")
		case "-f":
			progFiles = append(progFiles, requireArg(os.Args, &i, "-f"))
		case "-v":
			vars = append(vars, requireArg(os.Args, &i, "-v"))
		case "--posix":
			posixMode = true
		case "--traditional":
			traditional = true
		case "-h", "--help":
			fmt.Printf("nawk %s\n\n%s\n\n%s", version, shortUsage, longUsage)
			os.Exit(0)
		case "--version":
			fmt.Printf("nawk version %s\n", version)
			os.Exit(0)
		default:
			switch {
			case strings.HasPrefix(arg, "-F"):
				fieldSep = arg[2:]
			case strings.HasPrefix(arg, "-f"):
				progFiles = append(progFiles, arg[2:])
			case strings.HasPrefix(arg, "-v"):
				vars = append(vars, arg[2:])
			default:
				unknownFlagExit(arg)
			}
		}
	}

	args := os.Args[i:]

	var program string
	var inputFiles []string

	switch {
	case len(progFiles) > 0:
		var sb strings.Builder
		for _, f := range progFiles {
			content, err := os.ReadFile(f)
			if err != nil {
				errorExitf("cannot read program file %s: %v", f, err)
			}
			sb.Write(content)
			sb.WriteByte('\n')
		}
		program = sb.String()
		inputFiles = args
	case len(args) > 0:
		program = args[0]
		inputFiles = args[1:]
	default:
		errorExitf(shortUsage)
	}

	prog, err := nawk.Compile(program)
	if err != nil {
		fmt.Fprintf(os.Stderr, "nawk: %v\n", err)
		os.Exit(2)
	}

	stdout := bufio.NewWriter(os.Stdout)
	defer stdout.Flush()

	config := &nawk.Config{
		FS:          fieldSep,
		Output:      stdout,
		Stderr:      os.Stderr,
		POSIXMode:   posixMode,
		Traditional: traditional,
	}

	if len(vars) > 0 {
		config.Variables = make(map[string]string)
		for _, v := range vars {
			parts := strings.SplitN(v, "=", 2)
			if len(parts) != 2 {
				errorExitf("invalid variable assignment: %s (expected var=value)", v)
			}
			config.Variables[parts[0]] = parts[1]
		}
	}

	config.Args = append([]string{"nawk"}, inputFiles...)

	var inputs []nawk.Input
	if len(inputFiles) == 0 {
		inputs = []nawk.Input{{Name: "-", Reader: os.Stdin}}
	} else {
		for _, f := range inputFiles {
			if f == "-" {
				inputs = append(inputs, nawk.Input{Name: "-", Reader: os.Stdin})
				continue
			}
			file, openErr := os.Open(f)
			if openErr != nil {
				errorExitf("cannot open file %s: %v", f, openErr)
			}
			defer file.Close()
			inputs = append(inputs, nawk.Input{Name: f, Reader: file})
		}
	}

	if err := prog.RunCLI(inputs, config); err != nil {
		if code, ok := nawk.IsExitError(err); ok {
			os.Exit(code)
		}
		errorExit(err)
	}
}

// requireArg consumes the next argument as the value for a flag expecting a
// separate argument, exiting with a usage error if none remains.
func requireArg(args []string, i *int, flag string) string {
	if *i+1 >= len(args) {
		errorExitf("flag needs an argument: %s", flag)
	}
	*i++
	return args[*i]
}

func errorExitf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "nawk: "+format+"\n", args...)
	os.Exit(1)
}

// unknownFlagExit reports an unrecognized flag and exits 2, per the driver
// contract's "Unknown flag -> exit 2" (distinct from the exit-1 convention
// used for every other usage/runtime error here).
func unknownFlagExit(arg string) {
	fmt.Fprintf(os.Stderr, "nawk: flag provided but not defined: %s\n", arg)
	os.Exit(2)
}

func errorExit(err error) {
	fmt.Fprintf(os.Stderr, "nawk: %v\n", err)
	os.Exit(1)
}
