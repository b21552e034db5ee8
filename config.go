package nawk

import "io"

// Config holds configuration options for AWK execution.
type Config struct {
	// FS is the input field separator (default: " ").
	// When set to a single space, runs of whitespace are treated as separators.
	// Any other single character separates fields at each occurrence;
	// a longer string is used as a regular expression.
	FS string

	// RS is the input record separator (default: "\n").
	// An empty RS counts as unset and leaves the default "\n"; paragraph
	// mode (records separated by blank lines) is selected by assigning
	// RS = "" inside the program.
	RS string

	// OFS is the output field separator (default: " ").
	// Used when printing multiple values with the print statement.
	OFS string

	// ORS is the output record separator (default: "\n").
	// Appended after each print statement.
	ORS string

	// Variables contains pre-defined variables.
	// These are set before BEGIN block execution.
	// Example: map[string]string{"threshold": "100", "prefix": "LOG:"}
	Variables map[string]string

	// Output is the writer for print/printf statements.
	// If nil, output is captured and returned from Run.
	Output io.Writer

	// Stderr is the writer for error output.
	// If nil, errors are discarded.
	Stderr io.Writer

	// Args contains command-line arguments (ARGV).
	// Args[0] is typically the program name.
	Args []string

	// POSIXMode disables gawk extensions (FPAT, FIELDWIDTHS, gensub,
	// patsplit, asort, asorti, BEGINFILE, ENDFILE).
	POSIXMode bool

	// Traditional behaves like POSIXMode: gawk extensions are disabled.
	// Kept as a distinct flag because the driver exposes both --posix and
	// --traditional independently, matching awk's own flag surface.
	Traditional bool
}

// applyDefaults fills in default values for unset Config fields.
func (c *Config) applyDefaults() {
	if c.FS == "" {
		c.FS = " "
	}
	if c.RS == "" {
		c.RS = "\n"
	}
	if c.OFS == "" {
		c.OFS = " "
	}
	if c.ORS == "" {
		c.ORS = "\n"
	}
}
