package eval

import (
	"strconv"
	"strings"

	"github.com/kolkov/nawk/internal/types"
)

// setRecord assigns $0 and resplits into fields, used for each record read
// and for explicit `$0 = ...` assignment.
func (it *Interp) setRecord(s string) {
	it.record = s
	it.fieldsDirty = false
	it.splitFields()
}

// splitFields re-derives it.fields (and NF) from it.record using the
// active field mode: FPAT when set, then FIELDWIDTHS, then plain FS.
func (it *Interp) splitFields() {
	switch {
	case it.gawkExtensionsEnabled() && it.fpat != "":
		it.fields = it.splitFPAT(it.record, it.fpat)
	case it.gawkExtensionsEnabled() && len(it.fieldwidths) > 0:
		it.fields = it.splitFieldWidths(it.record, it.fieldwidths)
	default:
		it.fields = it.splitFS(it.record, it.fs)
	}
	it.nf = len(it.fields)
}

// splitFS splits a record on FS: a single space means runs of whitespace
// with leading/trailing trim, a single character splits on each occurrence
// (empty tail preserved), anything longer compiles as a regex.
func (it *Interp) splitFS(record, fs string) []string {
	if record == "" {
		return nil
	}
	switch {
	case fs == " ":
		return strings.Fields(record)
	case len(fs) == 1:
		return strings.Split(record, fs)
	default:
		re := it.mustRegex(fs)
		return re.Split(record, -1)
	}
}

// splitFPAT splits record by successive matches of the FPAT regex rather
// than by separators (gawk extension).
func (it *Interp) splitFPAT(record, fpat string) []string {
	if record == "" {
		return nil
	}
	re := it.mustRegex(fpat)
	locs := re.FindAllStringIndex(record, -1)
	fields := make([]string, 0, len(locs))
	for _, loc := range locs {
		fields = append(fields, record[loc[0]:loc[1]])
	}
	return fields
}

// splitFieldWidths slices record into fixed-width fields measured in UTF-8
// characters, per gawk's FIELDWIDTHS extension.
func (it *Interp) splitFieldWidths(record string, widths []int) []string {
	runes := []rune(record)
	fields := make([]string, 0, len(widths))
	pos := 0
	for _, w := range widths {
		if pos >= len(runes) {
			break
		}
		end := pos + w
		if end > len(runes) {
			end = len(runes)
		}
		fields = append(fields, string(runes[pos:end]))
		pos = end
	}
	return fields
}

// rebuildRecord joins fields with OFS into $0, called whenever a field or
// NF assignment invalidates $0.
func (it *Interp) rebuildRecord() {
	it.record = strings.Join(it.fields, it.ofs)
	it.fieldsDirty = false
}

// getField returns the text of $i (0 for the whole record).
func (it *Interp) getField(i int) string {
	if i == 0 {
		if it.fieldsDirty {
			it.rebuildRecord()
		}
		return it.record
	}
	if i < 0 {
		it.fatalf("attempt to access field %d", i)
	}
	if i > len(it.fields) {
		return ""
	}
	return it.fields[i-1]
}

// getFieldValue returns $i as a Value, numeric-string tagged when its text
// looks numeric so fields that look like numbers compare numerically.
func (it *Interp) getFieldValue(i int) types.Value {
	return types.FromInputString(it.getField(i))
}

// setField assigns $i = v. Setting $0 resplits; setting any other field
// extends the field list with empty strings as needed, updates NF, and
// marks $0 for lazy rebuild.
func (it *Interp) setField(i int, v string) {
	if i == 0 {
		it.setRecord(v)
		return
	}
	if i < 0 {
		it.fatalf("attempt to access field %d", i)
	}
	if i > len(it.fields) {
		grown := make([]string, i)
		copy(grown, it.fields)
		it.fields = grown
	}
	it.fields[i-1] = v
	if i > it.nf {
		it.nf = i
	}
	it.fieldsDirty = true
}

// setNF implements `NF = n`: truncating drops trailing fields, growing
// extends with empty strings; either way $0 is rebuilt from OFS.
func (it *Interp) setNF(n int) {
	if n < 0 {
		n = 0
	}
	if n < len(it.fields) {
		it.fields = it.fields[:n]
	} else if n > len(it.fields) {
		grown := make([]string, n)
		copy(grown, it.fields)
		it.fields = grown
	}
	it.nf = n
	it.rebuildRecord()
}

// setFS updates FS and clears the FPAT/FIELDWIDTHS modes; the three
// splitting modes are mutually exclusive.
func (it *Interp) setFS(fs string) {
	it.fs = fs
	it.fpat = ""
	it.fieldwidths = nil
}

// setFPAT updates FPAT and clears FS-mode/FIELDWIDTHS.
func (it *Interp) setFPAT(pat string) {
	it.fpat = pat
	it.fieldwidths = nil
}

// setFieldWidths parses a FIELDWIDTHS string ("3 5 2 ...") into widths and
// clears FS-mode/FPAT.
func (it *Interp) setFieldWidths(spec string) {
	parts := strings.Fields(spec)
	widths := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			it.fatalf("invalid FIELDWIDTHS value %q", spec)
		}
		widths = append(widths, n)
	}
	it.fieldwidths = widths
	it.fpat = ""
}
