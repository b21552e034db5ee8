package eval

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// runWithFile runs source with a pre-defined variable f holding path.
func runWithFile(t *testing.T, source, input, path string) string {
	t.Helper()
	out, err := tryAWK(source, input, &Config{
		Variables: map[string]string{"f": path},
	})
	if err != nil {
		t.Fatalf("run error: %v", err)
	}
	return out
}

func TestGetlineFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "in.txt")
	if err := os.WriteFile(path, []byte("l1\nl2\n"), 0644); err != nil {
		t.Fatal(err)
	}

	got := runWithFile(t, `BEGIN { while ((getline line < f) > 0) print line }`, "", path)
	if got != "l1\nl2\n" {
		t.Errorf("got %q, want %q", got, "l1\nl2\n")
	}
}

func TestGetlineVarFromFileLeavesNR(t *testing.T) {
	path := filepath.Join(t.TempDir(), "in.txt")
	if err := os.WriteFile(path, []byte("x\n"), 0644); err != nil {
		t.Fatal(err)
	}

	got := runWithFile(t, `BEGIN { getline line < f; print NR, FNR, line }`, "", path)
	if got != "0 0 x\n" {
		t.Errorf("got %q, want %q", got, "0 0 x\n")
	}
}

func TestGetlineRecordFromFileBumpsNR(t *testing.T) {
	path := filepath.Join(t.TempDir(), "in.txt")
	if err := os.WriteFile(path, []byte("x y\n"), 0644); err != nil {
		t.Fatal(err)
	}

	got := runWithFile(t, `BEGIN { getline < f; print NR, NF, $2 }`, "", path)
	if got != "1 2 y\n" {
		t.Errorf("got %q, want %q", got, "1 2 y\n")
	}
}

func TestGetlineFileEOFReturnsZero(t *testing.T) {
	path := filepath.Join(t.TempDir(), "in.txt")
	if err := os.WriteFile(path, []byte("only\n"), 0644); err != nil {
		t.Fatal(err)
	}

	got := runWithFile(t, `BEGIN { r1 = (getline line < f); r2 = (getline line < f); print r1, r2 }`, "", path)
	if got != "1 0\n" {
		t.Errorf("got %q, want %q", got, "1 0\n")
	}
}

func TestGetlineMissingFileReturnsError(t *testing.T) {
	got := runWithFile(t, `BEGIN { print (getline line < f) }`, "",
		filepath.Join(t.TempDir(), "does-not-exist"))
	if got != "-1\n" {
		t.Errorf("got %q, want %q", got, "-1\n")
	}
}

func TestGetlineCloseRereads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "in.txt")
	if err := os.WriteFile(path, []byte("first\nsecond\n"), 0644); err != nil {
		t.Fatal(err)
	}

	src := `BEGIN {
		getline a < f
		close(f)
		getline b < f
		print a, b
	}`
	got := runWithFile(t, src, "", path)
	if got != "first first\n" {
		t.Errorf("got %q, want %q", got, "first first\n")
	}
}

func TestGetlineFromCommand(t *testing.T) {
	got := runAWK(t, `BEGIN { "echo hi" | getline line; print line }`, "")
	if got != "hi\n" {
		t.Errorf("got %q, want %q", got, "hi\n")
	}
}

func TestPrintRedirectToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")

	src := `BEGIN {
		print "hello" > f
		print "world" >> f
		close(f)
	}`
	runWithFile(t, src, "", path)

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "hello\nworld\n" {
		t.Errorf("file = %q, want %q", string(data), "hello\nworld\n")
	}
}

func TestPrintRedirectTruncatesOnFirstUse(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")
	if err := os.WriteFile(path, []byte("stale content\n"), 0644); err != nil {
		t.Fatal(err)
	}

	runWithFile(t, `BEGIN { print "fresh" > f; close(f) }`, "", path)

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "fresh\n" {
		t.Errorf("file = %q, want %q", string(data), "fresh\n")
	}
}

func TestPrintRedirectStaysOpenAcrossStatements(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")

	// The same > target is truncated once and appended to thereafter.
	src := `{ print $1 > f } END { print "done" > f }`
	out, err := tryAWK(src, "a\nb\n", &Config{Variables: map[string]string{"f": path}})
	if err != nil {
		t.Fatalf("run error: %v", err)
	}
	if out != "" {
		t.Errorf("stdout = %q, want empty", out)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "a\nb\ndone\n" {
		t.Errorf("file = %q, want %q", string(data), "a\nb\ndone\n")
	}
}

func TestPrintfRedirect(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")

	runWithFile(t, `BEGIN { printf "%d-%d", 1, 2 > f; close(f) }`, "", path)

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "1-2" {
		t.Errorf("file = %q, want %q", string(data), "1-2")
	}
}

func TestPrintPipeToCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")

	src := `BEGIN {
		cmd = "cat > " q f q
		print "piped" | cmd
		close(cmd)
	}`
	out, err := tryAWK(src, "", &Config{
		Variables: map[string]string{"f": path, "q": `'`},
	})
	if err != nil {
		t.Fatalf("run error: %v", err)
	}
	if out != "" {
		t.Errorf("stdout = %q, want empty", out)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "piped\n" {
		t.Errorf("file = %q, want %q", string(data), "piped\n")
	}
}

func TestGetlineHonorsRS(t *testing.T) {
	path := filepath.Join(t.TempDir(), "in.txt")
	if err := os.WriteFile(path, []byte("a;b;c"), 0644); err != nil {
		t.Fatal(err)
	}

	src := `BEGIN { RS = ";"; while ((getline line < f) > 0) n++; print n }`
	got := runWithFile(t, src, "", path)
	if got != "3\n" {
		t.Errorf("got %q, want %q", got, "3\n")
	}
}

func TestGetlineResultsAreNumericStrings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "in.txt")
	if err := os.WriteFile(path, []byte("10\n"), 0644); err != nil {
		t.Fatal(err)
	}

	got := runWithFile(t, `BEGIN { getline line < f; print (line < 9) }`, "", path)
	if got != "0\n" {
		t.Errorf("got %q, want %q", got, "0\n")
	}
}

func TestCloseOutputThenReadBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "roundtrip.txt")

	src := `BEGIN {
		print "one" > f
		print "two" > f
		if (close(f) != 0) print "close failed"
		while ((getline line < f) > 0) print "got", line
	}`
	got := runWithFile(t, src, "", path)
	want := "got one\ngot two\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestMainInputRespectsCRLF(t *testing.T) {
	got := runAWK(t, `{ print length($0) }`, "ab\r\ncd\r\n")
	// bufio.ScanLines strips the \r\n terminator.
	want := "2\n2\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestStderrWriter(t *testing.T) {
	var errBuf strings.Builder
	out, err := tryAWK(`BEGIN { print "visible" }`, "", &Config{Stderr: &errBuf})
	if err != nil {
		t.Fatalf("run error: %v", err)
	}
	if out != "visible\n" {
		t.Errorf("stdout = %q, want %q", out, "visible\n")
	}
}
