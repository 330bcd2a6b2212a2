package classify

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// classifyLines joins lines with newlines and runs Classify.
func classifyLines(t *testing.T, ext string, lines ...string) LineCounts {
	t.Helper()

	counts, err := Classify(ext, strings.NewReader(strings.Join(lines, "\n")))
	require.NoError(t, err)

	return counts
}

func TestClassifyCLike(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		lines []string
		want  LineCounts
	}{
		{
			name:  "line comment",
			lines: []string{"// comment"},
			want:  LineCounts{Total: 1, Comment: 1},
		},
		{
			name:  "code",
			lines: []string{"int x = 1;"},
			want:  LineCounts{Total: 1, Code: 1},
		},
		{
			name:  "block spanning lines",
			lines: []string{"/* start", "middle", "end */", "code;"},
			want:  LineCounts{Total: 4, Comment: 3, Code: 1},
		},
		{
			name:  "single line block",
			lines: []string{"/* one line */", "code;"},
			want:  LineCounts{Total: 2, Comment: 1, Code: 1},
		},
		{
			name:  "block open with trailing text still opens",
			lines: []string{"/* open", "still inside"},
			want:  LineCounts{Total: 2, Comment: 2},
		},
		{
			name:  "close token mid line ends block",
			lines: []string{"/*", "done */ trailing ignored", "x++;"},
			want:  LineCounts{Total: 3, Comment: 2, Code: 1},
		},
		{
			name:  "no nesting: first close wins",
			lines: []string{"/* outer /* inner", "end */", "x();"},
			want:  LineCounts{Total: 3, Comment: 2, Code: 1},
		},
		{
			name:  "comment marker inside string still counts as code",
			lines: []string{`s = "no // comment";`},
			want:  LineCounts{Total: 1, Code: 1},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := classifyLines(t, ".java", tt.lines...)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClassifyHash(t *testing.T) {
	t.Parallel()

	got := classifyLines(t, ".sh", "# note", "x = 1", "", "   ")
	assert.Equal(t, LineCounts{Total: 4, Blank: 2, Comment: 1, Code: 1}, got)
}

func TestClassifyPythonTriple(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		lines []string
		want  LineCounts
	}{
		{
			name:  "delimiter only lines open and close",
			lines: []string{"'''", "doc line", "'''", "x = 1"},
			want:  LineCounts{Total: 4, Comment: 3, Code: 1},
		},
		{
			name:  "double quoted delimiter",
			lines: []string{`"""`, "docs", `"""`, "pass"},
			want:  LineCounts{Total: 4, Comment: 3, Code: 1},
		},
		{
			name:  "closing line with trailing delimiter",
			lines: []string{`"""`, "summary", `end of doc."""`, "x = 1"},
			want:  LineCounts{Total: 4, Comment: 3, Code: 1},
		},
		{
			name:  "mismatched delimiter does not close",
			lines: []string{"'''", `"""`, "'''", "x = 1"},
			want:  LineCounts{Total: 4, Comment: 3, Code: 1},
		},
		{
			name:  "hash comment outside span",
			lines: []string{"# header", "x = 1"},
			want:  LineCounts{Total: 2, Comment: 1, Code: 1},
		},
		{
			name:  "hash marker inside span stays comment",
			lines: []string{"'''", "# still doc", "'''"},
			want:  LineCounts{Total: 3, Comment: 3},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := classifyLines(t, ".py", tt.lines...)
			assert.Equal(t, tt.want, got)
		})
	}
}

// A line that both opens and closes on one line, like `"""one-liner"""`,
// is not recognized as a docstring: only a delimiter alone on its line
// opens a span. The line falls through to the hash rule and counts as
// code. This pins the documented behavior down.
func TestClassifyPythonTripleOneLiner(t *testing.T) {
	t.Parallel()

	got := classifyLines(t, ".py", `"""one-liner"""`, "x = 1")
	assert.Equal(t, LineCounts{Total: 2, Code: 2}, got)
}

func TestClassifyBlankInsideSpans(t *testing.T) {
	t.Parallel()

	// Blank lines inside an open block comment stay blank and do not
	// end the block.
	got := classifyLines(t, ".c", "/*", "", "text", "*/")
	assert.Equal(t, LineCounts{Total: 4, Blank: 1, Comment: 3}, got)

	// Same precedence inside a triple-quote span.
	got = classifyLines(t, ".py", "'''", "", "doc", "'''")
	assert.Equal(t, LineCounts{Total: 4, Blank: 1, Comment: 3}, got)
}

func TestClassifyUnknownExtension(t *testing.T) {
	t.Parallel()

	got := classifyLines(t, ".xyz", "# not a comment here", "// neither", "")
	assert.Equal(t, LineCounts{Total: 3, Blank: 1, Code: 2}, got)
}

func TestClassifyOpenStateAtEOF(t *testing.T) {
	t.Parallel()

	// An unterminated block comment is not an error; it just stops
	// accumulating at EOF.
	got := classifyLines(t, ".cpp", "/* never", "closed")
	assert.Equal(t, LineCounts{Total: 2, Comment: 2}, got)

	got = classifyLines(t, ".py", `"""`, "dangling")
	assert.Equal(t, LineCounts{Total: 2, Comment: 2}, got)
}

func TestClassifyStateDoesNotLeakBetweenFiles(t *testing.T) {
	t.Parallel()

	first := classifyLines(t, ".java", "/* open and never close")
	assert.Equal(t, LineCounts{Total: 1, Comment: 1}, first)

	// A fresh call starts with clean state: the next file's code line
	// must not be swallowed by the previous file's open block.
	second := classifyLines(t, ".java", "int y = 2;")
	assert.Equal(t, LineCounts{Total: 1, Code: 1}, second)
}

func TestClassifyCRLFAndMissingTrailingNewline(t *testing.T) {
	t.Parallel()

	counts, err := Classify(".sh", strings.NewReader("# a\r\ncode"))
	require.NoError(t, err)
	assert.Equal(t, LineCounts{Total: 2, Comment: 1, Code: 1}, counts)
}

func TestClassifyEmptyInput(t *testing.T) {
	t.Parallel()

	counts, err := Classify(".go", strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, LineCounts{}, counts)
}

func TestClassifyInvalidUTF8IsNotAnError(t *testing.T) {
	t.Parallel()

	counts, err := Classify(".sh", strings.NewReader("# ok\n\xff\xfe garbage\n"))
	require.NoError(t, err)
	assert.Equal(t, LineCounts{Total: 2, Comment: 1, Code: 1}, counts)
}

// failingReader returns some data, then an error.
type failingReader struct {
	data string
	read bool
}

func (r *failingReader) Read(p []byte) (int, error) {
	if !r.read {
		r.read = true

		return copy(p, r.data), nil
	}

	return 0, errReadBoom
}

var errReadBoom = errors.New("boom")

func TestClassifyReadErrorPropagates(t *testing.T) {
	t.Parallel()

	_, err := Classify(".py", &failingReader{data: "x = 1\n"})
	require.ErrorIs(t, err, errReadBoom)
}

func TestClassifyInvariantHolds(t *testing.T) {
	t.Parallel()

	inputs := [][]string{
		{"/* a", "", "b */", "code;", "// c"},
		{"'''", "", "doc", "'''", "# c", "x"},
		{"# a", "", "b"},
		{"anything", "", "at all"},
	}
	exts := []string{".java", ".py", ".sh", ".xyz"}

	for _, ext := range exts {
		for _, lines := range inputs {
			counts := classifyLines(t, ext, lines...)
			assert.Equal(t, counts.Total, counts.Blank+counts.Comment+counts.Code,
				"invariant violated for %s with %q", ext, lines)
			assert.Equal(t, int64(len(lines)), counts.Total)
		}
	}
}

func TestLineCountsAddMergeProperties(t *testing.T) {
	t.Parallel()

	a := LineCounts{Total: 10, Blank: 2, Comment: 3, Code: 5}
	b := LineCounts{Total: 7, Blank: 1, Comment: 1, Code: 5}
	c := LineCounts{Total: 4, Blank: 4}

	merge := func(x, y LineCounts) LineCounts {
		x.Add(y)

		return x
	}

	// Commutative
	assert.Equal(t, merge(a, b), merge(b, a))

	// Associative
	assert.Equal(t, merge(merge(a, b), c), merge(a, merge(b, c)))

	// Zero value is the identity
	assert.Equal(t, a, merge(a, LineCounts{}))
}
