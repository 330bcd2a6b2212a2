package classify

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeFile creates a file with the given content under dir.
func writeFile(t *testing.T, dir, name string, content []byte) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, content, 0o644))

	return path
}

func TestIsTextFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	text := writeFile(t, dir, "text.txt", []byte("hello\nworld\n"))
	assert.True(t, IsTextFile(text))

	empty := writeFile(t, dir, "empty.txt", nil)
	assert.True(t, IsTextFile(empty))

	binary := writeFile(t, dir, "binary.dat", []byte{'a', 'b', 0x00, 'c'})
	assert.False(t, IsTextFile(binary))
}

func TestIsTextFileNulBeyondSniffWindow(t *testing.T) {
	t.Parallel()

	// Only the first SniffSize bytes are inspected: a NUL beyond the
	// window does not flip the verdict. This is the documented false
	// negative of the heuristic.
	content := append(bytes.Repeat([]byte{'a'}, SniffSize), 0x00)
	path := writeFile(t, t.TempDir(), "late-nul.txt", content)
	assert.True(t, IsTextFile(path))

	// A NUL just inside the window is caught.
	content = append(bytes.Repeat([]byte{'a'}, SniffSize-1), 0x00)
	path = writeFile(t, t.TempDir(), "edge-nul.dat", content)
	assert.False(t, IsTextFile(path))
}

func TestIsTextFileMissingPath(t *testing.T) {
	t.Parallel()

	// I/O failures fail soft: treated as binary, never an error.
	assert.False(t, IsTextFile(filepath.Join(t.TempDir(), "does-not-exist")))
}

func TestIsTextFileIdempotent(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	text := writeFile(t, dir, "a.txt", []byte("stable"))
	binary := writeFile(t, dir, "b.dat", []byte{0x00})

	for i := 0; i < 3; i++ {
		assert.True(t, IsTextFile(text))
		assert.False(t, IsTextFile(binary))
	}
}
