package classify

import (
	"bytes"
	"errors"
	"io"
	"os"
)

// SniffSize is the number of leading bytes inspected by IsTextFile.
const SniffSize = 8192

// IsTextFile reports whether the file at path looks like readable text.
//
// It reads at most SniffSize leading bytes and treats any NUL byte as a
// binary marker. I/O failures count as binary so that a single bad file
// never aborts a scan. The verdict is a heuristic and deliberately
// trades false negatives (text files with embedded NULs) for
// simplicity; it depends only on the byte prefix, so repeated sniffs of
// the same file agree.
func IsTextFile(path string) bool {
	file, err := os.Open(path)
	if err != nil {
		return false
	}
	defer file.Close() //nolint:errcheck // Read-only handle

	prefix := make([]byte, SniffSize)

	read, err := io.ReadFull(file, prefix)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return false
	}

	return bytes.IndexByte(prefix[:read], 0x00) < 0
}
