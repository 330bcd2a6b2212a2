package classify

import (
	"bufio"
	"errors"
	"io"
	"strings"
)

// LineCounts holds line classification totals for one file or an
// aggregate of files. Total always equals Blank + Comment + Code after
// a scan.
type LineCounts struct {
	// Total is the number of lines seen.
	Total int64 `json:"total"`
	// Blank is the number of whitespace-only lines.
	Blank int64 `json:"blank"`
	// Comment is the number of comment lines.
	Comment int64 `json:"comment"`
	// Code is the number of code lines.
	Code int64 `json:"code"`
}

// Add merges another set of counts into the receiver. The merge is
// associative and commutative, so per-file results can be folded into
// aggregates in any order.
func (c *LineCounts) Add(other LineCounts) {
	c.Total += other.Total
	c.Blank += other.Blank
	c.Comment += other.Comment
	c.Code += other.Code
}

const (
	tripleSingle = "'''"
	tripleDouble = `"""`

	lineCommentToken = "//"
	blockOpenToken   = "/*"
	blockCloseToken  = "*/"
)

// scanState carries comment-block state across lines within one file.
// A fresh value is created per Classify call and never shared between
// files, so concurrent scans are safe by construction.
type scanState struct {
	insideBlock  bool
	insideTriple bool
	tripleDelim  string
}

// Classify consumes the lines of r exactly once, forward-only, and
// partitions each into blank, comment or code under the rule family for
// ext. Blank-ness is checked before any comment-state logic: a blank
// line inside an open block comment or triple-quote span counts as
// blank and leaves the state untouched.
//
// A block comment or triple-quote span still open at EOF is not an
// error; the scan simply stops accumulating comment lines. A read
// failure mid-stream returns the counts collected so far together with
// the error, and callers treat the file as unreadable. Invalid byte
// sequences never fail the scan: lines are classified on the raw bytes.
func Classify(ext string, r io.Reader) (LineCounts, error) {
	var (
		counts LineCounts
		state  scanState
	)

	family := FamilyForExt(ext)
	reader := bufio.NewReader(r)

	for {
		line, err := reader.ReadString('\n')
		if errors.Is(err, io.EOF) && len(line) == 0 {
			break
		}

		if err != nil && !errors.Is(err, io.EOF) {
			return counts, err
		}

		counts.Total++

		line = strings.TrimSuffix(line, "\n")
		line = strings.TrimSuffix(line, "\r")

		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			counts.Blank++
		} else {
			classifyLine(family, trimmed, &state, &counts)
		}

		// EOF with a non-empty line means the last line had no trailing
		// newline; it has been counted, so stop here.
		if errors.Is(err, io.EOF) {
			break
		}
	}

	return counts, nil
}

// classifyLine applies one rule family to a non-blank trimmed line,
// updating the cross-line state and incrementing exactly one counter.
//
//nolint:cyclop // The per-family branches are the whole algorithm
func classifyLine(family Family, trimmed string, state *scanState, counts *LineCounts) {
	switch family {
	case FamilyPythonTriple:
		if state.insideTriple {
			counts.Comment++

			if strings.HasSuffix(trimmed, state.tripleDelim) {
				state.insideTriple = false
				state.tripleDelim = ""
			}

			return
		}

		// Only a delimiter alone on its line opens a span. A line such
		// as `"""one-liner"""` never enters triple handling and falls
		// through to the hash rule, counting as code.
		if trimmed == tripleSingle || trimmed == tripleDouble {
			state.insideTriple = true
			state.tripleDelim = trimmed
			counts.Comment++

			return
		}

		fallthrough
	case FamilyHash:
		if strings.HasPrefix(trimmed, "#") {
			counts.Comment++
		} else {
			counts.Code++
		}
	case FamilyCLike:
		switch {
		case state.insideBlock:
			counts.Comment++

			// No nesting: the first close token ends the block.
			if strings.Contains(trimmed, blockCloseToken) {
				state.insideBlock = false
			}
		case strings.HasPrefix(trimmed, lineCommentToken):
			counts.Comment++
		case strings.HasPrefix(trimmed, blockOpenToken):
			counts.Comment++

			if !strings.Contains(trimmed, blockCloseToken) {
				state.insideBlock = true
			}
		default:
			counts.Code++
		}
	default:
		counts.Code++
	}
}
