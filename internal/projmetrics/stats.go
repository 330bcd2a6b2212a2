package projmetrics

import (
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/robfiero/project-codemetrics/internal/classify"
)

// NoExtKey is the aggregation key used for files without an extension.
const NoExtKey = "(no_ext)"

// ExtStat represents statistics for a file extension.
type ExtStat struct {
	// Files is the number of files with this extension.
	Files int64 `json:"files"`
	// Bytes is the cumulative size in bytes.
	Bytes int64 `json:"bytes"`
	// Lines holds the aggregated line classification counts.
	Lines classify.LineCounts `json:"lines"`
	// Countable is false when every file with this extension was
	// binary or unreadable, leaving Lines empty of information.
	Countable bool `json:"countable"`
}

// FileStat represents a single file path with its size and line total.
type FileStat struct {
	// Path is the file path, slash-separated and relative to the root.
	Path string `json:"path"`
	// Bytes is the size in bytes.
	Bytes int64 `json:"bytes"`
	// Lines is the total line count.
	Lines int64 `json:"lines"`
}

// TestTotals splits classified files into test and non-test buckets.
type TestTotals struct {
	// TestFiles is the number of files matching the test heuristics.
	TestFiles int64 `json:"test_files"`
	// NonTestFiles is the number of remaining classified files.
	NonTestFiles int64 `json:"non_test_files"`
	// TestLines aggregates line counts over test files.
	TestLines classify.LineCounts `json:"test_lines"`
	// NonTestLines aggregates line counts over non-test files.
	NonTestLines classify.LineCounts `json:"non_test_lines"`
}

// Stats holds aggregate statistics for a scan.
type Stats struct {
	// Root is the resolved scan root.
	Root string `json:"root"`
	// Profile is the active extension profile name.
	Profile string `json:"profile"`
	// FileCount is the total number of files counted.
	FileCount int64 `json:"file_count"`
	// TotalBytes is the cumulative size of all counted files.
	TotalBytes int64 `json:"total_bytes"`
	// Lines holds the grand line classification totals.
	Lines classify.LineCounts `json:"lines"`
	// ExtStats maps extension keys to their statistics.
	ExtStats map[string]ExtStat `json:"ext_stats"`
	// Largest contains the N biggest files by size.
	Largest []FileStat `json:"largest"`
	// Longest contains the N biggest files by total lines.
	Longest []FileStat `json:"longest"`
	// Unreadable is the number of files excluded from line counts
	// because they were binary or failed to read.
	Unreadable int64 `json:"unreadable"`
	// Skipped is the number of files dropped because stat failed.
	Skipped int64 `json:"skipped"`
	// SelfExcluded is the number of tool files excluded from the scan.
	SelfExcluded int64 `json:"self_excluded"`
	// TestRatio holds the test/non-test split, when requested.
	TestRatio *TestTotals `json:"test_ratio,omitempty"`
	// TopN is the number of top results tracked.
	TopN int `json:"top_n"`
	// Elapsed is the total time taken for the scan.
	Elapsed time.Duration `json:"elapsed"`
}

// Options configures a scan and CLI behavior.
type Options struct {
	// Root is the directory to analyze.
	Root string
	// Profile is the extension profile (java, python, js or all).
	Profile string
	// IncludeHidden includes dot-prefixed files and directories.
	IncludeHidden bool
	// NoDefaultExcludes disables the built-in directory exclusion set.
	NoDefaultExcludes bool
	// ExcludeDirs contains extra directory names to skip.
	ExcludeDirs []string
	// Excludes contains regex patterns to exclude.
	Excludes []string
	// OnlyProfileExts restricts counting to the profile's extensions.
	OnlyProfileExts bool
	// TestRatio enables the test/non-test split.
	TestRatio bool
	// MinSize is the minimum file size in bytes.
	MinSize int64
	// TopN is the number of top results to track.
	TopN int
	// SelfExclude contains absolute paths of the tool's own files,
	// excluded from the scan so the tool never counts itself.
	SelfExclude []string
	// ProgressInterval controls progress callback cadence.
	ProgressInterval time.Duration
	// Debug indicates whether debug output is enabled.
	Debug bool
	// Output represents output format (table or json).
	Output string
}

// collector aggregates statistics from concurrent fastwalk callbacks
// using a mutex. Merging LineCounts is associative and commutative, so
// the final aggregate does not depend on callback scheduling.
type collector struct {
	mu           sync.Mutex // Protect concurrent access
	topN         int
	testRatio    bool
	extStats     map[string]ExtStat
	files        []FileStat
	lines        classify.LineCounts
	testTotals   TestTotals
	fileCount    int64
	totalBytes   int64
	unreadable   int64
	skipped      int64
	selfExcluded int64
}

// newCollector creates a collector with the requested configuration.
func newCollector(topN int, testRatio bool) *collector {
	return &collector{
		topN:      topN,
		testRatio: testRatio,
		extStats:  make(map[string]ExtStat),
		files:     make([]FileStat, 0),
	}
}

// addSkip records a file dropped because stat failed.
func (c *collector) addSkip() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.skipped++
}

// addSelfExcluded records a tool file excluded from the scan.
func (c *collector) addSelfExcluded() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selfExcluded++
}

// addUnreadable records a binary or unreadable file. It still
// contributes to file and byte totals, but never to line counts.
func (c *collector) addUnreadable(ext string, size int64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.fileCount++
	c.totalBytes += size
	c.unreadable++

	stat := c.extStats[ext]
	stat.Files++
	stat.Bytes += size
	c.extStats[ext] = stat
}

// addFile records a classified file. This operation is protected by a
// mutex since fastwalk calls the callback from multiple goroutines
// concurrently.
func (c *collector) addFile(path, ext string, size int64, counts classify.LineCounts, isTest bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.fileCount++
	c.totalBytes += size
	c.lines.Add(counts)

	stat := c.extStats[ext]
	stat.Files++
	stat.Bytes += size
	stat.Lines.Add(counts)
	stat.Countable = true
	c.extStats[ext] = stat

	// Collect all candidates; sorted and trimmed in finalize.
	c.files = append(c.files, FileStat{Path: path, Bytes: size, Lines: counts.Total})

	if c.testRatio {
		if isTest {
			c.testTotals.TestFiles++
			c.testTotals.TestLines.Add(counts)
		} else {
			c.testTotals.NonTestFiles++
			c.testTotals.NonTestLines.Add(counts)
		}
	}
}

// snapshot returns the current file and byte counters for progress
// reporting.
func (c *collector) snapshot() (files, bytes int64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.fileCount, c.totalBytes
}

// finalize produces the final Stats from the collected data. It sorts
// the candidate files by size and by line count, trims both lists to
// the top N, and converts paths to slash format for cross-platform
// consistency. Ties are broken by path so the result is deterministic
// regardless of walk scheduling.
func (c *collector) finalize() *Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	largest := make([]FileStat, len(c.files))
	copy(largest, c.files)
	sort.Slice(largest, func(i, j int) bool {
		if largest[i].Bytes != largest[j].Bytes {
			return largest[i].Bytes > largest[j].Bytes
		}

		return largest[i].Path < largest[j].Path
	})

	longest := make([]FileStat, len(c.files))
	copy(longest, c.files)
	sort.Slice(longest, func(i, j int) bool {
		if longest[i].Lines != longest[j].Lines {
			return longest[i].Lines > longest[j].Lines
		}

		return longest[i].Path < longest[j].Path
	})

	if len(largest) > c.topN {
		largest = largest[:c.topN]
	}

	if len(longest) > c.topN {
		longest = longest[:c.topN]
	}

	for i := range largest {
		largest[i].Path = cleanDisplayPath(largest[i].Path)
	}

	for i := range longest {
		longest[i].Path = cleanDisplayPath(longest[i].Path)
	}

	stats := &Stats{
		FileCount:    c.fileCount,
		TotalBytes:   c.totalBytes,
		Lines:        c.lines,
		ExtStats:     c.extStats,
		Largest:      largest,
		Longest:      longest,
		Unreadable:   c.unreadable,
		Skipped:      c.skipped,
		SelfExcluded: c.selfExcluded,
		TopN:         c.topN,
	}

	if c.testRatio {
		totals := c.testTotals
		stats.TestRatio = &totals
	}

	return stats
}

// cleanDisplayPath converts a path to slash format and drops a leading
// "./" prefix.
func cleanDisplayPath(path string) string {
	return strings.TrimPrefix(filepath.ToSlash(path), "./")
}
