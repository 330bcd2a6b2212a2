package projmetrics

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/charlievieth/fastwalk"

	"github.com/robfiero/project-codemetrics/internal/classify"
)

// DefaultProgressInterval is the default interval for progress updates.
const DefaultProgressInterval = 500 * time.Millisecond

// DefaultExcludeDirs contains directory names skipped unless
// Options.NoDefaultExcludes is set.
//
//nolint:gochecknoglobals // Config constant
var DefaultExcludeDirs = map[string]struct{}{
	".git": {}, ".hg": {}, ".svn": {},
	"node_modules": {},
	"target":       {}, "build": {}, "dist": {}, "out": {},
	".idea": {}, ".vscode": {},
	".venv": {}, "venv": {}, "__pycache__": {},
	".pytest_cache": {}, ".mypy_cache": {},
	".gradle": {}, ".mvn": {},
	"coverage": {}, ".coverage": {},
}

// logger provides conditional debug output.
type logger struct {
	enabled bool
}

// printf prints debug output if logging is enabled.
func (l logger) printf(format string, args ...any) {
	if l.enabled {
		//nolint:forbidigo // Debug output to console
		fmt.Printf(format, args...)
	}
}

// shouldExcludeByPattern checks if path matches any exclusion regex.
func shouldExcludeByPattern(path string, patterns []*regexp.Regexp) *regexp.Regexp {
	if len(patterns) == 0 {
		return nil
	}

	fPath := filepath.ToSlash(path)

	for _, re := range patterns {
		if re.MatchString(fPath) {
			return re
		}
	}

	return nil
}

// ExtKey returns the aggregation key for a path: the lowercased
// extension, or NoExtKey when the file has none.
func ExtKey(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" {
		return NoExtKey
	}

	return ext
}

// startProgressReporter invokes hook(files, bytes) on each tick until ctx is done.
//
//nolint:varnamelen // c is idiomatic for collector
func startProgressReporter(ctx context.Context, c *collector, hook func(int64, int64), interval time.Duration) {
	if hook == nil {
		return
	}

	if interval <= 0 {
		interval = DefaultProgressInterval
	}

	ticker := time.NewTicker(interval)

	go func() {
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				hook(c.snapshot())
			case <-ctx.Done():
				return
			}
		}
	}()
}

// classifyFile sniffs and classifies a single file. It reports ok=false
// when the file is binary or unreadable; the caller then counts it as
// unreadable without aborting the scan.
func classifyFile(path, ext string) (classify.LineCounts, bool) {
	if !classify.IsTextFile(path) {
		return classify.LineCounts{}, false
	}

	file, err := os.Open(path)
	if err != nil {
		return classify.LineCounts{}, false
	}
	defer file.Close() //nolint:errcheck // Read-only handle

	counts, err := classify.Classify(ext, file)
	if err != nil {
		return classify.LineCounts{}, false
	}

	return counts, true
}

// Run performs directory analysis and returns aggregated statistics.
// It walks the tree at opt.Root, filters entries by the hidden-name
// policy, the exclusion sets and opt.Excludes, classifies the lines of
// every accepted text file, and folds the results into grand and
// per-extension totals.
//
// Every per-file failure degrades to "this file contributes nothing":
// binary and unreadable files stay in the file/byte totals, stat
// failures are skipped entirely, and the scan always runs to
// completion. The only fatal errors are an invalid root and a bad
// exclusion pattern.
//
// The walk can be cancelled via ctx. Progress updates are sent to
// progressHook if provided.
//
//nolint:gocognit,funlen,gocyclo,cyclop // Walk callback covers the whole filter policy
func Run(ctx context.Context, opt Options, progressHook func(int64, int64)) (*Stats, error) {
	log := logger{enabled: opt.Debug}

	if opt.Root == "" {
		opt.Root = "."
	}

	if opt.Profile == "" {
		opt.Profile = ProfileAll
	}

	opt.Root = filepath.Clean(opt.Root)

	root, err := filepath.Abs(opt.Root)
	if err != nil {
		return nil, fmt.Errorf("resolving absolute path: %w", err)
	}

	// validate path exists and is accessible
	if statInfo, err := os.Stat(root); err != nil {
		return nil, fmt.Errorf("accessing path %q: %w", opt.Root, err)
	} else if !statInfo.IsDir() {
		return nil, fmt.Errorf("path %q is not a directory", opt.Root)
	}

	if opt.TopN < 0 {
		opt.TopN = 0
	}

	excludeRegexes := make([]*regexp.Regexp, 0, len(opt.Excludes))

	for _, p := range opt.Excludes {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("compiling exclusion pattern %q: %w", p, err)
		}

		excludeRegexes = append(excludeRegexes, re)
	}

	excludeDirs := make(map[string]struct{}, len(opt.ExcludeDirs))
	for _, name := range opt.ExcludeDirs {
		excludeDirs[name] = struct{}{}
	}

	selfFiles := make(map[string]struct{}, len(opt.SelfExclude))

	for _, p := range opt.SelfExclude {
		abs, absErr := filepath.Abs(p)
		if absErr != nil {
			abs = p
		}

		selfFiles[abs] = struct{}{}
	}

	profileExts := ProfileExts(opt.Profile)
	restrictToProfile := opt.OnlyProfileExts && len(profileExts) > 0

	collector := newCollector(opt.TopN, opt.TestRatio)

	// Create child context to ensure progress reporter cleanup
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	startProgressReporter(ctx, collector, progressHook, opt.ProgressInterval)

	log.printf("[debug]: root: %s\n", root)
	log.printf("[debug]: profile: %s\n", opt.Profile)

	for _, re := range excludeRegexes {
		log.printf("[debug]: exclude regex: %s\n", re.String())
	}

	start := time.Now()

	conf := &fastwalk.Config{
		Follow: false, // Don't follow symlinks
	}

	// Walk directory with fastwalk (parallel traversal)
	//nolint:varnamelen // d is standard for DirEntry
	walkErr := fastwalk.Walk(conf, root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			log.printf("[debug]: error accessing path %s: %v\n", path, err)
			collector.addSkip()

			return nil // Soft skip, scan continues
		}

		// Check cancellation periodically
		select {
		case <-ctx.Done():
			return context.Canceled
		default:
		}

		name := d.Name()
		hidden := strings.HasPrefix(name, ".") && path != root

		if d.IsDir() {
			if hidden && !opt.IncludeHidden {
				log.printf("[debug]: skipping hidden directory: %s\n", path)

				return filepath.SkipDir
			}

			if _, ok := excludeDirs[name]; ok {
				log.printf("[debug]: excluding directory: %s\n", path)

				return filepath.SkipDir
			}

			if !opt.NoDefaultExcludes {
				if _, ok := DefaultExcludeDirs[name]; ok {
					log.printf("[debug]: excluding directory (default set): %s\n", path)

					return filepath.SkipDir
				}
			}

			if matched := shouldExcludeByPattern(path, excludeRegexes); matched != nil {
				log.printf("[debug]: excluding directory: %s (regex: %s)\n", path, matched.String())

				return filepath.SkipDir
			}

			return nil
		}

		if hidden && !opt.IncludeHidden {
			return nil
		}

		if !d.Type().IsRegular() {
			return nil
		}

		if matched := shouldExcludeByPattern(path, excludeRegexes); matched != nil {
			log.printf("[debug]: excluding file: %s (regex: %s)\n", path, matched.String())

			return nil
		}

		if abs, absErr := filepath.Abs(path); absErr == nil {
			if _, ok := selfFiles[abs]; ok {
				log.printf("[debug]: excluding tool file: %s\n", path)
				collector.addSelfExcluded()

				return nil
			}
		}

		fileInfo, err := d.Info()
		if err != nil {
			log.printf("[debug]: stat failed for %s: %v\n", path, err)
			collector.addSkip()

			return nil //nolint:nilerr // Intentionally skip errors during walk
		}

		size := fileInfo.Size()
		if size < opt.MinSize {
			return nil
		}

		ext := ExtKey(path)
		if restrictToProfile {
			if _, ok := profileExts[ext]; !ok {
				return nil
			}
		}

		counts, ok := classifyFile(path, ext)
		if !ok {
			log.printf("[debug]: binary/unreadable: %s\n", path)
			collector.addUnreadable(ext, size)

			return nil
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			rel = path
		}

		isTest := opt.TestRatio && IsTestFile(rel, opt.Profile)
		collector.addFile(rel, ext, size, counts, isTest)

		return nil
	})
	if walkErr != nil {
		return nil, walkErr
	}

	stats := collector.finalize()

	stats.Root = root
	stats.Profile = opt.Profile
	stats.Elapsed = time.Since(start)

	return stats, nil
}
