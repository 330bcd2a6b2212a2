package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"github.com/dustin/go-humanize"

	"github.com/robfiero/project-codemetrics/internal/projmetrics"
)

const (
	// TabSpacing is the number of spaces between tabwriter columns.
	TabSpacing = 2
)

// PrintJSON outputs statistics in JSON format.
func PrintJSON(stats *projmetrics.Stats, writer io.Writer) error {
	data, err := json.MarshalIndent(stats, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding JSON output: %w", err)
	}

	if _, err := fmt.Fprintln(writer, string(data)); err != nil {
		return err
	}

	return nil
}

// pct formats numer as a percentage of denom with one decimal.
func pct(numer, denom int64) string {
	if denom <= 0 {
		return "0.0%"
	}

	return fmt.Sprintf("%.1f%%", float64(numer)*100.0/float64(denom))
}

// sortedExtKeys returns the extension keys ordered for display: by file
// count descending with name as tiebreak, and with the active profile's
// extensions sorted ahead of the rest.
func sortedExtKeys(stats *projmetrics.Stats) []string {
	keys := make([]string, 0, len(stats.ExtStats))
	for ext := range stats.ExtStats {
		keys = append(keys, ext)
	}

	profileSet := projmetrics.ProfileExts(stats.Profile)

	sort.Slice(keys, func(i, j int) bool {
		if len(profileSet) > 0 {
			_, iInProfile := profileSet[keys[i]]
			_, jInProfile := profileSet[keys[j]]

			if iInProfile != jInProfile {
				return iInProfile
			}
		}

		iFiles := stats.ExtStats[keys[i]].Files
		jFiles := stats.ExtStats[keys[j]].Files

		if iFiles != jFiles {
			return iFiles > jFiles
		}

		return keys[i] < keys[j]
	})

	return keys
}

// PrintTable outputs statistics in human-readable table format,
// section by section: summary, line counts, optional test ratio,
// by-extension breakdown and the top largest/longest files.
//
//nolint:funlen // Sequential report sections
func PrintTable(stats *projmetrics.Stats, writer io.Writer) error {
	w := tabwriter.NewWriter(writer, 0, 4, TabSpacing, ' ', 0)

	fmt.Fprintf(w, "\nRoot:\t%s\n", stats.Root)
	fmt.Fprintf(w, "Profile:\t%s\n", stats.Profile)
	fmt.Fprintf(w, "Files counted:\t%d\n", stats.FileCount)
	fmt.Fprintf(w, "Total size:\t%s (%d bytes)\n",
		humanize.IBytes(uint64(stats.TotalBytes)), stats.TotalBytes) //nolint:gosec // Bytes is always positive
	fmt.Fprintf(w, "Binary/unreadable skipped:\t%d\n", stats.Unreadable)

	if stats.Skipped > 0 {
		fmt.Fprintf(w, "Stat failures skipped:\t%d\n", stats.Skipped)
	}

	if stats.SelfExcluded > 0 {
		fmt.Fprintf(w, "Tool files excluded:\t%d\n", stats.SelfExcluded)
	}

	fmt.Fprintln(w, "\nLine counts (heuristic):\t")
	fmt.Fprintf(w, "  Total:\t%d\n", stats.Lines.Total)
	fmt.Fprintf(w, "  Code:\t%d\n", stats.Lines.Code)
	fmt.Fprintf(w, "  Comment:\t%d\n", stats.Lines.Comment)
	fmt.Fprintf(w, "  Blank:\t%d\n", stats.Lines.Blank)

	if ratio := stats.TestRatio; ratio != nil {
		totalFiles := ratio.TestFiles + ratio.NonTestFiles
		totalLines := ratio.TestLines.Total + ratio.NonTestLines.Total
		totalCode := ratio.TestLines.Code + ratio.NonTestLines.Code

		fmt.Fprintln(w, "\nTest ratio (heuristic):\t")
		fmt.Fprintf(w, "  Test files:\t%d (%s)\n", ratio.TestFiles, pct(ratio.TestFiles, totalFiles))
		fmt.Fprintf(w, "  Non-test files:\t%d (%s)\n", ratio.NonTestFiles, pct(ratio.NonTestFiles, totalFiles))
		fmt.Fprintf(w, "  Test LOC:\t%d (%s)\n", ratio.TestLines.Total, pct(ratio.TestLines.Total, totalLines))
		fmt.Fprintf(w, "  Non-test LOC:\t%d (%s)\n", ratio.NonTestLines.Total, pct(ratio.NonTestLines.Total, totalLines))
		fmt.Fprintf(w, "  Test code LOC:\t%d (%s)\n", ratio.TestLines.Code, pct(ratio.TestLines.Code, totalCode))
		fmt.Fprintf(w, "  Non-test code:\t%d (%s)\n", ratio.NonTestLines.Code, pct(ratio.NonTestLines.Code, totalCode))
	}

	fmt.Fprintln(w, "\nBy extension:\t")

	for _, ext := range sortedExtKeys(stats) {
		stat := stats.ExtStats[ext]
		if stat.Countable {
			fmt.Fprintf(w, "  %s\tfiles=%d\tlines=%d\tcode=%d\tcmt=%d\tblank=%d\n",
				ext, stat.Files, stat.Lines.Total, stat.Lines.Code, stat.Lines.Comment, stat.Lines.Blank)
		} else {
			fmt.Fprintf(w, "  %s\tfiles=%d\tlines=(binary/unreadable)\n", ext, stat.Files)
		}
	}

	if stats.TopN > 0 {
		fmt.Fprintf(w, "\nTop %d largest files:\t\n", stats.TopN)

		for _, file := range stats.Largest {
			fmt.Fprintf(w, "  %s\t%s\n",
				humanize.IBytes(uint64(file.Bytes)), file.Path) //nolint:gosec // Bytes is always positive
		}

		fmt.Fprintf(w, "\nTop %d longest files (by total lines):\t\n", stats.TopN)

		for _, file := range stats.Longest {
			fmt.Fprintf(w, "  %d lines\t%s\n", file.Lines, file.Path)
		}
	}

	fmt.Fprintf(w, "\nElapsed:\t%v\n", stats.Elapsed)

	return w.Flush()
}
