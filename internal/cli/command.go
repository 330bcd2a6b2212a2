// Package cli provides the projmetrics command-line interface.
package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/robfiero/project-codemetrics/internal/projmetrics"
)

// Execute assembles the root command and runs it. version is injected
// by package main.
func Execute(version string) error {
	return newRootCmd(version).Execute()
}

// selfExcludePaths resolves the running binary's path so the tool never
// counts itself when scanning its own directory.
func selfExcludePaths() []string {
	exe, err := os.Executable()
	if err != nil {
		return nil
	}

	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}

	abs, err := filepath.Abs(exe)
	if err != nil {
		return nil
	}

	return []string{abs}
}

// newRootCmd builds the root command with all flags registered.
//
//nolint:funlen // Flag registration is linear boilerplate
func newRootCmd(version string) *cobra.Command {
	var (
		options    projmetrics.Options
		minSizeStr string

		profileJava   bool
		profilePython bool
		profileJS     bool
		profileAll    bool
	)

	allowedOutputs := []string{"table", "json"}

	rootCmd := &cobra.Command{
		Use:   "projmetrics [flags] [root]",
		Short: "Project metrics: files, bytes, LOC with basic comment heuristics",
		Long: heredoc.Doc(`
			projmetrics scans a directory tree and reports aggregate size, line and
			comment statistics by file extension, along with the largest and longest
			files and an optional test/non-test split.

			Line counts are heuristic: each line is classified as blank, comment or
			code under a small per-extension rule table (hash comments, C-like line
			and block comments, Python triple-quoted docstrings). Binary files are
			detected by a byte-prefix sniff and excluded from line counts while still
			contributing to file and byte totals.

			The --java, --python and --js profiles bias the by-extension ordering
			towards a language's typical extensions; combine with --only-profile-exts
			to restrict counting to those extensions.
		`),
		Args:          cobra.MaximumNArgs(1),
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			switch {
			case profileJava:
				options.Profile = projmetrics.ProfileJava
			case profilePython:
				options.Profile = projmetrics.ProfilePython
			case profileJS:
				options.Profile = projmetrics.ProfileJS
			default:
				// Explicit --all and the absence of a profile flag are
				// the same profile.
				options.Profile = projmetrics.ProfileAll
			}

			if !slices.Contains(allowedOutputs, options.Output) {
				return fmt.Errorf("invalid output format %q: must be one of %v", options.Output, allowedOutputs)
			}

			if len(args) == 1 {
				options.Root = args[0]
			} else {
				options.Root = "."
			}

			// Parse minSize string to bytes
			if minSizeStr != "" {
				size, err := humanize.ParseBytes(minSizeStr)
				if err != nil {
					return fmt.Errorf("invalid min-size: %w", err)
				}

				options.MinSize = int64(size) //nolint:gosec // Size conversion from humanize is safe
			}

			options.SelfExclude = selfExcludePaths()

			return logic(cmd.OutOrStdout(), options)
		},
	}

	flags := rootCmd.Flags()

	flags.BoolVar(&profileJava, "java", false, "Use the Java profile")
	flags.BoolVar(&profilePython, "python", false, "Use the Python profile")
	flags.BoolVar(&profileJS, "js", false, "Use the JS/TS profile")
	flags.BoolVar(&profileAll, "all", false, "Use the all profile (default)")
	flags.BoolVar(&options.IncludeHidden, "include-hidden", false, "Include hidden files and directories")
	flags.BoolVar(&options.NoDefaultExcludes, "no-default-excludes", false,
		"Disable the built-in directory exclusion set (.git, node_modules, ...)")
	flags.StringArrayVar(&options.ExcludeDirs, "exclude-dir", nil, "Extra directory names to exclude (repeatable)")
	flags.StringSliceVarP(&options.Excludes, "exclude", "e", nil, "Regex patterns to exclude")
	flags.IntVarP(&options.TopN, "top", "t", 10, "Number of largest/longest files to display")
	flags.BoolVar(&options.OnlyProfileExts, "only-profile-exts", false, "Count only the active profile's extensions")
	flags.BoolVar(&options.TestRatio, "test-ratio", false, "Report test vs non-test file and line ratios")
	flags.StringVar(&minSizeStr, "min-size", "0B", "Minimum file size (e.g., 1KB)")
	flags.StringVarP(&options.Output, "output", "o", "table", "Output format: json or table")
	flags.BoolVar(&options.Debug, "debug", false, "Enable debug output")

	rootCmd.MarkFlagsMutuallyExclusive("java", "python", "js", "all")

	flags.SortFlags = false

	return rootCmd
}
