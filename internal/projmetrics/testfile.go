package projmetrics

import (
	"path"
	"path/filepath"
	"regexp"
	"strings"
)

// Profile names. A profile is a view over a subset of extensions: it
// biases extension ordering in the report and optionally restricts
// counting, but never affects classification rules.
const (
	ProfileJava   = "java"
	ProfilePython = "python"
	ProfileJS     = "js"
	ProfileAll    = "all"
)

// profileExts maps profile names to the extension sets they focus on.
// The "all" profile has no focus set.
//
//nolint:gochecknoglobals // Config constant
var profileExts = map[string]map[string]struct{}{
	ProfileJava: {
		".java": {}, ".kt": {}, ".groovy": {}, ".gradle": {}, ".xml": {},
		".properties": {}, ".yml": {}, ".yaml": {}, ".md": {}, ".txt": {},
	},
	ProfilePython: {
		".py": {}, ".pyi": {}, ".toml": {}, ".ini": {}, ".cfg": {},
		".yml": {}, ".yaml": {}, ".md": {}, ".txt": {},
	},
	ProfileJS: {
		".js": {}, ".jsx": {}, ".ts": {}, ".tsx": {}, ".json": {},
		".css": {}, ".scss": {}, ".html": {}, ".md": {}, ".txt": {},
		".yml": {}, ".yaml": {},
	},
}

// ProfileExts returns the extension set a profile focuses on. Unknown
// profiles and "all" return an empty set.
func ProfileExts(profile string) map[string]struct{} {
	return profileExts[profile]
}

// testDirHints contains path segment names that mark everything below
// them as test code.
//
//nolint:gochecknoglobals // Config constant
var testDirHints = map[string]struct{}{
	"test": {}, "tests": {}, "__tests__": {},
	"spec": {}, "specs": {}, "testing": {},
}

//nolint:gochecknoglobals // Compiled once
var (
	jsTestNameRE   = regexp.MustCompile(`(?i).*(\.test|\.spec)\.(js|jsx|ts|tsx)$`)
	pyTestNameRE   = regexp.MustCompile(`(?i)^(test_.*|.*_test)\.(py|pyi)$`)
	javaTestNameRE = regexp.MustCompile(`(?i).*(Test|Tests|IT|ITCase)\.(java|kt|groovy)$`)
	testPathRE     = regexp.MustCompile(`(?i)(^|/)(src/)?(test|tests)/`)
)

//nolint:gochecknoglobals // Config constant
var (
	jsTestExts   = map[string]struct{}{".js": {}, ".jsx": {}, ".ts": {}, ".tsx": {}}
	pyTestExts   = map[string]struct{}{".py": {}, ".pyi": {}}
	javaTestExts = map[string]struct{}{".java": {}, ".kt": {}, ".groovy": {}}
)

// IsTestFile reports whether rel, a path relative to the scan root,
// looks like a test file under the given profile. It is a pure
// predicate over the path: directory hints apply to every profile,
// name patterns are gated on the matching language profile (or "all").
func IsTestFile(rel, profile string) bool {
	rel = filepath.ToSlash(rel)
	ext := strings.ToLower(path.Ext(rel))
	name := path.Base(rel)

	for _, segment := range strings.Split(rel, "/") {
		if _, ok := testDirHints[strings.ToLower(segment)]; ok {
			return true
		}
	}

	if profile == ProfileJS || profile == ProfileAll {
		if _, ok := jsTestExts[ext]; ok && jsTestNameRE.MatchString(name) {
			return true
		}
	}

	if profile == ProfilePython || profile == ProfileAll {
		if _, ok := pyTestExts[ext]; ok && pyTestNameRE.MatchString(name) {
			return true
		}
	}

	if profile == ProfileJava || profile == ProfileAll {
		if _, ok := javaTestExts[ext]; ok && javaTestNameRE.MatchString(name) {
			return true
		}
	}

	return testPathRE.MatchString(rel)
}
