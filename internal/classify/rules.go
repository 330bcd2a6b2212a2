package classify

import "strings"

// Family identifies the comment-syntax ruleset an extension is mapped to.
type Family int

const (
	// FamilyNone treats every non-blank line as code. It is the default
	// for extensions absent from the lookup table.
	FamilyNone Family = iota
	// FamilyHash recognizes lines whose trimmed form starts with '#'.
	FamilyHash
	// FamilyCLike recognizes '//' line comments and '/* ... */' block
	// comments without nesting.
	FamilyCLike
	// FamilyPythonTriple layers triple-quoted docstring tracking on top
	// of the hash rule.
	FamilyPythonTriple
)

// String returns a short name for the family, used in debug output.
func (f Family) String() string {
	switch f {
	case FamilyHash:
		return "hash"
	case FamilyCLike:
		return "c-like"
	case FamilyPythonTriple:
		return "python-triple"
	default:
		return "none"
	}
}

// familyByExt maps lowercased extensions (with leading dot) to their rule
// family. The table is data, not logic: adding a language means adding
// entries here.
//
//nolint:gochecknoglobals // Static lookup table
var familyByExt = map[string]Family{
	".java":   FamilyCLike,
	".kt":     FamilyCLike,
	".groovy": FamilyCLike,
	".js":     FamilyCLike,
	".jsx":    FamilyCLike,
	".ts":     FamilyCLike,
	".tsx":    FamilyCLike,
	".css":    FamilyCLike,
	".scss":   FamilyCLike,
	".c":      FamilyCLike,
	".cc":     FamilyCLike,
	".cpp":    FamilyCLike,
	".h":      FamilyCLike,
	".hpp":    FamilyCLike,

	".sh":   FamilyHash,
	".zsh":  FamilyHash,
	".bash": FamilyHash,
	".yaml": FamilyHash,
	".yml":  FamilyHash,
	".toml": FamilyHash,
	".ini":  FamilyHash,
	".cfg":  FamilyHash,

	".py":  FamilyPythonTriple,
	".pyi": FamilyPythonTriple,
}

// FamilyForExt returns the rule family for a file extension.
// Matching is case-insensitive; unknown extensions map to FamilyNone.
func FamilyForExt(ext string) Family {
	if family, ok := familyByExt[strings.ToLower(ext)]; ok {
		return family
	}

	return FamilyNone
}
