package patcher

import (
	"regexp"
	"strings"
)

var (
	// The closing paren of a multi-line block sits alone at column zero, so
	// parens inside comments or strings never end the match.
	importBlock  = regexp.MustCompile(`(?ms)^import[ \t]*\([ \t]*(?://[^\n]*)?\r?\n(.*?)^\)`)
	inlineBlock  = regexp.MustCompile(`(?m)^import[ \t]*\(([^)\n]*)\)`)
	singleImport = regexp.MustCompile(`(?m)^import[ \t]+([^(\s][^\n]*?)[ \t]*\r?$`)
	packageLine  = regexp.MustCompile(`(?m)^package[ \t]+\w+[^\n]*(?:\n|$)`)
	emptyBlock   = regexp.MustCompile(`(?m)^import[ \t]*\([ \t\r\n]*\)[ \t]*\r?(?:\n|$)`)
)

// importLine matches a whole line importing path in the plain ("path") or
// blank (_ "path") spelling, inside a block or as its own import statement.
// Aliased imports are not recognized.
func importLine(path string) *regexp.Regexp {
	return regexp.MustCompile(`(?m)^[ \t]*(?:import[ \t]+)?(?:_[ \t]+)?"` + regexp.QuoteMeta(path) + `"[ \t]*(?://[^\n]*)?\r?$`)
}

// HasImport reports whether content imports path.
func HasImport(content, path string) bool {
	return importLine(path).MatchString(content)
}

// AddImport blank-imports path into content. It returns content unchanged
// and false when path is already imported. The import goes into the first
// import block; failing that, a single import statement is widened into a
// block; failing that, a new block is placed after the package clause.
func AddImport(content, path string) (string, bool, error) {
	if HasImport(content, path) {
		return content, false, nil
	}
	spec := `_ "` + path + `"`

	if loc := importBlock.FindStringSubmatchIndex(content); loc != nil {
		at := loc[3]
		return content[:at] + "\t" + spec + "\n" + content[at:], true, nil
	}

	if loc := inlineBlock.FindStringSubmatchIndex(content); loc != nil {
		bodyEnd := loc[3]
		return content[:bodyEnd] + "\n\t" + spec + "\n" + content[bodyEnd:], true, nil
	}

	if loc := singleImport.FindStringSubmatchIndex(content); loc != nil {
		existing := content[loc[2]:loc[3]]
		block := "import (\n\t" + existing + "\n\t" + spec + "\n)"
		return content[:loc[0]] + block + content[loc[1]:], true, nil
	}

	loc := packageLine.FindStringIndex(content)
	if loc == nil {
		return content, false, errNoPackageClause
	}
	head := content[:loc[1]]
	if !strings.HasSuffix(head, "\n") {
		head += "\n"
	}
	return head + "\nimport (\n\t" + spec + "\n)\n" + content[loc[1]:], true, nil
}

// RemoveImport deletes every line importing path in either recognized
// spelling, then removes an import block left empty.
func RemoveImport(content, path string) (string, bool) {
	content, changed := removeLines(content, func(s string) [][]int {
		return importLine(path).FindAllStringIndex(s, -1)
	})
	if !changed {
		return content, false
	}
	for {
		loc := emptyBlock.FindStringIndex(content)
		if loc == nil {
			break
		}
		content = cut(content, loc[0], loc[1])
	}
	return content, true
}
