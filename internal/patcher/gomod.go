package patcher

import (
	"regexp"
	"strings"
)

var emptyReplaceBlock = regexp.MustCompile(`(?m)^replace[ \t]*\([ \t\r\n]*\)[ \t]*\r?(?:\n|$)`)

// ReplaceDirective formats the go.mod line binding importPath to localPath.
func ReplaceDirective(importPath, localPath string) string {
	return "replace " + importPath + " => " + localPath
}

// replaceLine matches a replace directive for exactly importPath, with or
// without a version on the left-hand side, either standalone or as a line
// inside a replace block.
func replaceLine(importPath string) *regexp.Regexp {
	return regexp.MustCompile(`(?m)^[ \t]*(?:replace[ \t]+)?` + regexp.QuoteMeta(importPath) + `(?:[ \t]+v[^\s]+)?[ \t]+=>[^\n]*$`)
}

// HasReplace reports whether goMod already replaces importPath.
func HasReplace(goMod, importPath string) bool {
	return replaceLine(importPath).MatchString(goMod)
}

// AddReplace appends the replace directive for importPath after the existing
// content, separated by one blank line and ending with a newline. An
// existing replace of importPath, whatever its target, leaves goMod
// unchanged.
func AddReplace(goMod, importPath, localPath string) (string, bool) {
	if HasReplace(goMod, importPath) {
		return goMod, false
	}
	directive := ReplaceDirective(importPath, localPath)
	trimmed := strings.TrimRight(goMod, " \t\r\n")
	if trimmed == "" {
		return directive + "\n", true
	}
	return trimmed + "\n\n" + directive + "\n", true
}

// RemoveReplace deletes the replace directive for importPath, leaving
// directives for other paths that merely share a prefix untouched.
func RemoveReplace(goMod, importPath string) (string, bool) {
	goMod, changed := removeLines(goMod, func(s string) [][]int {
		return replaceLine(importPath).FindAllStringIndex(s, -1)
	})
	if !changed {
		return goMod, false
	}
	if loc := emptyReplaceBlock.FindStringIndex(goMod); loc != nil {
		goMod = cut(goMod, loc[0], loc[1])
	}
	return goMod, true
}
