package branchstatus

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	// MatchAllPatternConstant selects every branch.
	MatchAllPatternConstant = "*"

	quotedWildcardConstant         = `\*`
	anyCharacterSequenceConstant   = ".*"
	anchoredExpressionTemplate     = "^%s$"
	invalidPatternTemplateConstant = "invalid branch pattern %q: %w"
)

// BranchPattern is a compiled branch glob. Only * is special; it matches any sequence, including "/".
type BranchPattern struct {
	expression *regexp.Regexp
}

// CompileBranchPattern translates a glob into an anchored expression. An empty pattern matches everything.
func CompileBranchPattern(pattern string) (BranchPattern, error) {
	trimmedPattern := strings.TrimSpace(pattern)
	if len(trimmedPattern) == 0 || trimmedPattern == MatchAllPatternConstant {
		return BranchPattern{}, nil
	}

	translatedPattern := strings.ReplaceAll(regexp.QuoteMeta(trimmedPattern), quotedWildcardConstant, anyCharacterSequenceConstant)
	expression, compileError := regexp.Compile(fmt.Sprintf(anchoredExpressionTemplate, translatedPattern))
	if compileError != nil {
		return BranchPattern{}, fmt.Errorf(invalidPatternTemplateConstant, pattern, compileError)
	}
	return BranchPattern{expression: expression}, nil
}

// Matches reports whether branchName satisfies the pattern.
func (pattern BranchPattern) Matches(branchName string) bool {
	if pattern.expression == nil {
		return true
	}
	return pattern.expression.MatchString(branchName)
}

// MatchBranchPattern compiles pattern and tests branchName against it.
func MatchBranchPattern(pattern string, branchName string) bool {
	compiledPattern, compileError := CompileBranchPattern(pattern)
	if compileError != nil {
		return false
	}
	return compiledPattern.Matches(branchName)
}
