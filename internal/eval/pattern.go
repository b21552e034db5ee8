package eval

import (
	"github.com/kolkov/nawk/internal/ast"
)

// ruleMatches reports whether rule applies to the current record, handling
// plain, expression, regex, and range patterns.
func (it *Interp) ruleMatches(rule *ast.Rule, ruleIdx int) bool {
	if rule.Pattern == nil {
		return true
	}
	if comma, ok := rule.Pattern.(*ast.CommaExpr); ok {
		return it.rangeMatches(ruleIdx, comma)
	}
	return it.patternMatches(rule.Pattern)
}

// patternMatches evaluates a non-range pattern: truthy for expressions,
// regex literals match against $0, everything else falls through to
// ordinary boolean-expression evaluation (Boolean combinations of match
// expressions compose naturally through evalExpr).
func (it *Interp) patternMatches(pat ast.Expr) bool {
	if re, ok := pat.(*ast.RegexLit); ok {
		return it.mustRegex(re.Pattern).MatchString(it.getField(0))
	}
	return it.evalExpr(pat).AsBool()
}

// rangeMatches implements the per-rule range state machine keyed by rule
// index: inactive rules activate (and match) when the start pattern
// matches; active rules always match, and deactivate when the end pattern
// also matches the same record.
func (it *Interp) rangeMatches(ruleIdx int, r *ast.CommaExpr) bool {
	if !it.rangeActive[ruleIdx] {
		if !it.patternMatches(r.Left) {
			return false
		}
		it.rangeActive[ruleIdx] = true
		if it.patternMatches(r.Right) {
			it.rangeActive[ruleIdx] = false
		}
		return true
	}
	if it.patternMatches(r.Right) {
		it.rangeActive[ruleIdx] = false
	}
	return true
}
