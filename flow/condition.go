package flow

import (
	"strconv"
	"strings"
)

// EvalCondition evaluates the tiny expression language used by the
// Conditional and Filter node types. It never returns an error: malformed
// or unresolvable expressions evaluate to false.
//
// Supported forms:
//
//	true / 1                      boolean literals (false / 0 / "" are false)
//	a == b, a != b                string equality after operand resolution
//	a > b, a < b, a >= b, a <= b  numeric comparison; false if either side
//	                              does not parse as a float
//	value.contains("sub")         substring membership
//	anything else non-empty       truthy
//
// Each operand is resolved against the run context: if it matches a
// qualified context key exactly, the stringified value is substituted;
// otherwise it is treated as a literal with surrounding quotes stripped.
// rc may be nil, in which case every operand is a literal.
func EvalCondition(expr string, rc *RunContext) bool {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return false
	}

	if left, sub, ok := splitContains(expr); ok {
		return strings.Contains(resolveOperand(left, rc), sub)
	}

	// Two-character operators first so ">=" is not split at ">".
	for _, op := range []string{"==", "!=", ">=", "<=", ">", "<"} {
		idx := strings.Index(expr, op)
		if idx < 0 {
			continue
		}
		left := resolveOperand(expr[:idx], rc)
		right := resolveOperand(expr[idx+len(op):], rc)
		return compare(left, op, right)
	}

	return truthy(resolveOperand(expr, rc))
}

// EvalCondition evaluates expr against the run-context snapshot taken
// when the config was resolved. Used by executors, which see the
// context only through their Config.
func (c Config) EvalCondition(expr string) bool {
	return EvalCondition(expr, &RunContext{values: c.snapshot})
}

// splitContains recognizes the value.contains("sub") form.
func splitContains(expr string) (left, sub string, ok bool) {
	idx := strings.LastIndex(expr, ".contains(")
	if idx < 0 || !strings.HasSuffix(expr, ")") {
		return "", "", false
	}
	arg := expr[idx+len(".contains(") : len(expr)-1]
	arg = strings.TrimSpace(arg)
	arg = strings.Trim(arg, `"'`)
	return expr[:idx], arg, true
}

func resolveOperand(s string, rc *RunContext) string {
	s = strings.TrimSpace(s)
	if rc != nil {
		if v, ok := rc.Get(s); ok {
			return stringify(v)
		}
	}
	return strings.Trim(s, `"'`)
}

func compare(left, op, right string) bool {
	switch op {
	case "==":
		return left == right
	case "!=":
		return left != right
	}

	// Ordering comparisons require both sides to be numeric; a parse
	// failure makes the whole comparison false rather than an error.
	l, lerr := strconv.ParseFloat(left, 64)
	r, rerr := strconv.ParseFloat(right, 64)
	if lerr != nil || rerr != nil {
		return false
	}
	switch op {
	case ">":
		return l > r
	case "<":
		return l < r
	case ">=":
		return l >= r
	case "<=":
		return l <= r
	}
	return false
}

func truthy(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "false", "0":
		return false
	default:
		return true
	}
}
