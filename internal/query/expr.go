package query

import (
	"fmt"
	"slices"
	"strings"

	"github.com/Knetic/govaluate"

	"github.com/five82/claimdeck/internal/claims"
)

// ExprVariables are the names a where expression may reference.
var ExprVariables = []string{"amount", "fee", "total", "status", "holder", "number", "policy", "insured"}

// Expr is a compiled boolean expression over claim fields, for example
// `amount > 1000 && status == 'Approved'`.
type Expr struct {
	source string
	eval   *govaluate.EvaluableExpression
}

// ParseExpr compiles source. Blank input yields a nil Expr and no error.
func ParseExpr(source string) (*Expr, error) {
	trimmed := strings.TrimSpace(source)
	if trimmed == "" {
		return nil, nil
	}
	eval, err := govaluate.NewEvaluableExpression(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse where expression: %w", err)
	}
	for _, name := range eval.Vars() {
		if !slices.Contains(ExprVariables, name) {
			return nil, fmt.Errorf("parse where expression: unknown field %q (have %s)", name, strings.Join(ExprVariables, ", "))
		}
	}
	return &Expr{source: trimmed, eval: eval}, nil
}

// String returns the expression text.
func (e *Expr) String() string {
	if e == nil {
		return ""
	}
	return e.source
}

// Match evaluates the expression against c. Evaluation errors and
// non-boolean results count as no match.
func (e *Expr) Match(c claims.Claim) bool {
	if e == nil {
		return true
	}
	result, err := e.eval.Evaluate(map[string]any{
		"amount":  c.AmountValue(),
		"fee":     c.FeeValue(),
		"total":   c.TotalValue(),
		"status":  c.Status,
		"holder":  c.Holder,
		"number":  c.Number,
		"policy":  c.PolicyNumber,
		"insured": c.InsuredName,
	})
	if err != nil {
		return false
	}
	b, ok := result.(bool)
	return ok && b
}
