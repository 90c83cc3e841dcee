package search

import (
	"github.com/fanzheng1729/hana/pkg/proof"
	"github.com/fanzheng1729/hana/pkg/store"
	"github.com/fanzheng1729/hana/pkg/token"
)

// exprAt rebuilds the token expression a subtree of an RPN/AST pair
// proves, by the same substitution discipline the verifier applies: a HYP
// step contributes its hypothesis's expression verbatim; a THM step
// substitutes its floating hypotheses' variables with the recursively
// rebuilt expressions of their corresponding AST children and leaves
// everything else untouched.
func exprAt(rpn []store.Step, ast store.AST, root int) token.Expression {
	step := rpn[root]
	switch step.Tag {
	case store.StepHyp:
		return step.Hyp.Expr
	case store.StepThm:
		sub := make(proof.Substitution)
		children := ast[root]
		for i, h := range step.Thm.Hyps {
			if !h.Float || i >= len(children) {
				continue
			}
			sub[h.Var] = exprAt(rpn, ast, children[i])
		}
		return proof.Apply(step.Thm.Expr, sub)
	default:
		return nil
	}
}

// unify finds a substitution making t's conclusion equal the expression
// at (goalRPN, goalAST)'s root, extending sub in place. It fails if the
// goal's root step is not the application of the very same constructor
// assertion at every position t's conclusion requires: since RPN/AST
// already records exactly which assertion built each subterm, matching
// reduces to walking both trees together rather than re-deriving a
// contiguous token span per variable the way a flat pattern matcher
// would have to.
func unify(t *store.Assertion, goalRPN []store.Step, goalAST store.AST, sub proof.Substitution) bool {
	if len(t.ExprRPN) == 0 || len(goalRPN) == 0 {
		return false
	}
	return unifyAt(t.ExprRPN, t.ExprAST, len(t.ExprRPN)-1, goalRPN, goalAST, len(goalRPN)-1, sub)
}

func unifyAt(tRPN []store.Step, tAST store.AST, tRoot int, gRPN []store.Step, gAST store.AST, gRoot int, sub proof.Substitution) bool {
	tStep := tRPN[tRoot]
	switch tStep.Tag {
	case store.StepHyp:
		if !tStep.Hyp.Float {
			return false
		}
		expr := exprAt(gRPN, gAST, gRoot)
		if existing, ok := sub[tStep.Hyp.Var]; ok {
			return existing.Equal(expr)
		}
		sub[tStep.Hyp.Var] = expr
		return true
	case store.StepThm:
		gStep := gRPN[gRoot]
		if gStep.Tag != store.StepThm || gStep.Thm.Label != tStep.Thm.Label {
			return false
		}
		tChildren, gChildren := tAST[tRoot], gAST[gRoot]
		if len(tChildren) != len(gChildren) {
			return false
		}
		for i := range tChildren {
			if !unifyAt(tRPN, tAST, tChildren[i], gRPN, gAST, gChildren[i], sub) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// matchHyp tries to unify essential hypothesis h of t (already partly
// bound by sub) against a single essential hypothesis of the ambient
// environment's assertion, without disturbing sub on failure.
func matchHyp(h *store.Hypothesis, candRPN []store.Step, candAST store.AST, sub proof.Substitution) bool {
	trial := make(proof.Substitution, len(sub))
	for k, v := range sub {
		trial[k] = v
	}
	if !unifyAt(h.RPN, h.AST, len(h.RPN)-1, candRPN, candAST, len(candAST)-1, trial) {
		return false
	}
	for k, v := range trial {
		sub[k] = v
	}
	return true
}

// checkDV reports whether sub respects t's disjoint-variable
// requirements under the ambient disjoint-variable set: for every pair
// (a, b) in t.DV, every variable used in sub[a] must be ambiently
// disjoint from every variable used in sub[b], and a substituted
// variable can never equal itself across the pair (substituting the same
// variable for two notionally-disjoint ones is never valid regardless of
// the ambient set).
func checkDV(t *store.Assertion, sub proof.Substitution, ambient proof.DVSet) bool {
	for _, pair := range t.DV {
		ea, oka := sub[pair.A]
		eb, okb := sub[pair.B]
		if !oka || !okb {
			continue
		}
		for _, x := range proof.VarsOf(ea) {
			for _, y := range proof.VarsOf(eb) {
				if x == y {
					return false
				}
				if !ambient.Contains(x, y) {
					return false
				}
			}
		}
	}
	return true
}
