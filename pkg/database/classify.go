package database

import (
	"github.com/fanzheng1729/hana/pkg/store"
	"github.com/fanzheng1729/hana/pkg/token"
)

// Classify sets the Trivial and Propositional bits on every assertion.
// NoUse/NoNewProof were already set from discouragement comments while
// statements were read; Duplicate is opt-in (see ClassifyDuplicates) and
// is never set here.
func Classify(db *store.Database) {
	for _, a := range db.Assertions {
		if isTrivial(a) {
			a.Type |= store.Trivial
		}
		if isPropositional(a, db.Primitive) {
			a.Type |= store.Propositional
		}
	}
}

// isTrivial reports whether a's conclusion textually equals one of its
// own hypotheses, per original_source/src/ass.h's istrivial(): a proof
// obligation that any hypothesis already discharges outright.
func isTrivial(a *store.Assertion) bool {
	for _, h := range a.Hyps {
		if h.Expr.Equal(a.Expr) {
			return true
		}
	}
	return false
}

// isPropositional reports whether a is a judgement over a well-formed
// wff body — not itself a grammar rule — eligible for the propositional
// oracle: its body parsed (parseWellFormedness populates ExprRPN) and it
// is not a syntax axiom.
func isPropositional(a *store.Assertion, primitive map[token.ID]bool) bool {
	if a.IsSyntaxAxiom(primitive) {
		return false
	}
	return len(a.ExprRPN) != 0
}
