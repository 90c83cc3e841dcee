package propctor

import (
	"github.com/fanzheng1729/hana/pkg/store"
	"github.com/fanzheng1729/hana/pkg/token"
)

// CheckDummyVars reports whether def's right-hand side respects the
// dummy-variable rule: every floating variable the RHS mentions that
// is not one of the definition's own constructor's floating hypotheses
// (a "dummy" — introduced by the definition's expansion, invisible on
// its left-hand side) must be of the bound/settable type code setvar.
// setvar == 0 means the database declares no such type code, in which
// case there is nothing to check against and every definition passes.
func CheckDummyVars(def *Definition, setvar token.ID) bool {
	if setvar == 0 {
		return true
	}
	own := make(map[*store.Hypothesis]bool, len(def.Assertion.Hyps))
	for _, h := range def.Assertion.FloatingHyps() {
		own[h] = true
	}
	for _, step := range def.RHS {
		if step.Tag != store.StepHyp {
			continue
		}
		if h := step.Hyp; !own[h] && h.Expr.Typecode() != setvar {
			return false
		}
	}
	return true
}
