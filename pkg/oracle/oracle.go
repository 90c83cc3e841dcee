// Package oracle is the validity oracle and hypothesis trimmer (spec
// component G): it compiles a propositional assertion's hypotheses and a
// candidate conclusion into one SAT instance over the propositional
// connective database, and answers "is this conclusion a tautological
// consequence of these hypotheses" by UNSAT-checking its negation.
package oracle

import (
	"github.com/fanzheng1729/hana/pkg/propctor"
	"github.com/fanzheng1729/hana/pkg/sat"
	"github.com/fanzheng1729/hana/pkg/store"
	"github.com/fanzheng1729/hana/pkg/token"
)

// HypsCNF is the CNF built from an assertion's (untrimmed) essential
// hypotheses, plus bookkeeping needed to extend it with a conclusion.
type HypsCNF struct {
	CNF      sat.Clauses
	Boundary []int // cnf length immediately after processing hyp i
	NAtom    sat.Atom
}

// BuildHypsCNF assumes true the CNF of every essential hypothesis not
// marked in hypsToTrim (hypsToTrim may be shorter than ass.Hyps or nil,
// treated as all-false beyond its length). Floating hypotheses need no
// clauses: they denote an unconstrained wff.
func BuildHypsCNF(p propctor.Propctors, ass *store.Assertion, hypsToTrim []bool) (HypsCNF, bool) {
	natom := sat.Atom(len(ass.Hyps))
	var cnf sat.Clauses
	boundary := make([]int, len(ass.Hyps))

	for i, h := range ass.Hyps {
		trimmed := i < len(hypsToTrim) && hypsToTrim[i]
		if !h.Float && !trimmed {
			if !p.AddClause(h.RPN, h.AST, ass.Hyps, &cnf, &natom) {
				return HypsCNF{}, false
			}
			cnf.CloseOff(sat.Lit(natom-1, false))
		}
		boundary[i] = len(cnf)
	}
	return HypsCNF{CNF: cnf, Boundary: boundary, NAtom: natom}, true
}

// BuildAssertionCNF extends a hypothesis CNF with concRPN/concAST's
// clauses and asserts the conclusion's atom false, so that the resulting
// instance is satisfiable exactly when the hypotheses do not entail the
// conclusion.
func BuildAssertionCNF(p propctor.Propctors, ass *store.Assertion, concRPN []store.Step, concAST store.AST, hypsToTrim []bool) (sat.Clauses, bool) {
	hc, ok := BuildHypsCNF(p, ass, hypsToTrim)
	if !ok {
		return nil, false
	}
	cnf := hc.CNF
	natom := hc.NAtom
	if !p.AddClause(concRPN, concAST, ass.Hyps, &cnf, &natom) {
		return nil, false
	}
	cnf.CloseOff(sat.Lit(natom-1, true))
	return cnf, true
}

// CheckValid reports whether ass's stated conclusion is a tautological
// consequence of its hypotheses under the propositional connective
// database: true iff negating the conclusion makes the instance UNSAT.
func CheckValid(p propctor.Propctors, ass *store.Assertion) bool {
	cnf, ok := BuildAssertionCNF(p, ass, ass.ExprRPN, ass.ExprAST, nil)
	if !ok {
		return false
	}
	return !cnf.Sat()
}

// CheckAllValid validity-checks every assertion in assertions flagged
// Propositional, stopping at the first logic error found. primitive
// identifies syntax axioms (conclusion typecode in primitive) to skip.
func CheckAllValid(p propctor.Propctors, assertions []*store.Assertion, primitive map[token.ID]bool) (label string, ok bool) {
	for _, a := range assertions {
		if len(a.Expr) == 0 {
			continue
		}
		if primitive[a.Expr.Typecode()] {
			continue // syntax axiom
		}
		if !a.Type.Has(store.Propositional) {
			continue
		}
		if !CheckValid(p, a) {
			return a.Label, false
		}
	}
	return "", true
}

// TrimHyps greedily tests, from the last essential hypothesis back to
// the first, whether dropping its assumption still leaves the
// assertion's validity intact; any hypothesis whose removal leaves the
// instance UNSAT is marked trimmable. This never revisits a hypothesis
// once found non-trimmable, so the result is a maximal trim under a
// last-to-first elimination order, not necessarily a minimum hypothesis
// set overall.
func TrimHyps(p propctor.Propctors, ass *store.Assertion) ([]bool, bool) {
	trimmed := make([]bool, len(ass.Hyps))
	for i := len(ass.Hyps) - 1; i >= 0; i-- {
		if ass.Hyps[i].Float {
			continue
		}
		trial := append([]bool(nil), trimmed...)
		trial[i] = true
		cnf, ok := BuildAssertionCNF(p, ass, ass.ExprRPN, ass.ExprAST, trial)
		if !ok {
			return nil, false
		}
		if !cnf.Sat() {
			trimmed[i] = true
		}
	}
	return trimmed, true
}
