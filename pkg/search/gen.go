package search

import (
	"github.com/fanzheng1729/hana/pkg/store"
	"github.com/fanzheng1729/hana/pkg/token"
)

// Term is a synthesized well-formed subexpression: an RPN/AST pair built
// from the database's syntax axioms and a fixed leaf alphabet, exactly
// like a parse recovered by synparse except the tree is generated rather
// than matched against source tokens.
type Term struct {
	RPN []store.Step
	AST store.AST
}

type genKey struct {
	Type token.ID
	Size int
}

// Gen synthesizes candidate substitution terms for a free variable, up
// to a given RPN length, memoized by (type code, size) and capped by a
// total resource budget (spec 4.I "Term generation"): once the budget is
// exhausted, further Terms calls return whatever was already cached and
// Exhausted reports true, signalling the caller that enumeration for
// larger sizes may be incomplete.
type Gen struct {
	db        *store.Database
	leaves    map[token.ID][]*store.Hypothesis
	cache     map[genKey][]Term
	maxTerms  int
	produced  int
	exhausted bool
}

// NewGen builds a generator whose leaves are the floating hypotheses
// actually in use by the ambient assertion (inUse), grouped by type code.
func NewGen(db *store.Database, inUse []*store.Hypothesis, maxTerms int) *Gen {
	leaves := make(map[token.ID][]*store.Hypothesis)
	for _, h := range inUse {
		if h.Float {
			leaves[h.Expr.Typecode()] = append(leaves[h.Expr.Typecode()], h)
		}
	}
	return &Gen{db: db, leaves: leaves, cache: make(map[genKey][]Term), maxTerms: maxTerms}
}

func (g *Gen) Exhausted() bool { return g.exhausted }

// Terms returns every RPN/AST of the given type code and length exactly
// size (not "up to size": callers needing all sizes up to n call Terms
// for each size in 1..n and concatenate).
func (g *Gen) Terms(typecode token.ID, size int) []Term {
	if size <= 0 {
		return nil
	}
	key := genKey{typecode, size}
	if t, ok := g.cache[key]; ok {
		return t
	}
	if g.produced >= g.maxTerms {
		g.exhausted = true
		return nil
	}

	var out []Term
	if size == 1 {
		for _, h := range g.leaves[typecode] {
			out = append(out, Term{RPN: []store.Step{store.HypStep(h)}, AST: store.AST{nil}})
		}
	}
	for _, a := range g.db.SyntaxAxioms {
		if a.Expr.Typecode() != typecode {
			continue
		}
		floats := a.FloatingHyps()
		if len(floats) == 0 {
			if size == 1 {
				out = append(out, Term{RPN: []store.Step{store.ThmStep(a)}, AST: store.AST{nil}})
			}
			continue
		}
		out = append(out, g.combine(a, floats, size-1)...)
	}

	g.produced += len(out)
	if g.produced >= g.maxTerms {
		g.exhausted = true
	}
	g.cache[key] = out
	return out
}

// UpTo returns every term of typecode with length in [1, size].
func (g *Gen) UpTo(typecode token.ID, size int) []Term {
	var out []Term
	for n := 1; n <= size; n++ {
		out = append(out, g.Terms(typecode, n)...)
	}
	return out
}

func (g *Gen) combine(a *store.Assertion, floats []*store.Hypothesis, budget int) []Term {
	return g.combineAt(a, floats, 0, budget, nil, nil, nil)
}

func (g *Gen) combineAt(a *store.Assertion, floats []*store.Hypothesis, idx, budget int, rpn []store.Step, ast store.AST, roots []int) []Term {
	if idx == len(floats) {
		if budget != 0 {
			return nil
		}
		finalRPN := append(append([]store.Step(nil), rpn...), store.ThmStep(a))
		finalAST := append(append(store.AST(nil), ast...), append([]int(nil), roots...))
		return []Term{{RPN: finalRPN, AST: finalAST}}
	}
	remaining := len(floats) - idx - 1
	var out []Term
	for childSize := 1; childSize <= budget-remaining; childSize++ {
		for _, child := range g.Terms(floats[idx].Expr.Typecode(), childSize) {
			newRPN, newAST, root := appendTerm(rpn, ast, child)
			out = append(out, g.combineAt(a, floats, idx+1, budget-childSize, newRPN, newAST, append(append([]int(nil), roots...), root))...)
			if g.produced+len(out) >= g.maxTerms {
				return out
			}
		}
	}
	return out
}

// appendTerm concatenates t's RPN/AST onto rpn/ast, shifting t's AST
// child indices by the prior length, and returns the new slices plus the
// index of t's root in the result.
func appendTerm(rpn []store.Step, ast store.AST, t Term) ([]store.Step, store.AST, int) {
	offset := len(rpn)
	newRPN := append(append([]store.Step(nil), rpn...), t.RPN...)
	newAST := append(store.AST(nil), ast...)
	for _, children := range t.AST {
		shifted := make([]int, len(children))
		for j, c := range children {
			shifted[j] = c + offset
		}
		newAST = append(newAST, shifted)
	}
	return newRPN, newAST, len(newRPN) - 1
}
