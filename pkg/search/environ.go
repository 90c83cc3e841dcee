package search

import (
	"github.com/fanzheng1729/hana/pkg/proof"
	"github.com/fanzheng1729/hana/pkg/store"
	"github.com/fanzheng1729/hana/pkg/synparse"
	"github.com/fanzheng1729/hana/pkg/token"
)

// Heuristic is the set of operations a search context's specialization
// (e.g. the propositional oracle-pruned context, Prop) supplies; Environ
// itself carries the generic, oracle-free defaults.
type Heuristic interface {
	// OnTopic reports whether an assertion should even be considered as
	// a candidate move.
	OnTopic(a *store.Assertion) bool
	// Status reports whether a goal is already known settled, without
	// running the search (e.g. via a validity oracle).
	Status(goal Goal) Goalstatus
	// HypsToTrim reports which of the ambient assertion's essential
	// hypotheses are safe to drop for this goal.
	HypsToTrim(goal Goal) []bool
	// Score heuristically scores an unresolved leaf of the given total
	// weight (ambient hypotheses + goal size + defers).
	Score(weight int) float64
}

// DefaultHeuristic is the Heuristic a plain Environ uses absent a more
// specific one: every assertion is on topic, no goal is known settled in
// advance, nothing is trimmed, and leaves score by inverse weight.
type DefaultHeuristic struct{}

func (DefaultHeuristic) OnTopic(a *store.Assertion) bool    { return a.Number > 0 }
func (DefaultHeuristic) Status(Goal) Goalstatus             { return GoalOpen }
func (DefaultHeuristic) HypsToTrim(Goal) []bool             { return nil }
func (DefaultHeuristic) Score(weight int) float64           { return 1 / float64(weight+1) }

const maxFreeCombos = 64

// Environ is one search context: the assertion being proved in it, the
// database it draws candidate theorems from, and the move-generation
// machinery (term generator, syntactic parser, disjoint-variable set)
// shared by every goal evaluated inside it.
type Environ struct {
	DB          *store.Database
	Assertion   *store.Assertion
	Name        string
	HypsWeight  int
	DV          proof.DVSet
	Gen         *Gen
	Parser      *synparse.Parser
	Staged      bool
	NumberLimit int
	H           Heuristic
	Wff         token.ID // the propositional type code, 0 if the database declares none
}

// NewEnviron builds a context for proving ass within db, whose candidate
// theorems are those numbered below numberLimit (normally ass.Number itself; a
// sub-context introduced by hypothesis trimming is capped the same way
// its parent was).
func NewEnviron(db *store.Database, ass *store.Assertion, numberLimit, maxTerms int, staged bool, h Heuristic) *Environ {
	var weight int
	for _, hyp := range ass.EssentialHyps() {
		weight += len(hyp.Expr)
	}
	wff, _ := db.Pool.Lookup("wff")
	return &Environ{
		DB:          db,
		Assertion:   ass,
		Name:        ass.Label,
		HypsWeight:  weight,
		DV:          proof.NewDVSet(ass.DV),
		Gen:         NewGen(db, ass.Hyps, maxTerms),
		Parser:      synparse.NewParser(db),
		Staged:      staged,
		NumberLimit: numberLimit,
		H:           h,
		Wff:         wff,
	}
}

// weight is the total cost of a leaf goal inside this context: the
// ambient hypotheses plus the goal's own size plus accumulated defers.
func (e *Environ) weight(goal Goal, nDefer int) int {
	return e.HypsWeight + len(goal.RPN) + nDefer
}

func (e *Environ) score(goal Goal, nDefer int) float64 {
	return e.H.Score(e.weight(goal, nDefer))
}

// OurMoves enumerates candidate theorem applications against goal, at
// the given staged-generation stage: stage 0 emits only moves requiring
// no free-variable synthesis, stage s > 0 additionally synthesizes free
// variables up to size s.
func (e *Environ) OurMoves(goal Goal, stage int) []Move {
	var moves []Move
	for _, t := range e.DB.Assertions {
		if t.Number >= e.NumberLimit {
			break
		}
		if t.Type.Has(store.NoUse) || !e.H.OnTopic(t) {
			continue
		}
		if len(t.ExprRPN) == 0 {
			continue
		}
		if m, ok := e.tryTheorem(t, goal, stage); ok {
			moves = append(moves, m)
			if m.closes() {
				return []Move{m}
			}
		}
	}
	return moves
}

// tryTheorem attempts to apply t to close (or partly close) goal: unify
// its conclusion, resolve any floating variable unbound by that against
// the ambient essential hypotheses, and — only at stage > 0 — synthesize
// terms for whatever remains unbound. It then validates disjoint
// variables and interns a subgoal per unresolved essential hypothesis.
func (e *Environ) tryTheorem(t *store.Assertion, goal Goal, stage int) (Move, bool) {
	sub := make(proof.Substitution)
	if !unify(t, goal.RPN, goal.AST, sub) {
		return Move{}, false
	}

	unbound := unboundFloats(t, sub)
	if len(unbound) > 0 {
		unbound = e.resolveAgainstHyps(t, unbound, sub)
	}
	if len(unbound) > 0 {
		if stage == 0 {
			return Move{}, false
		}
		return e.resolveByGeneration(t, goal, unbound, sub, stage)
	}
	return e.finishMove(t, goal, sub)
}

// unboundFloats returns t's floating-hypothesis variables not yet bound
// by a conclusion match.
func unboundFloats(t *store.Assertion, sub proof.Substitution) []*store.Hypothesis {
	var out []*store.Hypothesis
	for _, h := range t.FloatingHyps() {
		if _, ok := sub[h.Var]; !ok {
			out = append(out, h)
		}
	}
	return out
}

// resolveAgainstHyps tries to pin down each still-unbound variable by
// matching one of t's essential hypotheses mentioning it against one of
// the ambient assertion's own essential hypotheses (hypothesis-oriented
// moves): this is how a minor-premise variable with no trace in the
// conclusion, like ax-mp's antecedent, gets bound in practice.
func (e *Environ) resolveAgainstHyps(t *store.Assertion, unbound []*store.Hypothesis, sub proof.Substitution) []*store.Hypothesis {
	for _, h := range t.EssentialHyps() {
		if allBound(h, sub) {
			continue
		}
		for _, cand := range e.Assertion.EssentialHyps() {
			if matchHyp(h, cand.RPN, cand.AST, sub) {
				break
			}
		}
	}
	return unboundFloats(t, sub)
}

func allBound(h *store.Hypothesis, sub proof.Substitution) bool {
	for _, v := range proof.VarsOf(h.Expr) {
		if _, ok := sub[v]; !ok {
			return false
		}
	}
	return true
}

// resolveByGeneration synthesizes candidate terms for every variable
// resolveAgainstHyps could not pin down, up to the staged size limit,
// and returns the first combination that survives disjoint-variable and
// goal validation (deterministic: variables and their candidates are
// walked in a fixed order, so re-running with the same stage reproduces
// the same move).
func (e *Environ) resolveByGeneration(t *store.Assertion, goal Goal, unbound []*store.Hypothesis, sub proof.Substitution, stage int) (Move, bool) {
	if len(unbound) > 2 {
		return Move{}, false // bound combinatorics; documented limitation
	}
	combos := e.assignFree(unbound, 0, stage, nil)
	for _, full := range combos {
		trial := make(proof.Substitution, len(sub))
		for k, v := range sub {
			trial[k] = v
		}
		for k, v := range full {
			trial[k] = v
		}
		if m, ok := e.finishMove(t, goal, trial); ok {
			return m, true
		}
	}
	return Move{}, false
}

func (e *Environ) assignFree(unbound []*store.Hypothesis, idx, stage int, acc proof.Substitution) []proof.Substitution {
	if idx == len(unbound) {
		out := make(proof.Substitution, len(acc))
		for k, v := range acc {
			out[k] = v
		}
		return []proof.Substitution{out}
	}
	h := unbound[idx]
	var out []proof.Substitution
	for _, term := range e.Gen.UpTo(h.Expr.Typecode(), stage) {
		expr := exprAt(term.RPN, term.AST, len(term.RPN)-1)
		next := make(proof.Substitution, len(acc)+1)
		for k, v := range acc {
			next[k] = v
		}
		next[h.Var] = expr
		out = append(out, e.assignFree(unbound, idx+1, stage, next)...)
		if len(out) >= maxFreeCombos {
			break
		}
	}
	return out
}

// finishMove validates sub's disjoint-variable requirements and builds
// the move's subgoal list: every essential hypothesis of t not already
// proved (by literal match against one of the ambient assertion's own
// hypotheses) becomes a fresh, oracle-checked subgoal.
func (e *Environ) finishMove(t *store.Assertion, goal Goal, sub proof.Substitution) (Move, bool) {
	if !checkDV(t, sub, e.DV) {
		return Move{}, false
	}

	var subGoals []Goal
	for _, h := range t.EssentialHyps() {
		expr := proof.Apply(h.Expr, sub)
		if matchesAmbientHyp(e.Assertion, expr) {
			continue
		}
		rpn, ast, ok := e.parseHypBody(expr)
		if !ok {
			return Move{}, false
		}
		g := Goal{RPN: rpn, AST: ast, Typecode: expr.Typecode()}
		if e.H.Status(g) == GoalFalse {
			return Move{}, false
		}
		subGoals = append(subGoals, g)
	}
	return Move{Type: MoveThm, Thm: t, Sub: sub, SubGoals: subGoals}, true
}

// parseHypBody recovers the well-formedness parse of expr's body — the
// part after its leading judgement symbol — against the database's wff
// type code, the same convention ingest uses for ExprRPN/ExprAST:
// a subgoal's own leading symbol is never itself a syntax type code, so
// the generic whole-expression parse would never match it.
func (e *Environ) parseHypBody(expr token.Expression) ([]store.Step, store.AST, bool) {
	if len(expr) == 0 {
		return nil, nil, false
	}
	body := []token.Symbol(expr[1:])
	for _, m := range e.Parser.ParseAt(e.Wff, body, 0) {
		if m.End == len(body) {
			return m.RPN, m.AST, true
		}
	}
	return nil, nil, false
}

func matchesAmbientHyp(ass *store.Assertion, expr token.Expression) bool {
	for _, h := range ass.EssentialHyps() {
		if h.Expr.Equal(expr) {
			return true
		}
	}
	return false
}
