package search

import (
	"github.com/fanzheng1729/hana/pkg/oracle"
	"github.com/fanzheng1729/hana/pkg/propctor"
	"github.com/fanzheng1729/hana/pkg/store"
)

// PropHeuristic is the propositional-fragment Heuristic: it restricts
// candidate theorems to propositional ones and answers goal status and
// hypothesis trimming with the SAT-based validity oracle (spec 4.G)
// instead of deferring them to search.
type PropHeuristic struct {
	Propctors propctor.Propctors
	Hyps      []*store.Hypothesis
	DV        []store.DVPair
}

func (p PropHeuristic) trial(goal Goal) *store.Assertion {
	return &store.Assertion{
		Hyps:    p.Hyps,
		DV:      p.DV,
		ExprRPN: goal.RPN,
		ExprAST: goal.AST,
		Type:    store.Propositional,
	}
}

func (p PropHeuristic) OnTopic(a *store.Assertion) bool {
	return a.Number > 0 && a.Type.Has(store.Propositional)
}

func (p PropHeuristic) Status(goal Goal) Goalstatus {
	if oracle.CheckValid(p.Propctors, p.trial(goal)) {
		return GoalTrue
	}
	return GoalOpen
}

func (p PropHeuristic) HypsToTrim(goal Goal) []bool {
	trimmed, ok := oracle.TrimHyps(p.Propctors, p.trial(goal))
	if !ok {
		return nil
	}
	return trimmed
}

func (p PropHeuristic) Score(weight int) float64 { return 1 / float64(weight+1) }
