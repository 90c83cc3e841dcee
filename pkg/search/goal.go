// Package search is the proof-search driver (spec components I and J): a
// Problem wraps an MCTS tree over goals-in-context, generating theorem
// applications on our turn and essential-hypothesis challenges on the
// (adversarial) other turn, memoizing goals across the contexts hypothesis
// trimming introduces, and stitching a verified proof once a goal closes.
package search

import (
	"github.com/mitchellh/hashstructure"

	"github.com/fanzheng1729/hana/pkg/store"
	"github.com/fanzheng1729/hana/pkg/token"
)

// Goalstatus is the status of a goal in one context: unresolved, or
// settled true/false independent of further search.
type Goalstatus int

const (
	GoalOpen Goalstatus = iota
	GoalTrue
	GoalFalse
)

// Goal is a candidate subexpression to prove: its well-formedness parse
// and the type code it was parsed as.
type Goal struct {
	RPN      []store.Step
	AST      store.AST
	Typecode token.ID
}

type stepKey struct {
	Tag   store.StepTag
	Label string
	Index int
}

// key canonically names a goal by its steps' labels, not by the RPN's
// slice identity, so that two independently-derived parses of the same
// expression collide in the memo.
func (g Goal) key(pool *token.Pool) uint64 {
	keys := make([]stepKey, len(g.RPN))
	for i, s := range g.RPN {
		keys[i] = stepKey{Tag: s.Tag, Label: s.Label(), Index: s.Index}
	}
	h, err := hashstructure.Hash(struct {
		Steps []stepKey
		Type  string
	}{keys, pool.Name(g.Typecode)}, nil)
	if err != nil {
		return 0
	}
	return h
}

// Goaldata is one environment's view of a goal: its status, any proof
// found for it specifically in this environment (as opposed to one
// shared across environments via Goaldatas.Proof), and the search-tree
// nodes currently working it, so a proof found elsewhere can close them.
type Goaldata struct {
	Status Goalstatus
	Proof  []store.Step
	Env    *Environ
	Nodes  map[int]bool
}

func newGoaldata(status Goalstatus, env *Environ) *Goaldata {
	return &Goaldata{Status: status, Env: env, Nodes: make(map[int]bool)}
}

func (g *Goaldata) proven() bool { return len(g.Proof) > 0 }

// Goaldatas is one goal's data across every environment it has been
// asked about in, plus the proof that holds in the problem's own
// (untrimmed) environment: the one other environments' proofs are copied
// into when they share this goal (spec 4.I "their-turn leaves").
type Goaldatas struct {
	ByEnv map[*Environ]*Goaldata
	Proof []store.Step
}

func newGoaldatas() *Goaldatas {
	return &Goaldatas{ByEnv: make(map[*Environ]*Goaldata)}
}

func (g *Goaldatas) proven() bool { return len(g.Proof) > 0 }

// Goals is the global memo: canonical goal identity to its per-environment
// data, shared by every Environ a Problem owns.
type Goals map[uint64]*Goaldatas

func newGoals() Goals { return make(Goals) }

// intern returns the Goaldata for goal in env, creating both the
// Goaldatas bucket and the per-environment entry if new. status is used
// only when the (goal, env) pair is new.
func (gs Goals) intern(pool *token.Pool, goal Goal, env *Environ, status Goalstatus) *Goaldata {
	k := goal.key(pool)
	big, ok := gs[k]
	if !ok {
		big = newGoaldatas()
		gs[k] = big
	}
	gd, ok := big.ByEnv[env]
	if !ok {
		gd = newGoaldata(status, env)
		big.ByEnv[env] = gd
	}
	return gd
}

func (gs Goals) bigGoal(pool *token.Pool, goal Goal) *Goaldatas {
	return gs[goal.key(pool)]
}
