package search

import (
	"testing"

	"github.com/fanzheng1729/hana/pkg/mcts"
	"github.com/fanzheng1729/hana/pkg/store"
	"github.com/fanzheng1729/hana/pkg/token"
)

func goalFor(pool *token.Pool, typecode token.ID, label string) Goal {
	h := &store.Hypothesis{Label: label}
	return Goal{RPN: []store.Step{store.HypStep(h)}, Typecode: typecode}
}

func TestGameLoopDirectRepeat(t *testing.T) {
	pool := token.NewPool()
	wff := pool.Intern("wff")
	g := goalFor(pool, wff, "g")

	ancestor := Game{Goal: g, pool: pool}
	self := Game{Goal: g, pool: pool} // MovePick child: Attempt is zero

	if !self.Loop([]mcts.Game[Move]{ancestor}) {
		t.Error("a subgoal identical to an ancestor's own goal must be reported as a loop")
	}
}

func TestGameLoopNoRepeat(t *testing.T) {
	pool := token.NewPool()
	wff := pool.Intern("wff")
	a := goalFor(pool, wff, "a")
	b := goalFor(pool, wff, "b")

	ancestor := Game{Goal: a, pool: pool}
	self := Game{Goal: b, pool: pool}

	if self.Loop([]mcts.Game[Move]{ancestor}) {
		t.Error("distinct goals must not be reported as a loop")
	}
}

func TestGameLoopIgnoresNonPickChildren(t *testing.T) {
	pool := token.NewPool()
	wff := pool.Intern("wff")
	g := goalFor(pool, wff, "g")
	thm := &store.Assertion{Label: "thm"}

	ancestor := Game{Goal: g, pool: pool}
	// self carries an Attempt (MoveThm/MoveDefer): its Goal equals its own
	// parent's by construction, never a genuine back-reference.
	self := Game{Goal: g, Attempt: Move{Type: MoveThm, Thm: thm}, pool: pool}

	if self.Loop([]mcts.Game[Move]{ancestor}) {
		t.Error("a MoveThm/MoveDefer child must never be treated as a loop")
	}
}

func TestGameLoopSaturation(t *testing.T) {
	pool := token.NewPool()
	wff := pool.Intern("wff")
	selfGoal := goalFor(pool, wff, "self")
	g1 := goalFor(pool, wff, "g1")
	g2 := goalFor(pool, wff, "g2")
	g3 := goalFor(pool, wff, "g3")
	t1 := &store.Assertion{Label: "t1"}
	t2 := &store.Assertion{Label: "t2"}

	// g1 is attempted via t1 with selfGoal as its only subgoal; g2 is a
	// plain hop (no attempt); g1 recurs farther up via t2, attempted with
	// an unrelated subgoal g3. Once selfGoal saturates g1 (depth 0), g1's
	// recurrence at depth 2 means the accumulated goal set would prove an
	// ancestor a second time — a loop.
	ancestor0 := Game{Goal: g1, Attempt: Move{Type: MoveThm, Thm: t1, SubGoals: []Goal{selfGoal}}, pool: pool}
	ancestor1 := Game{Goal: g2, pool: pool}
	ancestor2 := Game{Goal: g1, Attempt: Move{Type: MoveThm, Thm: t2, SubGoals: []Goal{g3}}, pool: pool}

	self := Game{Goal: selfGoal, pool: pool}
	ancestors := []mcts.Game[Move]{ancestor0, ancestor1, ancestor2}

	if !self.Loop(ancestors) {
		t.Error("g1's recurrence after saturating through selfGoal must be reported as a loop")
	}

	if self.Loop(ancestors[:2]) {
		t.Error("without g1's recurrence, saturating through selfGoal alone must not be a loop")
	}
}
