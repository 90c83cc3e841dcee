package search

import (
	"github.com/fanzheng1729/hana/pkg/proof"
	"github.com/fanzheng1729/hana/pkg/store"
)

// MoveType discriminates our three kinds of move: none (used only as a
// zero value), applying a theorem, and deferring (re-entering the same
// goal with the defer counter bumped, bounding how long a fruitless
// branch is chased).
type MoveType int

const (
	MoveNone MoveType = iota
	MoveThm
	MoveDefer
	MovePick
)

// Move is one step attempted in the search tree. On our turn it applies
// a theorem under a substitution, opening zero or more fresh essential-
// hypothesis subgoals; the adversary's reply (their turn) then picks
// which of those subgoals to challenge us to prove (MovePick, indexing
// into the prior move's SubGoals), one per ply, so that a theorem move
// only closes its goal once every subgoal it opened is itself proved.
type Move struct {
	Type     MoveType
	Thm      *store.Assertion
	Sub      proof.Substitution
	SubGoals []Goal
	Index    int // valid only when Type == MovePick
}

func deferMove() Move { return Move{Type: MoveDefer} }

// closes reports whether applying the move leaves no open subgoal: every
// essential hypothesis of the theorem, after substitution, literally
// matched one of the ambient assertion's own essential hypotheses.
func (m Move) closes() bool { return m.Type == MoveThm && len(m.SubGoals) == 0 }
