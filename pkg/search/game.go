package search

import (
	"github.com/fanzheng1729/hana/pkg/mcts"
	"github.com/fanzheng1729/hana/pkg/token"
)

// Game is the proof-search tree's state at one node: the goal currently
// being pursued, the context it is pursued in, how many times this
// branch has been deferred, and — once our turn has played a theorem —
// the attempt whose subgoals the other turn picks among.
//
// Turns are never stored explicitly on Game: a MoveThm/MoveDefer is only
// ever legal on our turn and a MovePick only on theirs, so Play can tell
// which phase produced the incoming move from its Type alone, and the
// search tree itself (mcts.Search) tracks whose turn a node is by
// alternating from the root.
type Game struct {
	Goal    Goal
	Env     *Environ
	NDefer  int
	Attempt Move

	goals Goals
	pool  *token.Pool
}

func newGame(goal Goal, env *Environ, goals Goals, pool *token.Pool) Game {
	return Game{Goal: goal, Env: env, goals: goals, pool: pool}
}

func (g Game) goaldata() *Goaldata {
	big := g.goals.bigGoal(g.pool, g.Goal)
	if big == nil {
		return nil
	}
	return big.ByEnv[g.Env]
}

// proven reports whether this game's goal already has a proof, either
// specific to Env or shared across every environment via Goaldatas.Proof.
func (g Game) proven() bool {
	big := g.goals.bigGoal(g.pool, g.Goal)
	if big == nil {
		return false
	}
	if big.proven() {
		return true
	}
	gd := big.ByEnv[g.Env]
	return gd != nil && gd.proven()
}

// Moves implements mcts.Game. On our turn it is the environment's
// theorem applications plus the DEFER sentinel; on theirs it is one move
// per subgoal opened by the attempt that got us here.
func (g Game) Moves(ourTurn bool, stage int) ([]Move, bool) {
	if ourTurn {
		moves := g.Env.OurMoves(g.Goal, stage)
		moves = append(moves, deferMove())
		return moves, g.Env.Staged
	}
	moves := make([]Move, len(g.Attempt.SubGoals))
	for i := range g.Attempt.SubGoals {
		moves[i] = Move{Type: MovePick, Index: i}
	}
	return moves, false
}

// Legal always holds: both OurMoves and the subgoal enumeration already
// only produce validated moves.
func (g Game) Legal(Move) bool { return true }

// Play advances the game. A MoveThm/MoveDefer leaves the goal in place
// and records the attempt, so the next (their-turn) node can branch over
// its subgoals; a MovePick descends into the chosen subgoal with a fresh
// defer count and no outstanding attempt.
func (g Game) Play(m Move) mcts.Game[Move] {
	if m.Type == MovePick {
		return newGame(g.Attempt.SubGoals[m.Index], g.Env, g.goals, g.pool)
	}
	next := g
	next.Attempt = m
	if m.Type == MoveDefer {
		next.NDefer++
	}
	return next
}

// Loop implements mcts.LoopGame: a proof attempt applying a theorem
// with essential subgoals must never close a cycle back through its
// own ancestors. Two things count as a cycle: this goal is literally
// the (non-defer) goal an ancestor is already pursuing, or — the
// saturation case — some ancestor's subgoal set becomes entirely
// known (this goal plus whatever other ancestors' subgoals already
// saturated) while that very goal also occurs at a different depth
// among the ancestors, meaning the accumulated goal set would prove an
// ancestor a second, redundant time rather than making progress.
//
// Only a MovePick child — one that descends into a fresh subgoal —
// can introduce such a cycle: a MoveThm/MoveDefer child carries the
// same goal as its own parent by construction (Play leaves Goal
// untouched), which is ordinary progress, not a back-reference.
func (g Game) Loop(ancestors []mcts.Game[Move]) bool {
	if g.Attempt.Type != MoveNone {
		return false
	}
	self := g.Goal.key(g.pool)

	type attempt struct {
		depth    int
		goalKey  uint64
		subGoals []uint64
	}
	var attempts []attempt
	depthsOf := make(map[uint64][]int, len(ancestors))

	for depth, anc := range ancestors {
		ag := anc.(Game)
		gk := ag.Goal.key(g.pool)
		if gk == self {
			return true
		}
		depthsOf[gk] = append(depthsOf[gk], depth)
		if ag.Attempt.Thm != nil {
			subKeys := make([]uint64, len(ag.Attempt.SubGoals))
			for i, sg := range ag.Attempt.SubGoals {
				subKeys[i] = sg.key(g.pool)
			}
			attempts = append(attempts, attempt{depth: depth, goalKey: gk, subGoals: subKeys})
		}
	}

	known := map[uint64]bool{self: true}
	for changed := true; changed; {
		changed = false
		for _, a := range attempts {
			if known[a.goalKey] {
				continue
			}
			allKnown := true
			for _, sk := range a.subGoals {
				if !known[sk] {
					allKnown = false
					break
				}
			}
			if !allKnown {
				continue
			}
			known[a.goalKey] = true
			changed = true
			for _, d := range depthsOf[a.goalKey] {
				if d > a.depth {
					return true
				}
			}
		}
	}
	return false
}
