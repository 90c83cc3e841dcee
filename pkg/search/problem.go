package search

import (
	"github.com/fanzheng1729/hana/pkg/mcts"
	"github.com/fanzheng1729/hana/pkg/store"
)

// Exploration are the two UCB exploration constants, indexed by whose
// turn the node evaluated belongs to (see mcts.Search).
type Exploration = [2]mcts.Value

// Problem is the proof-search driver for one target assertion (spec
// 4.I): it wraps an MCTS tree over goals-in-context, owns every
// environment the search introduces (the problem's own context, plus
// any hypothesis-trimmed sub-context), and memoizes goals across all of
// them so a proof found in one context is immediately visible to every
// other context sharing that goal.
type Problem struct {
	DB        *store.Database
	Assertion *store.Assertion
	ProbEnv   *Environ
	Environs  map[string]*Environ
	Goals     Goals
	Tree      *mcts.Search[Move]

	// Unprovable is set when the target's own expression failed to
	// parse, or the validity oracle already rejected the bare goal: no
	// tree is built and Solve returns immediately.
	Unprovable bool

	maxTerms    int
	numberLimit int

	rank      *SyntaxRank
	rankLimit int // -1 until refocus runs: no goal is out of reach yet
	refocused bool
}

// NewProblem builds the root of a search for target. heuristic is
// typically a PropHeuristic for the propositional fragment; nil falls
// back to DefaultHeuristic (no oracle pruning).
func NewProblem(db *store.Database, target *store.Assertion, maxTerms int, staged bool, exploration Exploration, heuristic Heuristic) *Problem {
	if heuristic == nil {
		heuristic = DefaultHeuristic{}
	}
	p := &Problem{
		DB:          db,
		Assertion:   target,
		Environs:    make(map[string]*Environ),
		Goals:       newGoals(),
		maxTerms:    maxTerms,
		numberLimit: target.Number,
		rank:        BuildSyntaxRank(db),
		rankLimit:   -1,
	}
	p.ProbEnv = NewEnviron(db, target, target.Number, maxTerms, staged, heuristic)
	p.Environs[p.ProbEnv.Name] = p.ProbEnv

	if len(target.Expr) == 0 || len(target.ExprRPN) == 0 {
		p.Unprovable = true
		return p
	}
	p.addHypProofs(target, p.ProbEnv)

	root := Goal{RPN: target.ExprRPN, AST: target.ExprAST, Typecode: target.Expr.Typecode()}
	status := heuristic.Status(root)
	p.Goals.intern(db.Pool, root, p.ProbEnv, status)
	if status == GoalFalse {
		p.Unprovable = true
		return p
	}
	if status == GoalTrue {
		if trimmed := heuristic.HypsToTrim(root); trimmed != nil {
			p.addSubEnviron(p.ProbEnv, trimmed, staged, heuristic)
		}
	}

	game := newGame(root, p.ProbEnv, p.Goals, db.Pool)
	p.Tree = mcts.NewSearch[Move](game, true, exploration, p.evalLeaf)
	return p
}

// addHypProofs interns a trivially-proved goal (a single HYP step) for
// every essential hypothesis of ass, in env.
func (p *Problem) addHypProofs(ass *store.Assertion, env *Environ) {
	for _, h := range ass.Hyps {
		if h.Float || len(h.RPN) == 0 {
			continue
		}
		g := Goal{RPN: h.RPN, AST: h.AST, Typecode: h.Expr.Typecode()}
		gd := p.Goals.intern(p.DB.Pool, g, env, GoalTrue)
		gd.Proof = []store.Step{store.HypStep(h)}
	}
}

// addSubEnviron builds (or returns the already-built) context for base's
// assertion with the hypotheses hypstotrim flags as trimmable dropped —
// a synthetic Assertion standing in for "the same goal, fewer assumed
// hypotheses".
func (p *Problem) addSubEnviron(base *Environ, hypsToTrim []bool, staged bool, h Heuristic) *Environ {
	var keep []*store.Hypothesis
	for i, hyp := range base.Assertion.Hyps {
		if i < len(hypsToTrim) && hypsToTrim[i] {
			continue
		}
		keep = append(keep, hyp)
	}
	synthetic := &store.Assertion{
		Label:   base.Assertion.Label + ".trimmed",
		Number:  base.Assertion.Number,
		Expr:    base.Assertion.Expr,
		Hyps:    keep,
		DV:      base.Assertion.DV,
		ExprRPN: base.Assertion.ExprRPN,
		ExprAST: base.Assertion.ExprAST,
		Type:    base.Assertion.Type,
	}
	if existing, ok := p.Environs[synthetic.Label]; ok {
		return existing
	}
	env := NewEnviron(p.DB, synthetic, base.NumberLimit, p.maxTerms, staged, h)
	p.Environs[synthetic.Label] = env
	p.addHypProofs(synthetic, env)
	return env
}

// almostLossDefers is the defer count past which a still-open goal is
// scored ALMOSTLOSS: the DEFER sentinel's score already decays with
// depth (bounding the search per the environment's weight heuristic),
// and a goal repeatedly bounced back to itself this many times without
// another move resolving it is treated as practically stuck.
const almostLossDefers = 6

// evalLeaf is the game-specific leaf evaluator (mcts.EvalFunc): a goal
// already proven is a sure win, one the oracle rejects is a sure loss.
// Otherwise it scores by the environment's inverse-weight heuristic,
// promoted to the near-terminal ALMOSTWIN/ALMOSTLOSS tier when the
// heuristic is confident enough either way: a goal whose weight already
// rounds to the ALMOSTWIN threshold, a goal deferred past
// almostLossDefers, or — once refocus has set a rank ceiling — a goal
// built from syntax ranked past that ceiling, is demoted/promoted
// without being marked sure (see mcts.EvalAlmostWin/EvalAlmostLoss).
func (p *Problem) evalLeaf(state mcts.Game[Move]) mcts.Eval {
	g := state.(Game)
	if g.proven() {
		return mcts.EvalWin
	}
	if gd := g.goaldata(); gd != nil && gd.Status == GoalFalse {
		return mcts.EvalLoss
	}
	if p.rankLimit >= 0 && p.rank.Rank(g.Goal.Typecode) > p.rankLimit {
		return mcts.EvalAlmostLoss
	}
	if g.NDefer >= almostLossDefers {
		return mcts.EvalAlmostLoss
	}
	score := mcts.Value(g.Env.score(g.Goal, g.NDefer))
	if score >= mcts.WDLAlmostWin {
		return mcts.EvalAlmostWin
	}
	return mcts.Eval{Value: score, Sure: false}
}

// Solve plays the search until the root is a sure win or loss, or the
// tree exceeds maxSize, returning the assertion's proof if one was
// found.
func (p *Problem) Solve(maxSize int) ([]store.Step, bool) {
	if p.Unprovable || p.Tree == nil {
		return nil, false
	}
	if proofSteps, ok := p.tryExtractRoot(); ok {
		return proofSteps, true
	}
	for !p.Tree.Sure() && p.Tree.Size() <= maxSize {
		p.Tree.PlayOnce()
		if proofSteps, ok := p.tryExtractRoot(); ok {
			return proofSteps, true
		}
		if !p.refocused && p.Tree.Value() >= mcts.WDLAlmostWin {
			p.refocus()
			p.refocused = true
		}
	}
	return nil, false
}

// refocus narrows the search once the root's value crosses ALMOSTWIN
// (spec 4.I): it collects the deepest syntax rank among nodes that
// already cleared ALMOSTWIN and adopts that as the new rank ceiling,
// then demotes every still-open leaf whose goal's type code ranks
// above the ceiling to ALMOSTLOSS — syntax strictly harder than
// anything already nearly proved is not worth continued search — and
// finally recomputes the whole tree against the narrowed leaves. One
// pass: prune then focus, no separate re-evaluation step.
func (p *Problem) refocus() {
	limit := -1
	var walkRank func(n int)
	walkRank = func(n int) {
		if p.Tree.NodeEval(n).Value >= mcts.WDLAlmostWin {
			if g, ok := p.Tree.State(n).(Game); ok {
				if r := p.rank.Rank(g.Goal.Typecode); r > limit {
					limit = r
				}
			}
		}
		for _, c := range p.Tree.Children(n) {
			walkRank(c)
		}
	}
	walkRank(0)
	p.rankLimit = limit

	var prune func(n int)
	prune = func(n int) {
		children := p.Tree.Children(n)
		if len(children) == 0 {
			eval := p.Tree.NodeEval(n)
			if eval.Sure {
				return
			}
			if g, ok := p.Tree.State(n).(Game); ok && p.rank.Rank(g.Goal.Typecode) > p.rankLimit {
				p.Tree.SetEval(n, mcts.EvalAlmostLoss)
			}
			return
		}
		for _, c := range children {
			prune(c)
		}
	}
	prune(0)
	p.Tree.RecomputeAll()
}

func (p *Problem) tryExtractRoot() ([]store.Step, bool) {
	eval := p.Tree.NodeEval(0)
	if !eval.Sure || eval.Value != mcts.WDLWin {
		return nil, false
	}
	proofSteps, ok := p.extractProof(0)
	if !ok {
		return nil, false
	}
	root := Goal{RPN: p.Assertion.ExprRPN, AST: p.Assertion.ExprAST, Typecode: p.Assertion.Expr.Typecode()}
	if big := p.Goals.bigGoal(p.DB.Pool, root); big != nil && !big.proven() {
		big.Proof = proofSteps
	}
	return proofSteps, true
}

// extractProof recovers a literal, verifiable proof for the goal at
// node, once the tree has decided it is a sure win: on our turn it walks
// down the first sure-win child (skipping DEFER, which never closes
// anything on its own), on their turn — since a theorem move only closes
// once every subgoal it opened is proved — it requires and concatenates
// a proof for every child, appending the theorem step last.
func (p *Problem) extractProof(node int) ([]store.Step, bool) {
	state := p.Tree.State(node).(Game)
	if state.proven() {
		return p.lookupProof(state), true
	}
	eval := p.Tree.NodeEval(node)
	if !eval.Sure || eval.Value != mcts.WDLWin {
		return nil, false
	}

	if p.Tree.OurTurn(node) {
		for _, c := range p.Tree.Children(node) {
			if p.Tree.Move(c).Type == MoveDefer {
				continue
			}
			if proofSteps, ok := p.extractProof(c); ok {
				return proofSteps, true
			}
		}
		return nil, false
	}

	attempt := state.Attempt
	children := p.Tree.Children(node)
	if attempt.Thm == nil || len(children) != len(attempt.SubGoals) {
		return nil, false
	}
	var combined []store.Step
	for _, c := range children {
		sub, ok := p.extractProof(c)
		if !ok {
			return nil, false
		}
		combined = append(combined, sub...)
	}
	combined = append(combined, store.ThmStep(attempt.Thm))
	return combined, true
}

func (p *Problem) lookupProof(state Game) []store.Step {
	big := p.Goals.bigGoal(p.DB.Pool, state.Goal)
	if big == nil {
		return nil
	}
	if big.proven() {
		return big.Proof
	}
	if gd := big.ByEnv[state.Env]; gd != nil {
		return gd.Proof
	}
	return nil
}
