package mcts

import "testing"

// countGame is a deterministic single-move-per-ply countdown: the only
// move decrements N, and the game is terminal (no moves) once N reaches
// 0. It has exactly one line of play, so its minimax value is decidable
// without any real choice — useful for exercising Search's
// expand/evaluate/backprop plumbing without a combinatorial game.
type countGame struct{ n int }

func (g countGame) Moves(ourTurn bool, stage int) ([]string, bool) {
	if g.n == 0 {
		return nil, false
	}
	return []string{"dec"}, false
}

func (g countGame) Legal(m string) bool { return m == "dec" }

func (g countGame) Play(m string) Game[string] {
	return countGame{n: g.n - 1}
}

func evalCountGame(state Game[string]) Eval {
	if state.(countGame).n == 0 {
		return EvalWin
	}
	return Eval{Value: WDLDraw, Sure: false}
}

func TestSearchForcedLineResolvesWin(t *testing.T) {
	s := NewSearch[string](countGame{n: 3}, true, [2]Value{1.4, 1.4}, evalCountGame)

	s.Play(1000)

	if !s.Sure() {
		t.Fatal("a fully forced line must resolve to a sure value")
	}
	if s.Value() != WDLWin {
		t.Fatalf("Value() = %v; want WDLWin", s.Value())
	}
	if s.Size() < 4 {
		t.Fatalf("Size() = %d; want at least 4 nodes (root + 3 plies)", s.Size())
	}
}

func TestSearchStopsAtMaxSize(t *testing.T) {
	// evalAlwaysUnsure never settles, so Play must stop once the tree
	// exceeds maxSize rather than looping forever.
	evalAlwaysUnsure := func(Game[string]) Eval { return Eval{Value: WDLDraw, Sure: false} }
	s := NewSearch[string](countGame{n: 1_000_000}, true, [2]Value{1.4, 1.4}, evalAlwaysUnsure)

	s.Play(10)

	if s.Sure() {
		t.Fatal("value must not be sure: the tree was capped before reaching a terminal")
	}
	if s.Size() > 11 {
		t.Fatalf("Size() = %d; Play should stop close to maxSize=10", s.Size())
	}
}

// cyclicGame always offers one move back to itself (n stays fixed),
// and reports a loop against any ancestor sharing the same n — enough
// to exercise expand's LoopGame branch without a real domain.
type cyclicGame struct{ n int }

func (g cyclicGame) Moves(ourTurn bool, stage int) ([]string, bool) {
	return []string{"loop"}, false
}

func (g cyclicGame) Legal(m string) bool { return m == "loop" }

func (g cyclicGame) Play(m string) Game[string] { return cyclicGame{n: g.n} }

func (g cyclicGame) Loop(ancestors []Game[string]) bool {
	for _, a := range ancestors {
		if a.(cyclicGame).n == g.n {
			return true
		}
	}
	return false
}

func TestExpandBacksUpDetectedLoopAsLoss(t *testing.T) {
	evalNeverSure := func(Game[string]) Eval { return Eval{Value: WDLDraw, Sure: false} }
	s := NewSearch[string](cyclicGame{n: 1}, true, [2]Value{1.4, 1.4}, evalNeverSure)

	s.nodes[0].eval = s.EvalLeaf(s.nodes[0].state)
	added := s.expand(0)
	if added != 1 {
		t.Fatalf("expand() added %d children; want 1", added)
	}
	child := s.nodes[0].children[0]
	if !s.nodes[child].looped {
		t.Fatal("a child whose state reports Loop must be marked looped")
	}
	if s.nodes[child].eval != EvalLoss {
		t.Fatalf("a looped child's eval = %v; want EvalLoss", s.nodes[child].eval)
	}

	s.evalNewLeaves(0)
	if s.nodes[child].eval != EvalLoss {
		t.Fatal("evalNewLeaves must not overwrite a looped child's forced eval")
	}
}

func TestPathToRoot(t *testing.T) {
	s := NewSearch[string](countGame{n: 2}, true, [2]Value{1.4, 1.4}, evalCountGame)
	s.Play(1000)

	// Walk to the deepest node reachable and confirm the path ends at 0.
	p := 0
	for len(s.Children(p)) > 0 {
		p = s.Children(p)[0]
	}
	path := s.PathToRoot(p)
	if path[len(path)-1] != 0 {
		t.Fatalf("PathToRoot must end at the root (index 0); got %v", path)
	}
	if path[0] != p {
		t.Fatalf("PathToRoot must start at the queried node; got %v", path)
	}
}
