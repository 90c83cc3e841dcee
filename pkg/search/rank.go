package search

import (
	"github.com/fanzheng1729/hana/pkg/store"
	"github.com/fanzheng1729/hana/pkg/token"
)

// SyntaxRank assigns every syntax type code a construction-depth rank: a
// primitive type code (one that a bare variable can carry) starts at
// rank 0, and a syntax axiom's conclusion type code ranks one above the
// deepest of its floating hypotheses' type codes (also 0 if it has
// none, a nullary constructor). Refocus uses this to bound how far a
// sub-goal's context may still grow once the root is within reach of a
// win: a goal built from deeper syntax than anything already winning
// cannot be the cheapest path to a proof.
type SyntaxRank struct {
	byType map[token.ID]int
}

// BuildSyntaxRank computes db's rank table by fixed-point iteration over
// its syntax axioms: a production is usable once every floating
// hypothesis' type code already has a rank, so the loop converges in at
// most as many passes as the longest syntax-axiom dependency chain.
func BuildSyntaxRank(db *store.Database) *SyntaxRank {
	r := &SyntaxRank{byType: make(map[token.ID]int, len(db.Primitive))}
	for t := range db.Primitive {
		r.byType[t] = 0
	}
	for changed := true; changed; {
		changed = false
		for _, ax := range db.SyntaxAxioms {
			concl := ax.Expr.Typecode()
			rank := 0
			ready := true
			for _, h := range ax.FloatingHyps() {
				argRank, ok := r.byType[h.Expr.Typecode()]
				if !ok {
					ready = false
					break
				}
				if argRank+1 > rank {
					rank = argRank + 1
				}
			}
			if !ready {
				continue
			}
			if cur, ok := r.byType[concl]; !ok || rank < cur {
				r.byType[concl] = rank
				changed = true
			}
		}
	}
	return r
}

// Rank returns typecode's construction-depth rank, or -1 if the
// database declares no syntax axiom or floating hypothesis for it.
func (r *SyntaxRank) Rank(typecode token.ID) int {
	if rank, ok := r.byType[typecode]; ok {
		return rank
	}
	return -1
}
