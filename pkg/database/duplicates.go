package database

import (
	"github.com/fanzheng1729/hana/pkg/search"
	"github.com/fanzheng1729/hana/pkg/store"
)

// Default tuning for the duplicate probe: small enough that a genuine
// duplicate (provable from strictly earlier assertions alone, by
// definition already proved once) resolves in a handful of tree
// expansions, per original_source/src/search/environ.cpp's isduplicate(),
// which runs this probe with no tree growth at all (maxSize 0) and only
// catches the trivial case; ClassifyDuplicates affords a little more
// search so near-trivial duplicates are caught too.
const (
	duplicateMaxTerms = 64
	duplicateMaxSize  = 256
)

// ClassifyDuplicates marks every propositional assertion DUPLICATE whose
// conclusion is already a tautological consequence of strictly
// lower-numbered assertions, i.e. one whose own proof is not needed to
// establish validity. Grounded on original_source's Database::markduplicate,
// which the original's own main() leaves disabled by default — this is
// likewise opt-in, never run from Ingest.
func ClassifyDuplicates(db *Database, exploration search.Exploration) {
	heuristic := search.PropHeuristic{Propctors: db.Propctors}
	for _, a := range db.Store.Assertions {
		if !a.Type.Has(store.Propositional) {
			continue
		}
		if a.Type.Has(store.Duplicate) {
			continue
		}
		if isDuplicate(db.Store, a, heuristic, exploration) {
			a.Type |= store.Duplicate
		}
	}
}

func isDuplicate(db *store.Database, a *store.Assertion, heuristic search.PropHeuristic, exploration search.Exploration) bool {
	p := search.NewProblem(db, a, duplicateMaxTerms, false, exploration, heuristic)
	if p.Unprovable {
		return false
	}
	_, ok := p.Solve(duplicateMaxSize)
	return ok
}
