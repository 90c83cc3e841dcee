package database

import (
	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"

	"github.com/fanzheng1729/hana/pkg/mmerr"
	"github.com/fanzheng1729/hana/pkg/proof"
	"github.com/fanzheng1729/hana/pkg/search"
	"github.com/fanzheng1729/hana/pkg/store"
)

// VerifyAll re-verifies every stored proof against db.Store.Pool,
// independent of the pass Ingest already ran — callers that loaded a
// Database some other way (a cached/decoded one, a test fixture built by
// hand) can still get the same guarantee. Every failing proof is
// collected rather than stopping at the first.
func (db *Database) VerifyAll() error {
	var result *multierror.Error
	for _, a := range db.Store.Assertions {
		if err := proof.VerifyAssertion(a, db.Store.Pool); err != nil {
			result = multierror.Append(result, err)
		}
	}
	if result != nil {
		return result
	}
	return nil
}

// SearchResult is one theorem's outcome from a SearchAll run.
type SearchResult struct {
	Label string
	Proof []store.Step
	Found bool
}

// SearchAll runs Problem.Solve for every eligible propositional theorem
// (excludes axioms, syntax axioms, and assertions already carrying a
// verified proof) up to maxSize tree nodes and maxTerms synthesized
// terms per context. A theorem for which Solve returns no proof is
// recorded as SizeExceeded (per §7 Propagation) without aborting the
// run — search failures are per-theorem, never fatal for the database
// as a whole.
func (db *Database) SearchAll(maxTerms, maxSize int, staged bool, exploration search.Exploration, log logrus.FieldLogger) ([]SearchResult, error) {
	heuristic := search.PropHeuristic{Propctors: db.Propctors}
	var results []SearchResult
	var result *multierror.Error

	for _, a := range db.Store.Assertions {
		if !eligibleForSearch(a) {
			continue
		}
		p := search.NewProblem(db.Store, a, maxTerms, staged, exploration, heuristic)
		if p.Unprovable {
			log.WithField("label", a.Label).Debug("theorem unprovable in its own context")
			continue
		}
		proofSteps, ok := p.Solve(maxSize)
		results = append(results, SearchResult{Label: a.Label, Proof: proofSteps, Found: ok})
		if !ok {
			result = multierror.Append(result, &mmerr.SizeExceeded{Theorem: a.Label, Size: maxSize})
			continue
		}
		log.WithField("label", a.Label).WithField("steps", len(proofSteps)).Debug("search found a proof")
	}
	if result != nil {
		return results, result
	}
	return results, nil
}

func eligibleForSearch(a *store.Assertion) bool {
	if a.Type.Has(store.Axiom) {
		return false
	}
	if !a.Type.Has(store.Propositional) {
		return false
	}
	return len(a.Proof) == 0
}
