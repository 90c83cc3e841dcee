package database

import "github.com/fanzheng1729/hana/pkg/store"

// Stats is a per-assertion-type census, computed once after
// classification so callers (the CLI's summary output, tests) don't
// need to re-walk every assertion themselves.
type Stats struct {
	Assertions    int
	Axioms        int
	Theorems      int
	SyntaxAxioms  int
	Trivial       int
	Duplicate     int
	NoUse         int
	NoNewProof    int
	Propositional int
}

func computeStats(db *store.Database) Stats {
	var s Stats
	s.Assertions = len(db.Assertions)
	s.SyntaxAxioms = len(db.SyntaxAxioms)
	for _, a := range db.Assertions {
		if a.Type.Has(store.Axiom) {
			s.Axioms++
		} else {
			s.Theorems++
		}
		if a.Type.Has(store.Trivial) {
			s.Trivial++
		}
		if a.Type.Has(store.Duplicate) {
			s.Duplicate++
		}
		if a.Type.Has(store.NoUse) {
			s.NoUse++
		}
		if a.Type.Has(store.NoNewProof) {
			s.NoNewProof++
		}
		if a.Type.Has(store.Propositional) {
			s.Propositional++
		}
	}
	return s
}
