package database

import "github.com/fanzheng1729/hana/pkg/store"

// resolveSyntaxAxioms populates db.SyntaxAxioms from the assertions
// recognized as grammar rules: every hypothesis floating, conclusion
// type code already primitive from some $f declaration. This must run
// before parseWellFormedness, which walks db.SyntaxAxioms to recover
// RPNs.
func resolveSyntaxAxioms(db *store.Database) {
	for _, a := range db.Assertions {
		if a.IsSyntaxAxiom(db.Primitive) {
			db.SyntaxAxioms = append(db.SyntaxAxioms, a)
		}
	}
}
