package search

import (
	"testing"

	"github.com/fanzheng1729/hana/pkg/store"
)

// rankFixture builds a tiny database with one primitive type code
// ("wff", carried by the floating hypothesis "wph") and one type code
// that only ever appears as a syntax axiom's conclusion ("stmt", built
// by "mkstmt" from a single wff argument) — enough to exercise a
// non-trivial rank computation.
func rankFixture(t *testing.T) *store.Database {
	t.Helper()
	b := store.NewBuilder()
	for _, c := range []string{"wff", "stmt"} {
		if err := b.DeclareConstant(c); err != nil {
			t.Fatalf("DeclareConstant(%q): %v", c, err)
		}
	}
	if err := b.DeclareVariable("ph"); err != nil {
		t.Fatalf("DeclareVariable: %v", err)
	}
	if _, err := b.AddFloating("wph", "wff", "ph"); err != nil {
		t.Fatalf("AddFloating: %v", err)
	}
	mkstmt, err := b.BeginAssertion("mkstmt", []string{"stmt", "ph"}, true)
	if err != nil {
		t.Fatalf("BeginAssertion(mkstmt): %v", err)
	}
	b.DB.SyntaxAxioms = []*store.Assertion{mkstmt}
	return b.DB
}

func TestBuildSyntaxRank(t *testing.T) {
	db := rankFixture(t)
	r := BuildSyntaxRank(db)

	wff, _ := db.Pool.Lookup("wff")
	stmt, _ := db.Pool.Lookup("stmt")
	unknown, _ := db.Pool.Lookup("nope")

	if got := r.Rank(wff); got != 0 {
		t.Errorf("Rank(wff) = %d; want 0 (a bare floating variable)", got)
	}
	if got := r.Rank(stmt); got != 1 {
		t.Errorf("Rank(stmt) = %d; want 1 (one level above its wff argument)", got)
	}
	if got := r.Rank(unknown); got != -1 {
		t.Errorf("Rank(unknown type code) = %d; want -1", got)
	}
}
