package database

import (
	"testing"

	"github.com/fanzheng1729/hana/pkg/store"
)

// buildFixture assembles a tiny two-assertion database by hand through
// store.Builder, without going through the tokenizer or syntactic parser:
//   - "wid" is a syntax axiom (conclusion typecode "wff", already primitive
//     from the "wph" floating hypothesis, no essential hypotheses).
//   - "id" is trivial: its conclusion is literally its own essential
//     hypothesis "min".
func buildFixture(t *testing.T) *store.Database {
	t.Helper()
	b := store.NewBuilder()

	for _, c := range []string{"wff", "|-"} {
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

	if _, err := b.BeginAssertion("wid", []string{"wff", "ph"}, true); err != nil {
		t.Fatalf("BeginAssertion(wid): %v", err)
	}

	if _, err := b.AddEssential("min", []string{"|-", "ph"}); err != nil {
		t.Fatalf("AddEssential: %v", err)
	}
	if _, err := b.BeginAssertion("id", []string{"|-", "ph"}, false); err != nil {
		t.Fatalf("BeginAssertion(id): %v", err)
	}

	if err := b.CloseScope(); err == nil {
		t.Fatal("CloseScope should fail: no matching OpenScope")
	}

	return b.DB
}

func TestIsTrivial(t *testing.T) {
	db := buildFixture(t)
	id := db.ByLabel["id"]
	wid := db.ByLabel["wid"]

	if !isTrivial(id) {
		t.Error("id's conclusion textually matches its own essential hypothesis; want Trivial")
	}
	if isTrivial(wid) {
		t.Error("wid has no hypotheses at all; must not be Trivial")
	}
}

func TestIsPropositionalExcludesSyntaxAxioms(t *testing.T) {
	db := buildFixture(t)
	wid := db.ByLabel["wid"]
	id := db.ByLabel["id"]

	wid.ExprRPN = []store.Step{store.HypStep(db.Hyps["wph"])}
	if isPropositional(wid, db.Primitive) {
		t.Error("a syntax axiom must never be classified Propositional, even with ExprRPN set")
	}

	if isPropositional(id, db.Primitive) {
		t.Error("id has no ExprRPN yet; must not be Propositional")
	}
	id.ExprRPN = []store.Step{store.HypStep(db.Hyps["min"])}
	if !isPropositional(id, db.Primitive) {
		t.Error("id is not a syntax axiom and now has an ExprRPN; want Propositional")
	}
}

func TestClassifySetsBothFlagsTogether(t *testing.T) {
	db := buildFixture(t)
	id := db.ByLabel["id"]
	id.ExprRPN = []store.Step{store.HypStep(db.Hyps["min"])}

	Classify(db)

	if !id.Type.Has(store.Trivial) {
		t.Error("Classify did not set Trivial on id")
	}
	if !id.Type.Has(store.Propositional) {
		t.Error("Classify did not set Propositional on id")
	}

	wid := db.ByLabel["wid"]
	if wid.Type.Has(store.Trivial) || wid.Type.Has(store.Propositional) {
		t.Error("Classify incorrectly flagged the syntax axiom wid")
	}
}
