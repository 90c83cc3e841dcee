package token

import "testing"

func TestPoolInternLookup(t *testing.T) {
	p := NewPool()

	id1 := p.Intern("wff")
	id2 := p.Intern("wff")
	if id1 != id2 {
		t.Fatalf("Intern(\"wff\") returned different ids: %d, %d", id1, id2)
	}
	if id1 == 0 {
		t.Fatal("Intern returned the zero id for a real string")
	}

	id3 := p.Intern("|-")
	if id3 == id1 {
		t.Fatal("distinct strings interned to the same id")
	}

	got, ok := p.Lookup("wff")
	if !ok || got != id1 {
		t.Fatalf("Lookup(\"wff\") = %d, %v; want %d, true", got, ok, id1)
	}

	if _, ok := p.Lookup("class"); ok {
		t.Fatal("Lookup reported a string that was never interned")
	}

	if name := p.Name(id1); name != "wff" {
		t.Fatalf("Name(%d) = %q; want \"wff\"", id1, name)
	}
	if name := p.Name(0); name != "" {
		t.Fatalf("Name(0) = %q; want \"\"", name)
	}
	if name := p.Name(ID(9999)); name != "" {
		t.Fatalf("Name of out-of-range id = %q; want \"\"", name)
	}
}

func TestExpressionTypecodeAndEqual(t *testing.T) {
	p := NewPool()
	wff := p.Intern("wff")
	ph := p.Intern("ph")

	e1 := Expression{{Tok: wff}, {Tok: ph, VarID: 1}}
	e2 := Expression{{Tok: wff}, {Tok: ph, VarID: 1}}
	e3 := Expression{{Tok: wff}, {Tok: ph, VarID: 2}}

	if e1.Typecode() != wff {
		t.Fatalf("Typecode() = %d; want %d", e1.Typecode(), wff)
	}
	if !e1.Equal(e2) {
		t.Fatal("Equal reported distinct identical-content expressions as unequal")
	}
	if e1.Equal(e3) {
		t.Fatal("Equal reported expressions with different VarID as equal")
	}
	if Expression(nil).Typecode() != 0 {
		t.Fatal("Typecode of an empty expression must be 0")
	}
}

func TestExpressionClone(t *testing.T) {
	p := NewPool()
	wff := p.Intern("wff")
	orig := Expression{{Tok: wff}}
	clone := orig.Clone()
	clone[0].Tok = 999

	if orig[0].Tok == 999 {
		t.Fatal("Clone shares backing storage with the original")
	}
}

func TestVarTableDeclareAndFloat(t *testing.T) {
	p := NewPool()
	ph := p.Intern("ph")
	wff := p.Intern("wff")

	vt := NewVarTable()
	id1 := vt.Declare(ph)
	id2 := vt.Declare(ph)
	if id1 != id2 {
		t.Fatalf("Declare returned different ids for the same token: %d, %d", id1, id2)
	}
	if id1 == 0 {
		t.Fatal("Declare returned 0 for a real variable")
	}
	if got := vt.VarID(ph); got != id1 {
		t.Fatalf("VarID(ph) = %d; want %d", got, id1)
	}

	fh := FloatingHyp{Typecode: wff, Var: ph, Label: "wph"}
	vt.SetFloat(id1, fh)
	if got := vt.Float(id1); got != fh {
		t.Fatalf("Float(%d) = %+v; want %+v", id1, got, fh)
	}

	if got := vt.Float(0); got != (FloatingHyp{}) {
		t.Fatal("Float(0) must return the zero value")
	}
	if got := vt.Float(999); got != (FloatingHyp{}) {
		t.Fatal("Float of an undeclared id must return the zero value")
	}
}
