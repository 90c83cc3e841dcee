// Package propctor is the propositional-connective database (spec
// component F): the subset of syntax constructors ("wff (ph -> ps)" and
// the like) whose every hypothesis and conclusion is floating and typed
// "wff", recorded here with a truth table over their arguments and the
// CNF clauses equivalent to it. The oracle builds a SAT instance for a
// propositional assertion by stitching together these per-connective
// CNFs along the assertion's proof tree.
package propctor

import (
	"github.com/fanzheng1729/hana/pkg/sat"
	"github.com/fanzheng1729/hana/pkg/store"
	"github.com/fanzheng1729/hana/pkg/token"
)

// Propctor is one propositional syntax constructor's derived data.
type Propctor struct {
	Label      string
	ArgCount   int
	TruthTable []bool
	CNF        sat.Clauses
}

// Propctors is the database of known propositional connectives, keyed by
// assertion label.
type Propctors map[string]*Propctor

func New() Propctors { return make(Propctors) }

// TruthTableSize returns the size of a's truth table (2^argcount) if a is
// eligible to be a propositional syntax constructor — conclusion and
// every hypothesis floating and of type code wff — or 0 otherwise.
func TruthTableSize(a *store.Assertion, wff token.ID) int {
	if len(a.Expr) == 0 || a.Expr.Typecode() != wff {
		return 0
	}
	n := 1
	for _, h := range a.Hyps {
		if !h.Float || h.Expr.Typecode() != wff {
			return 0
		}
		n *= 2
	}
	return n
}

// checkPropctor verifies the round trip: closing off the output atom
// true and reading back the free-input truth table reproduces
// TruthTable, and the stored CNF's atom count is exactly ArgCount+1.
func checkPropctor(p *Propctor) bool {
	if len(p.TruthTable) != 1<<uint(p.ArgCount) {
		return false
	}
	if int(p.CNF.AtomCount()) != p.ArgCount+1 {
		return false
	}
	closed := append(sat.Clauses{}, p.CNF...)
	closed.CloseOffLast(false)
	got := closed.TruthTable(p.ArgCount)
	if len(got) != len(p.TruthTable) {
		return false
	}
	for i := range got {
		if got[i] != p.TruthTable[i] {
			return false
		}
	}
	return true
}

// AddBatch seeds every constructor justified (by FindRelations) as a
// member of batch with a literal truth table tt, e.g. iff's [T,F,F,T]
// for an Equivalence-typed batch. It returns the count added.
func (p Propctors) AddBatch(batch Relations, tt []bool, wff token.ID) int {
	count := 0
	for _, just := range batch {
		if just.Ctor == nil {
			continue
		}
		size := TruthTableSize(just.Ctor, wff)
		if size == 0 || size != len(tt) {
			continue
		}
		pc := &Propctor{
			Label:      just.Ctor.Label,
			ArgCount:   sat.Log2(size),
			TruthTable: append([]bool(nil), tt...),
		}
		pc.CNF = sat.BuildCNF(pc.TruthTable)
		if !checkPropctor(pc) {
			continue
		}
		p[pc.Label] = pc
		count++
	}
	return count
}

// Definition is a `$j definition` directive: the assertion it defines,
// and the RPN/AST of its right-hand side in terms of that assertion's
// own floating hypotheses and previously-defined constructors.
type Definition struct {
	Assertion *store.Assertion
	RHS       []store.Step
	RHSAst    store.AST
}

// AddDef computes label's truth table from its definition's propositional
// skeleton and records it, recursively adding any constructor the
// skeleton depends on that isn't in the database yet. It fails (false)
// if the definition can't be reduced to a skeleton, or the resulting
// truth table depends on the pseudo-variables the skeleton abstracted
// in (meaning the definition isn't actually propositional after all).
func (p Propctors) AddDef(defs map[string]*Definition, label string, wff token.ID) (*Propctor, bool) {
	if pc, ok := p[label]; ok {
		return pc, true
	}
	def, ok := defs[label]
	if !ok || def.Assertion == nil {
		return nil, false
	}

	bank := NewBank()
	skel, ok := Skeleton(def.RHS, def.RHSAst, bank, func(a *store.Assertion) bool {
		return TruthTableSize(a, wff) > 0
	})
	if !ok {
		return nil, false
	}

	floats := def.Assertion.FloatingHyps()
	realArgCount := len(floats)
	totalArgCount := realArgCount + bank.VarCount()
	size := 1 << uint(totalArgCount)
	tt := make([]bool, size)
	for arg := 0; arg < size; arg++ {
		v, ok := p.calcBool(defs, floats, bank.Hypotheses(), skel, arg, wff)
		if !ok {
			return nil, false
		}
		tt[arg] = v
	}

	realSize := 1 << uint(realArgCount)
	if !periodic(tt, realSize) {
		return nil, false
	}
	tt = tt[:realSize]

	pc := &Propctor{Label: label, ArgCount: realArgCount, TruthTable: tt, CNF: sat.BuildCNF(tt)}
	if !checkPropctor(pc) {
		return nil, false
	}
	p[label] = pc
	return pc, true
}

// calcBool evaluates skel with arg's bits assigned to floats then
// bankVars (floats first, lowest bit), recursively resolving any
// constructor referenced that isn't in the database yet via defs.
func (p Propctors) calcBool(defs map[string]*Definition, floats, bankVars []*store.Hypothesis, skel []store.Step, arg int, wff token.ID) (bool, bool) {
	var stack []bool
	for _, step := range skel {
		switch step.Tag {
		case store.StepHyp:
			idx := hypIndex(floats, bankVars, step.Hyp)
			if idx < 0 {
				return false, false
			}
			stack = append(stack, (arg>>uint(idx))&1 != 0)

		case store.StepThm:
			ctor, ok := p[step.Thm.Label]
			if !ok {
				if _, ok2 := defs[step.Thm.Label]; !ok2 {
					return false, false
				}
				c, ok3 := p.AddDef(defs, step.Thm.Label, wff)
				if !ok3 {
					return false, false
				}
				ctor = c
			}
			if len(stack) < ctor.ArgCount {
				return false, false
			}
			sub := 0
			for i := 0; i < ctor.ArgCount; i++ {
				top := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				sub <<= 1
				if top {
					sub |= 1
				}
			}
			stack = append(stack, ctor.TruthTable[sub])

		default:
			return false, false
		}
	}
	if len(stack) != 1 {
		return false, false
	}
	return stack[0], true
}

func hypIndex(floats, bankVars []*store.Hypothesis, h *store.Hypothesis) int {
	for i, f := range floats {
		if f == h {
			return i
		}
	}
	for i, v := range bankVars {
		if v == h {
			return len(floats) + i
		}
	}
	return -1
}

// periodic reports whether tt[i] == tt[i % period] for every i, i.e.
// whether tt is independent of the bits beyond the first period ones.
func periodic(tt []bool, period int) bool {
	for i := period; i < len(tt); i++ {
		if tt[i] != tt[i%period] {
			return false
		}
	}
	return true
}

// hypIndexOf returns the index of h in hyps by pointer identity, or -1.
func hypIndexOf(hyps []*store.Hypothesis, h *store.Hypothesis) int {
	for i, x := range hyps {
		if x == h {
			return i
		}
	}
	return -1
}

// AddClause appends the clauses needed to compute rpn's value as a fresh
// atom to cnf, given that hyps[i] is already wired to atom i. natom is
// the next atom to allocate; it is advanced by one fresh atom per
// connective-application step (plus, for the single-hypothesis
// degenerate RPN, one pair of equivalence clauses).
func (p Propctors) AddClause(rpn []store.Step, ast store.AST, hyps []*store.Hypothesis, cnf *sat.Clauses, natom *sat.Atom) bool {
	if len(ast) == 0 {
		return false
	}
	literals := make([]sat.Literal, len(rpn))
	for i, step := range rpn {
		switch step.Tag {
		case store.StepHyp:
			idx := hypIndexOf(hyps, step.Hyp)
			if idx < 0 {
				return false
			}
			literals[i] = sat.Lit(sat.Atom(idx), false)
			if len(rpn) != 1 {
				continue
			}
			addLitAtomEquiv(cnf, literals[i], *natom)
			*natom++
			return true

		case store.StepThm:
			ctor, ok := p[step.Thm.Label]
			if !ok {
				return false
			}
			args := make([]sat.Literal, len(ast[i]))
			for j, child := range ast[i] {
				args[j] = literals[child]
			}
			cnf.Append(ctor.CNF, *natom, args)
			literals[i] = sat.Lit(*natom, false)
			*natom++

		default:
			return false
		}
	}
	return true
}

// addLitAtomEquiv adds the two clauses equating literal lit with a fresh
// atom in the positive sense: (lit v !atom) and (!lit v atom).
func addLitAtomEquiv(cnf *sat.Clauses, lit sat.Literal, atom sat.Atom) {
	*cnf = append(*cnf, sat.Clause{lit, sat.Lit(atom, true)})
	*cnf = append(*cnf, sat.Clause{lit.Negate(), sat.Lit(atom, false)})
}
