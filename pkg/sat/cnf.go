// Package sat implements the CNF model, a sound and complete backtracking
// DPLL decision procedure, and the truth-table <-> CNF conversions the
// propositional-constructor database and validity oracle are built on
// (spec component E).
package sat

// Atom indexes a boolean variable. Literal packs an atom and its sense:
// 2*atom+sense, sense 0 positive, sense 1 negative.
type Atom int
type Literal int

// Lit builds the literal for atom with the given sense.
func Lit(atom Atom, negative bool) Literal {
	if negative {
		return Literal(2*int(atom) + 1)
	}
	return Literal(2 * int(atom))
}

func (l Literal) Atom() Atom      { return Atom(l / 2) }
func (l Literal) Negative() bool  { return l%2 == 1 }
func (l Literal) Negate() Literal { return l ^ 1 }

// TriState is the single tri-state value a CNF model assigns to an atom.
// Values are fixed at Unknown=2, False=0, True=1 so that the DPLL state
// machine's transitions (Unknown -> False -> True -> backtrack-to-Unknown)
// are exactly "try the next state in this cycle."
type TriState uint8

const (
	False   TriState = 0
	True    TriState = 1
	Unknown TriState = 2
)

// Model maps atom -> assignment.
type Model []TriState

func NewModel(n int) Model {
	m := make(Model, n)
	for i := range m {
		m[i] = Unknown
	}
	return m
}

// Test returns the sense-adjusted value of a literal, or Unknown if its
// atom is unassigned.
func (m Model) Test(l Literal) TriState {
	v := m[l.Atom()]
	if v == Unknown {
		return Unknown
	}
	if l.Negative() {
		if v == True {
			return False
		}
		return True
	}
	return v
}

// Assign forces a literal true by setting its atom accordingly.
func (m Model) Assign(l Literal) {
	if l.Negative() {
		m[l.Atom()] = False
	} else {
		m[l.Atom()] = True
	}
}

// ClauseSat is the satisfaction status of a clause under a partial model.
type ClauseSat int

const (
	Undecided ClauseSat = iota
	Unit
	Contradictory
	Satisfied
)

// Clause is a disjunction of literals.
type Clause []Literal

// Sat reports the clause's status under model, and (for Unit/Undecided)
// the index of an unassigned literal.
func (c Clause) Sat(m Model) (ClauseSat, int) {
	noneFound := false
	oldAtom := Atom(-1)
	unitIndex := 0

	for i, lit := range c {
		switch m.Test(lit) {
		case Unknown:
			if noneFound && lit.Atom() != oldAtom {
				return Undecided, unitIndex
			}
			noneFound = true
			oldAtom = lit.Atom()
			unitIndex = i
		case True:
			return Satisfied, 0
		case False:
			// contributes nothing
		}
	}
	if noneFound {
		return Unit, unitIndex
	}
	return Contradictory, unitIndex
}

// Clauses is a CNF formula: a sequence of clauses, all implicitly
// conjoined. An empty Clause within it is a permanently unsatisfiable
// clause.
type Clauses []Clause

func (c Clauses) HasEmptyClause() bool {
	for _, cl := range c {
		if len(cl) == 0 {
			return true
		}
	}
	return false
}

// AtomCount returns 1 + the highest atom index referenced, or 1 for an
// instance with no literals at all.
func (c Clauses) AtomCount() Atom {
	max := Atom(0)
	for _, cl := range c {
		for _, lit := range cl {
			if a := lit.Atom(); a > max {
				max = a
			}
		}
	}
	return max + 1
}

// CloseOff appends a unit clause containing lit alone.
func (c *Clauses) CloseOff(lit Literal) {
	*c = append(*c, Clause{lit})
}

// CloseOffLast appends a unit clause forcing the last (highest-indexed)
// atom, positively unless negate.
func (c *Clauses) CloseOffLast(negate bool) {
	last := c.AtomCount() - 1
	c.CloseOff(Lit(last, negate))
}

// Append copies other's clauses onto c, remapping its atoms: an atom below
// len(argList) becomes argList[atom] (sense-adjusted by XOR), an atom at or
// above len(argList) becomes a fresh atom starting at atomCount. atomCount
// and argList are passed separately so the caller can build argList from a
// stack of already-assigned literals without a contiguous backing atom
// range.
func (c *Clauses) Append(other Clauses, atomCount Atom, argList []Literal) {
	argCount := Atom(len(argList))
	old := len(*c)
	*c = append(*c, make(Clauses, len(other))...)
	for i, cl := range other {
		mapped := make(Clause, len(cl))
		for j, lit := range cl {
			if lit.Atom() < argCount {
				mapped[j] = argList[lit.Atom()] ^ Literal(int(lit)&1)
			} else {
				mapped[j] = lit + Literal(int(atomCount-argCount)*2)
			}
		}
		(*c)[old+i] = mapped
	}
}

// okaySoFar reports whether no clause is yet contradictory under model.
func (c Clauses) okaySoFar(m Model) bool {
	for _, cl := range c {
		if status, _ := cl.Sat(m); status == Contradictory {
			return false
		}
	}
	return true
}

// Sat is the reference decision procedure: a backtracking DPLL without
// unit propagation or pure-literal elimination. It always terminates with
// a definite SAT/UNSAT answer.
func (c Clauses) Sat() bool {
	if c.HasEmptyClause() {
		return false
	}
	n := int(c.AtomCount())
	if n == 0 {
		return true
	}
	model := NewModel(n)
	atom := 0

	for {
		switch model[atom] {
		case Unknown:
			model[atom] = False
			if c.okaySoFar(model) {
				atom++
				if atom == n {
					return true
				}
			}
		case False:
			model[atom] = True
			if c.okaySoFar(model) {
				atom++
				if atom == n {
					return true
				}
			}
		case True:
			for {
				model[atom] = Unknown
				if atom == 0 {
					return false
				}
				atom--
				if model[atom] != True {
					break
				}
			}
		}
	}
}

// TruthTable enumerates the 2^nfree assignments of the first nfree atoms
// (clamped to the machine word width and to the instance's atom count) and
// records, for each, whether the remaining instance is satisfiable.
func (c Clauses) TruthTable(nfree int) []bool {
	const maxWordAtoms = 62
	if nfree > maxWordAtoms {
		nfree = maxWordAtoms
	}
	if ac := int(c.AtomCount()); nfree > ac {
		nfree = ac
	}

	size := 1 << uint(nfree)
	tt := make([]bool, size)
	if c.HasEmptyClause() {
		return tt
	}

	base := len(c)
	work := make(Clauses, base, base+nfree)
	copy(work, c)

	for arg := 0; arg < size; arg++ {
		for i := 0; i < nfree; i++ {
			bit := (arg >> uint(i)) & 1
			work = append(work, Clause{Lit(Atom(i), bit == 0)})
		}
		tt[arg] = work.Sat()
		work = work[:base]
	}
	return tt
}

// Log2 is floor(log2(n)) with Log2(0) = 0, matching the boundary
// behaviors required of the shift-count arithmetic used throughout this
// package: Log2(2^k-1) = k-1, Log2(2^k) = k.
func Log2(n int) int {
	if n <= 0 {
		return 0
	}
	r := 0
	for (1 << uint(r+1)) <= n {
		r++
	}
	return r
}
