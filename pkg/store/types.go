// Package store holds the immutable fact model: symbols, hypotheses,
// assertions, and the proof-term shapes (steps, AST) that the verifier and
// search machinery operate over. Everything here is created during ingest
// and is immutable afterward; downstream packages borrow it by pointer.
package store

import "github.com/fanzheng1729/hana/pkg/token"

// StepTag discriminates the four kinds of proof step. Well-formedness
// RPNs (Hypothesis.RPN, Assertion.ExprRPN) use only Hyp/Thm; Load/Save
// appear only in an Assertion.Proof decoded from a compressed proof.
type StepTag uint8

const (
	StepNone StepTag = iota
	StepHyp
	StepThm
	StepLoad
	StepSave
)

// Step is a single proof-term instruction, expressed as an explicit sum
// type rather than a raw tagged union: every decode or verify site must
// switch on Tag and handle all four cases.
type Step struct {
	Tag   StepTag
	Hyp   *Hypothesis
	Thm   *Assertion
	Index int
}

func HypStep(h *Hypothesis) Step { return Step{Tag: StepHyp, Hyp: h} }
func ThmStep(a *Assertion) Step  { return Step{Tag: StepThm, Thm: a} }
func LoadStep(i int) Step        { return Step{Tag: StepLoad, Index: i} }
func SaveStep() Step              { return Step{Tag: StepSave} }

// Label returns the step's referenced label, or "" for LOAD/SAVE.
func (s Step) Label() string {
	switch s.Tag {
	case StepHyp:
		return s.Hyp.Label
	case StepThm:
		return s.Thm.Label
	default:
		return ""
	}
}

// Expr returns the expression a step contributes to the verifier's stack,
// valid only for StepHyp and StepThm.
func (s Step) Expr() token.Expression {
	switch s.Tag {
	case StepHyp:
		return s.Hyp.Expr
	case StepThm:
		return s.Thm.Expr
	default:
		return nil
	}
}

// AST records, for every index i in an RPN, the indices into the same RPN
// of the immediate child roots of the step rooted at i. For a THM step at
// i, len(AST[i]) equals the hypothesis count of the referenced assertion
// and every child index is < i.
type AST [][]int

// DVPair is an unordered pair of variable tokens required to denote
// disjoint variables after substitution. A is always < B.
type DVPair struct {
	A, B token.ID
}

func NewDVPair(a, b token.ID) DVPair {
	if a > b {
		a, b = b, a
	}
	return DVPair{A: a, B: b}
}

// Hypothesis is a floating hypothesis ([typecode, variable]) or an
// essential hypothesis (an arbitrary expression).
type Hypothesis struct {
	Label string
	Expr  token.Expression
	Float bool
	Var   token.ID // the floating variable's token id, valid iff Float
	RPN   []Step   // well-formedness parse of Expr, recovered by the syntactic parser
	AST   AST
}

// TypeFlag is a bitmask classifying an assertion.
type TypeFlag uint16

const (
	Axiom TypeFlag = 1 << iota
	Trivial
	Duplicate
	NoUse
	NoNewProof
	Propositional
)

func (t TypeFlag) Has(f TypeFlag) bool { return t&f != 0 }

// Assertion is an immutable axiom or theorem.
type Assertion struct {
	Label  string
	Number int // 1-based creation order; a theorem may reference only a lower-numbered assertion
	Expr   token.Expression
	Hyps   []*Hypothesis // floating first (declaration order), then essential (source order)
	DV     []DVPair

	// VarUsage maps a variable token used anywhere in this assertion to a
	// bit vector of length len(Hyps)+1: bit i set means the variable
	// appears in Hyps[i].Expr, and the last bit means it appears in Expr.
	VarUsage map[token.ID][]bool

	ExprRPN []Step
	ExprAST AST

	Type  TypeFlag
	Proof []Step // the assertion's own verified proof RPN; nil for a bare axiom
}

func (a *Assertion) EssentialHyps() []*Hypothesis {
	var out []*Hypothesis
	for _, h := range a.Hyps {
		if !h.Float {
			out = append(out, h)
		}
	}
	return out
}

func (a *Assertion) FloatingHyps() []*Hypothesis {
	var out []*Hypothesis
	for _, h := range a.Hyps {
		if h.Float {
			out = append(out, h)
		}
	}
	return out
}

// IsSyntaxAxiom reports whether a is a syntax axiom: its conclusion's type
// code is a primitive type code (recorded by the database) and it has no
// essential hypotheses.
func (a *Assertion) IsSyntaxAxiom(primitive map[token.ID]bool) bool {
	if len(a.Expr) == 0 || !primitive[a.Expr.Typecode()] {
		return false
	}
	for _, h := range a.Hyps {
		if !h.Float {
			return false
		}
	}
	return true
}

// Database is the whole immutable fact store produced by ingest.
type Database struct {
	Pool *token.Pool
	Vars *token.VarTable

	Assertions []*Assertion
	ByLabel    map[string]*Assertion
	Hyps       map[string]*Hypothesis

	Constants map[token.ID]bool
	// Primitive is the set of type codes: constants that appear as the
	// type code of some floating hypothesis (set by Builder.AddFloating).
	Primitive map[token.ID]bool

	SyntaxAxioms []*Assertion
}

func NewDatabase() *Database {
	return &Database{
		Pool:      token.NewPool(),
		Vars:      token.NewVarTable(),
		ByLabel:   make(map[string]*Assertion),
		Hyps:      make(map[string]*Hypothesis),
		Constants: make(map[token.ID]bool),
		Primitive: make(map[token.ID]bool),
	}
}

// RPNToAST rebuilds the AST of an RPN by replaying the verifier's stack
// discipline: pushing a THM step's children is exactly the top len(hyps)
// stack entries' origin indices. It assumes rpn is a valid proof (every
// THM step has enough antecedents on the stack) and never handles
// LOAD/SAVE, which do not appear in stored RPNs.
func RPNToAST(rpn []Step) AST {
	ast := make(AST, len(rpn))
	var stack []int // indices (into rpn) of roots currently on the stack
	for i, s := range rpn {
		switch s.Tag {
		case StepHyp:
			stack = append(stack, i)
			ast[i] = nil
		case StepThm:
			k := len(s.Thm.Hyps)
			if k > len(stack) {
				k = len(stack)
			}
			children := make([]int, k)
			copy(children, stack[len(stack)-k:])
			stack = stack[:len(stack)-k]
			ast[i] = children
			stack = append(stack, i)
		}
	}
	return ast
}
