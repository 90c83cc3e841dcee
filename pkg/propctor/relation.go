package propctor

import "github.com/fanzheng1729/hana/pkg/store"

const (
	patternEnd = -2
	lineEnd    = -1
)

// Reltype is a bitmask of the relation properties and fixed inference
// shapes a constructor's justification theorems establish, one bit per
// pattern in patterns().
type Reltype uint16

const (
	Reflexivity Reltype = 1 << iota
	Symmetry
	Transitivity
	AX1
	ID1
	ID2
	ANL
	ANR
	ORL
	ORR
	AN1
	AN2
	AN3
	OR1
	OR2
	OR3
)

const (
	PartialOrder = Reflexivity + Transitivity
	Equivalence  = PartialOrder + Symmetry
	ID12         = ID1 + ID2
	And          = ANL + ANR
	Or           = ORL + ORR
	A3AN         = AN1 + AN2 + AN3
	O3OR         = OR1 + OR2 + OR3
)

// patterns are proof-skeleton templates over a small alphabet: 0 marks
// the position of a THM step applying the constructor being justified,
// a positive int marks a HYP step, with equal ints across (and within)
// lines required to be the identical hypothesis. lineEnd separates one
// essential hypothesis's RPN from the next; the final line is the
// conclusion's RPN.
var patterns = [16][]int{
	{1, 1, 0, patternEnd},                                 // reflexivity: |- x R x
	{1, 2, 0, lineEnd, 2, 1, 0, patternEnd},                // symmetry: x R y |- y R x
	{1, 2, 0, lineEnd, 2, 3, 0, lineEnd, 1, 3, 0, patternEnd}, // transitivity
	{1, 2, 1, 0, 0, patternEnd},                            // ax1: |- P -> (Q -> P)
	{1, lineEnd, 1, 0, patternEnd},                         // id1: once idempotent
	{1, lineEnd, 1, 0, 0, patternEnd},                      // id2: twice idempotent
	{1, 2, 0, lineEnd, 1, patternEnd},                      // anl: P /\ Q |- P
	{1, 2, 0, lineEnd, 2, patternEnd},                      // anr: P /\ Q |- Q
	{1, lineEnd, 1, 2, 0, patternEnd},                      // orl: P |- P \/ Q
	{2, lineEnd, 1, 2, 0, patternEnd},                      // orr: Q |- P \/ Q
	{1, 2, 3, 0, lineEnd, 1, patternEnd},                   // an1: P /\ Q /\ R |- P
	{1, 2, 3, 0, lineEnd, 2, patternEnd},                   // an2
	{1, 2, 3, 0, lineEnd, 3, patternEnd},                   // an3
	{1, lineEnd, 1, 2, 3, 0, patternEnd},                   // or1: P |- P \/ Q \/ R
	{2, lineEnd, 1, 2, 3, 0, patternEnd},                   // or2
	{3, lineEnd, 1, 2, 3, 0, patternEnd},                   // or3
}

// Justifications records, per matched pattern, the lowest-numbered
// assertion found proving that shape, plus the constructor step that
// pattern position 0 resolved to.
type Justifications struct {
	Data [16]*store.Assertion
	Ctor *store.Assertion
}

func (j *Justifications) Type() Reltype {
	var result Reltype
	for i, d := range j.Data {
		if d != nil {
			result |= 1 << uint(i)
		}
	}
	return result
}

// Relations maps a constructor's label to its found justifications.
type Relations map[string]*Justifications

// ByType filters to the relations exactly matching type.
func (r Relations) ByType(t Reltype) Relations {
	out := make(Relations)
	for k, v := range r {
		if v.Type() == t {
			out[k] = v
		}
	}
	return out
}

func stepEqual(a, b store.Step) bool {
	if a.Tag != b.Tag {
		return false
	}
	switch a.Tag {
	case store.StepHyp:
		return a.Hyp == b.Hyp
	case store.StepThm:
		return a.Thm == b.Thm
	default:
		return true
	}
}

func stepUsed(subs []store.Step, step store.Step) bool {
	for _, s := range subs {
		if s.Tag != store.StepNone && stepEqual(s, step) {
			return true
		}
	}
	return false
}

// matchLine consumes len(steps) pattern slots starting at *cur, recording
// or checking substitutions. It fails on a pattern/kind mismatch, a
// substitution conflict, or running past pat's end-of-pattern marker.
func matchLine(steps []store.Step, pat []int, cur *int, subs []store.Step) bool {
	for i := 0; i < len(steps); i++ {
		if *cur >= len(pat) || pat[*cur] < 0 {
			return false
		}
		p := pat[*cur]
		step := steps[i]
		if p == 0 && step.Tag != store.StepThm {
			return false
		}
		if p != 0 && step.Tag != store.StepHyp {
			return false
		}
		if subs[p].Tag == store.StepNone {
			if stepUsed(subs, step) {
				return false
			}
			subs[p] = step
		} else if !stepEqual(subs[p], step) {
			return false
		}
		*cur++
	}
	return true
}

// match reports the step pattern position 0 resolved to, or the zero
// Step if a doesn't match pat.
func match(a *store.Assertion, pat []int) store.Step {
	end := 0
	for pat[end] != patternEnd {
		end++
	}
	argc := 0
	for _, v := range pat[:end] {
		if v > argc {
			argc = v
		}
	}
	subs := make([]store.Step, argc+1)

	cur := 0
	for _, h := range a.EssentialHyps() {
		if !matchLine(h.RPN, pat, &cur, subs) {
			return store.Step{}
		}
		if cur >= len(pat) || pat[cur] != lineEnd {
			return store.Step{}
		}
		cur++
	}
	if !matchLine(a.ExprRPN, pat, &cur, subs) {
		return store.Step{}
	}
	if cur != end {
		return store.Step{}
	}
	return subs[0]
}

// FindRelations scans every assertion's hypotheses and conclusion
// against the 16 fixed relation/inference templates, recording for each
// constructor label the lowest-numbered proof found for each matched
// shape.
func FindRelations(assertions []*store.Assertion) Relations {
	rel := make(Relations)
	for _, a := range assertions {
		for i, pat := range patterns {
			step := match(a, pat)
			if step.Tag == store.StepNone || step.Thm == nil {
				continue
			}
			label := step.Thm.Label
			just := rel[label]
			if just == nil {
				just = &Justifications{}
				rel[label] = just
			}
			just.Ctor = step.Thm
			if just.Data[i] == nil || just.Data[i].Number > a.Number {
				just.Data[i] = a
			}
			break
		}
	}
	return rel
}
