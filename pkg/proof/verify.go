// Package proof implements the proof-term verifier (spec component D): it
// executes an RPN proof step sequence against a substitution stack,
// enforcing disjoint-variable discipline, and the compressed-proof codec.
package proof

import (
	"github.com/fanzheng1729/hana/pkg/mmerr"
	"github.com/fanzheng1729/hana/pkg/store"
	"github.com/fanzheng1729/hana/pkg/token"
)

// DVSet is a disjoint-variable pair set with O(1) membership, built once
// from an assertion's DV list rather than re-scanned per lookup.
type DVSet map[store.DVPair]bool

func NewDVSet(pairs []store.DVPair) DVSet {
	s := make(DVSet, len(pairs))
	for _, p := range pairs {
		s[p] = true
	}
	return s
}

func (s DVSet) Contains(a, b token.ID) bool {
	return s[store.NewDVPair(a, b)]
}

// Substitution maps a floating variable's token to the expression it binds
// to (the remainder of the matched stack entry after its type code).
type Substitution map[token.ID]token.Expression

// Apply substitutes every variable symbol in e per sub, leaving constants
// and unbound variables untouched.
func Apply(e token.Expression, sub Substitution) token.Expression {
	out := make(token.Expression, 0, len(e))
	for _, s := range e {
		if s.IsVariable() {
			if repl, ok := sub[s.Tok]; ok {
				out = append(out, repl...)
				continue
			}
		}
		out = append(out, s)
	}
	return out
}

// VarsOf returns the distinct variable tokens appearing in e.
func VarsOf(e token.Expression) []token.ID {
	seen := make(map[token.ID]bool)
	var out []token.ID
	for _, s := range e {
		if s.IsVariable() && !seen[s.Tok] {
			seen[s.Tok] = true
			out = append(out, s.Tok)
		}
	}
	return out
}

// Verify executes rpn on a substitution stack and returns the single
// resulting expression, or the first verification error. ambientDV is the
// disjoint-variable set in force (the assertion being proved, or the
// environment's set during search). rpn may contain the LOAD/SAVE steps
// of a decoded compressed proof alongside StepHyp and StepThm steps:
// Verify executes them directly, so a compressed proof is verified
// without an intermediate regular-proof materialization.
func Verify(label string, rpn []store.Step, ambientDV DVSet, pool *token.Pool) (token.Expression, error) {
	var stack []token.Expression
	var saveStack []token.Expression

	for i, step := range rpn {
		switch step.Tag {
		case store.StepHyp:
			stack = append(stack, step.Hyp.Expr)

		case store.StepSave:
			if len(stack) == 0 {
				return nil, &mmerr.StackUnderflow{Label: label, Step: i}
			}
			saveStack = append(saveStack, stack[len(stack)-1])

		case store.StepLoad:
			if step.Index < 0 || step.Index >= len(saveStack) {
				return nil, &mmerr.SaveIndexOut{Label: label, Index: step.Index}
			}
			stack = append(stack, saveStack[step.Index])

		case store.StepThm:
			a := step.Thm
			k := len(a.Hyps)
			if len(stack) < k {
				return nil, &mmerr.StackUnderflow{Label: label, Step: i}
			}
			args := stack[len(stack)-k:]

			sub := make(Substitution, k)
			for j, h := range a.Hyps {
				if !h.Float {
					continue
				}
				entry := args[j]
				if len(entry) == 0 || entry.Typecode() != h.Expr.Typecode() {
					return nil, &mmerr.UnificationFailure{
						Label: label, Step: i, Hyp: h.Label,
					}
				}
				sub[h.Var] = entry[1:].Clone()
			}
			for j, h := range a.Hyps {
				if h.Float {
					continue
				}
				want := Apply(h.Expr, sub)
				if !want.Equal(args[j]) {
					return nil, &mmerr.UnificationFailure{Label: label, Step: i, Hyp: h.Label}
				}
			}
			for _, pair := range a.DV {
				xs := VarsOf(sub[pair.A])
				ys := VarsOf(sub[pair.B])
				for _, x := range xs {
					for _, y := range ys {
						if x == y || !ambientDV.Contains(x, y) {
							return nil, &mmerr.DisjointViolation{A: pool.Name(x), B: pool.Name(y)}
						}
					}
				}
			}

			stack = stack[:len(stack)-k]
			stack = append(stack, Apply(a.Expr, sub))
		}
	}

	if len(stack) != 1 {
		return nil, &mmerr.Mismatch{Label: label}
	}
	return stack[0], nil
}

// VerifyAssertion verifies an assertion's stored proof and requires the
// resulting expression to equal the assertion's stated conclusion.
func VerifyAssertion(a *store.Assertion, pool *token.Pool) error {
	if a.Proof == nil {
		return nil // bare axiom, nothing to check
	}
	got, err := Verify(a.Label, a.Proof, NewDVSet(a.DV), pool)
	if err != nil {
		return err
	}
	if !got.Equal(a.Expr) {
		return &mmerr.Mismatch{Label: a.Label}
	}
	return nil
}
