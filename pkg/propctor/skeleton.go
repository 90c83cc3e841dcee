package propctor

import "github.com/fanzheng1729/hana/pkg/store"

// Skeleton returns the propositional skeleton of rpn: an RPN in which
// every maximal propositional-constructor subtree (as judged by
// isPropositional) is kept verbatim, and every subtree rooted at a
// non-propositional step is collapsed to a single pseudo-variable
// hypothesis step allocated from bank. It fails if rpn and ast disagree
// on length or either is empty.
func Skeleton(rpn []store.Step, ast store.AST, bank *Bank, isPropositional func(*store.Assertion) bool) ([]store.Step, bool) {
	if len(rpn) == 0 || len(rpn) != len(ast) {
		return nil, false
	}
	var result []store.Step
	if !skeletonAt(rpn, ast, len(rpn)-1, bank, isPropositional, &result) {
		return nil, false
	}
	return result, true
}

func skeletonAt(rpn []store.Step, ast store.AST, root int, bank *Bank, isPropositional func(*store.Assertion) bool, out *[]store.Step) bool {
	step := rpn[root]
	switch step.Tag {
	case store.StepHyp:
		*out = append(*out, step)
		return true

	case store.StepThm:
		if isPropositional(step.Thm) {
			for _, child := range ast[root] {
				if !skeletonAt(rpn, ast, child, bank, isPropositional, out) {
					return false
				}
			}
			*out = append(*out, step)
			return true
		}
		sub := subtree(rpn, ast, root)
		h := bank.AddAbsVar(sub)
		*out = append(*out, store.HypStep(h))
		return true

	default:
		return false
	}
}

// subtree extracts the contiguous RPN range spanning root's subtree: a
// well-formed RPN's subtree is exactly the steps from its leftmost
// descendant's index up to and including root.
func subtree(rpn []store.Step, ast store.AST, root int) []store.Step {
	start := subtreeStart(ast, root)
	out := make([]store.Step, root-start+1)
	copy(out, rpn[start:root+1])
	return out
}

func subtreeStart(ast store.AST, root int) int {
	start := root
	for _, c := range ast[root] {
		if s := subtreeStart(ast, c); s < start {
			start = s
		}
	}
	return start
}
