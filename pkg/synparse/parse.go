// Package synparse recovers the well-formedness parse of a flat math
// expression against a database's syntax axioms (spec component C): a
// memoized recursive descent over "which syntax axiom could have
// produced the tokens starting here", caching every (type code,
// position) pair so that a position shared by several candidate parses
// is only ever explored once.
package synparse

import (
	"github.com/fanzheng1729/hana/pkg/store"
	"github.com/fanzheng1729/hana/pkg/token"
)

// Match is one way a type code can be parsed out of an expression
// starting at some position: the position just past the match, and the
// RPN/AST of the well-formedness proof recovered for it.
type Match struct {
	End int
	RPN []store.Step
	AST store.AST
}

type memoKey struct {
	Type token.ID
	Pos  int
}

// Parser holds the memo tables for one parsing pass. A Parser is not
// safe for concurrent use; callers needing concurrency should use one
// Parser per goroutine (the syntax axiom set is read-only, so this is
// cheap).
type Parser struct {
	DB      *store.Database
	memo    map[memoKey][]Match
	working map[memoKey]bool
}

func NewParser(db *store.Database) *Parser {
	return &Parser{
		DB:      db,
		memo:    make(map[memoKey][]Match),
		working: make(map[memoKey]bool),
	}
}

// ParseAt returns every way typecode can be matched starting at pos in
// exp. A position already on the call stack for the same type code is
// treated as no match, guarding against a syntax axiom whose first
// symbol is itself a variable of its own type code.
func (p *Parser) ParseAt(typecode token.ID, exp []token.Symbol, pos int) []Match {
	key := memoKey{typecode, pos}
	if m, ok := p.memo[key]; ok {
		return m
	}
	if p.working[key] {
		return nil
	}
	p.working[key] = true
	defer delete(p.working, key)

	var matches []Match

	if pos < len(exp) && exp[pos].IsVariable() {
		fh := p.DB.Vars.Float(exp[pos].VarID)
		if fh.Typecode == typecode {
			matches = append(matches, Match{
				End: pos + 1,
				RPN: []store.Step{store.HypStep(p.DB.Hyps[fh.Label])},
				AST: store.AST{nil},
			})
		}
	}

	for _, a := range p.DB.SyntaxAxioms {
		if a.Expr.Typecode() != typecode {
			continue
		}
		matches = append(matches, p.matchAxiom(a, exp, pos)...)
	}

	p.memo[key] = matches
	return matches
}

// matchAxiom tries every way a's conclusion pattern (its expression,
// less the leading type-code symbol) can be matched starting at pos.
func (p *Parser) matchAxiom(a *store.Assertion, exp []token.Symbol, pos int) []Match {
	pattern := a.Expr[1:]
	return p.matchPattern(a, pattern, 0, exp, pos, nil)
}

// matchPattern walks pattern[pi:] against exp starting at cur. A
// constant symbol must match literally; a variable symbol recurses into
// ParseAt for its type code and branches over every alternative found.
// children accumulates, in pattern order, the Match recovered for each
// variable slot consumed so far.
func (p *Parser) matchPattern(a *store.Assertion, pattern token.Expression, pi int, exp []token.Symbol, cur int, children []Match) []Match {
	if pi == len(pattern) {
		return []Match{p.assemble(a, children, cur)}
	}

	sym := pattern[pi]
	if !sym.IsVariable() {
		if cur >= len(exp) || exp[cur].Tok != sym.Tok {
			return nil
		}
		return p.matchPattern(a, pattern, pi+1, exp, cur+1, children)
	}

	fh := p.DB.Vars.Float(sym.VarID)
	var out []Match
	for _, m := range p.ParseAt(fh.Typecode, exp, cur) {
		out = append(out, p.matchPattern(a, pattern, pi+1, exp, m.End, append(append([]Match(nil), children...), m))...)
	}
	return out
}

// assemble stitches the per-variable-slot child matches together with
// a's own THM step into one Match, concatenating each child's RPN and
// shifting its AST indices to the child's new offset within the result.
func (p *Parser) assemble(a *store.Assertion, children []Match, end int) Match {
	var rpn []store.Step
	var ast store.AST
	roots := make([]int, len(children))

	for i, c := range children {
		offset := len(rpn)
		for _, ch := range c.AST {
			shifted := make([]int, len(ch))
			for j, idx := range ch {
				shifted[j] = idx + offset
			}
			ast = append(ast, shifted)
		}
		rpn = append(rpn, c.RPN...)
		roots[i] = offset + len(c.RPN) - 1
	}
	rpn = append(rpn, store.ThmStep(a))
	ast = append(ast, roots)

	return Match{End: end, RPN: rpn, AST: ast}
}
