package database

import (
	"github.com/sirupsen/logrus"

	"github.com/fanzheng1729/hana/pkg/mmerr"
	"github.com/fanzheng1729/hana/pkg/store"
	"github.com/fanzheng1729/hana/pkg/synparse"
	"github.com/fanzheng1729/hana/pkg/token"
)

// wffConstant is the name of the distinguished propositional type code
// (spec §3 Truth table, §4.F): every judgement's body — the part after
// its leading turnstile-like symbol — is wff-typed, never the judgement
// symbol itself, so the well-formedness parser is always asked for a wff
// parse of body, not for a parse of the whole leading-symbol-typed
// expression (spec §8's worked example parses "( p -> p )", not
// "|- ( p -> p )").
const wffConstant = "wff"

// parseWellFormedness recovers RPN/AST for every essential hypothesis and
// assertion body via the syntactic parser. A floating hypothesis needs
// no parse of its own (the parser resolves one directly from the
// variable's declaration); an assertion or essential hypothesis whose
// body fails to parse against wff is a non-fatal finding recorded at
// Debug level — the propositional search and oracle simply treat it as
// out of their fragment, not as an ingest failure.
func parseWellFormedness(db *store.Database, log logrus.FieldLogger) error {
	wff, ok := db.Pool.Lookup(wffConstant)
	if !ok {
		return nil // no propositional type declared in this database
	}
	p := synparse.NewParser(db)

	for _, h := range db.Hyps {
		if h.Float || len(h.RPN) != 0 {
			continue
		}
		rpn, ast, err := parseBody(p, wff, h.Expr)
		if err != nil {
			log.WithField("label", h.Label).Debug("hypothesis body has no wff parse")
			continue
		}
		h.RPN, h.AST = rpn, ast
	}
	for _, a := range db.Assertions {
		if len(a.Expr) == 0 || len(a.ExprRPN) != 0 {
			continue
		}
		rpn, ast, err := parseBody(p, wff, a.Expr)
		if err != nil {
			log.WithField("label", a.Label).Debug("assertion body has no wff parse")
			continue
		}
		a.ExprRPN, a.ExprAST = rpn, ast
	}
	return nil
}

// parseBody parses expr[1:] (the judgement body) against wff, requiring
// one match consuming the whole body.
func parseBody(p *synparse.Parser, wff token.ID, expr token.Expression) ([]store.Step, store.AST, error) {
	if len(expr) == 0 {
		return nil, nil, &mmerr.ParseFailure{Typecode: wffConstant, Pos: 0}
	}
	body := []token.Symbol(expr[1:])
	for _, m := range p.ParseAt(wff, body, 0) {
		if m.End == len(body) {
			return m.RPN, m.AST, nil
		}
	}
	return nil, nil, &mmerr.ParseFailure{Typecode: wffConstant, Pos: 0}
}
