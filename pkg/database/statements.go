package database

import (
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/fanzheng1729/hana/pkg/lexer"
	"github.com/fanzheng1729/hana/pkg/mmerr"
	"github.com/fanzheng1729/hana/pkg/proof"
	"github.com/fanzheng1729/hana/pkg/store"
)

// reader walks a token stream one statement at a time, with comments kept
// alongside for the discouragement scan (§4.4.1 "(New usage is
// discouraged.)" / "(Proof modification is discouraged.)") and db so
// proof-step tokens can be resolved against labels already declared.
type reader struct {
	tokens   []lexer.Token
	comments []lexer.Comment
	pos      int
	db       *store.Database
}

func newReader(tokens []lexer.Token, comments []lexer.Comment, db *store.Database) *reader {
	return &reader{tokens: tokens, comments: comments, db: db}
}

func (r *reader) next() (lexer.Token, bool) {
	if r.pos >= len(r.tokens) {
		return lexer.Token{}, false
	}
	t := r.tokens[r.pos]
	r.pos++
	return t, true
}

// until collects token text up to (not including) the next token whose
// text is term, consuming the terminator too.
func (r *reader) until(term string) ([]string, error) {
	var out []string
	for {
		t, ok := r.next()
		if !ok {
			return nil, &mmerr.ParseError{What: "unexpected end of input, expected " + term, Pos: r.pos}
		}
		if t.Text == term {
			return out, nil
		}
		out = append(out, t.Text)
	}
}

// discouragement scans every comment with from <= Pos < to for the
// discouragement markers, returning the type bits they establish.
func discouragement(comments []lexer.Comment, from, to int) store.TypeFlag {
	var flags store.TypeFlag
	for _, c := range comments {
		if c.Pos < from || c.Pos >= to {
			continue
		}
		if strings.Contains(c.Text, "(New usage is discouraged.)") {
			flags |= store.NoUse
		}
		if strings.Contains(c.Text, "(Proof modification is discouraged.)") {
			flags |= store.NoNewProof
		}
	}
	return flags
}

// driveStatements walks the whole token stream, feeding every
// declaration and labelled statement to b in order, decoding and
// recording each $p's proof.
func driveStatements(r *reader, b *store.Builder, log logrus.FieldLogger) error {
	prevPos := 0
	for {
		tok, ok := r.next()
		if !ok {
			return nil
		}
		switch tok.Text {
		case "$c":
			names, err := r.until("$.")
			if err != nil {
				return err
			}
			for _, n := range names {
				if err := b.DeclareConstant(n); err != nil {
					return err
				}
			}
		case "$v":
			names, err := r.until("$.")
			if err != nil {
				return err
			}
			for _, n := range names {
				if err := b.DeclareVariable(n); err != nil {
					return err
				}
			}
		case "$d":
			names, err := r.until("$.")
			if err != nil {
				return err
			}
			if err := b.AddDisjoint(names); err != nil {
				return err
			}
		case "${":
			b.OpenScope()
		case "$}":
			if err := b.CloseScope(); err != nil {
				return err
			}
		default:
			if err := r.labelledStatement(tok.Text, tok.Pos, b, &prevPos); err != nil {
				return err
			}
		}
	}
}

// labelledStatement handles one of $f/$e/$a/$p, whose first token is a
// label rather than a recognized keyword.
func (r *reader) labelledStatement(label string, pos int, b *store.Builder, prevPos *int) error {
	kind, ok := r.next()
	if !ok {
		return &mmerr.ParseError{What: "statement with no keyword after label " + label, Pos: pos}
	}
	switch kind.Text {
	case "$f":
		words, err := r.until("$.")
		if err != nil {
			return err
		}
		if len(words) != 2 {
			return &mmerr.ParseError{What: "$f " + label + " needs exactly type and variable", Pos: pos}
		}
		_, err = b.AddFloating(label, words[0], words[1])
		return err

	case "$e":
		words, err := r.until("$.")
		if err != nil {
			return err
		}
		_, err = b.AddEssential(label, words)
		return err

	case "$a":
		words, err := r.until("$.")
		if err != nil {
			return err
		}
		a, err := b.BeginAssertion(label, words, true)
		if err != nil {
			return err
		}
		a.Type |= discouragement(r.comments, *prevPos, pos)
		*prevPos = pos
		return nil

	case "$p":
		conclusion, err := r.until("$=")
		if err != nil {
			return err
		}
		proofToks, err := r.until("$.")
		if err != nil {
			return err
		}
		a, err := b.BeginAssertion(label, conclusion, false)
		if err != nil {
			return err
		}
		steps, err := r.decodeProof(label, a, proofToks)
		if err != nil {
			return err
		}
		a.Proof = steps
		a.Type |= discouragement(r.comments, *prevPos, pos)
		*prevPos = pos
		return nil

	default:
		return &mmerr.ParseError{What: "unexpected keyword " + kind.Text + " after label " + label, Pos: pos}
	}
}

// lookupLabel resolves a proof-step token to the hypothesis or assertion
// it names, preferring an active hypothesis (a theorem can never shadow
// one, since labels are globally unique) then falling back to the
// assertion table.
func (r *reader) lookupLabel(assLabel, tok string) (*store.Hypothesis, *store.Assertion, error) {
	if h, ok := r.db.Hyps[tok]; ok {
		return h, nil, nil
	}
	if a, ok := r.db.ByLabel[tok]; ok {
		return nil, a, nil
	}
	return nil, nil, &mmerr.UnknownSymbol{Name: tok}
}

// decodeProof turns a $p statement's proof tokens into Steps: either a
// compressed proof (`( label... ) LETTERS`) or a plain label list.
func (r *reader) decodeProof(label string, a *store.Assertion, toks []string) ([]store.Step, error) {
	if len(toks) > 0 && toks[0] == "(" {
		return r.decodeCompressedProof(label, a, toks)
	}
	steps := make([]store.Step, 0, len(toks))
	for _, t := range toks {
		h, thm, err := r.lookupLabel(label, t)
		if err != nil {
			return nil, err
		}
		if h != nil {
			steps = append(steps, store.HypStep(h))
		} else {
			steps = append(steps, store.ThmStep(thm))
		}
	}
	return steps, nil
}

func (r *reader) decodeCompressedProof(label string, a *store.Assertion, toks []string) ([]store.Step, error) {
	i := 1 // skip "("
	var labelToks []string
	for ; i < len(toks) && toks[i] != ")"; i++ {
		labelToks = append(labelToks, toks[i])
	}
	if i >= len(toks) {
		return nil, &mmerr.ParseError{What: "compressed proof " + label + " missing )", Pos: 0}
	}
	i++ // skip ")"

	var letters strings.Builder
	for ; i < len(toks); i++ {
		letters.WriteString(toks[i])
	}

	refs := make([]*proof.LabelRef, 0, len(a.Hyps)+len(labelToks))
	for _, h := range a.Hyps {
		refs = append(refs, proof.HypRef(h))
	}
	for _, t := range labelToks {
		h, thm, err := r.lookupLabel(label, t)
		if err != nil {
			return nil, err
		}
		if h != nil {
			refs = append(refs, proof.HypRef(h))
		} else {
			refs = append(refs, proof.ThmRef(thm))
		}
	}
	return proof.DecodeCompressed(label, refs, letters.String())
}
