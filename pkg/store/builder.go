package store

import (
	"fmt"

	"github.com/fanzheng1729/hana/pkg/mmerr"
	"github.com/fanzheng1729/hana/pkg/token"
)

// frame is one level of the nested ${ ... $} scope stack.
type frame struct {
	vars       []token.ID
	floats     []*Hypothesis
	essentials []*Hypothesis
	dvGroups   [][]token.ID
}

// Builder drives the database reader's calls in statement order and
// implements the assertion-store algorithm of finalizing a labelled
// statement: mandatory-hypothesis collection, mandatory disjoint-variable
// pairs, the variable-usage bit matrix, and creation numbering.
type Builder struct {
	DB         *Database
	frames     []*frame
	activeVar  map[token.ID]bool
	floatOf    map[token.ID]*Hypothesis // currently active floating hyp, by variable token
	constsOnly bool                     // never set or read; DeclareConstant checks only the scope depth
}

// NewBuilder returns a Builder over a fresh, empty Database.
func NewBuilder() *Builder {
	return &Builder{
		DB:        NewDatabase(),
		frames:    []*frame{{}},
		activeVar: make(map[token.ID]bool),
		floatOf:   make(map[token.ID]*Hypothesis),
	}
}

func (b *Builder) top() *frame { return b.frames[len(b.frames)-1] }

// OpenScope pushes a new ${ ... nesting level.
func (b *Builder) OpenScope() {
	b.frames = append(b.frames, &frame{})
}

// CloseScope pops a $} nesting level, retiring the variables and floating
// hypotheses it declared.
func (b *Builder) CloseScope() error {
	if len(b.frames) == 1 {
		return &mmerr.ScopeError{What: "$} without matching ${"}
	}
	f := b.frames[len(b.frames)-1]
	b.frames = b.frames[:len(b.frames)-1]
	for _, v := range f.vars {
		delete(b.activeVar, v)
	}
	for _, h := range f.floats {
		delete(b.floatOf, h.Var)
	}
	return nil
}

// DeclareConstant adds a new $c token. Constants may only be declared in
// the outermost scope and must not already be active as a constant or
// variable.
func (b *Builder) DeclareConstant(name string) error {
	if len(b.frames) != 1 {
		return &mmerr.ScopeError{What: "$c inside inner block"}
	}
	tok := b.DB.Pool.Intern(name)
	if b.DB.Constants[tok] || b.activeVar[tok] {
		return &mmerr.ScopeError{What: fmt.Sprintf("redeclaration of %q", name)}
	}
	b.DB.Constants[tok] = true
	return nil
}

// DeclareVariable adds a new $v token, active in the current scope.
func (b *Builder) DeclareVariable(name string) error {
	tok := b.DB.Pool.Intern(name)
	if b.DB.Constants[tok] {
		return &mmerr.ScopeError{What: fmt.Sprintf("redeclaration of constant %q as variable", name)}
	}
	if b.activeVar[tok] {
		return &mmerr.ScopeError{What: fmt.Sprintf("duplicate active variable %q", name)}
	}
	b.activeVar[tok] = true
	b.top().vars = append(b.top().vars, tok)
	return nil
}

// AddDisjoint records a $d group active in the current scope.
func (b *Builder) AddDisjoint(names []string) error {
	ids := make([]token.ID, len(names))
	for i, n := range names {
		tok, ok := b.DB.Pool.Lookup(n)
		if !ok || !b.activeVar[tok] {
			return &mmerr.UnknownSymbol{Name: n}
		}
		ids[i] = tok
	}
	b.top().dvGroups = append(b.top().dvGroups, ids)
	return nil
}

// AddFloating adds a $f hypothesis: label, type code, variable.
func (b *Builder) AddFloating(label, typecodeName, varName string) (*Hypothesis, error) {
	if _, dup := b.DB.Hyps[label]; dup {
		return nil, &mmerr.ScopeError{What: fmt.Sprintf("duplicate label %q", label)}
	}
	typeTok, ok := b.DB.Pool.Lookup(typecodeName)
	if !ok || !b.DB.Constants[typeTok] {
		return nil, &mmerr.HypothesisError{Kind: fmt.Sprintf("type code %q is not a constant", typecodeName)}
	}
	varTok, ok := b.DB.Pool.Lookup(varName)
	if !ok || !b.activeVar[varTok] {
		return nil, &mmerr.HypothesisError{Kind: fmt.Sprintf("variable %q is not active", varName)}
	}
	if _, dup := b.floatOf[varTok]; dup {
		return nil, &mmerr.HypothesisError{Kind: fmt.Sprintf("duplicate floating hypothesis for %q", varName)}
	}

	varID := b.DB.Vars.Declare(varTok)
	b.DB.Vars.SetFloat(varID, token.FloatingHyp{Typecode: typeTok, Var: varTok, Label: label})
	b.DB.Primitive[typeTok] = true

	h := &Hypothesis{
		Label: label,
		Expr:  token.Expression{{Tok: typeTok}, {Tok: varTok, VarID: varID}},
		Float: true,
		Var:   varTok,
	}
	b.DB.Hyps[label] = h
	b.top().floats = append(b.top().floats, h)
	b.floatOf[varTok] = h
	return h, nil
}

// resolveExpr interns a flat list of math-symbol tokens into an
// Expression, failing if any token is neither an active constant nor a
// variable with an active floating hypothesis.
func (b *Builder) resolveExpr(tokens []string) (token.Expression, error) {
	expr := make(token.Expression, len(tokens))
	for i, t := range tokens {
		tok, ok := b.DB.Pool.Lookup(t)
		if !ok {
			return nil, &mmerr.UnknownSymbol{Name: t}
		}
		switch {
		case b.DB.Constants[tok]:
			expr[i] = token.Symbol{Tok: tok}
		case b.activeVar[tok]:
			varID := b.DB.Vars.VarID(tok)
			if varID == 0 || b.floatOf[tok] == nil {
				return nil, &mmerr.HypothesisError{Kind: fmt.Sprintf("variable %q has no active floating hypothesis", t)}
			}
			expr[i] = token.Symbol{Tok: tok, VarID: varID}
		default:
			return nil, &mmerr.UnknownSymbol{Name: t}
		}
	}
	return expr, nil
}

// AddEssential adds a $e hypothesis.
func (b *Builder) AddEssential(label string, tokens []string) (*Hypothesis, error) {
	if _, dup := b.DB.Hyps[label]; dup {
		return nil, &mmerr.ScopeError{What: fmt.Sprintf("duplicate label %q", label)}
	}
	expr, err := b.resolveExpr(tokens)
	if err != nil {
		return nil, err
	}
	h := &Hypothesis{Label: label, Expr: expr, Float: false}
	b.DB.Hyps[label] = h
	b.top().essentials = append(b.top().essentials, h)
	return h, nil
}

// activeFloats returns active floating hypotheses outer-to-inner, in
// declaration order.
func (b *Builder) activeFloats() []*Hypothesis {
	var out []*Hypothesis
	for _, f := range b.frames {
		out = append(out, f.floats...)
	}
	return out
}

func (b *Builder) activeEssentials() []*Hypothesis {
	var out []*Hypothesis
	for _, f := range b.frames {
		out = append(out, f.essentials...)
	}
	return out
}

func (b *Builder) activeDVGroups() [][]token.ID {
	var out [][]token.ID
	for _, f := range b.frames {
		out = append(out, f.dvGroups...)
	}
	return out
}

// usageSet returns the set of variable tokens appearing in an expression.
func usageSet(into map[token.ID]bool, e token.Expression) {
	for _, s := range e {
		if s.IsVariable() {
			into[s.Tok] = true
		}
	}
}

// BeginAssertion finalizes a labelled statement per the spec's assertion
// store algorithm: collect mandatory hypotheses (floating hyps filtered to
// those in use, essential hyps all mandatory), collect mandatory DV pairs,
// build the variable-usage matrix, and number the assertion. isAxiom
// distinguishes a $a from a $p statement; the caller fills in ExprRPN,
// ExprAST, and Proof afterward.
func (b *Builder) BeginAssertion(label string, tokens []string, isAxiom bool) (*Assertion, error) {
	if _, dup := b.DB.ByLabel[label]; dup {
		return nil, &mmerr.ScopeError{What: fmt.Sprintf("duplicate label %q", label)}
	}
	expr, err := b.resolveExpr(tokens)
	if err != nil {
		return nil, err
	}

	essentials := b.activeEssentials()
	used := make(map[token.ID]bool)
	usageSet(used, expr)
	for _, h := range essentials {
		usageSet(used, h.Expr)
	}

	var mandatoryFloats []*Hypothesis
	for _, h := range b.activeFloats() {
		if used[h.Var] {
			mandatoryFloats = append(mandatoryFloats, h)
		}
	}

	hyps := append(append([]*Hypothesis{}, mandatoryFloats...), essentials...)

	var dv []DVPair
	for _, group := range b.activeDVGroups() {
		var inUse []token.ID
		for _, v := range group {
			if used[v] {
				inUse = append(inUse, v)
			}
		}
		for i := 0; i < len(inUse); i++ {
			for j := i + 1; j < len(inUse); j++ {
				dv = append(dv, NewDVPair(inUse[i], inUse[j]))
			}
		}
	}

	varUsage := make(map[token.ID][]bool, len(used))
	for v := range used {
		varUsage[v] = make([]bool, len(hyps)+1)
	}
	for i, h := range hyps {
		for v := range used {
			if containsVar(h.Expr, v) {
				varUsage[v][i] = true
			}
		}
	}
	for v := range used {
		if containsVar(expr, v) {
			varUsage[v][len(hyps)] = true
		}
	}

	a := &Assertion{
		Label:    label,
		Number:   len(b.DB.Assertions) + 1,
		Expr:     expr,
		Hyps:     hyps,
		DV:       dv,
		VarUsage: varUsage,
	}
	if isAxiom {
		a.Type |= Axiom
	}
	b.DB.Assertions = append(b.DB.Assertions, a)
	b.DB.ByLabel[label] = a
	return a, nil
}

func containsVar(e token.Expression, v token.ID) bool {
	for _, s := range e {
		if s.IsVariable() && s.Tok == v {
			return true
		}
	}
	return false
}
