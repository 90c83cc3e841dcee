package database

import (
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"

	"github.com/fanzheng1729/hana/pkg/lexer"
	"github.com/fanzheng1729/hana/pkg/mmerr"
	"github.com/fanzheng1729/hana/pkg/propctor"
	"github.com/fanzheng1729/hana/pkg/store"
	"github.com/fanzheng1729/hana/pkg/token"
)

// setvarConstant is the name of the distinguished bound/settable type
// code a definition's dummy variables must carry (pkg/propctor's
// CheckDummyVars); absent from a database that declares none.
const setvarConstant = "setvar"

// equivalenceTT, implicationTT, ... are the hard-coded truth tables each
// relation-pattern batch seeds (§4.F), floating hypotheses ordered
// lowest-bit-first.
var (
	equivalenceTT  = []bool{true, false, false, true}
	implicationTT  = []bool{true, false, true, true}
	negationTT     = []bool{true, false}
	conjunctionTT  = []bool{false, false, false, true}
	disjunctionTT  = []bool{false, true, true, true}
	conjunction3TT = []bool{false, false, false, false, false, false, false, true}
	disjunction3TT = []bool{false, true, true, true, true, true, true, true}
)

// SeedPropctors builds the propositional-connective database: first the
// fixed relation-pattern batches (spec §4.F, §9 Open Question 2 — these
// always run first), then definitions discovered either from an
// explicit `$j definition`/`primitive` command or, absent one, from a
// `df-`-labelled theorem whose conclusion is a known equivalence. An
// explicit command always wins over auto-discovery for the same
// constructor, including a `primitive` command suppressing a definition
// auto-discovery would otherwise have found.
func SeedPropctors(db *store.Database, ctorDefs lexer.CtorDefinitions, log logrus.FieldLogger) (propctor.Propctors, map[string]*propctor.Definition, error) {
	wff, ok := db.Pool.Lookup(wffConstant)
	if !ok {
		return propctor.New(), nil, nil
	}

	rel := propctor.FindRelations(db.Assertions)
	pc := propctor.New()
	equivLabels := make(map[string]bool)
	for label := range rel.ByType(propctor.Equivalence) {
		equivLabels[label] = true
	}

	pc.AddBatch(rel.ByType(propctor.Equivalence), equivalenceTT, wff)
	pc.AddBatch(rel.ByType(propctor.AX1), implicationTT, wff)
	pc.AddBatch(rel.ByType(propctor.ID12), negationTT, wff)
	pc.AddBatch(rel.ByType(propctor.And), conjunctionTT, wff)
	pc.AddBatch(rel.ByType(propctor.Or), disjunctionTT, wff)
	pc.AddBatch(rel.ByType(propctor.A3AN), conjunction3TT, wff)
	pc.AddBatch(rel.ByType(propctor.O3OR), disjunction3TT, wff)
	log.WithField("seeded", len(pc)).Debug("seeded propositional connectives from relation patterns")

	defs := discoverDefinitions(db, equivLabels, wff)
	applyCtorDefs(db, defs, ctorDefs, equivLabels, wff)

	var result *multierror.Error
	setvar, _ := db.Pool.Lookup(setvarConstant)
	for label, def := range defs {
		if !propctor.CheckDummyVars(def, setvar) {
			err := &mmerr.BadDefinition{Kind: "dummy variable not of type " + setvarConstant, Label: label}
			log.WithError(err).WithField("label", label).Error("definition failed dummy-variable check")
			result = multierror.Append(result, err)
			delete(defs, label)
		}
	}

	for label := range defs {
		pc.AddDef(defs, label, wff)
	}
	log.WithField("total", len(pc)).Debug("finished seeding propositional connectives")

	if result != nil {
		return pc, defs, result
	}
	return pc, defs, nil
}

// discoverDefinitions finds every `df-`-labelled theorem whose
// conclusion's root is a known equivalence applied to (ctor(args...),
// rhs), recording ctor's Definition from rhs.
func discoverDefinitions(db *store.Database, equivLabels map[string]bool, wff token.ID) map[string]*propctor.Definition {
	defs := make(map[string]*propctor.Definition)
	for _, a := range db.Assertions {
		if !strings.HasPrefix(a.Label, "df-") {
			continue
		}
		ctor, rhs, rhsAst, ok := splitDefinitionTheorem(a, equivLabels, wff)
		if !ok {
			continue
		}
		if _, dup := defs[ctor.Label]; dup {
			continue
		}
		defs[ctor.Label] = &propctor.Definition{Assertion: ctor, RHS: rhs, RHSAst: rhsAst}
	}
	return defs
}

// splitDefinitionTheorem recognizes a's conclusion as `ctor(args) <-> rhs`
// for some constructor ctor eligible to be propositional, returning ctor
// and rhs's self-contained RPN/AST.
func splitDefinitionTheorem(a *store.Assertion, equivLabels map[string]bool, wff token.ID) (*store.Assertion, []store.Step, store.AST, bool) {
	if len(a.ExprRPN) == 0 || len(a.ExprAST) != len(a.ExprRPN) {
		return nil, nil, nil, false
	}
	root := len(a.ExprRPN) - 1
	top := a.ExprRPN[root]
	if top.Tag != store.StepThm || !equivLabels[top.Thm.Label] {
		return nil, nil, nil, false
	}
	children := a.ExprAST[root]
	if len(children) != 2 {
		return nil, nil, nil, false
	}
	lhsRoot, rhsRoot := children[0], children[1]
	lhsStep := a.ExprRPN[lhsRoot]
	if lhsStep.Tag != store.StepThm {
		return nil, nil, nil, false
	}
	ctor := lhsStep.Thm
	if propctor.TruthTableSize(ctor, wff) == 0 {
		return nil, nil, nil, false
	}
	rhs, rhsAst := extractSubtree(a.ExprRPN, a.ExprAST, rhsRoot)
	return ctor, rhs, rhsAst, true
}

// extractSubtree slices out the RPN/AST rooted at root as a
// self-contained RPN/AST pair, shifting every index to the slice's own
// frame, per propctor/skeleton.go's subtree extraction.
func extractSubtree(rpn []store.Step, ast store.AST, root int) ([]store.Step, store.AST) {
	start := subtreeStart(ast, root)
	outRPN := append([]store.Step(nil), rpn[start:root+1]...)
	outAST := make(store.AST, len(outRPN))
	for i := range outAST {
		children := ast[start+i]
		shifted := make([]int, len(children))
		for j, c := range children {
			shifted[j] = c - start
		}
		outAST[i] = shifted
	}
	return outRPN, outAST
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

// applyCtorDefs layers the explicit `$j definition`/`primitive` commands
// over auto-discovery: an entry naming a theorem rebuilds the
// Definition from that theorem specifically; an entry mapping to ""
// (primitive, no definition) removes any auto-discovered entry for that
// constructor.
func applyCtorDefs(db *store.Database, defs map[string]*propctor.Definition, ctorDefs lexer.CtorDefinitions, equivLabels map[string]bool, wff token.ID) {
	for ctorLabel, theoremLabel := range ctorDefs {
		if theoremLabel == "" {
			delete(defs, ctorLabel)
			continue
		}
		theorem, ok := db.ByLabel[theoremLabel]
		if !ok {
			continue
		}
		ctor, rhs, rhsAst, ok := splitDefinitionTheorem(theorem, equivLabels, wff)
		if !ok || ctor.Label != ctorLabel {
			continue
		}
		defs[ctorLabel] = &propctor.Definition{Assertion: ctor, RHS: rhs, RHSAst: rhsAst}
	}
}
