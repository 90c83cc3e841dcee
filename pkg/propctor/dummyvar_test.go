package propctor

import (
	"testing"

	"github.com/fanzheng1729/hana/pkg/store"
	"github.com/fanzheng1729/hana/pkg/token"
)

func TestCheckDummyVarsSkippedWhenNoSetvarTypecode(t *testing.T) {
	def := &Definition{Assertion: &store.Assertion{}}
	if !CheckDummyVars(def, 0) {
		t.Error("setvar == 0 (no such type code declared) must always pass")
	}
}

func TestCheckDummyVarsAcceptsOwnFloatingHyps(t *testing.T) {
	wph := &store.Hypothesis{Label: "wph", Float: true}
	assertion := &store.Assertion{Hyps: []*store.Hypothesis{wph}}
	def := &Definition{
		Assertion: assertion,
		RHS:       []store.Step{store.HypStep(wph)},
	}

	const setvar token.ID = 7
	if !CheckDummyVars(def, setvar) {
		t.Error("a floating hyp that is one of the definition's own arguments is never a dummy")
	}
}

func TestCheckDummyVarsAcceptsSetvarDummy(t *testing.T) {
	const setvar token.ID = 7
	wph := &store.Hypothesis{Label: "wph", Float: true}
	vx := &store.Hypothesis{Label: "vx", Float: true, Expr: token.Expression{{Tok: setvar}}}
	assertion := &store.Assertion{Hyps: []*store.Hypothesis{wph}}
	def := &Definition{
		Assertion: assertion,
		RHS:       []store.Step{store.HypStep(wph), store.HypStep(vx)},
	}

	if !CheckDummyVars(def, setvar) {
		t.Error("a dummy variable typed setvar must pass")
	}
}

func TestCheckDummyVarsRejectsNonSetvarDummy(t *testing.T) {
	const setvar token.ID = 7
	const wff token.ID = 3
	wph := &store.Hypothesis{Label: "wph", Float: true}
	vy := &store.Hypothesis{Label: "vy", Float: true, Expr: token.Expression{{Tok: wff}}}
	assertion := &store.Assertion{Hyps: []*store.Hypothesis{wph}}
	def := &Definition{
		Assertion: assertion,
		RHS:       []store.Step{store.HypStep(wph), store.HypStep(vy)},
	}

	if CheckDummyVars(def, setvar) {
		t.Error("a dummy variable not typed setvar must fail the check")
	}
}
