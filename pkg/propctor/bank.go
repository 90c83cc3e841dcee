package propctor

import (
	"strconv"
	"strings"

	"github.com/fanzheng1729/hana/pkg/store"
)

// Bank allocates pseudo-variable hypotheses standing in for an RPN
// subtree the propositional skeleton has abstracted away, deduplicating
// by the subtree's own steps so that repeated subexpressions collapse to
// the same pseudo-variable.
type Bank struct {
	byRPN map[string]*store.Hypothesis
	vars  []*store.Hypothesis
}

func NewBank() *Bank {
	return &Bank{byRPN: make(map[string]*store.Hypothesis)}
}

func (b *Bank) VarCount() int                     { return len(b.vars) }
func (b *Bank) Hypotheses() []*store.Hypothesis { return b.vars }

// AddAbsVar returns the pseudo-variable hypothesis standing in for rpn,
// allocating a fresh one if rpn hasn't been seen before.
func (b *Bank) AddAbsVar(rpn []store.Step) *store.Hypothesis {
	key := rpnKey(rpn)
	if h, ok := b.byRPN[key]; ok {
		return h
	}
	h := &store.Hypothesis{Label: "#" + strconv.Itoa(len(b.vars)+1), Float: true}
	b.byRPN[key] = h
	b.vars = append(b.vars, h)
	return h
}

func rpnKey(rpn []store.Step) string {
	var sb strings.Builder
	for _, s := range rpn {
		sb.WriteByte(byte(s.Tag))
		sb.WriteString(s.Label())
		sb.WriteByte(0)
	}
	return sb.String()
}
