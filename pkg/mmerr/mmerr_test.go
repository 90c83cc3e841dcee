package mmerr

import (
	"strings"
	"testing"
)

func TestErrorMessagesMentionIdentifyingDetail(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want string
	}{
		{"ParseError", &ParseError{What: "bad token", Pos: 3}, "bad token"},
		{"UnknownSymbol", &UnknownSymbol{Name: "wph"}, "wph"},
		{"ScopeError", &ScopeError{What: "unbalanced block"}, "unbalanced block"},
		{"HypothesisError", &HypothesisError{Kind: "wrong typecode"}, "wrong typecode"},
		{"DisjointViolation", &DisjointViolation{A: "x", B: "y"}, "x"},
		{"UnificationFailure", &UnificationFailure{Label: "ax-mp", Step: 2, Hyp: "min", Expected: "ph", Found: "ps"}, "ax-mp"},
		{"StackUnderflow", &StackUnderflow{Label: "ax-1", Step: 1}, "ax-1"},
		{"SaveIndexOut", &SaveIndexOut{Label: "ax-1", Index: 4}, "ax-1"},
		{"Mismatch", &Mismatch{Label: "th1"}, "th1"},
		{"EncodingError", &EncodingError{What: "stray Z"}, "stray Z"},
		{"Unterminated", &Unterminated{}, "mid-number"},
		{"Overflow", &Overflow{}, "overflow"},
		{"BadDefinition", &BadDefinition{Kind: "not an equivalence", Label: "df-an"}, "df-an"},
		{"LogicError", &LogicError{Label: "th2"}, "th2"},
		{"OracleLimit", &OracleLimit{Goal: "ph"}, "ph"},
		{"SizeExceeded", &SizeExceeded{Theorem: "th3", Size: 100}, "th3"},
		{"ParseFailure", &ParseFailure{Typecode: "wff", Pos: 0}, "wff"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if !strings.Contains(c.err.Error(), c.want) {
				t.Errorf("%s.Error() = %q; want it to contain %q", c.name, c.err.Error(), c.want)
			}
		})
	}
}
