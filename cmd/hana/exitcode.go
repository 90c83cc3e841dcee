package main

import (
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"

	"github.com/fanzheng1729/hana/pkg/mmerr"
)

// Exit codes per the CLI's phase-ordered contract: 0 is success, and a
// non-zero code names the first phase (in pipeline order) that produced
// a failure, not just the first error encountered in traversal order.
const (
	exitOK = iota
	exitTokenizer
	exitVerifier
	exitParser
	exitDefinition
	exitPropositional
	exitSearch
)

// exitCodeOf maps an error returned by database.Ingest or Database.SearchAll
// to the phase that produced it. A *multierror.Error is unwrapped and every
// contained error classified; the worst (earliest-phase) code wins, since a
// tokenizer failure is reported even if a later phase also failed.
func exitCodeOf(err error) int {
	if err == nil {
		return exitOK
	}
	if merr, ok := err.(*multierror.Error); ok {
		code := exitOK
		for _, e := range merr.Errors {
			if c := classify(e); code == exitOK || c < code {
				code = c
			}
		}
		if code == exitOK {
			return exitVerifier // empty multierror: fail closed
		}
		return code
	}
	return classify(err)
}

func classify(err error) int {
	switch errors.Cause(err).(type) {
	case *mmerr.ParseError, *mmerr.UnknownSymbol, *mmerr.ScopeError, *mmerr.HypothesisError:
		return exitTokenizer
	case *mmerr.UnificationFailure, *mmerr.StackUnderflow, *mmerr.SaveIndexOut,
		*mmerr.Mismatch, *mmerr.EncodingError, *mmerr.Unterminated, *mmerr.Overflow,
		*mmerr.DisjointViolation:
		return exitVerifier
	case *mmerr.ParseFailure:
		return exitParser
	case *mmerr.BadDefinition:
		return exitDefinition
	case *mmerr.LogicError:
		return exitPropositional
	case *mmerr.SizeExceeded, *mmerr.OracleLimit:
		return exitSearch
	default:
		return exitVerifier
	}
}
