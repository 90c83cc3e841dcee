// Package lexer is the external tokenizer/comment scanner (spec 6.1): it
// turns raw database source bytes into a flat token stream plus a list of
// comments, and lifts `$j`/`$t` structured comment commands into the
// semicolon-separated command lists the rest of ingest consumes. It knows
// nothing about statement grammar ($c/$v/$d/... is just text to it) — that
// belongs to pkg/database.
package lexer

import (
	"strings"

	"github.com/fanzheng1729/hana/pkg/mmerr"
)

// mmws is the whitespace recognized between tokens: space, tab, carriage
// return, line feed, and form feed.
const mmws = " \t\r\n\f"

// Token is one whitespace-separated source token and the byte offset its
// first character starts at.
type Token struct {
	Text string
	Pos  int
}

// Comment is the text between a `$(` and its closing `$)`, exclusive of
// the delimiters, and the byte offset of the opening `$(`.
type Comment struct {
	Text string
	Pos  int
}

func isSpace(b byte) bool { return strings.IndexByte(mmws, b) >= 0 }

// Scan splits src into tokens and comments. A `$(` begins a comment that
// runs until the first `$)` delimited by whitespace on both sides (per
// the source-format comment rule); `$(` is not legal inside a comment and
// fails the scan. Every other `$x` two-character sequence is returned as
// an ordinary token.
func Scan(src []byte) ([]Token, []Comment, error) {
	var tokens []Token
	var comments []Comment

	i, n := 0, len(src)
	for i < n {
		for i < n && isSpace(src[i]) {
			i++
		}
		if i >= n {
			break
		}
		start := i
		if src[i] == '$' && i+1 < n && src[i+1] == '(' {
			end, next, err := scanComment(src, i)
			if err != nil {
				return nil, nil, err
			}
			comments = append(comments, Comment{Text: string(src[i+2 : end]), Pos: start})
			i = next
			continue
		}
		for i < n && !isSpace(src[i]) {
			i++
		}
		tokens = append(tokens, Token{Text: string(src[start:i]), Pos: start})
	}
	return tokens, comments, nil
}

// scanComment scans a comment opened at src[start:start+2] == "$(". It
// returns the index of the closing "$)"'s '$' (so src[start+2:end] is the
// comment body) and the index just past the comment, including the
// trailing whitespace `$)` requires on both sides.
func scanComment(src []byte, start int) (end, next int, err error) {
	n := len(src)
	i := start + 2
	for {
		j := strings.IndexByte(string(src[i:]), '$')
		if j < 0 {
			return 0, 0, &mmerr.ParseError{What: "unclosed comment", Pos: start}
		}
		dollar := i + j
		if dollar+1 >= n {
			return 0, 0, &mmerr.ParseError{What: "unclosed comment", Pos: start}
		}
		switch src[dollar+1] {
		case '(':
			return 0, 0, &mmerr.ParseError{What: "$( nested in comment", Pos: dollar}
		case ')':
			if dollar > start+2 && !isSpace(src[dollar-1]) {
				return 0, 0, &mmerr.ParseError{What: "$) not preceded by whitespace", Pos: dollar}
			}
			after := dollar + 2
			if after < n && !isSpace(src[after]) {
				return 0, 0, &mmerr.ParseError{What: "$) not followed by whitespace", Pos: dollar}
			}
			return dollar, after, nil
		default:
			i = dollar + 1
		}
	}
}
