package lexer

import "strings"

// Command is one semicolon-separated structured-comment command, split on
// whitespace into words; a quoted word retains its surrounding quotes
// (stripped by the caller that expects a literal, via Unquote).
type Command []string

// Commands is every command lifted from every `$j`/`$t` comment in a
// database, in comment order.
type Commands []Command

// ParseCommands lifts the `$j`/`$t` structured commands out of comments,
// per the source format's comment-classification rule: a comment whose
// first token is exactly `$j` or `$t` (and nothing else) is a structured
// comment; its remaining words, split at `;`, are its command list.
// Any other comment is prose and is ignored here.
func ParseCommands(comments []Comment) Commands {
	var out Commands
	for _, c := range comments {
		words := strings.FieldsFunc(c.Text, func(r rune) bool { return isSpace(byte(r)) })
		if len(words) == 0 {
			continue
		}
		if len(words[0]) != 2 || words[0][0] != '$' || (words[0][1] != 'j' && words[0][1] != 't') {
			continue
		}
		out = append(out, splitCommands(words[1:])...)
	}
	return out
}

// splitCommands groups words into commands broken at any word ending in
// or containing a `;`.
func splitCommands(words []string) Commands {
	var out Commands
	var cur Command
	for _, w := range words {
		parts := strings.Split(w, ";")
		for i, p := range parts {
			if p != "" {
				cur = append(cur, p)
			}
			if i < len(parts)-1 {
				if len(cur) > 0 {
					out = append(out, cur)
				}
				cur = nil
			}
		}
	}
	if len(cur) > 0 {
		out = append(out, cur)
	}
	return out
}

// Select returns the commands whose first word equals keyword, with that
// leading word dropped: Select("definition") on a command
// `definition 'iff' for 'df-bi'` yields `['iff', 'for', 'df-bi']`.
func (cs Commands) Select(keyword string) Commands {
	var out Commands
	for _, c := range cs {
		if len(c) > 0 && c[0] == keyword {
			out = append(out, append(Command{}, c[1:]...))
		}
	}
	return out
}

// Unquote strips a single-quoted word's quotes, or returns "" if s is not
// single-quoted.
func Unquote(s string) string {
	if len(s) < 3 || s[0] != '\'' || s[len(s)-1] != '\'' {
		return ""
	}
	return s[1 : len(s)-1]
}
