package lexer

// CtorDefinitions maps a propositional syntax constructor's label to the
// label of the assertion defining it (`definition 'df-bi' for 'wb'`), or
// to "" for a constructor declared primitive with no definition
// (`primitive 'wn' 'wi'`). It is the explicit override spec.md §9 Open
// Question 2 requires: propctor seeding never overrides an entry present
// here.
type CtorDefinitions map[string]string

// BuildCtorDefinitions processes the `definition ... for ...` and
// `primitive ...` commands lifted by ParseCommands, per
// original_source/src/comment.cpp's Ctordefns constructor.
func BuildCtorDefinitions(cmds Commands) CtorDefinitions {
	out := make(CtorDefinitions)
	for _, c := range cmds.Select("definition") {
		if len(c) != 3 || c[1] != "for" {
			continue
		}
		defn, ctor := Unquote(c[0]), Unquote(c[2])
		if defn == "" || ctor == "" {
			continue
		}
		if _, dup := out[ctor]; !dup {
			out[ctor] = defn
		}
	}
	for _, c := range cmds.Select("primitive") {
		for _, word := range c {
			ctor := Unquote(word)
			if ctor == "" {
				continue
			}
			if _, dup := out[ctor]; !dup {
				out[ctor] = ""
			}
		}
	}
	return out
}
