package lexer

import (
	"regexp"
	"strings"
)

// rule pairs a regular expression with the token Kind it produces. Rules
// are tried in order at the current cursor position; the first to match
// wins. build extracts the token's Value (if any) from the matched text.
type rule struct {
	kind    Kind
	pattern *regexp.Regexp
	build   func(matched string) any
	// keep, when set, overrides how much of the match is actually
	// consumed (defaults to the whole match). Numeral uses this to put
	// back its trailing terminator, which the next call re-tokenizes as
	// Colon or EndLine depending on context.
	keep func(matched string) int
}

// Lexer scans SPL source text into a pull-based sequence of tokens. The
// entire input is lowercased up front, matching the language's
// case-insensitive surface syntax. Calling Next repeatedly drains the
// sequence; once exhausted it returns an endless run of Eof tokens, so
// callers should stop pulling after the first one.
type Lexer struct {
	text  string
	pos   int
	line  int
	col   int
	rules []rule
	// expectNumeral is set after an Act or Scene token and cleared after
	// any other token. Roman numerals and the first-person pronoun both
	// reduce to a bare "i" before punctuation ("Act I:" vs "...as I.");
	// the grammar only ever places a numeral right after Act/Scene, so
	// that adjacency - not the text itself - is what disambiguates them.
	expectNumeral bool
}

// New constructs a Lexer over text, loading the character/noun/adjective
// word lists that ship with the compiler.
func New(text string) (*Lexer, error) {
	lists, err := loadWordLists()
	if err != nil {
		return nil, err
	}
	return &Lexer{
		text:  strings.ToLower(text),
		line:  1,
		col:   1,
		rules: buildRules(lists),
	}, nil
}

// Next returns the next non-suppressed token. Runs of input matching no
// rule are skipped one rune at a time as an implicit NoOp, exactly as
// unmatched characters are in the source grammar.
func (l *Lexer) Next() Token {
	for {
		if l.pos >= len(l.text) {
			return Token{Kind: Eof, Pos: Position{Line: l.line, Column: l.col}}
		}

		remaining := l.text[l.pos:]
		for _, r := range l.rules {
			if r.kind == Numeral && !l.expectNumeral {
				continue
			}
			loc := r.pattern.FindStringIndex(remaining)
			if loc == nil || loc[0] != 0 || loc[1] == 0 {
				continue
			}

			matched := remaining[:loc[1]]
			pos := Position{Line: l.line, Column: l.col}
			var value any
			if r.build != nil {
				value = r.build(matched)
			}
			consumed := matched
			if r.keep != nil {
				consumed = matched[:r.keep(matched)]
			}
			l.advance(consumed)
			l.expectNumeral = r.kind == Act || r.kind == Scene
			return Token{Kind: r.kind, Value: value, Pos: pos}
		}

		l.advanceRune()
	}
}

// All drains the lexer into a slice terminated by a single Eof token.
// Convenience for callers (such as tests) that do not need streaming.
func (l *Lexer) All() []Token {
	var tokens []Token
	for {
		tok := l.Next()
		tokens = append(tokens, tok)
		if tok.Kind == Eof {
			return tokens
		}
	}
}

func (l *Lexer) advance(matched string) {
	for _, r := range matched {
		if r == '\n' {
			l.line++
			l.col = 1
		} else {
			l.col++
		}
	}
	l.pos += len(matched)
}

func (l *Lexer) advanceRune() {
	for _, r := range l.text[l.pos:] {
		if r == '\n' {
			l.line++
			l.col = 1
		} else {
			l.col++
		}
		l.pos += len(string(r))
		return
	}
}

// buildRules assembles the ordered pattern list described by the grammar:
// keyword phrases, then word-list alternations, then connectives,
// punctuation, pronouns, stage directions, the conditional keyword, Roman
// numerals, and finally the comparison preamble.
func buildRules(lists wordLists) []rule {
	names := alternation(lists.characters)
	adjs := alternation(lists.adjectives)
	posNouns := alternation(lists.nouns)
	negNouns := alternation(lists.negativeNouns)

	return []rule{
		{Act, regexp.MustCompile(`^act\b`), nil, nil},
		{Scene, regexp.MustCompile(`^scene\b`), nil, nil},
		{Print, regexp.MustCompile(`^speak your mind\b`), constBool(true), nil},
		{Print, regexp.MustCompile(`^open your heart\b`), constBool(false), nil},
		{Input, regexp.MustCompile(`^open your mind\b`), constBool(true), nil},
		{Input, regexp.MustCompile(`^listen to your heart\b`), constBool(false), nil},
		{Goto, regexp.MustCompile(`^(?:let us proceed to |let us return to )`), identity, nil},
		{Name, regexp.MustCompile(`^` + names), identity, nil},
		{Adj, regexp.MustCompile(`^` + adjs), constInt(2), nil},
		{Noun, regexp.MustCompile(`^` + posNouns), constInt(1), nil},
		{Noun, regexp.MustCompile(`^` + negNouns), constInt(-1), nil},
		{Add, regexp.MustCompile(`^(?:with|and)\b`), constString("+"), nil},
		{EndLine, regexp.MustCompile(`^[.!]`), nil, nil},
		{QuestionMark, regexp.MustCompile(`^\?`), nil, nil},
		{Comma, regexp.MustCompile(`^,`), nil, nil},
		{OpenSqBracket, regexp.MustCompile(`^\[`), nil, nil},
		{CloseSqBracket, regexp.MustCompile(`^\]`), nil, nil},
		{Colon, regexp.MustCompile(`^:`), nil, nil},
		{SecondPronoun, regexp.MustCompile(`^(?:you|thyself)\b`), nil, nil},
		{FirstPronoun, regexp.MustCompile(`^(?:i|myself)\b`), nil, nil},
		{Enter, regexp.MustCompile(`^enter\b`), nil, nil},
		{Exit, regexp.MustCompile(`^exit\b`), nil, nil},
		{Exeunt, regexp.MustCompile(`^exeunt\b`), nil, nil},
		{IfSo, regexp.MustCompile(`^if so\b`), nil, nil},
		{Numeral, regexp.MustCompile(`^ ([ivx]+)[.:]`), romanDigits, keepExceptLast(1)},
		// The copula only reads as QuestionStart when "equal to" follows
		// before the end of the sentence, and only the copula itself is
		// consumed; the two operands either side of "equal to" are left
		// for Name/pronoun rules to pick up on the following calls, with
		// "equal to" itself silently skipped a rune at a time as
		// unmatched filler (same mechanism as any other NoOp run).
		{QuestionStart, regexp.MustCompile(`^(?:are|is|am)\b[^.!?]*\bequal to\b`), nil, copulaOnly},
	}
}

// copulaOnly keeps just the leading are/is/am of a comparison preamble
// match, putting the rest back for the following calls.
func copulaOnly(matched string) int {
	return strings.IndexFunc(matched, func(r rune) bool { return r < 'a' || r > 'z' })
}

// keepExceptLast returns a keep function that consumes the match minus its
// final n bytes, putting back a trailing terminator for the next call to
// tokenize on its own.
func keepExceptLast(n int) func(string) int {
	return func(matched string) int { return len(matched) - n }
}

// alternation turns a sorted word list into a non-capturing regex
// alternation, each literal escaped and bounded so that a shorter entry
// sharing a prefix with a longer one (e.g. "king" and "kingdom") cannot
// steal the match.
func alternation(words []string) string {
	escaped := make([]string, len(words))
	for i, w := range words {
		escaped[i] = regexp.QuoteMeta(w)
	}
	return `(?:` + strings.Join(escaped, "|") + `)\b`
}

func identity(matched string) any { return matched }

func constBool(v bool) func(string) any     { return func(string) any { return v } }
func constInt(v int) func(string) any       { return func(string) any { return v } }
func constString(v string) func(string) any { return func(string) any { return v } }

// romanDigits strips the leading space and trailing terminator that the
// Numeral pattern requires, leaving just the Roman numeral itself.
func romanDigits(matched string) any {
	trimmed := strings.TrimSpace(matched)
	return strings.TrimRight(trimmed, ".:")
}
