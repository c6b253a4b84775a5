package lexer

import (
	"embed"
	"sort"
	"strings"
)

// data embeds the word lists that ship with the compiler: the cast of
// characters that may be declared, and the nouns and adjectives that make
// up literal values. They are read and parsed each time a Lexer is
// constructed.
//
//go:embed data/characters.txt data/nouns.txt data/negative_nouns.txt data/adjectives.txt
var data embed.FS

type wordLists struct {
	characters    []string
	nouns         []string
	negativeNouns []string
	adjectives    []string
}

func loadWordLists() (wordLists, error) {
	characters, err := loadWordList("data/characters.txt")
	if err != nil {
		return wordLists{}, err
	}
	nouns, err := loadWordList("data/nouns.txt")
	if err != nil {
		return wordLists{}, err
	}
	negativeNouns, err := loadWordList("data/negative_nouns.txt")
	if err != nil {
		return wordLists{}, err
	}
	adjectives, err := loadWordList("data/adjectives.txt")
	if err != nil {
		return wordLists{}, err
	}

	return wordLists{
		characters:    characters,
		nouns:         nouns,
		negativeNouns: negativeNouns,
		adjectives:    adjectives,
	}, nil
}

// loadWordList reads a plain-text word list, one lowercase word per line,
// skipping blank lines. The result is sorted for deterministic matching
// order when the words are later joined into a regular expression
// alternation.
func loadWordList(name string) ([]string, error) {
	raw, err := data.ReadFile(name)
	if err != nil {
		return nil, err
	}

	var words []string
	for _, line := range strings.Split(string(raw), "\n") {
		word := strings.ToLower(strings.TrimSpace(line))
		if word != "" {
			words = append(words, word)
		}
	}
	sort.Strings(words)
	return words, nil
}
