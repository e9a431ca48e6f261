// Package ngram turns free text into the bag of padded character trigrams
// used by both the index builder and the query engine.
//
// The same function runs on indexed text and on queries, so any change here
// changes what matches. Tokens are padded as "^^tok|" and concatenated before
// windowing, which gives word starts extra weight and lets a trigram span the
// end of one token and the start of the next.
package ngram

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Gram is a three-rune window. Grams without padding have their runes sorted
// so that transpositions inside a word still match.
type Gram string

const (
	padStart = '^'
	padEnd   = '|'
	size     = 3
)

var stopWords = map[string]bool{"a": true, "the": true, "of": true}

var punctuation = strings.NewReplacer(
	"(", "", ")", "", ",", "", `"`, "", ".", "", ";", "", ":", "",
	"'", "", "?", "", "!", "", "’", "", "~", "", "…", "", "♣", "", "◆", "",
)

// Lowercasing turns Ⅰ into ⅰ, so both forms are accepted.
var romanNumerals = strings.NewReplacer(
	"Ⅰ", "i", "Ⅱ", "ii", "Ⅲ", "iii",
	"ⅰ", "i", "ⅱ", "ii", "ⅲ", "iii",
)

var separators = strings.NewReplacer("-", " ", "/", " ")

// Tokens splits text on ASCII spaces and normalizes each token. Stop words
// and empty tokens are dropped. When nothing survives the result is a single
// empty token, so every input yields at least one padded token.
func Tokens(text string) []string {
	var out []string
	for _, raw := range strings.Split(text, " ") {
		tok := normalize(raw)
		if tok == "" || stopWords[tok] {
			continue
		}
		out = append(out, tok)
	}
	if len(out) == 0 {
		return []string{""}
	}
	return out
}

func normalize(tok string) string {
	tok = stripMarks(tok)
	tok = strings.ToLower(tok)
	tok = strings.TrimSuffix(tok, "'s")
	tok = strings.TrimSuffix(tok, "’s")
	tok = strings.ReplaceAll(tok, "<color=red>♥</color>", "♥")
	tok = romanNumerals.Replace(tok)
	tok = punctuation.Replace(tok)
	// Separators become spaces inside the token; the token is not re-split.
	return separators.Replace(tok)
}

// stripMarks decomposes to NFD and drops combining marks.
func stripMarks(s string) string {
	d := norm.NFD.String(s)
	var b strings.Builder
	b.Grow(len(d))
	for _, r := range d {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Analyze returns the trigram bag of text: each distinct gram with the number
// of windows that produced it.
func Analyze(text string) map[Gram]int {
	var padded strings.Builder
	for _, tok := range Tokens(text) {
		padded.WriteRune(padStart)
		padded.WriteRune(padStart)
		padded.WriteString(tok)
		padded.WriteRune(padEnd)
	}
	runes := []rune(padded.String())

	bag := make(map[Gram]int)
	for i := 0; i+size <= len(runes); i++ {
		var w [size]rune
		copy(w[:], runes[i:i+size])
		if w[size-1] == padStart {
			continue
		}
		if !containsPadStart(w) {
			sortRunes(&w)
		}
		bag[Gram(string(w[:]))]++
	}
	return bag
}

func containsPadStart(w [size]rune) bool {
	for _, r := range w {
		if r == padStart {
			return true
		}
	}
	return false
}

// sortRunes is an insertion sort over the fixed window.
func sortRunes(w *[size]rune) {
	for i := 1; i < size; i++ {
		for j := i; j > 0 && w[j] < w[j-1]; j-- {
			w[j], w[j-1] = w[j-1], w[j]
		}
	}
}
