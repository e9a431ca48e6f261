package ngram

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAnalyze_EternallyLitLamp(t *testing.T) {
	bag := Analyze("Eternally Lit Lamp")

	assert.Len(t, bag, 18)
	assert.Equal(t, 2, bag["^^l"])
	assert.Equal(t, 1, bag["^^e"])
	assert.Equal(t, 1, bag["^et"])
	assert.Equal(t, 1, bag["eet"], "ete sorted")
	assert.Equal(t, 1, bag["ert"], "ter sorted")
	assert.Equal(t, 1, bag["ly|"])
	assert.Equal(t, 1, bag["mp|"])
	assert.NotContains(t, bag, Gram("y|^"))
	assert.NotContains(t, bag, Gram("|^^"))
}

func TestAnalyze_DegradedPillar(t *testing.T) {
	bag := Analyze("Degraded Pillar")
	assert.Len(t, bag, 16)
	for _, g := range []Gram{"^^d", "^de", "deg", "agr", "dde", "de|", "^^p", "ilp", "all", "ar|"} {
		assert.Equal(t, 1, bag[g], string(g))
	}
}

func TestAnalyze_EmptyAndStopWordsOnly(t *testing.T) {
	want := map[Gram]int{"^^|": 1}
	assert.Equal(t, want, Analyze(""))
	assert.Equal(t, want, Analyze("   "))
	assert.Equal(t, want, Analyze("The of a"))
	assert.Equal(t, want, Analyze("..."))
}

func TestAnalyze_Normalization(t *testing.T) {
	tests := []struct {
		name string
		a, b string
	}{
		{"case", "GATHER INTEL", "gather intel"},
		{"diacritics", "Pokémon", "pokemon"},
		{"curly possessive", "Xiao’s Page", "xiao page"},
		{"straight possessive", "Xiao's Page", "xiao page"},
		{"punctuation", "Hello, World!", "hello world"},
		{"stop words", "The Weight of Sin", "weight sin"},
		{"roman upper", "Ⅲ", "iii"},
		{"roman in token", "DegradedⅡ", "degradedii"},
		{"ellipsis", "Wait…", "wait"},
		{"heart", "<color=red>♥</color>", "♥"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, Analyze(tt.b), Analyze(tt.a))
		})
	}
}

func TestTokens_SeparatorsStayInsideToken(t *testing.T) {
	assert.Equal(t, []string{"full stop", "office"}, Tokens("Full-Stop Office"))
	assert.Equal(t, []string{"either or"}, Tokens("either/or"))
}

func TestTokens_Empty(t *testing.T) {
	assert.Equal(t, []string{""}, Tokens(""))
	assert.Equal(t, []string{""}, Tokens("the"))
}

func TestAnalyze_TranspositionInsideWord(t *testing.T) {
	assert.Contains(t, Analyze("abc"), Gram("abc"))
	assert.Contains(t, Analyze("bca"), Gram("abc"))
}

func TestAnalyze_Deterministic(t *testing.T) {
	assert.Equal(t, Analyze("Liu Association Section 1"), Analyze("Liu Association Section 1"))
}
