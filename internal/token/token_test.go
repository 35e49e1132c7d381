package token

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTokenize_Basic(t *testing.T) {
	terms := Tokenize("Xcode")
	require.Contains(t, terms, "xcode")
	require.Contains(t, terms, "xco")
	require.Contains(t, terms, "xcod")
}

func TestTokenize_DropsShortWordsAndStopWords(t *testing.T) {
	require.Empty(t, Tokenize("a"))
	require.Empty(t, Tokenize("the"))
	require.Empty(t, Tokenize(""))

	terms := Tokenize("the visual studio")
	require.Contains(t, terms, "visual")
	require.Contains(t, terms, "studio")
	require.NotContains(t, terms, "the")
}

func TestTokenize_PrefixBounds(t *testing.T) {
	// Short words get no prefixes.
	require.Equal(t, []string{"vim"}, Tokenize("vim"))

	// Prefixes are capped at length 8.
	terms := Tokenize("configuration")
	require.Contains(t, terms, "configur")
	require.NotContains(t, terms, "configura")
	require.Contains(t, terms, "configuration")
}

func TestTokenize_Idempotent(t *testing.T) {
	for _, input := range []string{"Visual Studio Code", "xcode", "configuration", "theory"} {
		for _, term := range Tokenize(input) {
			again := Tokenize(term)
			require.Contains(t, again, term, "term %q from %q must survive re-tokenization", term, input)
			require.Equal(t, strings.ToLower(term), term)
			require.GreaterOrEqual(t, len(term), 2)
		}
	}
}

func TestIsStopWord(t *testing.T) {
	require.True(t, IsStopWord("The"))
	require.False(t, IsStopWord("xcode"))
}
