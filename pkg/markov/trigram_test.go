package markov

import (
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seeded(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed))
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Hello   World", "hello world"},
		{"  what is this ?  ", "what is this?"},
		{"wait , really !", "wait, really!"},
		{"tabs\tand\nlines", "tabs and lines"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Normalize(tt.in), "Normalize(%q)", tt.in)
	}
}

func TestTrigrams(t *testing.T) {
	got := Trigrams("Hello there friend, how are you")
	assert.Equal(t, []string{
		"<s>hello there friend,",
		"there friend, how",
		"friend, how are",
		"how are you</s>",
	}, got)
}

func TestTrigramsShortMessage(t *testing.T) {
	assert.Equal(t, []string{"<s>hi</s>"}, Trigrams("hi"))
	assert.Equal(t, []string{"<s>hi there</s>"}, Trigrams("Hi there"))
	assert.Empty(t, Trigrams("   "))
}

func TestGenerateSentenceFromTwoMessages(t *testing.T) {
	corpus := append(Trigrams("Hello there friend"), Trigrams("Hello there world")...)

	seen := map[string]bool{}
	for seed := uint64(0); seed < 64; seed++ {
		s, err := GenerateSentence(corpus, seeded(seed))
		require.NoError(t, err)
		seen[s] = true
	}

	for s := range seen {
		assert.Contains(t, []string{"hello there friend", "hello there world"}, s)
	}
}

func TestGenerateSentenceSingleToken(t *testing.T) {
	s, err := GenerateSentence(Trigrams("hi"), seeded(1))
	require.NoError(t, err)
	assert.Equal(t, "hi", s)
}

func TestGeneratedTrigramsComeFromCorpus(t *testing.T) {
	corpus := append(Trigrams("the cat sat on the mat"), Trigrams("the dog sat on the rug")...)
	known := map[string]bool{}
	for _, tri := range corpus {
		known[tri] = true
	}

	for seed := uint64(0); seed < 32; seed++ {
		tokens, err := generateTokens(corpus, seeded(seed))
		require.NoError(t, err)
		require.True(t, strings.HasSuffix(tokens[len(tokens)-1], EndMarker))
		for i := 0; i+3 <= len(tokens); i++ {
			tri := strings.Join(tokens[i:i+3], " ")
			assert.True(t, known[tri], "trigram %q not in corpus", tri)
		}
	}
}

func TestGenerateSentenceErrors(t *testing.T) {
	_, err := GenerateSentence([]string{"a b c"}, seeded(1))
	assert.ErrorIs(t, err, ErrNoSeed)

	_, err = GenerateSentence([]string{"<s>a b c"}, seeded(1))
	assert.ErrorIs(t, err, ErrBrokenChain)
}
