// Package markov builds per-guild trigram corpora from chat messages and
// samples new sentences from them.
package markov

import (
	"errors"
	"math/rand/v2"
	"regexp"
	"strings"
)

const (
	StartMarker = "<s>"
	EndMarker   = "</s>"

	// maxSentenceLength bounds generation; Discord rejects longer messages.
	maxSentenceLength = 2000
)

var (
	ErrNoSeed      = errors.New("corpus has no sentence start")
	ErrBrokenChain = errors.New("corpus has no continuation")
)

var spaceBeforePunct = regexp.MustCompile(`\s([?.!,'](?:\s|$))`)

// Normalize lowercases text, collapses runs of whitespace and glues
// terminal punctuation to the preceding word.
func Normalize(text string) string {
	text = strings.Join(strings.Fields(strings.ToLower(text)), " ")
	return spaceBeforePunct.ReplaceAllString(text, "$1")
}

// Trigrams returns the overlapping 3-token windows of the marked message.
// A marked message shorter than three tokens becomes a single pseudo-trigram.
func Trigrams(text string) []string {
	normalized := Normalize(text)
	if normalized == "" {
		return nil
	}

	tokens := strings.Fields(StartMarker + normalized + EndMarker)
	if len(tokens) < 3 {
		return []string{strings.Join(tokens, " ")}
	}

	out := make([]string, 0, len(tokens)-2)
	for i := 0; i+3 <= len(tokens); i++ {
		out = append(out, strings.Join(tokens[i:i+3], " "))
	}
	return out
}

// GenerateSentence samples a sentence from corpus. The result has the
// boundary markers removed.
func GenerateSentence(corpus []string, rng *rand.Rand) (string, error) {
	tokens, err := generateTokens(corpus, rng)
	if err != nil {
		return "", err
	}
	sentence := strings.Join(tokens, " ")
	sentence = strings.ReplaceAll(sentence, StartMarker, "")
	sentence = strings.ReplaceAll(sentence, EndMarker, "")
	return strings.TrimSpace(sentence), nil
}

func generateTokens(corpus []string, rng *rand.Rand) ([]string, error) {
	var seeds []string
	next := make(map[string][]string)
	for _, tri := range corpus {
		if strings.HasPrefix(tri, StartMarker) {
			seeds = append(seeds, tri)
		}
		if t := strings.Fields(tri); len(t) == 3 {
			key := t[0] + " " + t[1]
			next[key] = append(next[key], t[2])
		}
	}
	if len(seeds) == 0 {
		return nil, ErrNoSeed
	}

	tokens := strings.Fields(seeds[rng.IntN(len(seeds))])
	length := len(strings.Join(tokens, " "))

	for !strings.HasSuffix(tokens[len(tokens)-1], EndMarker) && length < maxSentenceLength {
		if len(tokens) < 2 {
			return nil, ErrBrokenChain
		}
		candidates := next[tokens[len(tokens)-2]+" "+tokens[len(tokens)-1]]
		if len(candidates) == 0 {
			return nil, ErrBrokenChain
		}
		pick := candidates[rng.IntN(len(candidates))]
		tokens = append(tokens, pick)
		length += 1 + len(pick)
	}
	return tokens, nil
}
