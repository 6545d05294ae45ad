package markov

import (
	"errors"
	"fmt"
	"testing"

	markovgen "github.com/PancyStudios/PancyModGo/pkg/markov"
	"github.com/stretchr/testify/assert"
)

func TestGenerateErrorMessage(t *testing.T) {
	assert.Contains(t, generateErrorMessage(markovgen.ErrNotConfigured), "/setup markov")
	assert.Contains(t, generateErrorMessage(fmt.Errorf("wrapped: %w", markovgen.ErrEmptyCorpus)), "suficientes mensajes")
	assert.Contains(t, generateErrorMessage(markovgen.ErrBrokenChain), "más mensajes")
	assert.Equal(t, genericGenerateMessage, generateErrorMessage(errors.New("mongo down")))
}
