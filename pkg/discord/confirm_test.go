package discord

import (
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCustomID(t *testing.T) {
	id, answer, ok := parseCustomID(confirmCustomID("abc", answerYes))
	require.True(t, ok)
	assert.Equal(t, "abc", id)
	assert.Equal(t, answerYes, answer)

	for _, bad := range []string{"", "confirm", "confirm:abc", "confirm:abc:maybe", "other:abc:yes", "confirm:a:b:yes"} {
		_, _, ok := parseCustomID(bad)
		assert.False(t, ok, bad)
	}
}

func TestRouterDeliversActorAnswer(t *testing.T) {
	r := NewComponentRouter()
	answer := r.expect("id1", "mod")

	assert.Equal(t, resolvedForeign, r.resolve(confirmCustomID("id1", answerYes), "intruder"))
	select {
	case <-answer:
		t.Fatal("a foreign click must not answer")
	default:
	}

	assert.Equal(t, resolvedAnswered, r.resolve(confirmCustomID("id1", answerNo), "mod"))
	assert.False(t, <-answer)

	assert.Equal(t, resolvedUnknown, r.resolve(confirmCustomID("id1", answerYes), "mod"), "answered confirmations are closed")
}

func TestRouterForget(t *testing.T) {
	r := NewComponentRouter()
	answer := r.expect("id2", "mod")
	r.forget("id2")

	assert.Equal(t, resolvedUnknown, r.resolve(confirmCustomID("id2", answerYes), "mod"))
	assert.Len(t, answer, 0)
}

func TestConfirmButtons(t *testing.T) {
	rows := confirmButtons("xyz")
	require.Len(t, rows, 1)
	row, ok := rows[0].(discordgo.ActionsRow)
	require.True(t, ok)
	require.Len(t, row.Components, 2)

	yes := row.Components[0].(discordgo.Button)
	no := row.Components[1].(discordgo.Button)
	assert.Equal(t, "confirm:xyz:yes", yes.CustomID)
	assert.Equal(t, "confirm:xyz:no", no.CustomID)
}
