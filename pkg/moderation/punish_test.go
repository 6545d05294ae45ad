package moderation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/PancyStudios/PancyModGo/pkg/models"
	"github.com/PancyStudios/PancyModGo/pkg/timeparse"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPunishDMOrdering(t *testing.T) {
	tests := []struct {
		kind models.PunishmentKind
		want []string
	}{
		{models.PunishmentKick, []string{"dm", "kick"}},
		{models.PunishmentMute, []string{"timeout", "dm"}},
		{models.PunishmentBan, []string{"dm", "ban"}},
	}
	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			platform := newFakePlatform("u")
			e, _ := newTestEngine(platform)
			res, err := e.Punish(context.Background(), PunishRequest{
				GuildID: "g", UserID: "u", ActorID: "mod",
				Punishment: models.Punishment{Kind: tt.kind},
			})
			require.NoError(t, err)
			assert.True(t, res.DMSent)
			assert.Equal(t, tt.want, platform.actions())
		})
	}
}

func TestPunishMuteDefaultsAndLimits(t *testing.T) {
	ctx := context.Background()
	e, _ := newTestEngine(newFakePlatform("u"))

	res, err := e.Punish(ctx, PunishRequest{GuildID: "g", UserID: "u", Punishment: models.Punishment{Kind: models.PunishmentMute}})
	require.NoError(t, err)
	require.NotNil(t, res.ExpiresAt)
	assert.Equal(t, testNow.Add(timeparse.Week), *res.ExpiresAt)
	assert.Equal(t, "timeout 7d", res.Offence.Punishment.String())

	_, err = e.Punish(ctx, PunishRequest{GuildID: "g", UserID: "u", Punishment: models.Punishment{Kind: models.PunishmentMute, Duration: 29 * timeparse.Day}})
	assert.ErrorIs(t, err, ErrMuteTooLong)
}

func TestPunishRequiresMembershipForKick(t *testing.T) {
	e, store := newTestEngine(newFakePlatform())
	_, err := e.Punish(context.Background(), PunishRequest{GuildID: "g", UserID: "u", Punishment: models.Punishment{Kind: models.PunishmentKick}})
	assert.ErrorIs(t, err, ErrNotMember)

	offences, err := store.OffencesFor(context.Background(), "g", "u")
	require.NoError(t, err)
	assert.Empty(t, offences)
}

func TestPunishPlatformFailureRecordsNothing(t *testing.T) {
	platform := newFakePlatform("u")
	platform.failWith = errors.New("missing permissions")
	e, store := newTestEngine(platform)

	_, err := e.Punish(context.Background(), PunishRequest{GuildID: "g", UserID: "u", Punishment: models.Punishment{Kind: models.PunishmentBan}})
	require.Error(t, err)
	assert.Equal(t, KindExternal, KindOf(err))

	offences, err := store.OffencesFor(context.Background(), "g", "u")
	require.NoError(t, err)
	assert.Empty(t, offences)
}

func TestPunishDMFailureIsNotFatal(t *testing.T) {
	platform := newFakePlatform("u")
	platform.dmFails = true
	e, _ := newTestEngine(platform)

	res, err := e.Punish(context.Background(), PunishRequest{GuildID: "g", UserID: "u", Punishment: models.Punishment{Kind: models.PunishmentKick}})
	require.NoError(t, err)
	assert.False(t, res.DMSent)
	assert.NotNil(t, res.Offence)
}

func TestBanTracksPendingSanction(t *testing.T) {
	ctx := context.Background()
	e, store := newTestEngine(newFakePlatform())

	res, err := e.Punish(ctx, PunishRequest{
		GuildID: "g", UserID: "u",
		Punishment: models.Punishment{Kind: models.PunishmentBan, Duration: 3 * timeparse.Day},
	})
	require.NoError(t, err)
	assert.Equal(t, models.PunishmentTimedBan, res.Offence.Punishment.Kind)
	assert.Equal(t, "ban 3d", res.Offence.Punishment.String())

	due, err := store.DueSanctions(ctx, testNow.Add(3*timeparse.Day))
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, testNow.Add(3*timeparse.Day), due[0].ExpiresAt)

	// A second timed ban replaces the first
	_, err = e.Punish(ctx, PunishRequest{
		GuildID: "g", UserID: "u",
		Punishment: models.Punishment{Kind: models.PunishmentTimedBan, Duration: time.Hour},
	})
	require.NoError(t, err)
	due, err = store.DueSanctions(ctx, testNow.Add(365*timeparse.Day))
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, testNow.Add(time.Hour), due[0].ExpiresAt)

	// A permanent ban drops it
	_, err = e.Punish(ctx, PunishRequest{GuildID: "g", UserID: "u", Punishment: models.Punishment{Kind: models.PunishmentBan}})
	require.NoError(t, err)
	due, err = store.DueSanctions(ctx, testNow.Add(365*timeparse.Day))
	require.NoError(t, err)
	assert.Empty(t, due)
}

func TestUnbanClearsPendingSanction(t *testing.T) {
	ctx := context.Background()
	platform := newFakePlatform()
	e, store := newTestEngine(platform)

	_, err := e.Punish(ctx, PunishRequest{
		GuildID: "g", UserID: "u",
		Punishment: models.Punishment{Kind: models.PunishmentTimedBan, Duration: time.Hour},
	})
	require.NoError(t, err)

	require.NoError(t, e.Unban(ctx, "g", "u", "mod", ""))
	due, err := store.DueSanctions(ctx, testNow.Add(2*time.Hour))
	require.NoError(t, err)
	assert.Empty(t, due)
	assert.Equal(t, []string{"dm", "ban", "unban"}, platform.actions())

	offences, err := store.OffencesFor(ctx, "g", "u")
	require.NoError(t, err)
	assert.Len(t, offences, 1)
}

func TestUnbanNotBanned(t *testing.T) {
	platform := newFakePlatform()
	platform.failWith = ErrUnknownTarget
	e, _ := newTestEngine(platform)

	err := e.Unban(context.Background(), "g", "u", "mod", "")
	assert.ErrorIs(t, err, ErrNotBanned)
	assert.Equal(t, "El usuario no está baneado.", UserMessage(err))
}

func TestUnmute(t *testing.T) {
	platform := newFakePlatform("u")
	e, _ := newTestEngine(platform)

	sent, err := e.Unmute(context.Background(), "g", "u", "mod", "")
	require.NoError(t, err)
	assert.True(t, sent)
	assert.Equal(t, []string{"untimeout", "dm"}, platform.actions())

	_, err = e.Unmute(context.Background(), "g", "ghost", "mod", "")
	assert.ErrorIs(t, err, ErrNotMember)
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"validation", validation("Warn", ErrInvalidPoints), "Número de puntos inválido. Debe estar entre 1 y 999."},
		{"not found", notFound("DeleteWarn", ErrWarnNotFound), "No existe un warn con ese ID."},
		{"external", external("Punish", errors.New("403 Forbidden")), externalMessage},
		{"transient", transient("Warn", errors.New("connection refused")), genericMessage},
		{"plain", errors.New("boom"), genericMessage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, UserMessage(tt.err))
		})
	}
}
