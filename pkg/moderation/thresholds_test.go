package moderation

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/PancyStudios/PancyModGo/pkg/models"
	"github.com/PancyStudios/PancyModGo/pkg/timeparse"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigureThresholdValidation(t *testing.T) {
	ctx := context.Background()
	e, _ := newTestEngine(newFakePlatform())

	_, err := e.ConfigureThreshold(ctx, "g", 3, models.PunishmentKick, 0)
	require.NoError(t, err)
	_, err = e.ConfigureThreshold(ctx, "g", 10, models.PunishmentBan, 0)
	require.NoError(t, err)

	tests := []struct {
		name     string
		points   int
		kind     models.PunishmentKind
		duration time.Duration
		want     error
	}{
		{"zero points", 0, models.PunishmentKick, 0, ErrInvalidPoints},
		{"too many points", 1000, models.PunishmentKick, 0, ErrInvalidPoints},
		{"unknown kind", 5, models.PunishmentKind("warn"), 0, ErrInvalidPunishment},
		{"duplicate points", 3, models.PunishmentMute, time.Hour, ErrDuplicateThreshold},
		{"second permanent ban", 7, models.PunishmentBan, 0, ErrPermanentBanExists},
		{"finite at permanent ban", 11, models.PunishmentMute, time.Hour, ErrPermanentBanExists},
		{"timed ban above permanent", 12, models.PunishmentTimedBan, timeparse.Day, ErrPermanentBanExists},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.ConfigureThreshold(ctx, "g", tt.points, tt.kind, tt.duration)
			assert.ErrorIs(t, err, tt.want)
			assert.Equal(t, KindValidation, KindOf(err))
		})
	}

	_, err = e.ConfigureThreshold(ctx, "g", 5, models.PunishmentMute, time.Hour)
	assert.NoError(t, err, "finite threshold below the permanent ban is allowed")
}

func TestConfigureThresholdNormalisesDurations(t *testing.T) {
	ctx := context.Background()
	e, _ := newTestEngine(newFakePlatform())

	tests := []struct {
		points   int
		kind     models.PunishmentKind
		duration time.Duration
		wantKind models.PunishmentKind
		wantDur  time.Duration
	}{
		{1, models.PunishmentMute, 0, models.PunishmentMute, 28 * timeparse.Day},
		{2, models.PunishmentMute, 27 * timeparse.Day, models.PunishmentMute, 28 * timeparse.Day},
		{3, models.PunishmentMute, timeparse.Day, models.PunishmentMute, timeparse.Day},
		{4, models.PunishmentKick, time.Hour, models.PunishmentKick, 0},
		{5, models.PunishmentTimedBan, 0, models.PunishmentBan, 0},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d-%s", tt.points, tt.kind), func(t *testing.T) {
			th, err := e.ConfigureThreshold(ctx, "g", tt.points, tt.kind, tt.duration)
			require.NoError(t, err)
			assert.Equal(t, tt.wantKind, th.Punishment.Kind)
			assert.Equal(t, tt.wantDur, th.Punishment.Duration)
		})
	}
}

func TestThresholdLimit(t *testing.T) {
	ctx := context.Background()
	e, _ := newTestEngine(newFakePlatform())
	for p := 1; p <= maxThresholds; p++ {
		_, err := e.ConfigureThreshold(ctx, "g", p, models.PunishmentKick, 0)
		require.NoError(t, err)
	}
	_, err := e.ConfigureThreshold(ctx, "g", 50, models.PunishmentKick, 0)
	assert.ErrorIs(t, err, ErrThresholdLimit)
}

func TestRemoveThreshold(t *testing.T) {
	ctx := context.Background()
	e, _ := newTestEngine(newFakePlatform())
	th, err := e.ConfigureThreshold(ctx, "g", 3, models.PunishmentKick, 0)
	require.NoError(t, err)

	_, err = e.RemoveThreshold(ctx, "other", th.ID)
	assert.ErrorIs(t, err, ErrThresholdNotFound)

	n, err := e.RemoveThreshold(ctx, "g", th.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestAutocompleteSuggestions(t *testing.T) {
	ctx := context.Background()
	e, _ := newTestEngine(newFakePlatform())

	_, err := e.ConfigureAutocompleteSuggestion(ctx, "g", 2, "Spam en canales")
	require.NoError(t, err)
	_, err = e.ConfigureAutocompleteSuggestion(ctx, "g", 5, "Insultos")
	require.NoError(t, err)

	_, err = e.ConfigureAutocompleteSuggestion(ctx, "g", 1, "spam en canales")
	assert.ErrorIs(t, err, ErrDuplicateAutocomplete)
	_, err = e.ConfigureAutocompleteSuggestion(ctx, "g", 1, strings.Repeat("á", 89))
	assert.ErrorIs(t, err, ErrInvalidReason)
	_, err = e.ConfigureAutocompleteSuggestion(ctx, "g", 1, "   ")
	assert.ErrorIs(t, err, ErrInvalidReason)
	_, err = e.ConfigureAutocompleteSuggestion(ctx, "g", 0, "cero")
	assert.ErrorIs(t, err, ErrInvalidPoints)

	got, err := e.SuggestReasons(ctx, "g", "SPAM")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 2, got[0].Points)

	got, err = e.SuggestReasons(ctx, "g", "")
	require.NoError(t, err)
	assert.Len(t, got, 2)

	view, err := e.SetupView(ctx, "g")
	require.NoError(t, err)
	assert.Len(t, view.Suggestions, 2)
	assert.Nil(t, view.PermanentBanAt)

	n, err := e.RemoveAutocompleteSuggestion(ctx, "g", got[0].ID, got[1].ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	_, err = e.RemoveAutocompleteSuggestion(ctx, "g", got[0].ID)
	assert.ErrorIs(t, err, ErrAutocompleteNotFound)
}

func TestSetupViewIsRebuiltOnDemand(t *testing.T) {
	ctx := context.Background()
	e, _ := newTestEngine(newFakePlatform())

	before, err := e.SetupView(ctx, "g")
	require.NoError(t, err)
	assert.Empty(t, before.Thresholds)

	_, err = e.ConfigureThreshold(ctx, "g", 8, models.PunishmentBan, 0)
	require.NoError(t, err)
	_, err = e.ConfigureThreshold(ctx, "g", 2, models.PunishmentKick, 0)
	require.NoError(t, err)

	after, err := e.SetupView(ctx, "g")
	require.NoError(t, err)
	require.Len(t, after.Thresholds, 2)
	assert.Equal(t, 2, after.Thresholds[0].Points)
	require.NotNil(t, after.PermanentBanAt)
	assert.Equal(t, 8, *after.PermanentBanAt)
	assert.Empty(t, before.Thresholds)
}
