package models

import (
	"testing"
	"time"
)

func TestPunishmentString(t *testing.T) {
	tests := []struct {
		name string
		p    Punishment
		want string
	}{
		{"kick", Punishment{Kind: PunishmentKick}, "kick"},
		{"mute", Punishment{Kind: PunishmentMute, Duration: 26 * time.Hour}, "timeout 1d 2h"},
		{"permanent ban", Punishment{Kind: PunishmentBan}, "ban"},
		{"timed ban", Punishment{Kind: PunishmentTimedBan, Duration: 72 * time.Hour}, "ban 3d"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.p.String(); got != tt.want {
				t.Errorf("Punishment.String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPunishmentKindValid(t *testing.T) {
	for _, k := range []PunishmentKind{PunishmentKick, PunishmentMute, PunishmentBan, PunishmentTimedBan} {
		if !k.Valid() {
			t.Errorf("%q should be valid", k)
		}
	}
	if PunishmentKind("softban").Valid() {
		t.Error("unknown kinds should not be valid")
	}
}

func TestRequiresMembership(t *testing.T) {
	if !(Punishment{Kind: PunishmentKick}).RequiresMembership() {
		t.Error("kick requires membership")
	}
	if !(Punishment{Kind: PunishmentMute}).RequiresMembership() {
		t.Error("mute requires membership")
	}
	if (Punishment{Kind: PunishmentBan}).RequiresMembership() {
		t.Error("ban does not require membership")
	}
}
