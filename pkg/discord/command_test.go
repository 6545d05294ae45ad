package discord

import (
	"testing"

	"github.com/bwmarrin/discordgo"
)

// TestReplyEphemeralEmbedExists verifies that the ReplyEphemeralEmbed method
// keeps its signature (compile-time check)
func TestReplyEphemeralEmbedExists(t *testing.T) {
	type replyEphemeralEmbedFunc func(*CommandContext, *discordgo.MessageEmbed) error
	var _ replyEphemeralEmbedFunc = (*CommandContext).ReplyEphemeralEmbed
}

// TestCommandCreation verifies that commands can be created with the builder pattern
func TestCommandCreation(t *testing.T) {
	handler := func(ctx *CommandContext) error {
		return nil
	}

	cmd := NewCommand("warn", "Advierte a un usuario", "mod", handler)

	if cmd == nil {
		t.Fatal("NewCommand returned nil")
	}
	if cmd.Name != "warn" {
		t.Errorf("Name = %v, want %v", cmd.Name, "warn")
	}
	if cmd.Category != "mod" {
		t.Errorf("Category = %v, want %v", cmd.Category, "mod")
	}
	if cmd.Run == nil {
		t.Error("Run function is nil")
	}
}

// TestCommandWithOptions verifies the WithOptions builder method
func TestCommandWithOptions(t *testing.T) {
	option := &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionUser,
		Name:        "usuario",
		Description: "Usuario a advertir",
		Required:    true,
	}

	cmd := NewCommand("warn", "Advierte a un usuario", "mod", nil).
		WithOptions(option).
		WithUserPermissions(discordgo.PermissionModerateMembers).
		WithAutoComplete(func(*CommandContext) {})

	if len(cmd.Options) != 1 {
		t.Fatalf("Options length = %v, want %v", len(cmd.Options), 1)
	}
	if cmd.Options[0].Name != "usuario" {
		t.Errorf("Option name = %v, want %v", cmd.Options[0].Name, "usuario")
	}
	if cmd.UserPermissions != discordgo.PermissionModerateMembers {
		t.Errorf("UserPermissions = %v, want %v", cmd.UserPermissions, discordgo.PermissionModerateMembers)
	}
	if cmd.AutoComplete == nil {
		t.Error("AutoComplete is nil")
	}
}

func TestBuildCommandGroup(t *testing.T) {
	c := &ExtendedClient{Commands: NewCommandCollection()}
	ch := NewCommandHandler(c)

	setup := ch.BuildCommandGroup("setup", "Configuración",
		NewCommand("view", "Ver", "setup", nil).WithUserPermissions(discordgo.PermissionManageGuild),
		NewCommand("markov", "Canal", "setup", nil).WithUserPermissions(discordgo.PermissionManageGuild),
	)
	if setup.DefaultMemberPermissions == nil || *setup.DefaultMemberPermissions != discordgo.PermissionManageGuild {
		t.Errorf("DefaultMemberPermissions = %v, want ManageGuild", setup.DefaultMemberPermissions)
	}
	if len(setup.Options) != 2 || setup.Options[0].Type != discordgo.ApplicationCommandOptionSubCommand {
		t.Fatalf("unexpected options: %+v", setup.Options)
	}

	mod := ch.BuildCommandGroup("mod", "Moderación",
		NewCommand("kick", "Expulsa", "mod", nil).WithUserPermissions(discordgo.PermissionKickMembers),
		NewCommand("ban", "Banea", "mod", nil).WithUserPermissions(discordgo.PermissionBanMembers),
	)
	if mod.DefaultMemberPermissions != nil {
		t.Errorf("mixed permissions should not hide the group, got %d", *mod.DefaultMemberPermissions)
	}

	for _, name := range []string{"setup.view", "setup.markov", "mod.kick", "mod.ban"} {
		if _, ok := c.Commands.Get(name); !ok {
			t.Errorf("command %q not stored", name)
		}
	}
}

func TestFindFocused(t *testing.T) {
	options := []*discordgo.ApplicationCommandInteractionDataOption{
		{Name: "warn", Type: discordgo.ApplicationCommandOptionSubCommand, Options: []*discordgo.ApplicationCommandInteractionDataOption{
			{Name: "usuario", Type: discordgo.ApplicationCommandOptionUser, Value: "1"},
			{Name: "razon", Type: discordgo.ApplicationCommandOptionString, Value: "sp", Focused: true},
		}},
	}
	got := findFocused(options)
	if got == nil || got.Name != "razon" {
		t.Fatalf("findFocused = %+v, want razon", got)
	}
	if findOption(options, "usuario") == nil {
		t.Error("findOption did not descend into the subcommand")
	}
}
