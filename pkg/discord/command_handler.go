// Package discord provides the command handler for loading and registering commands.
package discord

import (
	"strconv"

	"github.com/PancyStudios/PancyModGo/pkg/config"
	"github.com/PancyStudios/PancyModGo/pkg/logger"
	"github.com/bwmarrin/discordgo"
)

// CommandHandler manages command loading and registration
type CommandHandler struct {
	client        *ExtendedClient
	slashCommands []*discordgo.ApplicationCommand
}

// NewCommandHandler creates a new CommandHandler
func NewCommandHandler(client *ExtendedClient) *CommandHandler {
	return &CommandHandler{
		client:        client,
		slashCommands: make([]*discordgo.ApplicationCommand, 0),
	}
}

// LoadCommands reports the commands collected so far.
// Commands are added programmatically with BuildCommandGroup and AddGlobalCommand.
func (ch *CommandHandler) LoadCommands() error {
	logger.System("Iniciando carga de comandos...", "CommandHandler")
	logger.System("Carga finalizada. Comandos en memoria: "+strconv.Itoa(ch.client.Commands.Size()), "CommandHandler")
	return nil
}

// BuildCommandGroup creates a command group with subcommands and stores every
// subcommand under "name.sub". When all subcommands need the same
// permissions the group is hidden from members lacking them.
func (ch *CommandHandler) BuildCommandGroup(name, description string, subcommands ...*Command) *discordgo.ApplicationCommand {
	options := make([]*discordgo.ApplicationCommandOption, 0, len(subcommands))
	shared := int64(-1)

	for _, cmd := range subcommands {
		fullName := name + "." + cmd.Name
		ch.client.Commands.Set(fullName, cmd)
		shared &= cmd.UserPermissions

		options = append(options, &discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        cmd.Name,
			Description: cmd.Description,
			Options:     cmd.Options,
		})
	}

	dmPermission := false
	group := &discordgo.ApplicationCommand{
		Name:         name,
		Description:  description,
		Options:      options,
		DMPermission: &dmPermission,
	}
	if len(subcommands) > 0 && shared > 0 {
		group.DefaultMemberPermissions = &shared
	}
	return group
}

// AddGlobalCommand adds a command to the global command list
func (ch *CommandHandler) AddGlobalCommand(cmd *discordgo.ApplicationCommand) {
	ch.slashCommands = append(ch.slashCommands, cmd)
}

// Commands returns the application commands collected so far
func (ch *CommandHandler) Commands() []*discordgo.ApplicationCommand {
	return ch.slashCommands
}

// targetGuild is where RegisterCommands publishes: the dev guild outside
// production, so changes show up at once, otherwise global.
func targetGuild(cfg *config.Config) string {
	if cfg == nil || cfg.IsProd() {
		return ""
	}
	return cfg.DevGuildID
}

// RegisterCommands publishes the slash commands, replacing whatever was
// registered before.
func (ch *CommandHandler) RegisterCommands() {
	guildID := targetGuild(config.Get())
	if guildID != "" {
		logger.Info("🔄 Registrando comandos en el servidor de desarrollo "+guildID+"...", "CommandHandler")
	} else {
		logger.Info("🔄 Registrando comandos globales...", "CommandHandler")
	}

	if err := ch.overwrite(guildID); err != nil {
		logger.Error("Error registrando comandos: "+err.Error(), "CommandHandler")
		return
	}
	logger.Success("✅ Comandos registrados: "+strconv.Itoa(len(ch.slashCommands)), "CommandHandler")
}

// SyncCommands replaces the global commands with the current definitions,
// which removes stale ones in the same request.
func (ch *CommandHandler) SyncCommands() error {
	return ch.overwrite("")
}

// SyncGuildCommands does SyncCommands for a single guild
func (ch *CommandHandler) SyncGuildCommands(guildID string) error {
	return ch.overwrite(guildID)
}

func (ch *CommandHandler) overwrite(guildID string) error {
	_, err := ch.client.Session.ApplicationCommandBulkOverwrite(
		ch.client.Session.State.User.ID,
		guildID,
		ch.slashCommands,
	)
	return err
}

// ListGlobalCommands returns the global commands registered on Discord
func (ch *CommandHandler) ListGlobalCommands() ([]*discordgo.ApplicationCommand, error) {
	return ch.client.Session.ApplicationCommands(ch.client.Session.State.User.ID, "")
}

// ListGuildCommands returns the commands registered on Discord for a guild
func (ch *CommandHandler) ListGuildCommands(guildID string) ([]*discordgo.ApplicationCommand, error) {
	return ch.client.Session.ApplicationCommands(ch.client.Session.State.User.ID, guildID)
}

// UnregisterCommands removes all registered global commands from Discord
func (ch *CommandHandler) UnregisterCommands() error {
	return ch.unregister("")
}

// UnregisterGuildCommands removes all commands registered for a guild
func (ch *CommandHandler) UnregisterGuildCommands(guildID string) error {
	return ch.unregister(guildID)
}

func (ch *CommandHandler) unregister(guildID string) error {
	appID := ch.client.Session.State.User.ID
	commands, err := ch.client.Session.ApplicationCommands(appID, guildID)
	if err != nil {
		return err
	}

	for _, cmd := range commands {
		if err := ch.client.Session.ApplicationCommandDelete(appID, guildID, cmd.ID); err != nil {
			logger.Error("Error eliminando comando "+cmd.Name+": "+err.Error(), "CommandHandler")
		}
	}

	logger.Success("Comandos eliminados: "+strconv.Itoa(len(commands)), "CommandHandler")
	return nil
}
