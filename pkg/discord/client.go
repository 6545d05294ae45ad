// Package discord provides the Discord bot client and related structures.
// It wraps discordgo with command dispatch, component routing and the
// moderation platform adapter.
package discord

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/PancyStudios/PancyModGo/pkg/config"
	anticrash "github.com/PancyStudios/PancyModGo/pkg/errors"
	"github.com/PancyStudios/PancyModGo/pkg/logger"
	"github.com/bwmarrin/discordgo"
)

// discordgo.Logger is a function, not an interface
func init() {
	discordgo.Logger = func(msgL int, caller int, format string, a ...interface{}) {
		msg := fmt.Sprintf(format, a...)
		switch msgL {
		case discordgo.LogError:
			logger.Error(msg, "DiscordGo")
		case discordgo.LogWarning:
			logger.Warn(msg, "DiscordGo")
		default:
			logger.Debug(msg, "DiscordGo")
		}
	}
}

// ExtendedClient wraps discordgo.Session with additional functionality
type ExtendedClient struct {
	Session        *discordgo.Session
	Commands       *CommandCollection
	CommandHandler *CommandHandler
	EventHandler   *EventHandler
	Components     *ComponentRouter
	StartTime      time.Time

	mu        sync.RWMutex
	isReady   bool
	ready     chan struct{}
	readyOnce sync.Once
}

// CommandCollection holds registered commands
type CommandCollection struct {
	commands map[string]*Command
	mu       sync.RWMutex
}

// NewCommandCollection creates a new CommandCollection
func NewCommandCollection() *CommandCollection {
	return &CommandCollection{
		commands: make(map[string]*Command),
	}
}

// Set adds or updates a command
func (cc *CommandCollection) Set(name string, cmd *Command) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.commands[name] = cmd
}

// Get retrieves a command by name
func (cc *CommandCollection) Get(name string) (*Command, bool) {
	cc.mu.RLock()
	defer cc.mu.RUnlock()
	cmd, ok := cc.commands[name]
	return cmd, ok
}

// Size returns the number of commands
func (cc *CommandCollection) Size() int {
	cc.mu.RLock()
	defer cc.mu.RUnlock()
	return len(cc.commands)
}

// All returns all commands
func (cc *CommandCollection) All() map[string]*Command {
	cc.mu.RLock()
	defer cc.mu.RUnlock()
	result := make(map[string]*Command, len(cc.commands))
	for k, v := range cc.commands {
		result[k] = v
	}
	return result
}

var (
	client *ExtendedClient
	once   sync.Once
)

// Init initializes the global Discord client
func Init(token string) (*ExtendedClient, error) {
	var err error
	once.Do(func() {
		client, err = NewClient(token)
	})
	return client, err
}

// Get returns the global Discord client
func Get() *ExtendedClient {
	return client
}

// NewClient creates a new ExtendedClient
func NewClient(token string) (*ExtendedClient, error) {
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, err
	}

	// Message content is needed for Markov ingestion
	session.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsGuildMembers |
		discordgo.IntentsMessageContent

	session.ShardCount = 1
	session.SyncEvents = false
	session.StateEnabled = true
	session.LogLevel = discordgo.LogWarning

	c := &ExtendedClient{
		Session:    session,
		Commands:   NewCommandCollection(),
		Components: NewComponentRouter(),
		ready:      make(chan struct{}),
	}

	c.CommandHandler = NewCommandHandler(c)
	c.EventHandler = NewEventHandler(c)

	return c, nil
}

// Start initializes and starts the bot
func (c *ExtendedClient) Start() error {
	if err := c.CommandHandler.LoadCommands(); err != nil {
		logger.Error("Failed to load commands: "+err.Error(), "Client")
		return err
	}

	if err := c.EventHandler.LoadEvents(); err != nil {
		logger.Error("Failed to load events: "+err.Error(), "Client")
		return err
	}

	c.Session.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		c.markReady()
		logger.Success("Bot conectado como: "+r.User.Username, "Client")
		c.CommandHandler.RegisterCommands()
	})

	c.Session.AddHandler(c.handleInteraction)

	c.StartTime = time.Now()

	return c.Session.Open()
}

func (c *ExtendedClient) markReady() {
	c.mu.Lock()
	c.isReady = true
	c.mu.Unlock()
	c.readyOnce.Do(func() { close(c.ready) })
}

// Ready is closed the first time the gateway reports ready
func (c *ExtendedClient) Ready() <-chan struct{} {
	return c.ready
}

// commandName builds the collection key of an interaction: "mod.warn" for
// subcommands, "name.group.sub" for subcommand groups.
func commandName(data discordgo.ApplicationCommandInteractionData) string {
	name := data.Name
	if len(data.Options) == 0 {
		return name
	}
	opt := data.Options[0]
	switch opt.Type {
	case discordgo.ApplicationCommandOptionSubCommandGroup:
		if len(opt.Options) > 0 {
			return name + "." + opt.Name + "." + opt.Options[0].Name
		}
	case discordgo.ApplicationCommandOptionSubCommand:
		return name + "." + opt.Name
	}
	return name
}

// hasPermissions reports whether perms grants every bit of required.
// Administrator grants everything.
func hasPermissions(perms, required int64) bool {
	if required == 0 || perms&discordgo.PermissionAdministrator != 0 {
		return true
	}
	return perms&required == required
}

// handleInteraction dispatches slash commands and their autocompletes.
// Message components go through the ComponentRouter.
func (c *ExtendedClient) handleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	defer anticrash.RecoverMiddleware()()

	if i.Type != discordgo.InteractionApplicationCommand && i.Type != discordgo.InteractionApplicationCommandAutocomplete {
		return
	}

	name := commandName(i.ApplicationCommandData())
	cmd, ok := c.Commands.Get(name)
	if !ok {
		if i.Type == discordgo.InteractionApplicationCommand {
			logger.Warn("Command not found: "+name, "Client")
		}
		return
	}

	ctx := &CommandContext{
		Session:     s,
		Interaction: i,
		Client:      c,
		ctx:         context.Background(),
	}

	if i.Type == discordgo.InteractionApplicationCommandAutocomplete {
		if cmd.AutoComplete != nil {
			cmd.AutoComplete(ctx)
		}
		return
	}

	if i.GuildID == "" || i.Member == nil {
		_ = ctx.ReplyEphemeral("❌ Este comando solo se puede usar dentro de un servidor.")
		return
	}
	if !hasPermissions(i.Member.Permissions, cmd.UserPermissions) {
		_ = ctx.ReplyEphemeral("❌ No tienes permisos para usar este comando.")
		return
	}

	if err := cmd.Run(ctx); err != nil {
		logger.Error("Error executing command "+name+": "+err.Error(), "Client")
	}
}

// Stop stops the bot and closes the session
func (c *ExtendedClient) Stop() error {
	c.mu.Lock()
	c.isReady = false
	c.mu.Unlock()

	if c.Session != nil {
		return c.Session.Close()
	}
	return nil
}

// IsReady returns true if the bot is ready
func (c *ExtendedClient) IsReady() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.isReady
}

// GuildCount returns the number of guilds the bot is in
func (c *ExtendedClient) GuildCount() int {
	if c.Session == nil || c.Session.State == nil {
		return 0
	}
	c.Session.State.RLock()
	defer c.Session.State.RUnlock()
	return len(c.Session.State.Guilds)
}

// GetConfig returns the bot configuration
func (c *ExtendedClient) GetConfig() *config.Config {
	return config.Get()
}
