package commands

import (
	"testing"

	"github.com/PancyStudios/PancyModGo/pkg/discord"
)

func TestRegisterAllBuildsEveryGroup(t *testing.T) {
	client := &discord.ExtendedClient{Commands: discord.NewCommandCollection()}
	client.CommandHandler = discord.NewCommandHandler(client)

	RegisterAll(client, Services{})

	groups := map[string]bool{}
	for _, cmd := range client.CommandHandler.Commands() {
		groups[cmd.Name] = true
	}
	for _, name := range []string{"mod", "setup", "markov", "utils"} {
		if !groups[name] {
			t.Errorf("group %q not registered", name)
		}
	}
	if client.Commands.Size() != 11+6+1+4 {
		t.Errorf("Commands.Size() = %d", client.Commands.Size())
	}
}
