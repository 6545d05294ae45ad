package discord

import (
	"context"
	"strings"
	"sync"

	"github.com/PancyStudios/PancyModGo/pkg/logger"
	"github.com/bwmarrin/discordgo"
	"github.com/google/uuid"
)

const (
	confirmPrefix = "confirm"
	answerYes     = "yes"
	answerNo      = "no"
)

type waiter struct {
	actorID string
	answer  chan bool
}

// ComponentRouter hands button clicks to the confirmation waiting for them
type ComponentRouter struct {
	mu      sync.Mutex
	pending map[string]waiter
}

// NewComponentRouter creates an empty ComponentRouter
func NewComponentRouter() *ComponentRouter {
	return &ComponentRouter{pending: make(map[string]waiter)}
}

func confirmCustomID(id, answer string) string {
	return confirmPrefix + ":" + id + ":" + answer
}

func parseCustomID(customID string) (id, answer string, ok bool) {
	parts := strings.Split(customID, ":")
	if len(parts) != 3 || parts[0] != confirmPrefix {
		return "", "", false
	}
	if parts[2] != answerYes && parts[2] != answerNo {
		return "", "", false
	}
	return parts[1], parts[2], true
}

// expect registers a confirmation and returns the channel its answer
// arrives on
func (r *ComponentRouter) expect(id, actorID string) <-chan bool {
	ch := make(chan bool, 1)
	r.mu.Lock()
	r.pending[id] = waiter{actorID: actorID, answer: ch}
	r.mu.Unlock()
	return ch
}

func (r *ComponentRouter) forget(id string) {
	r.mu.Lock()
	delete(r.pending, id)
	r.mu.Unlock()
}

type resolution int

const (
	resolvedUnknown resolution = iota
	resolvedForeign
	resolvedAnswered
)

// resolve delivers a click to its waiter. Clicks from anyone but the actor
// leave the confirmation open.
func (r *ComponentRouter) resolve(customID, userID string) resolution {
	id, answer, ok := parseCustomID(customID)
	if !ok {
		return resolvedUnknown
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.pending[id]
	if !ok {
		return resolvedUnknown
	}
	if w.actorID != userID {
		return resolvedForeign
	}
	delete(r.pending, id)
	w.answer <- answer == answerYes
	return resolvedAnswered
}

// Dispatch handles a message component interaction
func (r *ComponentRouter) Dispatch(s *discordgo.Session, i *discordgo.InteractionCreate) {
	customID := i.MessageComponentData().CustomID
	if !strings.HasPrefix(customID, confirmPrefix+":") {
		logger.Debug("Componente no manejado: "+customID, "Components")
		return
	}

	userID := ""
	if i.Member != nil && i.Member.User != nil {
		userID = i.Member.User.ID
	} else if i.User != nil {
		userID = i.User.ID
	}

	var resp *discordgo.InteractionResponse
	switch r.resolve(customID, userID) {
	case resolvedAnswered:
		resp = &discordgo.InteractionResponse{Type: discordgo.InteractionResponseDeferredMessageUpdate}
	case resolvedForeign:
		resp = ephemeralResponse("❌ Solo quien ejecutó el comando puede responder.")
	default:
		resp = ephemeralResponse("⌛ Esta confirmación ya no está activa.")
	}
	if err := s.InteractionRespond(i.Interaction, resp); err != nil {
		logger.Debug("No se pudo responder al componente: "+err.Error(), "Components")
	}
}

func ephemeralResponse(content string) *discordgo.InteractionResponse {
	return &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	}
}

// ButtonConfirmer asks the moderator who ran a command to approve an
// automatic punishment with two buttons under a follow-up message.
type ButtonConfirmer struct {
	session     *discordgo.Session
	interaction *discordgo.Interaction
	actorID     string
	router      *ComponentRouter
}

// NewButtonConfirmer creates a confirmer bound to the command's interaction
func NewButtonConfirmer(ctx *CommandContext) *ButtonConfirmer {
	return &ButtonConfirmer{
		session:     ctx.Session,
		interaction: ctx.Interaction.Interaction,
		actorID:     ctx.User().ID,
		router:      ctx.Client.Components,
	}
}

func confirmButtons(id string) []discordgo.MessageComponent {
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{Components: []discordgo.MessageComponent{
			discordgo.Button{Label: "Aplicar", Style: discordgo.DangerButton, CustomID: confirmCustomID(id, answerYes)},
			discordgo.Button{Label: "Cancelar", Style: discordgo.SecondaryButton, CustomID: confirmCustomID(id, answerNo)},
		}},
	}
}

// Confirm posts prompt and waits for the actor's click or ctx's end
func (c *ButtonConfirmer) Confirm(ctx context.Context, prompt string) (bool, error) {
	id := uuid.NewString()
	answer := c.router.expect(id, c.actorID)
	defer c.router.forget(id)

	msg, err := c.session.FollowupMessageCreate(c.interaction, true, &discordgo.WebhookParams{
		Content:    "⚠️ " + prompt,
		Components: confirmButtons(id),
		Flags:      discordgo.MessageFlagsEphemeral,
	}, discordgo.WithContext(ctx))
	if err != nil {
		return false, err
	}

	var (
		approved bool
		outcome  string
		waitErr  error
	)
	select {
	case approved = <-answer:
		outcome = "❌ Castigo cancelado."
		if approved {
			outcome = "✅ Castigo confirmado."
		}
	case <-ctx.Done():
		outcome = "⌛ Tiempo agotado, no se aplicó el castigo."
		waitErr = ctx.Err()
	}

	content := "⚠️ " + prompt + "\n" + outcome
	empty := []discordgo.MessageComponent{}
	if _, err := c.session.FollowupMessageEdit(c.interaction, msg.ID, &discordgo.WebhookEdit{
		Content:    &content,
		Components: &empty,
	}); err != nil {
		logger.Debug("No se pudo actualizar la confirmación: "+err.Error(), "Components")
	}
	return approved, waitErr
}
