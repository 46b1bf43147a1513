package bot

import (
	"context"
	"fmt"
	"strings"

	"github.com/chxlky/telegram-trello-bot/integrations"
	"github.com/chxlky/telegram-trello-bot/internal/models"
	"go.uber.org/zap"
)

// Card names derived from replied-to messages are cut to this many runes.
const cardNameLimit = 150

const welcomeMessage = "Welcome to the Trello Card Creator Bot! 🤖\n\n" +
	"Commands:\n" +
	"- /createcard <list_name> <card_title>: Create a card in a specific list\n" +
	"- Reply to any message with /trello to create a card in the Todo list"

const createCardUsage = "Usage: /createcard <list_name> <card_title>\n" +
	"Example: /createcard Todo 'Buy groceries'"

const trelloReplyUsage = "Please use /trello as a reply to a message you want to create a Trello card for."

// Handlers implements the three chat commands. The Trello client holds only
// immutable configuration, so a single Handlers value serves concurrent
// invocations without locking.
type Handlers struct {
	Trello          *integrations.TrelloClient
	DefaultListName string
}

// Welcome sends the fixed help text. It never fails.
func (h *Handlers) Welcome(ctx context.Context, inv Invocation) {
	zap.L().Info("Welcome message requested", zap.String("user", inv.Sender()))
	h.reply(ctx, inv, welcomeMessage)
}

// CreateCard handles "/createcard <list_name> <card_title...>".
func (h *Handlers) CreateCard(ctx context.Context, inv Invocation) {
	zap.L().Info("Create card command received", zap.String("user", inv.Sender()))

	args := inv.Args()
	if len(args) < 2 {
		h.reply(ctx, inv, createCardUsage)
		return
	}

	listName := args[0]
	cardTitle := strings.Join(args[1:], " ")

	lists, err := h.Trello.ListLists(ctx)
	if err != nil {
		zap.L().Error("Error retrieving Trello lists", zap.String("command", inv.Command()), zap.String("user", inv.Sender()), zap.Error(err))
		h.reply(ctx, inv, fmt.Sprintf("Error retrieving Trello lists: %v", err))
		return
	}
	zap.L().Info("Retrieved Trello lists", zap.Int("count", len(lists)))

	matched := findList(lists, listName)
	if matched == nil {
		h.reply(ctx, inv, fmt.Sprintf("No list found with name: %s", listName))
		return
	}

	if _, err := h.Trello.CreateCard(ctx, matched.ID, cardTitle, ""); err != nil {
		zap.L().Error("Error creating Trello card", zap.String("command", inv.Command()), zap.String("user", inv.Sender()), zap.Error(err))
		h.reply(ctx, inv, fmt.Sprintf("Error creating card: %v", err))
		return
	}

	h.reply(ctx, inv, fmt.Sprintf("Card '%s' created in list '%s'!", cardTitle, listName))
}

// TrelloReply handles "/trello" sent as a reply: the replied-to message text
// becomes a card in the default list.
func (h *Handlers) TrelloReply(ctx context.Context, inv Invocation) {
	zap.L().Info("Trello reply command received", zap.String("user", inv.Sender()))

	original, isReply := inv.ReplyToText()
	if !isReply {
		h.reply(ctx, inv, trelloReplyUsage)
		return
	}
	if original == "" {
		h.reply(ctx, inv, "The message you replied to doesn't contain any text.")
		return
	}

	lists, err := h.Trello.ListLists(ctx)
	if err != nil {
		zap.L().Error("Error retrieving Trello lists", zap.String("command", inv.Command()), zap.String("user", inv.Sender()), zap.Error(err))
		h.reply(ctx, inv, fmt.Sprintf("Error retrieving Trello lists: %v", err))
		return
	}
	zap.L().Info("Retrieved Trello lists", zap.Int("count", len(lists)))

	todoList := findList(lists, h.DefaultListName)
	if todoList == nil {
		h.reply(ctx, inv, fmt.Sprintf("No '%s' list found in the board.", h.DefaultListName))
		return
	}

	cardName := truncateCardName(original)
	if _, err := h.Trello.CreateCard(ctx, todoList.ID, cardName, ""); err != nil {
		zap.L().Error("Error creating Trello card", zap.String("command", inv.Command()), zap.String("user", inv.Sender()), zap.Error(err))
		h.reply(ctx, inv, fmt.Sprintf("Error creating card: %v", err))
		return
	}

	h.reply(ctx, inv, fmt.Sprintf("Card created in %s list!", h.DefaultListName))
}

func (h *Handlers) reply(ctx context.Context, inv Invocation, text string) {
	if err := inv.Reply(ctx, text); err != nil {
		zap.L().Error("Failed to send reply", zap.String("command", inv.Command()), zap.String("user", inv.Sender()), zap.Error(err))
	}
}

// findList returns the first case-insensitive exact name match in response
// order, or nil.
func findList(lists []models.TrelloList, name string) *models.TrelloList {
	for i := range lists {
		if strings.EqualFold(lists[i].Name, name) {
			return &lists[i]
		}
	}
	return nil
}

// truncateCardName cuts on rune boundaries so a multi-byte character is never
// split mid-sequence.
func truncateCardName(text string) string {
	runes := []rune(text)
	if len(runes) <= cardNameLimit {
		return text
	}
	return string(runes[:cardNameLimit]) + "..."
}
