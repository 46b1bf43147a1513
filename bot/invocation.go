package bot

import (
	"context"
	"strings"

	"github.com/chxlky/telegram-trello-bot/integrations"
	"github.com/chxlky/telegram-trello-bot/internal/models"
)

// Invocation is one parsed incoming chat command. Handlers see the transport
// only through this interface.
type Invocation interface {
	Command() string
	Args() []string
	Sender() string
	// ReplyToText returns the text of the message this command replies to.
	// ok is false when the command is not a reply at all; an empty string
	// with ok=true means the replied-to message carries no usable text.
	ReplyToText() (text string, ok bool)
	Reply(ctx context.Context, text string) error
}

type TelegramInvocation struct {
	tg      *integrations.TelegramClient
	msg     *models.TelegramMessage
	command string
	args    []string
}

// NewTelegramInvocation parses a Telegram message into a command invocation.
// Returns ok=false for plain messages and for commands addressed to a
// different bot ("/createcard@OtherBot" in group chats).
func NewTelegramInvocation(tg *integrations.TelegramClient, msg *models.TelegramMessage, botUsername string) (*TelegramInvocation, bool) {
	fields := strings.Fields(msg.Text)
	if len(fields) == 0 || !strings.HasPrefix(fields[0], "/") {
		return nil, false
	}

	command := strings.TrimPrefix(fields[0], "/")
	if at := strings.IndexByte(command, '@'); at >= 0 {
		if !strings.EqualFold(command[at+1:], botUsername) {
			return nil, false
		}
		command = command[:at]
	}
	if command == "" {
		return nil, false
	}

	return &TelegramInvocation{
		tg:      tg,
		msg:     msg,
		command: strings.ToLower(command),
		args:    fields[1:],
	}, true
}

func (inv *TelegramInvocation) Command() string {
	return inv.command
}

func (inv *TelegramInvocation) Args() []string {
	return inv.args
}

func (inv *TelegramInvocation) Sender() string {
	from := inv.msg.From
	if from == nil {
		return "unknown"
	}
	if from.Username != "" {
		return from.Username
	}
	return from.FirstName
}

func (inv *TelegramInvocation) ReplyToText() (string, bool) {
	replied := inv.msg.ReplyToMessage
	if replied == nil {
		return "", false
	}
	if replied.Text != "" {
		return replied.Text, true
	}
	return replied.Caption, true
}

func (inv *TelegramInvocation) Reply(ctx context.Context, text string) error {
	return inv.tg.SendMessage(ctx, inv.msg.Chat.ID, text)
}
