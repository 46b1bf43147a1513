package models

type TelegramUpdate struct {
	UpdateID int64            `json:"update_id"`
	Message  *TelegramMessage `json:"message,omitempty"`
}

type TelegramMessage struct {
	MessageID      int64            `json:"message_id"`
	From           *TelegramUser    `json:"from,omitempty"`
	Chat           TelegramChat     `json:"chat"`
	Text           string           `json:"text,omitempty"`
	Caption        string           `json:"caption,omitempty"`
	ReplyToMessage *TelegramMessage `json:"reply_to_message,omitempty"`
}

type TelegramUser struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	Username  string `json:"username"`
}

type TelegramChat struct {
	ID   int64  `json:"id"`
	Type string `json:"type"`
}
