package notifier

import (
	"errors"

	"github.com/PaulSonOfLars/gotgbot/v2"
	"github.com/patrickmn/go-cache"
)

var (
	ErrTokenIsMissing    = errors.New("telegram token is missing")
	ErrChatIDIsMissing   = errors.New("telegram chat id is missing")
	ErrBotNotInitialized = errors.New("telegram bot is not ready yet")
)

type sender interface {
	SendMessage(chatId int64, text string, opts *gotgbot.SendMessageOpts) (*gotgbot.Message, error)
}

type Impl struct {
	sender sender
	chatID int64
	// Nil when alerts are never suppressed.
	cache *cache.Cache
}
