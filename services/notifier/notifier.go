package notifier

import (
	"fmt"
	"html"
	"time"

	"twitter-etl/models/constants"
	"twitter-etl/pkg/observer"

	"github.com/PaulSonOfLars/gotgbot/v2"
	"github.com/patrickmn/go-cache"
	"github.com/rs/zerolog/log"
)

// New returns a notifier sending task failures to a Telegram chat. Alerts for the
// same task are sent at most once per cooldown; a cooldown of zero or less sends
// every alert.
func New(token string, chatID int64, cooldown time.Duration) (*Impl, error) {
	if token == "" {
		return nil, ErrTokenIsMissing
	}

	if chatID == 0 {
		return nil, ErrChatIDIsMissing
	}

	b, err := gotgbot.NewBot(token, nil)
	if err != nil {
		return nil, ErrBotNotInitialized
	}

	return newWithSender(b, chatID, cooldown), nil
}

func newWithSender(s sender, chatID int64, cooldown time.Duration) *Impl {
	service := &Impl{
		sender: s,
		chatID: chatID,
	}
	if cooldown > 0 {
		service.cache = cache.New(cooldown, 2*cooldown)
	}
	return service
}

func (service *Impl) OnNotify(e observer.Event) {
	if e.E != observer.TaskFailedEvent {
		return
	}

	if service.recentlySent(e.Task) {
		log.Debug().Str(constants.LogTask, e.Task).Msg("Alert already sent recently, skipped")
		return
	}

	_, err := service.sender.SendMessage(service.chatID, formatFailure(e), &gotgbot.SendMessageOpts{ParseMode: "HTML"})
	if err != nil {
		log.Error().Err(err).Str(constants.LogTask, e.Task).Msg("Cannot send alert to Telegram")
		return
	}

	if service.cache != nil {
		service.cache.SetDefault(e.Task, struct{}{})
	}
}

func (service *Impl) recentlySent(task string) bool {
	if service.cache == nil {
		return false
	}
	_, found := service.cache.Get(task)
	return found
}

func formatFailure(e observer.Event) string {
	reason := "unknown error"
	if e.Err != nil {
		reason = e.Err.Error()
	}

	return fmt.Sprintf("⚠️ <b>%s</b> failed after %d attempt(s)\n<code>%s</code>",
		html.EscapeString(e.Task), e.Attempts, html.EscapeString(reason))
}
