package events

import (
	"github.com/rs/zerolog/log"
)

func logSessionEvent(name string, event SessionEvent) {
	evt := log.Info()
	switch event.Type {
	case EventError:
		evt = log.Error()
	case EventWarn:
		evt = log.Warn()
	}

	evt.Str("event", name).
		Str("conversation", event.ConversationID).
		Msg(event.Message)
}
