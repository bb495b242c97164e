package events

import (
	"context"
)

var Emit = func(ctx context.Context, name string, evt SessionEvent) {}

// EnableLogEmitter routes session events to the process-wide zerolog
// logger. The default emitter is a no-op so that library consumers and
// tests opt in explicitly.
func EnableLogEmitter() {
	Emit = func(ctx context.Context, name string, evt SessionEvent) {
		if evt.ConversationID == "" {
			if id := ConversationFromContext(ctx); id != "" {
				evt.ConversationID = id
			}
		}

		logSessionEvent(name, evt)
	}
}

func SetCustomEmitter(f func(ctx context.Context, name string, evt SessionEvent)) {
	if f == nil {
		Emit = func(context.Context, string, SessionEvent) {}
		return
	}
	Emit = func(ctx context.Context, name string, evt SessionEvent) {
		if evt.ConversationID == "" {
			if id := ConversationFromContext(ctx); id != "" {
				evt.ConversationID = id
			}
		}
		f(ctx, name, evt)
	}
}
