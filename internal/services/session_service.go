package services

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"policyqa/internal/events"
	"policyqa/internal/models"
	"policyqa/internal/qa"
)

// User-visible failure texts. A service-provided error message is shown
// verbatim; transport failures get their own fixed text so the two causes
// are never confused.
const (
	errorMarker          = "⚠️ "
	serviceErrorFallback = "The service returned an unexpected error."
	transportErrorText   = "Could not connect to the answering service. Please make sure it is running and try again."
)

// ErrConversationNotFound is returned by SwitchTo for ids absent from the
// stored history.
var ErrConversationNotFound = errors.New("service: conversation not found")

// SessionService owns the active conversation and its request lifecycle.
// At most one question is in flight at a time; submissions while a
// request is outstanding are ignored, not queued.
type SessionService interface {
	Startup(ctx context.Context)
	Ask(ctx context.Context, question string) *models.Message
	StartNewChat()
	SwitchTo(id string) error
	DeleteConversation(id string)
	ActiveConversationID() string
	Title() string
	Messages() []models.Message
	Loading() bool
}

type sessionService struct {
	client  qa.Client
	history ChatHistoryService
	ctx     context.Context

	mu       sync.Mutex
	id       string
	title    string
	messages []models.Message
	loading  bool
}

func NewSessionService(client qa.Client, history ChatHistoryService) SessionService {
	return &sessionService{client: client, history: history, ctx: context.Background()}
}

func (s *sessionService) Startup(ctx context.Context) {
	s.ctx = ctx
}

// Ask submits a question and blocks until the exchange settles. The user
// message is appended before the network call so the transcript reflects
// the question immediately; the returned message is the assistant reply,
// which carries the failure text when the request did not produce an
// answer. A blank question, or a call while another request is in
// flight, returns nil without touching the conversation.
func (s *sessionService) Ask(ctx context.Context, question string) *models.Message {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil
	}

	s.mu.Lock()
	if s.loading {
		s.mu.Unlock()
		log.Debug().Msg("service: ask ignored, request already in flight")
		return nil
	}
	s.loading = true
	if s.id == "" {
		s.id = uuid.NewString()
		s.title = models.DeriveTitle(question)
	}
	s.messages = append(s.messages, models.Message{Role: models.RoleUser, Content: question})
	convID := s.id
	s.mu.Unlock()

	ctx = events.WithConversation(ctx, convID)
	events.Emit(ctx, events.SessionEventAsk, events.NewInfo("question submitted"))

	answer, err := s.client.Ask(ctx, question)

	reply := models.Message{Role: models.RoleAssistant}
	if err != nil {
		reply.Content = errorMarker + failureText(err)
		events.Emit(ctx, events.SessionEventFail, events.NewError(reply.Content))
	} else {
		reply.Content = answer.Answer
		reply.Sources = answer.Sources
		reply.FollowUps = answer.FollowUps
		events.Emit(ctx, events.SessionEventAnswer, events.NewSuccess("answer received"))
	}

	s.mu.Lock()
	s.messages = append(s.messages, reply)
	s.loading = false
	conv := s.snapshotLocked()
	s.mu.Unlock()

	s.history.Save(conv)
	return &reply
}

// StartNewChat persists the active conversation when it holds at least
// one message, then resets the session to an empty conversation.
func (s *sessionService) StartNewChat() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.id != "" && len(s.messages) > 0 {
		s.history.Save(s.snapshotLocked())
	}
	s.resetLocked()
}

// SwitchTo flushes the active conversation, then loads the stored one as
// a copy; edits to the session never reach storage until the next save.
func (s *sessionService) SwitchTo(id string) error {
	s.mu.Lock()
	if s.id != "" && len(s.messages) > 0 {
		s.history.Save(s.snapshotLocked())
	}

	var found bool
	for _, conv := range s.history.ListAll() {
		if conv.ID == id {
			s.id = conv.ID
			s.title = conv.Title
			s.messages = append([]models.Message(nil), conv.Messages...)
			found = true
			break
		}
	}
	s.mu.Unlock()

	if !found {
		return ErrConversationNotFound
	}
	events.Emit(events.WithConversation(s.ctx, id), events.SessionEventSwitch, events.NewInfo("conversation loaded"))
	return nil
}

// DeleteConversation removes a stored conversation. When it is the
// active one, the in-memory state clears first so that no later reset or
// save re-persists the deleted id.
func (s *sessionService) DeleteConversation(id string) {
	s.mu.Lock()
	if s.id == id {
		s.resetLocked()
	}
	s.mu.Unlock()

	s.history.Delete(id)
	events.Emit(events.WithConversation(s.ctx, id), events.SessionEventDelete, events.NewInfo("conversation deleted"))
}

func (s *sessionService) ActiveConversationID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.id
}

func (s *sessionService) Title() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.title
}

// Messages returns a copy of the active transcript.
func (s *sessionService) Messages() []models.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Message(nil), s.messages...)
}

func (s *sessionService) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

func (s *sessionService) resetLocked() {
	s.id = ""
	s.title = ""
	s.messages = nil
}

// snapshotLocked copies the active conversation for persistence. Callers
// must hold mu.
func (s *sessionService) snapshotLocked() models.Conversation {
	msgs := make([]models.Message, len(s.messages))
	copy(msgs, s.messages)
	return models.Conversation{ID: s.id, Title: s.title, Messages: msgs}
}

// failureText classifies a failed exchange. Structured service errors and
// transport failures stay distinct all the way into the transcript.
func failureText(err error) string {
	var svcErr *qa.ServiceError
	if errors.As(err, &svcErr) {
		log.Warn().
			Int("status", svcErr.StatusCode).
			Str("message", svcErr.Message).
			Msg("service: answering service returned an error")
		if svcErr.Message != "" {
			return svcErr.Message
		}
		return serviceErrorFallback
	}

	log.Warn().Err(err).Msg("service: request transport failed")
	return transportErrorText
}
