package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"policyqa/internal/models"
	"policyqa/internal/repositories"
)

// ConversationsKey is the storage key holding the whole conversation list
// as one JSON array.
const ConversationsKey = "policyqa.conversations"

// MaxConversations caps the stored history. Once the cap is exceeded the
// oldest entry by save order is evicted first.
const MaxConversations = 20

// ChatHistoryService persists the conversation list. Every failure mode
// degrades instead of propagating: unreadable or malformed state reads as
// an empty list, and writes that exceed the storage quota shed the oldest
// conversations until the value fits.
type ChatHistoryService interface {
	Startup(ctx context.Context)
	ListAll() []models.Conversation
	Save(conv models.Conversation)
	Delete(id string)
}

type chatHistoryService struct {
	repo repositories.KVRepository
	ctx  context.Context
}

func NewChatHistoryService(repo repositories.KVRepository) ChatHistoryService {
	return &chatHistoryService{repo: repo, ctx: context.Background()}
}

func (s *chatHistoryService) Startup(ctx context.Context) {
	s.ctx = ctx
}

// ListAll returns the stored conversations in save order, oldest first.
// Display layers reverse the order for most-recent-first listings.
func (s *chatHistoryService) ListAll() []models.Conversation {
	raw, ok, err := s.repo.Get(s.ctx, ConversationsKey)
	if err != nil {
		log.Warn().Err(err).Msg("history: read failed, treating as empty")
		return []models.Conversation{}
	}
	if !ok || raw == "" {
		return []models.Conversation{}
	}

	var convs []models.Conversation
	if err := json.Unmarshal([]byte(raw), &convs); err != nil {
		log.Warn().Err(err).Msg("history: stored data malformed, treating as empty")
		return []models.Conversation{}
	}
	if convs == nil {
		return []models.Conversation{}
	}
	return convs
}

// Save upserts by id and persists the whole list. A re-saved conversation
// moves to the end, so eviction always removes the least-recently-saved
// entry.
func (s *chatHistoryService) Save(conv models.Conversation) {
	conv.UpdatedAt = time.Now().UTC()

	convs := s.ListAll()
	updated := make([]models.Conversation, 0, len(convs)+1)
	for _, c := range convs {
		if c.ID != conv.ID {
			updated = append(updated, c)
		}
	}
	updated = append(updated, conv)

	if len(updated) > MaxConversations {
		dropped := len(updated) - MaxConversations
		log.Debug().Int("dropped", dropped).Msg("history: conversation cap reached, evicting oldest")
		updated = updated[dropped:]
	}

	s.persist(updated)
}

// Delete removes the conversation with the given id. Deleting an absent
// id leaves storage untouched.
func (s *chatHistoryService) Delete(id string) {
	convs := s.ListAll()
	kept := make([]models.Conversation, 0, len(convs))
	for _, c := range convs {
		if c.ID != id {
			kept = append(kept, c)
		}
	}
	if len(kept) == len(convs) {
		return
	}
	s.persist(kept)
}

// persist writes the list, evicting oldest-first while the storage layer
// rejects the value for size. The loop is bounded by the list length; an
// empty list that still cannot be written is abandoned.
func (s *chatHistoryService) persist(convs []models.Conversation) {
	for {
		data, err := json.Marshal(convs)
		if err != nil {
			log.Error().Err(err).Msg("history: marshal failed, write abandoned")
			return
		}

		err = s.repo.Put(s.ctx, ConversationsKey, string(data))
		if err == nil {
			return
		}
		if !errors.Is(err, repositories.ErrValueTooLarge) {
			log.Error().Err(err).Msg("history: write failed")
			return
		}
		if len(convs) == 0 {
			log.Warn().Msg("history: storage quota exceeded with empty list, write abandoned")
			return
		}

		log.Warn().
			Int("remaining", len(convs)-1).
			Msg("history: storage quota exceeded, evicting oldest conversation")
		convs = convs[1:]
	}
}
