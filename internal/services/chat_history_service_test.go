package services

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"policyqa/internal/models"
	"policyqa/internal/repositories"
)

type kvRepositoryMock struct {
	GetFunc    func(ctx context.Context, key string) (string, bool, error)
	PutFunc    func(ctx context.Context, key, value string) error
	DeleteFunc func(ctx context.Context, key string) error
}

func (m *kvRepositoryMock) Get(ctx context.Context, key string) (string, bool, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, key)
	}
	return "", false, nil
}

func (m *kvRepositoryMock) Put(ctx context.Context, key, value string) error {
	if m.PutFunc != nil {
		return m.PutFunc(ctx, key, value)
	}
	return nil
}

func (m *kvRepositoryMock) Delete(ctx context.Context, key string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, key)
	}
	return nil
}

// memoryKV returns a mock backed by a plain map, for tests that care
// about state across calls rather than individual call behavior.
func memoryKV() *kvRepositoryMock {
	store := map[string]string{}
	return &kvRepositoryMock{
		GetFunc: func(_ context.Context, key string) (string, bool, error) {
			v, ok := store[key]
			return v, ok, nil
		},
		PutFunc: func(_ context.Context, key, value string) error {
			store[key] = value
			return nil
		},
		DeleteFunc: func(_ context.Context, key string) error {
			delete(store, key)
			return nil
		},
	}
}

func makeConv(id string) models.Conversation {
	return models.Conversation{
		ID:    id,
		Title: "Conversation " + id,
		Messages: []models.Message{
			{Role: models.RoleUser, Content: "question " + id},
			{Role: models.RoleAssistant, Content: "answer " + id},
		},
	}
}

func TestChatHistoryService_ListAll_EmptyWhenNothingStored(t *testing.T) {
	svc := NewChatHistoryService(&kvRepositoryMock{})

	convs := svc.ListAll()
	assert.NotNil(t, convs)
	assert.Empty(t, convs)
}

func TestChatHistoryService_ListAll_ReadErrorReadsAsEmpty(t *testing.T) {
	svc := NewChatHistoryService(&kvRepositoryMock{
		GetFunc: func(context.Context, string) (string, bool, error) {
			return "", false, assert.AnError
		},
	})

	assert.Empty(t, svc.ListAll())
}

func TestChatHistoryService_ListAll_MalformedDataReadsAsEmpty(t *testing.T) {
	svc := NewChatHistoryService(&kvRepositoryMock{
		GetFunc: func(context.Context, string) (string, bool, error) {
			return "{definitely not a conversation list", true, nil
		},
	})

	convs := svc.ListAll()
	assert.NotNil(t, convs)
	assert.Empty(t, convs)
}

func TestChatHistoryService_ListAll_NullDataReadsAsEmpty(t *testing.T) {
	svc := NewChatHistoryService(&kvRepositoryMock{
		GetFunc: func(context.Context, string) (string, bool, error) {
			return "null", true, nil
		},
	})

	convs := svc.ListAll()
	assert.NotNil(t, convs)
	assert.Empty(t, convs)
}

func TestChatHistoryService_Save_AppendsInSaveOrder(t *testing.T) {
	svc := NewChatHistoryService(memoryKV())

	svc.Save(makeConv("c1"))
	svc.Save(makeConv("c2"))

	convs := svc.ListAll()
	require.Len(t, convs, 2)
	assert.Equal(t, "c1", convs[0].ID)
	assert.Equal(t, "c2", convs[1].ID)
}

func TestChatHistoryService_Save_StampsUpdatedAt(t *testing.T) {
	svc := NewChatHistoryService(memoryKV())

	svc.Save(makeConv("c1"))

	convs := svc.ListAll()
	require.Len(t, convs, 1)
	assert.WithinDuration(t, time.Now().UTC(), convs[0].UpdatedAt, 5*time.Second)
}

func TestChatHistoryService_Save_ResaveMovesToEnd(t *testing.T) {
	svc := NewChatHistoryService(memoryKV())

	svc.Save(makeConv("c1"))
	svc.Save(makeConv("c2"))
	svc.Save(makeConv("c1"))

	convs := svc.ListAll()
	require.Len(t, convs, 2)
	assert.Equal(t, "c2", convs[0].ID)
	assert.Equal(t, "c1", convs[1].ID)
}

func TestChatHistoryService_Save_UsesConversationsKey(t *testing.T) {
	var key string
	svc := NewChatHistoryService(&kvRepositoryMock{
		PutFunc: func(_ context.Context, k, _ string) error {
			key = k
			return nil
		},
	})

	svc.Save(makeConv("c1"))
	assert.Equal(t, ConversationsKey, key)
}

func TestChatHistoryService_Save_CapEvictsOldest(t *testing.T) {
	svc := NewChatHistoryService(memoryKV())

	for i := 1; i <= MaxConversations+1; i++ {
		svc.Save(makeConv(fmt.Sprintf("c%02d", i)))
	}

	convs := svc.ListAll()
	require.Len(t, convs, MaxConversations)
	assert.Equal(t, "c02", convs[0].ID)
	assert.Equal(t, "c21", convs[len(convs)-1].ID)
}

func TestChatHistoryService_Save_QuotaEvictsUntilTheValueFits(t *testing.T) {
	stored, err := json.Marshal([]models.Conversation{
		makeConv("c1"), makeConv("c2"), makeConv("c3"), makeConv("c4"),
	})
	require.NoError(t, err)

	calls := 0
	var final string
	svc := NewChatHistoryService(&kvRepositoryMock{
		GetFunc: func(context.Context, string) (string, bool, error) {
			return string(stored), true, nil
		},
		PutFunc: func(_ context.Context, _, value string) error {
			calls++
			if calls <= 3 {
				return repositories.ErrValueTooLarge
			}
			final = value
			return nil
		},
	})

	svc.Save(makeConv("c5"))

	assert.Equal(t, 4, calls)
	var kept []models.Conversation
	require.NoError(t, json.Unmarshal([]byte(final), &kept))
	require.Len(t, kept, 2)
	assert.Equal(t, "c4", kept[0].ID)
	assert.Equal(t, "c5", kept[1].ID)
}

func TestChatHistoryService_Save_QuotaExhaustionAbandonsSilently(t *testing.T) {
	stored, err := json.Marshal([]models.Conversation{makeConv("c1")})
	require.NoError(t, err)

	calls := 0
	svc := NewChatHistoryService(&kvRepositoryMock{
		GetFunc: func(context.Context, string) (string, bool, error) {
			return string(stored), true, nil
		},
		PutFunc: func(context.Context, string, string) error {
			calls++
			return repositories.ErrValueTooLarge
		},
	})

	svc.Save(makeConv("c2"))

	// Two conversations, one eviction each, then the empty list attempt.
	assert.Equal(t, 3, calls)
	assert.Equal(t, "c1", svc.ListAll()[0].ID)
}

func TestChatHistoryService_Save_NonQuotaWriteErrorDoesNotRetry(t *testing.T) {
	calls := 0
	svc := NewChatHistoryService(&kvRepositoryMock{
		PutFunc: func(context.Context, string, string) error {
			calls++
			return assert.AnError
		},
	})

	svc.Save(makeConv("c1"))
	assert.Equal(t, 1, calls)
}

func TestChatHistoryService_Delete_RemovesConversation(t *testing.T) {
	svc := NewChatHistoryService(memoryKV())
	svc.Save(makeConv("c1"))
	svc.Save(makeConv("c2"))
	svc.Save(makeConv("c3"))

	svc.Delete("c2")

	convs := svc.ListAll()
	require.Len(t, convs, 2)
	assert.Equal(t, "c1", convs[0].ID)
	assert.Equal(t, "c3", convs[1].ID)
}

func TestChatHistoryService_Delete_AbsentIdWritesNothing(t *testing.T) {
	stored, err := json.Marshal([]models.Conversation{makeConv("c1")})
	require.NoError(t, err)

	puts := 0
	svc := NewChatHistoryService(&kvRepositoryMock{
		GetFunc: func(context.Context, string) (string, bool, error) {
			return string(stored), true, nil
		},
		PutFunc: func(context.Context, string, string) error {
			puts++
			return nil
		},
	})

	svc.Delete("missing")
	assert.Zero(t, puts)
}
