package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"policyqa/internal/models"
)

func TestRecentFirst_ReversesStorageOrder(t *testing.T) {
	convs := []models.Conversation{{ID: "old"}, {ID: "mid"}, {ID: "new"}}

	out := recentFirst(convs)

	require.Len(t, out, 3)
	assert.Equal(t, "new", out[0].ID)
	assert.Equal(t, "mid", out[1].ID)
	assert.Equal(t, "old", out[2].ID)
	// Input order is untouched.
	assert.Equal(t, "old", convs[0].ID)
}

func TestPickConversation_ByNumber(t *testing.T) {
	convs := []models.Conversation{{ID: "a"}, {ID: "b"}, {ID: "c"}}

	conv, ok := pickConversation(convs, "2")
	require.True(t, ok)
	assert.Equal(t, "b", conv.ID)

	_, ok = pickConversation(convs, "0")
	assert.False(t, ok)
	_, ok = pickConversation(convs, "4")
	assert.False(t, ok)
}

func TestPickConversation_ByID(t *testing.T) {
	convs := []models.Conversation{{ID: "a"}, {ID: "b"}}

	conv, ok := pickConversation(convs, "b")
	require.True(t, ok)
	assert.Equal(t, "b", conv.ID)

	_, ok = pickConversation(convs, "zz")
	assert.False(t, ok)
}

func TestUnescapeHTML_ReversesRenderEscaping(t *testing.T) {
	assert.Equal(t, "a < b > c & d", unescapeHTML("a &lt; b &gt; c &amp; d"))
	assert.Equal(t, "&lt;", unescapeHTML("&amp;lt;"))
}
