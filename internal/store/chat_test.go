package store

import (
	"testing"

	"github.com/Rrens/chatpdf-local/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessageStore_Seeds(t *testing.T) {
	s := NewMessageStore()

	msgs := s.Ordered()
	require.Len(t, msgs, 2)
	assert.Equal(t, "welcome", msgs[0].ID)
	assert.Equal(t, "hint", msgs[1].ID)
	assert.Equal(t, SystemSender, msgs[0].Sender)
	assert.Equal(t, SystemSender, msgs[1].Sender)
}

func TestMessageStore_Add(t *testing.T) {
	s := NewMessageStore()
	before := s.Len()

	msg, added := s.Add("You", "  hello there  ")
	require.True(t, added)
	assert.Equal(t, before+1, s.Len())
	assert.Equal(t, "hello there", msg.Text, "text must be trimmed")
	assert.NotEmpty(t, msg.ID)
	assert.NotZero(t, msg.CreatedAt)
}

func TestMessageStore_AddBlankText(t *testing.T) {
	s := NewMessageStore()
	before := s.Len()

	for _, text := range []string{"", "   ", "\t\n"} {
		_, added := s.Add("You", text)
		assert.False(t, added)
	}
	assert.Equal(t, before, s.Len(), "blank messages are silently rejected")
}

func TestMessageStore_BlankSenderDefaults(t *testing.T) {
	s := NewMessageStore()

	msg, added := s.Add("   ", "hi")
	require.True(t, added)
	assert.Equal(t, DefaultSender, msg.Sender)
}

func TestMessageStore_OrderedSortsByCreatedAt(t *testing.T) {
	s := NewMessageStore()
	s.Clear()
	s.Replace([]domain.ChatMessage{
		{ID: "c", Sender: "You", Text: "third", CreatedAt: 300},
		{ID: "a", Sender: "You", Text: "first", CreatedAt: 100},
		{ID: "b", Sender: "You", Text: "second", CreatedAt: 200},
	})

	got := s.Ordered()
	require.Len(t, got, 3)
	assert.Equal(t, []string{"a", "b", "c"}, []string{got[0].ID, got[1].ID, got[2].ID})
}

func TestMessageStore_OrderedStableForTies(t *testing.T) {
	s := NewMessageStore()
	s.Clear()
	s.now = func() int64 { return 42 }

	s.Add("You", "one")
	s.Add("You", "two")
	s.Add("You", "three")

	got := s.Ordered()
	require.Len(t, got, 3)
	assert.Equal(t, "one", got[0].Text)
	assert.Equal(t, "two", got[1].Text)
	assert.Equal(t, "three", got[2].Text)
}

func TestMessageStore_OrderedDoesNotAliasBacking(t *testing.T) {
	s := NewMessageStore()

	view := s.Ordered()
	view[0].Text = "mutated"

	assert.NotEqual(t, "mutated", s.Ordered()[0].Text)
}

func TestMessageStore_ClearThenAdd(t *testing.T) {
	s := NewMessageStore()
	s.Clear()
	s.Clear() // idempotent
	assert.Zero(t, s.Len())

	s.Add("You", "a")
	s.Add("You", "  ")
	s.Add("You", "b")

	assert.Equal(t, 2, s.Len(), "count equals the number of valid adds")
}

func TestMessageStore_ReplaceNormalizes(t *testing.T) {
	s := NewMessageStore()
	s.Replace([]domain.ChatMessage{
		{Text: "  keep me  "},
		{Text: "   "},
		{ID: "x", Sender: "Bot", Text: "fine", CreatedAt: 7},
	})

	got := s.Ordered()
	require.Len(t, got, 2)

	assert.Equal(t, "fine", got[0].Text)
	assert.Equal(t, int64(7), got[0].CreatedAt)

	assert.Equal(t, "keep me", got[1].Text)
	assert.Equal(t, DefaultSender, got[1].Sender)
	assert.NotEmpty(t, got[1].ID)
	assert.NotZero(t, got[1].CreatedAt)
}
