package toast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShowAndExpire(t *testing.T) {
	m := New()
	assert.False(t, m.Visible())
	assert.Empty(t, m.View(80))

	m, cmd := m.Update(ShowMsg{Title: "Request Timeout", Description: "try again", Variant: VariantDestructive})
	require.NotNil(t, cmd)
	assert.True(t, m.Visible())

	cur, ok := m.Current()
	require.True(t, ok)
	assert.Equal(t, "Request Timeout", cur.Title)

	out := m.View(80)
	assert.Contains(t, out, "Request Timeout")
	assert.Contains(t, out, "try again")

	m, _ = m.Update(expireMsg{id: m.seq})
	assert.False(t, m.Visible())
}

func TestStaleExpiryIgnored(t *testing.T) {
	m := New()
	m, _ = m.Update(ShowMsg{Title: "first"})
	first := m.seq
	m, _ = m.Update(ShowMsg{Title: "second"})

	m, _ = m.Update(expireMsg{id: first})
	cur, ok := m.Current()
	require.True(t, ok)
	assert.Equal(t, "second", cur.Title)
}

func TestShowCmd(t *testing.T) {
	msg := Show("Answer is empty", "Please provide an answer", VariantDestructive)()
	assert.Equal(t, ShowMsg{Title: "Answer is empty", Description: "Please provide an answer", Variant: VariantDestructive}, msg)
}
