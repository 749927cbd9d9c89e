package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestChatMode_IsValid tests mode validation
func TestChatMode_IsValid(t *testing.T) {
	assert.True(t, ModeGeneral.IsValid())
	assert.True(t, ModeDocument.IsValid())
	assert.False(t, ChatMode("hybrid").IsValid())
	assert.False(t, ChatMode("").IsValid())
}

// TestChatMode_RequiresRetrieval tests retrieval dispatch
func TestChatMode_RequiresRetrieval(t *testing.T) {
	assert.False(t, ModeGeneral.RequiresRetrieval())
	assert.True(t, ModeDocument.RequiresRetrieval())
}

// TestParseChatMode tests parsing from external callers
func TestParseChatMode(t *testing.T) {
	t.Run("empty defaults to general", func(t *testing.T) {
		mode, err := ParseChatMode("")
		require.NoError(t, err)
		assert.Equal(t, ModeGeneral, mode)
	})

	t.Run("valid modes", func(t *testing.T) {
		for _, s := range []string{"general", "document"} {
			mode, err := ParseChatMode(s)
			require.NoError(t, err)
			assert.Equal(t, ChatMode(s), mode)
		}
	})

	t.Run("invalid mode", func(t *testing.T) {
		_, err := ParseChatMode("retrieval")
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}
