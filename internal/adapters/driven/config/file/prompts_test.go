package file

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docchat-cli/internal/core/ports/driven"
)

func TestPromptStore_ImplementsInterface(t *testing.T) {
	var _ driven.PromptStore = (*PromptStore)(nil)
}

func TestNewPromptStore_WithCustomDir(t *testing.T) {
	dir := t.TempDir()

	store, err := NewPromptStore(dir)
	require.NoError(t, err)
	assert.Equal(t, dir, store.Dir())
}

func TestNewPromptStore_DefaultDir(t *testing.T) {
	store, err := NewPromptStore("")
	require.NoError(t, err)

	home, err := os.UserHomeDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".docchat", "prompts"), store.Dir())
}

func TestPromptStore_Load_CreatesDefaultFiles(t *testing.T) {
	dir := t.TempDir()
	store, err := NewPromptStore(dir)
	require.NoError(t, err)

	_, err = store.Load(driven.PromptChatGeneral)
	require.NoError(t, err)

	for _, name := range []string{
		driven.PromptChatGeneral,
		driven.PromptChatDocument,
		driven.PromptChatNoContext,
	} {
		_, statErr := os.Stat(filepath.Join(dir, name+".txt"))
		assert.NoError(t, statErr, "expected default file for %s", name)
	}

	_, statErr := os.Stat(filepath.Join(dir, "README.md"))
	assert.NoError(t, statErr)
}

func TestPromptStore_Load_ReturnsDefaultContent(t *testing.T) {
	store, err := NewPromptStore(t.TempDir())
	require.NoError(t, err)

	prompt, err := store.Load(driven.PromptChatDocument)
	require.NoError(t, err)
	assert.Contains(t, prompt, "%s", "document prompt must carry the context placeholder")

	general, err := store.Load(driven.PromptChatGeneral)
	require.NoError(t, err)
	assert.NotContains(t, general, "%s")
}

func TestPromptStore_Load_ReturnsCustomContent(t *testing.T) {
	dir := t.TempDir()
	custom := "Answer like a pirate.\n\nContext:\n%s"
	require.NoError(t, os.WriteFile(filepath.Join(dir, driven.PromptChatDocument+".txt"), []byte(custom), 0600))

	store, err := NewPromptStore(dir)
	require.NoError(t, err)

	prompt, err := store.Load(driven.PromptChatDocument)
	require.NoError(t, err)
	assert.Equal(t, strings.TrimSpace(custom), prompt)
}

func TestPromptStore_Load_UnknownPrompt(t *testing.T) {
	store, err := NewPromptStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Load("does_not_exist")
	assert.Error(t, err)
}

func TestPromptStore_Reload_ClearsCache(t *testing.T) {
	dir := t.TempDir()
	store, err := NewPromptStore(dir)
	require.NoError(t, err)

	first, err := store.Load(driven.PromptChatGeneral)
	require.NoError(t, err)

	// Edit the file behind the cache, then reload.
	path := filepath.Join(dir, driven.PromptChatGeneral+".txt")
	require.NoError(t, os.WriteFile(path, []byte("updated instruction"), 0600))

	cached, err := store.Load(driven.PromptChatGeneral)
	require.NoError(t, err)
	assert.Equal(t, first, cached, "cache should serve the old content")

	store.Reload()

	fresh, err := store.Load(driven.PromptChatGeneral)
	require.NoError(t, err)
	assert.Equal(t, "updated instruction", fresh)
}

func TestPromptStore_DoesNotOverwriteExistingFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, driven.PromptChatGeneral+".txt")
	require.NoError(t, os.WriteFile(path, []byte("user customised"), 0600))

	store, err := NewPromptStore(dir)
	require.NoError(t, err)

	prompt, err := store.Load(driven.PromptChatGeneral)
	require.NoError(t, err)
	assert.Equal(t, "user customised", prompt)
}

func TestPromptStore_Load_ConcurrentAccess(t *testing.T) {
	store, err := NewPromptStore(t.TempDir())
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			prompt, loadErr := store.Load(driven.PromptChatNoContext)
			assert.NoError(t, loadErr)
			assert.NotEmpty(t, prompt)
		}()
	}
	wg.Wait()
}

func TestPromptStore_TrimsWhitespace(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, driven.PromptChatGeneral+".txt")
	require.NoError(t, os.WriteFile(path, []byte("  padded  \n\n"), 0600))

	store, err := NewPromptStore(dir)
	require.NoError(t, err)

	prompt, err := store.Load(driven.PromptChatGeneral)
	require.NoError(t, err)
	assert.Equal(t, "padded", prompt)
}
