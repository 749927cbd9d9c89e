package services

import (
	"container/list"
	"sync"

	"github.com/google/uuid"

	"github.com/custodia-labs/docchat-cli/internal/core/domain"
	"github.com/custodia-labs/docchat-cli/internal/logger"
)

// Default conversation bounds.
const (
	DefaultMaxTurns         = 20
	DefaultMaxConversations = 128
)

// conversation holds the retained turns for one conversation ID.
// Its mutex serialises chat requests against the same conversation.
type conversation struct {
	mu    sync.Mutex
	id    string
	turns []domain.ConversationTurn
}

// ConversationLog is an in-memory bounded store of conversations.
// Each conversation keeps at most maxTurns turns (oldest dropped), and
// the log keeps at most maxConversations conversations, evicting the
// least recently used.
type ConversationLog struct {
	mu               sync.Mutex
	maxTurns         int
	maxConversations int
	elems            map[string]*list.Element
	lru              *list.List // front = most recently used
}

// NewConversationLog creates a conversation log. Non-positive bounds
// fall back to the defaults.
func NewConversationLog(maxTurns, maxConversations int) *ConversationLog {
	if maxTurns <= 0 {
		maxTurns = DefaultMaxTurns
	}
	if maxConversations <= 0 {
		maxConversations = DefaultMaxConversations
	}
	return &ConversationLog{
		maxTurns:         maxTurns,
		maxConversations: maxConversations,
		elems:            make(map[string]*list.Element),
		lru:              list.New(),
	}
}

// NewID returns a fresh conversation identifier.
func (l *ConversationLog) NewID() string {
	return uuid.New().String()
}

// acquire returns the conversation for the ID, creating it if needed,
// and marks it as most recently used. The caller must lock the returned
// conversation while reading or appending turns.
func (l *ConversationLog) acquire(id string) *conversation {
	l.mu.Lock()
	defer l.mu.Unlock()

	if elem, ok := l.elems[id]; ok {
		l.lru.MoveToFront(elem)
		return elem.Value.(*conversation)
	}

	conv := &conversation{id: id}
	l.elems[id] = l.lru.PushFront(conv)

	for l.lru.Len() > l.maxConversations {
		oldest := l.lru.Back()
		evicted := oldest.Value.(*conversation)
		l.lru.Remove(oldest)
		delete(l.elems, evicted.id)
		logger.Debug("Evicted conversation %s from log", evicted.id)
	}

	return conv
}

// history returns a copy of the retained turns. The caller must hold
// the conversation lock.
func (c *conversation) history() []domain.ConversationTurn {
	turns := make([]domain.ConversationTurn, len(c.turns))
	copy(turns, c.turns)
	return turns
}

// append adds turns and drops the oldest beyond the bound. The caller
// must hold the conversation lock.
func (c *conversation) append(maxTurns int, turns ...domain.ConversationTurn) {
	c.turns = append(c.turns, turns...)
	if len(c.turns) > maxTurns {
		c.turns = c.turns[len(c.turns)-maxTurns:]
	}
}

// History returns the retained turns for a conversation, oldest first.
// Unknown IDs return an empty slice without creating a conversation.
func (l *ConversationLog) History(id string) []domain.ConversationTurn {
	l.mu.Lock()
	elem, ok := l.elems[id]
	if !ok {
		l.mu.Unlock()
		return []domain.ConversationTurn{}
	}
	conv := elem.Value.(*conversation)
	l.mu.Unlock()

	conv.mu.Lock()
	defer conv.mu.Unlock()
	return conv.history()
}
