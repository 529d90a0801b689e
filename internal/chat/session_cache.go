package chat

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"unsc-explorer/internal/dataset"
	"unsc-explorer/internal/llm"
	"unsc-explorer/internal/sandbox"
)

type sessionEntry struct {
	session      *Session
	lastAccessed time.Time
}

// SessionCache keeps live Session objects for recently active chats, evicting the least recently
// used entry when full. The transcript itself lives in the database, so eviction only costs the
// in-memory turn lock.
type SessionCache struct {
	lock     sync.Mutex
	sessions map[uuid.UUID]*sessionEntry
	maxSize  int

	db        *gorm.DB
	generator llm.Generator
	executor  *sandbox.Executor
	frame     *dataset.Frame

	codeTemperature    float64
	explainTemperature float64
}

func NewSessionCache(maxSize int, db *gorm.DB, generator llm.Generator, executor *sandbox.Executor, frame *dataset.Frame, codeTemperature, explainTemperature float64) *SessionCache {
	if maxSize <= 0 {
		maxSize = 64
	}
	return &SessionCache{
		sessions:           make(map[uuid.UUID]*sessionEntry, maxSize),
		maxSize:            maxSize,
		db:                 db,
		generator:          generator,
		executor:           executor,
		frame:              frame,
		codeTemperature:    codeTemperature,
		explainTemperature: explainTemperature,
	}
}

// Get returns the live session for sessionID, creating it (and evicting the oldest entry if the
// cache is full) when necessary.
func (cache *SessionCache) Get(sessionID uuid.UUID) *Session {
	cache.lock.Lock()
	defer cache.lock.Unlock()

	if entry, exists := cache.sessions[sessionID]; exists {
		entry.lastAccessed = time.Now()
		return entry.session
	}

	if len(cache.sessions) >= cache.maxSize {
		oldestSessionID := uuid.Nil
		var oldestTime time.Time
		for id, entry := range cache.sessions {
			if oldestSessionID == uuid.Nil || entry.lastAccessed.Before(oldestTime) {
				oldestSessionID = id
				oldestTime = entry.lastAccessed
			}
		}
		delete(cache.sessions, oldestSessionID)
	}

	session := NewSession(cache.db, sessionID, cache.generator, cache.executor, cache.frame, cache.codeTemperature, cache.explainTemperature)
	cache.sessions[sessionID] = &sessionEntry{
		session:      session,
		lastAccessed: time.Now(),
	}
	return session
}

// Drop removes a session from the cache, e.g. after the session is deleted.
func (cache *SessionCache) Drop(sessionID uuid.UUID) {
	cache.lock.Lock()
	defer cache.lock.Unlock()
	delete(cache.sessions, sessionID)
}
