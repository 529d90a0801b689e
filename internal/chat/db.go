package chat

import (
	"sync"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"unsc-explorer/internal/database"
)

// SQLite only supports one writer at a time, so we need a lock whenever we write to the database.
var dbMutex sync.Mutex

func GetSessions(db *gorm.DB) ([]database.ChatSession, error) {
	var sessions []database.ChatSession
	err := db.Order("creation_time ASC").Find(&sessions).Error
	return sessions, err
}

func CreateSession(db *gorm.DB, session *database.ChatSession) error {
	dbMutex.Lock()
	defer dbMutex.Unlock()
	return db.Create(session).Error
}

func GetSession(db *gorm.DB, sessionID uuid.UUID) (database.ChatSession, error) {
	var session database.ChatSession
	err := db.First(&session, "id = ?", sessionID).Error
	return session, err
}

func UpdateSessionTitle(db *gorm.DB, sessionID uuid.UUID, title string) error {
	dbMutex.Lock()
	defer dbMutex.Unlock()
	return db.Model(&database.ChatSession{ID: sessionID}).Update("title", title).Error
}

func DeleteSession(db *gorm.DB, sessionID uuid.UUID) error {
	dbMutex.Lock()
	defer dbMutex.Unlock()
	if err := db.Delete(&database.ChatTurn{}, "session_id = ?", sessionID).Error; err != nil {
		return err
	}
	return db.Delete(&database.ChatSession{}, "id = ?", sessionID).Error
}

func GetTurns(db *gorm.DB, sessionID uuid.UUID) ([]database.ChatTurn, error) {
	var turns []database.ChatTurn
	err := db.Where("session_id = ?", sessionID).Order("id ASC").Find(&turns).Error
	return turns, err
}

func SaveTurn(db *gorm.DB, turn *database.ChatTurn) error {
	dbMutex.Lock()
	defer dbMutex.Unlock()
	return db.Create(turn).Error
}
