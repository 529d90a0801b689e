package migration_0

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ChatSession struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Title        string
	CreationTime time.Time
}

type ChatTurn struct {
	ID          uint      `gorm:"primaryKey"`
	SessionID   uuid.UUID `gorm:"type:uuid;index"`
	Role        string    `gorm:"size:20;not null"`
	Content     string
	Code        string
	Explanation string
	Charts      datatypes.JSON
	ExecFailed  bool
	Timestamp   time.Time `gorm:"index"`
}

func Migration(txn *gorm.DB) error {
	return txn.AutoMigrate(&ChatSession{}, &ChatTurn{})
}

func Rollback(txn *gorm.DB) error {
	return txn.Migrator().DropTable(&ChatTurn{}, &ChatSession{})
}
