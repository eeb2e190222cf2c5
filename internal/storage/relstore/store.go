package relstore

import (
	"fmt"
	"time"

	"github.com/NamaiBest/SDG-Chat-Bot/internal/domain"
	"github.com/NamaiBest/SDG-Chat-Bot/internal/jsondoc"
	"github.com/NamaiBest/SDG-Chat-Bot/internal/password"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// conversationRow is one persisted turn. Username is the retrieval partition
// key; session_id is kept for auxiliary joins against detailed_memories.
type conversationRow struct {
	ID          uint      `gorm:"primaryKey"`
	SessionID   string    `gorm:"type:varchar(255);not null;index:idx_session_id"`
	Username    string    `gorm:"type:varchar(255);not null;index:idx_conversations_username"`
	Mode        string    `gorm:"type:varchar(50);not null;index:idx_mode"`
	UserMessage string    `gorm:"type:text"`
	BotResponse string    `gorm:"type:text"`
	HasMedia    bool      `gorm:"not null;default:false"`
	MediaType   *string   `gorm:"type:varchar(50)"`
	Timestamp   time.Time `gorm:"not null"`
	CreatedAt   time.Time
}

func (conversationRow) TableName() string { return "conversations" }

type detailedMemoryRow struct {
	ID               uint         `gorm:"primaryKey"`
	SessionID        string       `gorm:"type:varchar(255);not null;index:idx_memories_session_id"`
	MediaType        *string      `gorm:"type:varchar(50)"`
	Timestamp        time.Time    `gorm:"not null"`
	DetailedAnalysis string       `gorm:"type:text"`
	ExtractedMemory  jsondoc.JSON `gorm:"type:jsonb"`
	CreatedAt        time.Time
}

func (detailedMemoryRow) TableName() string { return "detailed_memories" }

// Store is the relational backend, active when a database connection string
// is configured at startup.
type Store struct {
	db *gorm.DB
	pw *password.Service
}

func Open(dsn string, pw *password.Service) (*Store, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("relstore: open: %w", err)
	}
	if err := db.AutoMigrate(
		&conversationRow{},
		&detailedMemoryRow{},
		&domain.Credential{},
		&domain.Device{},
	); err != nil {
		return nil, fmt.Errorf("relstore: migrate: %w", err)
	}
	return &Store{db: db, pw: pw}, nil
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func mediaTypePtr(kind domain.MediaKind) *string {
	if kind == domain.MediaNone {
		return nil
	}
	v := string(kind)
	return &v
}

func mediaKind(p *string) domain.MediaKind {
	if p == nil {
		return domain.MediaNone
	}
	return domain.MediaKind(*p)
}
