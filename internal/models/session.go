package models

import "time"

// SessionRecord stores a console session. UserJSON and DraftImages are JSON text
// so the table works the same on sqlite and postgres.
type SessionRecord struct {
	ID          string `gorm:"primaryKey;size:64"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Token       string    `gorm:"type:text;not null"`
	UserJSON    string    `gorm:"type:text"`
	DraftImages string    `gorm:"type:text"`
	ExpiresAt   time.Time `gorm:"index;not null"`
}

// TableName keeps the table name stable.
func (SessionRecord) TableName() string { return "sessions" }
