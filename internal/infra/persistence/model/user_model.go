package model

import (
	"time"

	"github.com/google/uuid"
)

// UserModel mirrors the 'users' table. PostgreSQL generates UUIDs via uuid_generate_v7().
// The email column holds the canonical (lower-cased) address, so its unique
// index enforces case-insensitive uniqueness independently of the
// application-level pre-check.
type UserModel struct {
	ID                uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	Email             string    `gorm:"type:varchar(255);unique;not null"`
	Name              string    `gorm:"type:varchar(100);not null"`
	Salt              string    `gorm:"type:varchar(64);not null"`
	EncryptedPassword string    `gorm:"type:varchar(255);not null"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
	DeletedAt         *time.Time `gorm:"index"`
}

// TableName explicitly sets the table name for GORM.
func (UserModel) TableName() string {
	return "users"
}
